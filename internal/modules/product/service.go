package product

import (
	"context"
	"errors"
	"strings"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/pkg/response"
	"dentalclinic/internal/pkg/validator"
	"dentalclinic/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service struct {
	repo   ProductRepository
	logger *zap.Logger
}

func NewService(repo ProductRepository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, logger: logger}
}

func (s *Service) List(ctx context.Context, f repository.ProductFilter) (*response.Page[domain.Product], error) {
	items, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Product{}
	}
	return &response.Page[domain.Product]{
		Items:      items,
		Total:      total,
		Page:       f.Page.Page,
		Limit:      f.Page.Limit,
		TotalPages: f.Page.TotalPages(total),
	}, nil
}

// Get hides inactive products unless includeInactive is set.
func (s *Service) Get(ctx context.Context, id uint, includeInactive bool) (*domain.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapError(err)
	}
	if !p.Active && !includeInactive {
		return nil, ErrNotFound
	}
	return p, nil
}

func (s *Service) Create(ctx context.Context, req ProductRequest) (*domain.Product, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	p := &domain.Product{Active: true}
	applyFull(p, req)
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, mapError(err)
	}

	s.logger.Info("product created", zap.Uint("product_id", p.ID), zap.String("sku", p.SKU))
	return p, nil
}

func (s *Service) Update(ctx context.Context, id uint, req ProductRequest) (*domain.Product, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	p, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}
	applyFull(p, req)
	if err := s.repo.Update(ctx, p); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (s *Service) Patch(ctx context.Context, id uint, req PatchProductRequest) (*domain.Product, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	p, err := s.Get(ctx, id, true)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		p.Name = strings.TrimSpace(*req.Name)
	}
	if req.SKU != nil {
		p.SKU = strings.TrimSpace(*req.SKU)
	}
	if req.Description != nil {
		p.Description = *req.Description
	}
	if req.Category != nil {
		p.Category = strings.TrimSpace(*req.Category)
	}
	if req.PriceCents != nil {
		p.PriceCents = *req.PriceCents
	}
	if req.Stock != nil {
		p.Stock = *req.Stock
	}
	if req.ImageURL != nil {
		p.ImageURL = strings.TrimSpace(*req.ImageURL)
	}
	if req.Active != nil {
		p.Active = *req.Active
	}

	if err := s.repo.Update(ctx, p); err != nil {
		return nil, mapError(err)
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return mapError(s.repo.Delete(ctx, id))
}

func applyFull(p *domain.Product, req ProductRequest) {
	p.Name = strings.TrimSpace(req.Name)
	p.SKU = strings.TrimSpace(req.SKU)
	p.Description = req.Description
	p.Category = strings.TrimSpace(req.Category)
	p.PriceCents = req.PriceCents
	p.Stock = req.Stock
	p.ImageURL = strings.TrimSpace(req.ImageURL)
	if req.Active != nil {
		p.Active = *req.Active
	}
}

func mapError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrDuplicate):
		return ErrDuplicate
	}
	return err
}
