package order

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/pkg/id"
	"dentalclinic/internal/pkg/response"
	"dentalclinic/internal/pkg/validator"
	"dentalclinic/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const defaultPaymentMethod = "card"

type Service struct {
	orders   OrderRepository
	products ProductLookup
	notifier Notifier
	logger   *zap.Logger
}

func NewService(orders OrderRepository, products ProductLookup, notifier Notifier, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{orders: orders, products: products, notifier: notifier, logger: logger}
}

// Checkout prices the cart from current catalogue data and stores the order,
// decrementing stock in the same transaction.
func (s *Service) Checkout(ctx context.Context, req CheckoutRequest) (*domain.Order, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	lines := mergeItems(req.Items)
	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}

	catalogue, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	o := &domain.Order{
		Number:        id.OrderNumber(),
		CustomerName:  strings.TrimSpace(req.CustomerName),
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:         strings.TrimSpace(req.Phone),
		Address:       strings.TrimSpace(req.Address),
		PaymentMethod: req.PaymentMethod,
		Status:        domain.OrderPending,
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = defaultPaymentMethod
	}

	for _, l := range lines {
		p, ok := catalogue[l.ProductID]
		if !ok || !p.Active {
			return nil, fmt.Errorf("%w: product %d", ErrProductUnavailable, l.ProductID)
		}
		if p.Stock < l.Quantity {
			return nil, fmt.Errorf("%w: %s", ErrOutOfStock, p.Name)
		}
		o.Items = append(o.Items, domain.OrderItem{
			ProductID:  p.ID,
			Name:       p.Name,
			PriceCents: p.PriceCents,
			Quantity:   l.Quantity,
		})
		o.TotalCents += p.PriceCents * int64(l.Quantity)
	}

	if err := s.orders.CreateWithItems(ctx, o); err != nil {
		if errors.Is(err, repository.ErrInsufficientStock) {
			return nil, ErrOutOfStock
		}
		return nil, err
	}

	s.logger.Info("order placed",
		zap.Uint("order_id", o.ID),
		zap.String("number", o.Number),
		zap.Int64("total_cents", o.TotalCents),
	)

	if s.notifier != nil {
		if _, err := s.notifier.NotifyNewOrder(ctx, o); err != nil {
			s.logger.Warn("order notification failed", zap.Uint("order_id", o.ID), zap.Error(err))
		}
	}
	return o, nil
}

// mergeItems sums quantities per product, keeping first-seen order.
func mergeItems(items []CheckoutItem) []CheckoutItem {
	idx := make(map[uint]int, len(items))
	out := make([]CheckoutItem, 0, len(items))
	for _, it := range items {
		if i, ok := idx[it.ProductID]; ok {
			out[i].Quantity += it.Quantity
			continue
		}
		idx[it.ProductID] = len(out)
		out = append(out, it)
	}
	return out
}

func (s *Service) List(ctx context.Context, status, search string, page, limit int) (*response.Page[domain.Order], error) {
	st := domain.OrderStatus(status)
	if st != "" && !st.Valid() {
		return nil, ErrInvalidStatus
	}

	p := repository.NewPage(page, limit)
	items, total, err := s.orders.List(ctx, repository.OrderFilter{Status: st, Search: search, Page: p})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Order{}
	}
	return &response.Page[domain.Order]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages(total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*domain.Order, error) {
	o, err := s.orders.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return o, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uint, next domain.OrderStatus) (*domain.Order, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if o.Status == next {
		return o, nil
	}
	if !o.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, o.Status, next)
	}

	o.Status = next
	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	s.logger.Info("order status changed", zap.Uint("order_id", o.ID), zap.String("status", string(next)))
	return o, nil
}

func (s *Service) UpdateContact(ctx context.Context, id uint, req UpdateContactRequest) (*domain.Order, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	o, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	o.CustomerName = strings.TrimSpace(req.CustomerName)
	o.Email = strings.ToLower(strings.TrimSpace(req.Email))
	o.Phone = strings.TrimSpace(req.Phone)
	o.Address = strings.TrimSpace(req.Address)

	if err := s.orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return o, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return mapNotFound(s.orders.Delete(ctx, id))
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
