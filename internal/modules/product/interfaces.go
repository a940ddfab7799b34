package product

import (
	"context"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/repository"
)

type ProductRepository interface {
	Create(ctx context.Context, p *domain.Product) error
	GetByID(ctx context.Context, id uint) (*domain.Product, error)
	List(ctx context.Context, f repository.ProductFilter) ([]domain.Product, int64, error)
	Update(ctx context.Context, p *domain.Product) error
	Delete(ctx context.Context, id uint) error
}
