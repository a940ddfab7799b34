package order

import (
	"context"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/repository"
)

type OrderRepository interface {
	CreateWithItems(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id uint) (*domain.Order, error)
	List(ctx context.Context, f repository.OrderFilter) ([]domain.Order, int64, error)
	Update(ctx context.Context, o *domain.Order) error
	Delete(ctx context.Context, id uint) error
}

type ProductLookup interface {
	GetByIDs(ctx context.Context, ids []uint) (map[uint]domain.Product, error)
}

type Notifier interface {
	NotifyNewOrder(ctx context.Context, o *domain.Order) (*domain.Notification, error)
}
