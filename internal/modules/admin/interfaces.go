package admin

import (
	"context"
	"time"

	"dentalclinic/internal/domain"
)

type BookingReader interface {
	CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	ListUpcoming(ctx context.Context, from time.Time) ([]domain.Booking, error)
}

type OrderReader interface {
	CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error)
	Revenue(ctx context.Context, since time.Time) (int64, error)
	ListAll(ctx context.Context) ([]domain.Order, error)
}

type ProductReader interface {
	CountLowStock(ctx context.Context, threshold int) (int64, error)
	ListAll(ctx context.Context) ([]domain.Product, error)
}

type NotificationCounter interface {
	CountUnread(ctx context.Context) (int64, error)
}
