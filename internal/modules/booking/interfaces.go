package booking

import (
	"context"
	"time"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/repository"
)

type BookingRepository interface {
	Create(ctx context.Context, b *domain.Booking) error
	GetByID(ctx context.Context, id uint) (*domain.Booking, error)
	List(ctx context.Context, f repository.BookingFilter) ([]domain.Booking, int64, error)
	ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error)
	StatusCounts(ctx context.Context, from, to time.Time) ([]repository.GroupCount, error)
	ServiceCounts(ctx context.Context, from, to time.Time) ([]repository.GroupCount, error)
	Update(ctx context.Context, b *domain.Booking) error
	Delete(ctx context.Context, id uint) error
}

// Notifier produces the BOOKING notification for the admin panel.
type Notifier interface {
	NotifyNewBooking(ctx context.Context, b *domain.Booking) (*domain.Notification, error)
}
