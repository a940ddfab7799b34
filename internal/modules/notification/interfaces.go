package notification

import (
	"context"
	"time"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/repository"
)

type Repository interface {
	Create(ctx context.Context, n *domain.Notification) error
	List(ctx context.Context, f repository.NotificationFilter) ([]domain.Notification, error)
	GetByID(ctx context.Context, id string) (*domain.Notification, error)
	MarkAsRead(ctx context.Context, id string) (*domain.Notification, error)
	MarkAllAsRead(ctx context.Context) (int64, error)
	Delete(ctx context.Context, id string) error
	CountUnread(ctx context.Context) (int64, error)
}

type Cleaner interface {
	DeleteReadOlderThan(ctx context.Context, age time.Duration) (int64, error)
}

// Publisher pushes freshly created notifications to connected admins.
type Publisher interface {
	Publish(n *domain.Notification)
}
