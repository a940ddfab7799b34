package repository

import (
	"context"
	"time"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/pkg/id"

	"gorm.io/gorm"
)

type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
}

type NotificationRepository struct {
	db *gorm.DB
}

func NewNotificationRepository(db *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: db}
}

// Create assigns a fresh ULID and stores the notification unread.
func (r *NotificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	n.ID = id.New()
	n.IsRead = false
	return r.db.WithContext(ctx).Create(n).Error
}

func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*domain.Notification, error) {
	var n domain.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// List returns newest first.
func (r *NotificationRepository) List(ctx context.Context, f NotificationFilter) ([]domain.Notification, error) {
	q := r.db.WithContext(ctx).Model(&domain.Notification{})
	if f.UnreadOnly {
		q = q.Where("is_read = ?", false)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}

	var list []domain.Notification
	if err := q.Order("created_at DESC").Order("id DESC").Find(&list).Error; err != nil {
		return nil, err
	}
	return list, nil
}

func (r *NotificationRepository) CountUnread(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("is_read = ?", false).
		Count(&count).Error
	return count, err
}

func (r *NotificationRepository) MarkAsRead(ctx context.Context, id string) (*domain.Notification, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("id = ?", id).
		Update("is_read", true)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.GetByID(ctx, id)
}

// MarkAllAsRead is a single UPDATE statement.
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Notification{}).
		Where("is_read = ?", false).
		Update("is_read", true)
	return res.RowsAffected, res.Error
}

func (r *NotificationRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Delete(&domain.Notification{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteReadOlderThan purges read notifications created before now-age.
func (r *NotificationRepository) DeleteReadOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := time.Now().Add(-age)
	res := r.db.WithContext(ctx).
		Where("is_read = ? AND created_at < ?", true, cutoff).
		Delete(&domain.Notification{})
	return res.RowsAffected, res.Error
}
