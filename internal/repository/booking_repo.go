package repository

import (
	"context"
	"strings"
	"time"

	"dentalclinic/internal/domain"

	"gorm.io/gorm"
)

type BookingFilter struct {
	Status domain.BookingStatus
	Search string
	Page   Page
}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

func (r *BookingRepository) DB() *gorm.DB {
	return r.db
}

func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Create(b).Error
}

func (r *BookingRepository) GetByID(ctx context.Context, id uint) (*domain.Booking, error) {
	var b domain.Booking
	if err := r.db.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) List(ctx context.Context, f BookingFilter) ([]domain.Booking, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Booking{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(patient_name) LIKE ? OR phone LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Booking
	err := q.Order("created_at DESC").
		Limit(f.Page.Limit).
		Offset(f.Page.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

// ListCreatedBetween feeds the analytics aggregation, [from, to).
func (r *BookingRepository) ListCreatedBetween(ctx context.Context, from, to time.Time) ([]domain.Booking, error) {
	var list []domain.Booking
	err := r.db.WithContext(ctx).
		Where("created_at >= ? AND created_at < ?", from, to).
		Order("created_at ASC").
		Find(&list).Error
	return list, err
}

// ListUpcoming returns non-cancelled bookings scheduled at or after from.
func (r *BookingRepository) ListUpcoming(ctx context.Context, from time.Time) ([]domain.Booking, error) {
	var list []domain.Booking
	err := r.db.WithContext(ctx).
		Where("scheduled_at >= ? AND status <> ?", from, domain.BookingCancelled).
		Order("scheduled_at ASC").
		Find(&list).Error
	return list, err
}

func (r *BookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	var list []domain.Booking
	err := r.db.WithContext(ctx).Order("scheduled_at ASC").Find(&list).Error
	return list, err
}

func (r *BookingRepository) CountByStatus(ctx context.Context, status domain.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

type GroupCount struct {
	Key   string `json:"key" gorm:"column:group_key"`
	Count int64  `json:"count" gorm:"column:group_count"`
}

func (r *BookingRepository) StatusCounts(ctx context.Context, from, to time.Time) ([]GroupCount, error) {
	return r.groupCount(ctx, "status", from, to)
}

func (r *BookingRepository) ServiceCounts(ctx context.Context, from, to time.Time) ([]GroupCount, error) {
	return r.groupCount(ctx, "service", from, to)
}

func (r *BookingRepository) groupCount(ctx context.Context, column string, from, to time.Time) ([]GroupCount, error) {
	var out []GroupCount
	err := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Select(column+" AS group_key, COUNT(*) AS group_count").
		Where("created_at >= ? AND created_at < ?", from, to).
		Group(column).
		Order("group_count DESC").
		Order("group_key ASC").
		Scan(&out).Error
	return out, err
}

func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Booking{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
