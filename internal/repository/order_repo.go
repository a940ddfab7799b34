package repository

import (
	"context"
	"strings"
	"time"

	"dentalclinic/internal/domain"

	"gorm.io/gorm"
)

type OrderFilter struct {
	Status domain.OrderStatus
	Search string
	Page   Page
}

type OrderRepository struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) *OrderRepository {
	return &OrderRepository{db: db}
}

// CreateWithItems decrements stock for every item and inserts the order and
// its items in one transaction. Any item short on stock aborts everything
// with ErrInsufficientStock.
func (r *OrderRepository) CreateWithItems(ctx context.Context, o *domain.Order) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, it := range o.Items {
			res := tx.Model(&domain.Product{}).
				Where("id = ? AND stock >= ?", it.ProductID, it.Quantity).
				Update("stock", gorm.Expr("stock - ?", it.Quantity))
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return ErrInsufficientStock
			}
		}
		return tx.Create(o).Error
	})
	if isUniqueViolation(err) {
		return ErrDuplicate
	}
	return err
}

func (r *OrderRepository) GetByID(ctx context.Context, id uint) (*domain.Order, error) {
	var o domain.Order
	if err := r.db.WithContext(ctx).Preload("Items").First(&o, id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *OrderRepository) List(ctx context.Context, f OrderFilter) ([]domain.Order, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Order{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(number) LIKE ? OR LOWER(customer_name) LIKE ? OR LOWER(email) LIKE ?", like, like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Order
	err := q.Preload("Items").
		Order("created_at DESC").
		Limit(f.Page.Limit).
		Offset(f.Page.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *OrderRepository) ListAll(ctx context.Context) ([]domain.Order, error) {
	var list []domain.Order
	err := r.db.WithContext(ctx).Preload("Items").Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *OrderRepository) CountByStatus(ctx context.Context, status domain.OrderStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Order{}).Where("status = ?", status).Count(&count).Error
	return count, err
}

// Revenue sums paid, shipped and delivered orders created since the given time.
func (r *OrderRepository) Revenue(ctx context.Context, since time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).
		Model(&domain.Order{}).
		Select("COALESCE(SUM(total_cents), 0)").
		Where("created_at >= ? AND status IN ?", since,
			[]domain.OrderStatus{domain.OrderPaid, domain.OrderShipped, domain.OrderDelivered}).
		Scan(&total).Error
	return total, err
}

// Update saves the order row only; items are immutable after checkout.
func (r *OrderRepository) Update(ctx context.Context, o *domain.Order) error {
	return r.db.WithContext(ctx).Omit("Items").Save(o).Error
}

func (r *OrderRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("order_id = ?", id).Delete(&domain.OrderItem{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&domain.Order{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
