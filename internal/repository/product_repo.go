package repository

import (
	"context"
	"strings"

	"dentalclinic/internal/domain"

	"gorm.io/gorm"
)

type ProductFilter struct {
	Category   string
	Search     string
	ActiveOnly bool
	Page       Page
}

type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) Create(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id uint) (*domain.Product, error) {
	var p domain.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// GetByIDs returns the products found, keyed by id.
func (r *ProductRepository) GetByIDs(ctx context.Context, ids []uint) (map[uint]domain.Product, error) {
	var list []domain.Product
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&list).Error; err != nil {
		return nil, err
	}
	out := make(map[uint]domain.Product, len(list))
	for _, p := range list {
		out[p.ID] = p
	}
	return out, nil
}

func (r *ProductRepository) List(ctx context.Context, f ProductFilter) ([]domain.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&domain.Product{})
	if f.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		like := "%" + strings.ToLower(s) + "%"
		q = q.Where("LOWER(name) LIKE ? OR LOWER(sku) LIKE ?", like, like)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var list []domain.Product
	err := q.Order("name ASC").
		Limit(f.Page.Limit).
		Offset(f.Page.Offset()).
		Find(&list).Error
	if err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *ProductRepository) ListAll(ctx context.Context) ([]domain.Product, error) {
	var list []domain.Product
	err := r.db.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

func (r *ProductRepository) CountLowStock(ctx context.Context, threshold int) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("active = ? AND stock <= ?", true, threshold).
		Count(&count).Error
	return count, err
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if err := r.db.WithContext(ctx).Save(p).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return err
	}
	return nil
}

func (r *ProductRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
