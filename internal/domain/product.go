package domain

import "time"

type Product struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Name        string    `json:"name" gorm:"size:255;not null"`
	SKU         string    `json:"sku" gorm:"size:64;uniqueIndex;not null"`
	Description string    `json:"description,omitempty" gorm:"type:text"`
	Category    string    `json:"category,omitempty" gorm:"size:64;index"`
	PriceCents  int64     `json:"priceCents" gorm:"not null"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	ImageURL    string    `json:"imageUrl,omitempty" gorm:"size:512"`
	Active      bool      `json:"active" gorm:"not null"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (Product) TableName() string {
	return "products"
}
