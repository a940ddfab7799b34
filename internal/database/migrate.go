package database

import (
	"dentalclinic/internal/domain"

	"gorm.io/gorm"
)

// Models lists every table owned by the API, in creation order.
func Models() []any {
	return []any{
		&domain.User{},
		&domain.Product{},
		&domain.Booking{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
