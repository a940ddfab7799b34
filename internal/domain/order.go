package domain

import "time"

type OrderStatus string

const (
	OrderPending   OrderStatus = "pending"
	OrderPaid      OrderStatus = "paid"
	OrderShipped   OrderStatus = "shipped"
	OrderDelivered OrderStatus = "delivered"
	OrderCancelled OrderStatus = "cancelled"
)

var orderTransitions = map[OrderStatus][]OrderStatus{
	OrderPending: {OrderPaid, OrderCancelled},
	OrderPaid:    {OrderShipped, OrderCancelled},
	OrderShipped: {OrderDelivered},
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderPaid, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Order struct {
	ID            uint        `json:"id" gorm:"primaryKey"`
	Number        string      `json:"number" gorm:"size:40;uniqueIndex;not null"`
	CustomerName  string      `json:"customerName" gorm:"size:255;not null"`
	Email         string      `json:"email" gorm:"size:255;not null"`
	Phone         string      `json:"phone" gorm:"size:32"`
	Address       string      `json:"address" gorm:"type:text"`
	PaymentMethod string      `json:"paymentMethod" gorm:"size:32"`
	Status        OrderStatus `json:"status" gorm:"size:16;index;not null;default:pending"`
	TotalCents    int64       `json:"totalCents" gorm:"not null"`
	Items         []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
	CreatedAt     time.Time   `json:"createdAt" gorm:"index"`
	UpdatedAt     time.Time   `json:"updatedAt"`
}

func (Order) TableName() string {
	return "orders"
}

type OrderItem struct {
	ID         uint   `json:"id" gorm:"primaryKey"`
	OrderID    uint   `json:"orderId" gorm:"index;not null"`
	ProductID  uint   `json:"productId" gorm:"index;not null"`
	Name       string `json:"name" gorm:"size:255"`
	PriceCents int64  `json:"priceCents" gorm:"not null"`
	Quantity   int    `json:"quantity" gorm:"not null"`
}

func (OrderItem) TableName() string {
	return "order_items"
}
