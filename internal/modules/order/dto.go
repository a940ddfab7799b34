package order

import "dentalclinic/internal/domain"

type CheckoutItem struct {
	ProductID uint `json:"productId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"required,min=1,max=100"`
}

type CheckoutRequest struct {
	CustomerName  string         `json:"customerName" validate:"required,max=255"`
	Email         string         `json:"email" validate:"required,email"`
	Phone         string         `json:"phone" validate:"max=32"`
	Address       string         `json:"address" validate:"required,max=1000"`
	PaymentMethod string         `json:"paymentMethod" validate:"omitempty,oneof=card cash bank_transfer"`
	Items         []CheckoutItem `json:"items" validate:"required,min=1,dive"`
}

type UpdateContactRequest struct {
	CustomerName string `json:"customerName" validate:"required,max=255"`
	Email        string `json:"email" validate:"required,email"`
	Phone        string `json:"phone" validate:"max=32"`
	Address      string `json:"address" validate:"required,max=1000"`
}

type UpdateStatusRequest struct {
	Status domain.OrderStatus `json:"status" binding:"required"`
}
