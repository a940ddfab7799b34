package notification

import "dentalclinic/internal/domain"

type CreateInput struct {
	Type    domain.NotificationType `json:"type" validate:"required,oneof=ORDER BOOKING SYSTEM"`
	Title   string                  `json:"title" validate:"required,max=255"`
	Message string                  `json:"message" validate:"required"`
	Data    domain.JSONMap          `json:"data"`
}

// UpdateRequest only supports the unread -> read transition.
type UpdateRequest struct {
	IsRead *bool `json:"isRead"`
}

type TestRequest struct {
	Type domain.NotificationType `json:"type"`
}

const EventCreated = "notification.created"

type Event struct {
	Event        string               `json:"event"`
	Notification *domain.Notification `json:"notification"`
}
