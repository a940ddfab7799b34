package domain

import "time"

type NotificationType string

const (
	NotificationOrder   NotificationType = "ORDER"
	NotificationBooking NotificationType = "BOOKING"
	NotificationSystem  NotificationType = "SYSTEM"
)

func (t NotificationType) Valid() bool {
	switch t {
	case NotificationOrder, NotificationBooking, NotificationSystem:
		return true
	}
	return false
}

// JSONMap is the opaque deep-link payload, e.g. {"orderId": "12"}.
type JSONMap map[string]any

type Notification struct {
	ID        string           `json:"id" gorm:"primaryKey;size:26"`
	Type      NotificationType `json:"type" gorm:"size:16;index"`
	Title     string           `json:"title" gorm:"size:255"`
	Message   string           `json:"message" gorm:"type:text"`
	IsRead    bool             `json:"isRead" gorm:"index;not null;default:false"`
	Data      JSONMap          `json:"data" gorm:"serializer:json;type:text"`
	CreatedAt time.Time        `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

func (Notification) TableName() string {
	return "notifications"
}

// MarkRead flips the read flag. There is no way back to unread.
func (n *Notification) MarkRead() {
	n.IsRead = true
}

// Normalize guarantees a non-nil payload for consumers.
func (n *Notification) Normalize() {
	if n.Data == nil {
		n.Data = JSONMap{}
	}
}
