package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNotificationType_Valid(t *testing.T) {
	assert.True(t, NotificationOrder.Valid())
	assert.True(t, NotificationBooking.Valid())
	assert.True(t, NotificationSystem.Valid())
	assert.False(t, NotificationType("PROMO").Valid())
	assert.False(t, NotificationType("order").Valid())
}

func TestNotification_NormalizeAndMarkRead(t *testing.T) {
	n := Notification{ID: "01H", Type: NotificationSystem}
	n.Normalize()
	assert.NotNil(t, n.Data)
	assert.Empty(t, n.Data)

	n.MarkRead()
	n.MarkRead()
	assert.True(t, n.IsRead)
}

func TestBookingStatus_Transitions(t *testing.T) {
	assert.True(t, BookingPending.CanTransitionTo(BookingConfirmed))
	assert.True(t, BookingConfirmed.CanTransitionTo(BookingCompleted))
	assert.False(t, BookingCompleted.CanTransitionTo(BookingPending))
	assert.False(t, BookingCancelled.CanTransitionTo(BookingConfirmed))
	assert.False(t, BookingPending.CanTransitionTo(BookingCompleted))
}

func TestOrderStatus_Transitions(t *testing.T) {
	assert.True(t, OrderPending.CanTransitionTo(OrderPaid))
	assert.True(t, OrderShipped.CanTransitionTo(OrderDelivered))
	assert.False(t, OrderDelivered.CanTransitionTo(OrderCancelled))
	assert.False(t, OrderShipped.CanTransitionTo(OrderCancelled))
	assert.False(t, OrderStatus("lost").Valid())
}
