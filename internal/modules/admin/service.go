package admin

import (
	"context"
	"time"

	"dentalclinic/internal/domain"

	"go.uber.org/zap"
)

const (
	lowStockThreshold = 5
	revenueWindow     = 30 * 24 * time.Hour
)

type Service struct {
	bookings      BookingReader
	orders        OrderReader
	products      ProductReader
	notifications NotificationCounter
	logger        *zap.Logger
	now           func() time.Time
}

func NewService(bookings BookingReader, orders OrderReader, products ProductReader, notifications NotificationCounter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		bookings:      bookings,
		orders:        orders,
		products:      products,
		notifications: notifications,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	var (
		d   Dashboard
		err error
	)

	if d.PendingBookings, err = s.bookings.CountByStatus(ctx, domain.BookingPending); err != nil {
		return nil, err
	}
	if d.PendingOrders, err = s.orders.CountByStatus(ctx, domain.OrderPending); err != nil {
		return nil, err
	}
	if d.RevenueCents30d, err = s.orders.Revenue(ctx, s.now().Add(-revenueWindow)); err != nil {
		return nil, err
	}
	if d.UnreadNotifications, err = s.notifications.CountUnread(ctx); err != nil {
		return nil, err
	}
	if d.LowStockProducts, err = s.products.CountLowStock(ctx, lowStockThreshold); err != nil {
		return nil, err
	}
	return &d, nil
}
