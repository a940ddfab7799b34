package notification

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/pkg/validator"
	"dentalclinic/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

type Service struct {
	repo      Repository
	publisher Publisher
	logger    *zap.Logger
}

// NewService wires the store and an optional publisher (nil disables push).
func NewService(repo Repository, publisher Publisher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{repo: repo, publisher: publisher, logger: logger}
}

func (s *Service) List(ctx context.Context, unreadOnly bool, limit int) ([]domain.Notification, error) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	list, err := s.repo.List(ctx, repository.NotificationFilter{UnreadOnly: unreadOnly, Limit: limit})
	if err != nil {
		return nil, err
	}
	for i := range list {
		list[i].Normalize()
	}
	return list, nil
}

func (s *Service) Create(ctx context.Context, in CreateInput) (*domain.Notification, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Message = strings.TrimSpace(in.Message)
	if fields := validator.Validate(in); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	n := &domain.Notification{
		Type:    in.Type,
		Title:   in.Title,
		Message: in.Message,
		Data:    in.Data,
	}
	n.Normalize()

	if err := s.repo.Create(ctx, n); err != nil {
		return nil, err
	}

	s.logger.Info("notification created",
		zap.String("id", n.ID),
		zap.String("type", string(n.Type)),
	)
	if s.publisher != nil {
		s.publisher.Publish(n)
	}
	return n, nil
}

func (s *Service) MarkAsRead(ctx context.Context, id string) (*domain.Notification, error) {
	n, err := s.repo.MarkAsRead(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	n.Normalize()
	return n, nil
}

func (s *Service) MarkAllAsRead(ctx context.Context) (int64, error) {
	return s.repo.MarkAllAsRead(ctx)
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mapNotFound(s.repo.Delete(ctx, id))
}

func (s *Service) UnreadCount(ctx context.Context) (int64, error) {
	return s.repo.CountUnread(ctx)
}

func (s *Service) NotifyNewBooking(ctx context.Context, b *domain.Booking) (*domain.Notification, error) {
	return s.Create(ctx, CreateInput{
		Type:  domain.NotificationBooking,
		Title: "New booking",
		Message: fmt.Sprintf("%s booked %s for %s",
			b.PatientName, b.Service, b.ScheduledAt.Format("02 Jan 2006 15:04")),
		Data: domain.JSONMap{"bookingId": strconv.FormatUint(uint64(b.ID), 10)},
	})
}

func (s *Service) NotifyNewOrder(ctx context.Context, o *domain.Order) (*domain.Notification, error) {
	return s.Create(ctx, CreateInput{
		Type:    domain.NotificationOrder,
		Title:   "New order " + o.Number,
		Message: fmt.Sprintf("%s placed an order for %s", o.CustomerName, formatCents(o.TotalCents)),
		Data: domain.JSONMap{
			"orderId":     strconv.FormatUint(uint64(o.ID), 10),
			"orderNumber": o.Number,
		},
	})
}

func (s *Service) NotifySystem(ctx context.Context, title, message string) (*domain.Notification, error) {
	return s.Create(ctx, CreateInput{
		Type:    domain.NotificationSystem,
		Title:   title,
		Message: message,
	})
}

// SendTest creates a sample notification so admins can check delivery.
func (s *Service) SendTest(ctx context.Context, t domain.NotificationType) (*domain.Notification, error) {
	if t == "" {
		t = domain.NotificationSystem
	}

	in := CreateInput{Type: t, Title: "Test notification", Message: "This is a test notification."}
	switch t {
	case domain.NotificationOrder:
		in.Data = domain.JSONMap{"orderId": "test"}
	case domain.NotificationBooking:
		in.Data = domain.JSONMap{"bookingId": "test"}
	}
	return s.Create(ctx, in)
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

func formatCents(c int64) string {
	return fmt.Sprintf("%d.%02d", c/100, c%100)
}
