package booking

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"dentalclinic/internal/domain"
	"dentalclinic/internal/pkg/response"
	"dentalclinic/internal/pkg/sms"
	"dentalclinic/internal/pkg/validator"
	"dentalclinic/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	defaultDuration  = 60
	dateLayout       = "2006-01-02"
	defaultRangeDays = 30
	maxRangeDays     = 366
)

type Service struct {
	repo     BookingRepository
	notifier Notifier
	loc      *time.Location
	logger   *zap.Logger
	now      func() time.Time

	sms        sms.Sender
	alertPhone string
}

func NewService(repo BookingRepository, notifier Notifier, loc *time.Location, logger *zap.Logger) *Service {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		repo:     repo,
		notifier: notifier,
		loc:      loc,
		logger:   logger,
		now:      time.Now,
	}
}

// EnableSMSAlerts texts the clinic phone on every new booking.
func (s *Service) EnableSMSAlerts(sender sms.Sender, phone string) {
	s.sms = sender
	s.alertPhone = phone
}

func (s *Service) Create(ctx context.Context, req CreateBookingRequest) (*domain.Booking, error) {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Service = strings.TrimSpace(req.Service)
	req.Email = strings.TrimSpace(req.Email)

	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}

	scheduledAt, err := time.ParseInLocation(dateLayout+" 15:04", req.Date+" "+req.Time, s.loc)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"date": "datetime"}}
	}
	if scheduledAt.Before(s.now()) {
		return nil, &ValidationError{Fields: map[string]string{"date": "past"}}
	}

	duration := req.DurationMinutes
	if duration == 0 {
		duration = defaultDuration
	}

	b := &domain.Booking{
		PatientName:     req.Name,
		Phone:           req.Phone,
		Email:           req.Email,
		Service:         req.Service,
		ScheduledAt:     scheduledAt,
		DurationMinutes: duration,
		Message:         strings.TrimSpace(req.Message),
		Status:          domain.BookingPending,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	s.logger.Info("booking created", zap.Uint("booking_id", b.ID), zap.String("service", b.Service))

	if s.notifier != nil {
		if _, err := s.notifier.NotifyNewBooking(ctx, b); err != nil {
			s.logger.Warn("booking notification failed", zap.Uint("booking_id", b.ID), zap.Error(err))
		}
	}
	s.sendAlert(ctx, b)
	return b, nil
}

func (s *Service) sendAlert(ctx context.Context, b *domain.Booking) {
	if s.sms == nil || s.alertPhone == "" {
		return
	}
	msg := fmt.Sprintf("New booking #%d: %s, %s at %s",
		b.ID, b.PatientName, b.Service, b.ScheduledAt.In(s.loc).Format("02 Jan 15:04"))
	if err := s.sms.SendSMS(ctx, s.alertPhone, msg); err != nil {
		s.logger.Warn("booking sms alert failed", zap.Uint("booking_id", b.ID), zap.Error(err))
	}
}

func (s *Service) List(ctx context.Context, status, search string, page, limit int) (*response.Page[domain.Booking], error) {
	st := domain.BookingStatus(status)
	if st != "" && !st.Valid() {
		return nil, ErrInvalidStatus
	}

	p := repository.NewPage(page, limit)
	items, total, err := s.repo.List(ctx, repository.BookingFilter{Status: st, Search: search, Page: p})
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []domain.Booking{}
	}
	return &response.Page[domain.Booking]{
		Items:      items,
		Total:      total,
		Page:       p.Page,
		Limit:      p.Limit,
		TotalPages: p.TotalPages(total),
	}, nil
}

func (s *Service) Get(ctx context.Context, id uint) (*domain.Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return b, nil
}

func (s *Service) Update(ctx context.Context, id uint, req UpdateBookingRequest) (*domain.Booking, error) {
	if fields := validator.Validate(req); fields != nil {
		return nil, &ValidationError{Fields: fields}
	}
	scheduledAt, err := time.Parse(time.RFC3339, req.ScheduledAt)
	if err != nil {
		return nil, &ValidationError{Fields: map[string]string{"scheduledAt": "datetime"}}
	}

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	b.PatientName = strings.TrimSpace(req.PatientName)
	b.Phone = strings.TrimSpace(req.Phone)
	b.Email = strings.TrimSpace(req.Email)
	b.Service = strings.TrimSpace(req.Service)
	b.ScheduledAt = scheduledAt
	b.DurationMinutes = req.DurationMinutes
	b.Message = strings.TrimSpace(req.Message)

	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id uint, next domain.BookingStatus) (*domain.Booking, error) {
	if !next.Valid() {
		return nil, ErrInvalidStatus
	}

	b, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status == next {
		return b, nil
	}
	if !b.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.Status, next)
	}

	b.Status = next
	if err := s.repo.Update(ctx, b); err != nil {
		return nil, err
	}
	s.logger.Info("booking status changed", zap.Uint("booking_id", b.ID), zap.String("status", string(next)))
	return b, nil
}

func (s *Service) Delete(ctx context.Context, id uint) error {
	return mapNotFound(s.repo.Delete(ctx, id))
}

// Analytics aggregates bookings received between the two clinic-local
// dates, both inclusive. Empty strings default to the last 30 days.
func (s *Service) Analytics(ctx context.Context, fromStr, toStr string) (*Analytics, error) {
	from, to, err := s.parseRange(fromStr, toStr)
	if err != nil {
		return nil, err
	}
	end := to.AddDate(0, 0, 1)

	statuses, err := s.repo.StatusCounts(ctx, from, end)
	if err != nil {
		return nil, err
	}
	services, err := s.repo.ServiceCounts(ctx, from, end)
	if err != nil {
		return nil, err
	}
	list, err := s.repo.ListCreatedBetween(ctx, from, end)
	if err != nil {
		return nil, err
	}

	out := &Analytics{
		From:      from.Format(dateLayout),
		To:        to.Format(dateLayout),
		ByStatus:  make(map[string]int64, 4),
		ByService: make([]ServiceCount, 0, len(services)),
	}
	for _, st := range []domain.BookingStatus{domain.BookingPending, domain.BookingConfirmed, domain.BookingCancelled, domain.BookingCompleted} {
		out.ByStatus[string(st)] = 0
	}
	for _, g := range statuses {
		out.ByStatus[g.Key] = g.Count
		out.Total += g.Count
	}
	for _, g := range services {
		out.ByService = append(out.ByService, ServiceCount{Service: g.Key, Count: g.Count})
	}

	perDay := make(map[string]int64)
	for _, b := range list {
		perDay[b.CreatedAt.In(s.loc).Format(dateLayout)]++
	}
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		key := d.Format(dateLayout)
		out.Daily = append(out.Daily, DailyCount{Date: key, Count: perDay[key]})
	}

	out.ConfirmationRate = confirmationRate(out.ByStatus, out.Total)
	return out, nil
}

func confirmationRate(byStatus map[string]int64, total int64) float64 {
	if total == 0 {
		return 0
	}
	ok := byStatus[string(domain.BookingConfirmed)] + byStatus[string(domain.BookingCompleted)]
	return math.Round(float64(ok)/float64(total)*100) / 100
}

func (s *Service) parseRange(fromStr, toStr string) (time.Time, time.Time, error) {
	now := s.now().In(s.loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	to := today
	if toStr != "" {
		t, err := time.ParseInLocation(dateLayout, toStr, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: to must be YYYY-MM-DD", ErrInvalidRange)
		}
		to = t
	}

	from := to.AddDate(0, 0, -(defaultRangeDays - 1))
	if fromStr != "" {
		f, err := time.ParseInLocation(dateLayout, fromStr, s.loc)
		if err != nil {
			return time.Time{}, time.Time{}, fmt.Errorf("%w: from must be YYYY-MM-DD", ErrInvalidRange)
		}
		from = f
	}

	if from.After(to) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: from is after to", ErrInvalidRange)
	}
	if to.Sub(from) > maxRangeDays*24*time.Hour {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: range exceeds %d days", ErrInvalidRange, maxRangeDays)
	}
	return from, to, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}
