package domain

import "time"

type BookingStatus string

const (
	BookingPending   BookingStatus = "pending"
	BookingConfirmed BookingStatus = "confirmed"
	BookingCancelled BookingStatus = "cancelled"
	BookingCompleted BookingStatus = "completed"
)

var bookingTransitions = map[BookingStatus][]BookingStatus{
	BookingPending:   {BookingConfirmed, BookingCancelled},
	BookingConfirmed: {BookingCompleted, BookingCancelled},
}

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCancelled, BookingCompleted:
		return true
	}
	return false
}

func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	for _, allowed := range bookingTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

type Booking struct {
	ID              uint          `json:"id" gorm:"primaryKey"`
	PatientName     string        `json:"patientName" gorm:"size:255;not null"`
	Phone           string        `json:"phone" gorm:"size:32;not null"`
	Email           string        `json:"email,omitempty" gorm:"size:255"`
	Service         string        `json:"service" gorm:"size:128;index;not null"`
	ScheduledAt     time.Time     `json:"scheduledAt" gorm:"index"`
	DurationMinutes int           `json:"durationMinutes" gorm:"not null;default:60"`
	Message         string        `json:"message,omitempty" gorm:"type:text"`
	Status          BookingStatus `json:"status" gorm:"size:16;index;not null;default:pending"`
	CreatedAt       time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) EndsAt() time.Time {
	return b.ScheduledAt.Add(time.Duration(b.DurationMinutes) * time.Minute)
}
