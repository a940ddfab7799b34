package booking

import "dentalclinic/internal/domain"

// CreateBookingRequest is the public booking form.
type CreateBookingRequest struct {
	Name            string `json:"name" validate:"required,max=255"`
	Phone           string `json:"phone" validate:"required,max=32"`
	Email           string `json:"email" validate:"omitempty,email"`
	Service         string `json:"service" validate:"required,max=128"`
	Date            string `json:"date" validate:"required,datetime=2006-01-02"`
	Time            string `json:"time" validate:"required,datetime=15:04"`
	DurationMinutes int    `json:"durationMinutes" validate:"omitempty,min=15,max=480"`
	Message         string `json:"message" validate:"max=2000"`
}

type UpdateBookingRequest struct {
	PatientName     string `json:"patientName" validate:"required,max=255"`
	Phone           string `json:"phone" validate:"required,max=32"`
	Email           string `json:"email" validate:"omitempty,email"`
	Service         string `json:"service" validate:"required,max=128"`
	ScheduledAt     string `json:"scheduledAt" validate:"required"`
	DurationMinutes int    `json:"durationMinutes" validate:"required,min=15,max=480"`
	Message         string `json:"message" validate:"max=2000"`
}

type UpdateStatusRequest struct {
	Status domain.BookingStatus `json:"status" binding:"required"`
}

type DailyCount struct {
	Date  string `json:"date"`
	Count int64  `json:"count"`
}

type Analytics struct {
	From             string           `json:"from"`
	To               string           `json:"to"`
	Total            int64            `json:"total"`
	ByStatus         map[string]int64 `json:"byStatus"`
	ByService        []ServiceCount   `json:"byService"`
	Daily            []DailyCount     `json:"daily"`
	ConfirmationRate float64          `json:"confirmationRate"`
}

type ServiceCount struct {
	Service string `json:"service"`
	Count   int64  `json:"count"`
}
