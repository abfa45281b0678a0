package domain

import (
	"fmt"
	"time"
)

// BookingStatus represents the status of a booking on the staff board
type BookingStatus string

const (
	StatusBacklog    BookingStatus = "backlog"
	StatusForToday   BookingStatus = "for_today"
	StatusInProgress BookingStatus = "in_progress"
	StatusDone       BookingStatus = "done"
	StatusCancelled  BookingStatus = "cancelled"
)

// IsValid returns true if the status is one of the known values
func (s BookingStatus) IsValid() bool {
	switch s {
	case StatusBacklog, StatusForToday, StatusInProgress, StatusDone, StatusCancelled:
		return true
	}
	return false
}

// ClientCancellableStatuses statuses a client may still cancel from the email link.
// Once work has started, only staff can change the booking.
var ClientCancellableStatuses = []BookingStatus{StatusBacklog, StatusForToday}

// Booking represents a client appointment with a stylist
type Booking struct {
	ID        int64
	Reference string // BK-YYYY-NNNNNN
	SalonID   int64
	ClientID  int64
	ServiceID int64
	StylistID *int64 // nil = "любой мастер", мастер не назначен

	AppointmentDate time.Time // дата в UTC без времени
	AppointmentTime string    // "HH:MM", у старых записей возможен "H:MM AM"
	Status          BookingStatus
	FinalPrice      *int64
	Notes           *string

	ConfirmToken *string
	TokenExpiry  *time.Time
	ConfirmedAt  *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time

	// Связанные данные, заполняются при чтении
	Client  *Client
	Service *Service
	Stylist *Stylist
}

// IsCancelled returns true if the booking has been cancelled
func (b *Booking) IsCancelled() bool {
	return b.Status == StatusCancelled
}

// IsConfirmed returns true if the client confirmed the booking via token
func (b *Booking) IsConfirmed() bool {
	return b.ConfirmedAt != nil
}

// EffectiveDuration returns the duration of the booked service.
// Unknown service or missing duration falls back to DefaultServiceDurationMinutes.
func (b *Booking) EffectiveDuration() int {
	if b.Service == nil {
		return DefaultServiceDurationMinutes
	}
	return b.Service.EffectiveDuration()
}

// StylistDayLockKey ключ блокировки на (мастер, дата).
// Все записи, меняющие занятость мастера в этот день, берут один и тот же ключ.
func StylistDayLockKey(stylistID int64, date time.Time) string {
	return fmt.Sprintf("stylist:%d:%s", stylistID, date.Format(DateFormat))
}

// SalonBookingsFilter фильтр для получения бронирований салона
type SalonBookingsFilter struct {
	SalonID          int64          // Обязательный параметр
	StylistID        *int64         // Фильтр по мастеру
	StartDate        *time.Time     // Начало периода включительно
	EndDate          *time.Time     // Конец периода включительно
	Status           *BookingStatus // Фильтр по статусу
	IncludeCancelled bool
}
