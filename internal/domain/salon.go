package domain

import "time"

// Salon represents a tenant of the platform
type Salon struct {
	ID      int64
	Name    string
	Slug    string
	Phone   *string
	Email   *string
	Address *string
}

// Service represents a salon service offering
type Service struct {
	ID              int64
	SalonID         int64
	Name            string
	DurationMinutes *int // у старых записей может отсутствовать
	Price           int64
	Currency        string
}

// EffectiveDuration returns the service duration in minutes, defaulting to 60 for legacy rows
func (s *Service) EffectiveDuration() int {
	if s == nil || s.DurationMinutes == nil || *s.DurationMinutes <= 0 {
		return DefaultServiceDurationMinutes
	}
	return *s.DurationMinutes
}

// Stylist represents a staff member who performs services
type Stylist struct {
	ID          int64
	SalonID     int64
	Name        string
	Specialties []string
	UserID      *int64
}

// Client represents a person who booked an appointment.
// A new row is created for every booking.
type Client struct {
	ID        int64
	SalonID   int64
	Name      string
	Email     *string
	Phone     *string
	BirthDate *time.Time
	Notes     *string
}
