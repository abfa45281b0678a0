package notification

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// EventTypeConfirmationRequested тип события запроса подтверждения
const EventTypeConfirmationRequested = "booking.confirmation_requested"

// Confirmation полезная нагрузка уведомления о новой записи
type Confirmation struct {
	EventID   string `json:"eventId"`
	EventType string `json:"eventType"`

	BookingID       int64  `json:"bookingId"`
	Reference       string `json:"bookingReference"`
	SalonID         int64  `json:"salonId"`
	SalonName       string `json:"salonName"`
	AppointmentDate string `json:"appointmentDate"`
	AppointmentTime string `json:"appointmentTime"`
	DurationMinutes int    `json:"durationMinutes"`

	ServiceName string  `json:"serviceName,omitempty"`
	StylistName *string `json:"stylistName,omitempty"` // nil = мастер будет назначен

	ClientName  string  `json:"clientName"`
	ClientEmail *string `json:"clientEmail,omitempty"`
	ClientPhone *string `json:"clientPhone,omitempty"`

	ConfirmURL string `json:"confirmUrl"`
	CancelURL  string `json:"cancelUrl"`
	ExpiresAt  string `json:"expiresAt,omitempty"` // RFC3339
}

// NewConfirmation собирает уведомление из созданной записи.
// Ссылки ведут на страницы интерфейса, которые вызывают confirm/cancel с одноразовым токеном.
func NewConfirmation(booking *domain.Booking, salon *domain.Salon, token, publicBaseURL string) *Confirmation {
	base := strings.TrimRight(publicBaseURL, "/")

	c := &Confirmation{
		EventID:         uuid.NewString(),
		EventType:       EventTypeConfirmationRequested,
		BookingID:       booking.ID,
		Reference:       booking.Reference,
		SalonID:         booking.SalonID,
		AppointmentDate: booking.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime: booking.AppointmentTime,
		DurationMinutes: booking.EffectiveDuration(),
		ConfirmURL:      fmt.Sprintf("%s/bookings/%d/confirm?token=%s", base, booking.ID, token),
		CancelURL:       fmt.Sprintf("%s/bookings/%d/cancel?token=%s", base, booking.ID, token),
	}

	if salon != nil {
		c.SalonName = salon.Name
	}
	if booking.Service != nil {
		c.ServiceName = booking.Service.Name
	}
	if booking.Stylist != nil {
		name := booking.Stylist.Name
		c.StylistName = &name
	}
	if booking.Client != nil {
		c.ClientName = booking.Client.Name
		c.ClientEmail = booking.Client.Email
		c.ClientPhone = booking.Client.Phone
	}
	if booking.TokenExpiry != nil {
		c.ExpiresAt = booking.TokenExpiry.UTC().Format(time.RFC3339)
	}

	return c
}
