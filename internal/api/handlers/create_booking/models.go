package create_booking

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
	createBooking "github.com/m04kA/SMC-SalonBooking/internal/usecase/create_booking"
)

var (
	errInvalidDate      = errors.New("invalid appointment date")
	errInvalidBirthDate = errors.New("invalid birth date")
	errInvalidStylistID = errors.New("invalid stylist id")
)

// StylistRef ID мастера в запросе: число, "any" или null
type StylistRef struct {
	ID *int64
}

// UnmarshalJSON принимает 12, "12", "any" и null
func (s *StylistRef) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		s.ID = nil
		return nil
	}

	var id int64
	if err := json.Unmarshal(data, &id); err == nil {
		s.ID = &id
		return nil
	}

	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("%w: %s", errInvalidStylistID, data)
	}
	if strings.EqualFold(strings.TrimSpace(raw), "any") || strings.TrimSpace(raw) == "" {
		s.ID = nil
		return nil
	}

	var parsed int64
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		return fmt.Errorf("%w: %q", errInvalidStylistID, raw)
	}
	s.ID = &parsed
	return nil
}

// ClientRequest контактные данные клиента
type ClientRequest struct {
	Name      string  `json:"name"`
	Email     *string `json:"email,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	BirthDate *string `json:"birthDate,omitempty"` // YYYY-MM-DD
	Notes     *string `json:"notes,omitempty"`
}

// CreateBookingRequest HTTP запрос на создание бронирования
type CreateBookingRequest struct {
	ServiceID int64         `json:"serviceId"`
	StylistID StylistRef    `json:"stylistId"`
	Date      string        `json:"date"` // YYYY-MM-DD
	Time      string        `json:"time"` // "14:30" или "2:30 PM"
	Client    ClientRequest `json:"client"`
	Notes     *string       `json:"notes,omitempty"`
}

// ClientResponse клиент в ответе
type ClientResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ServiceResponse услуга в ответе
type ServiceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           int64  `json:"price"`
	Currency        string `json:"currency"`
}

// StylistResponse мастер в ответе
type StylistResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingResponse HTTP ответ с созданным бронированием. Токен подтверждения в ответ не попадает.
type BookingResponse struct {
	ID              int64            `json:"id"`
	Reference       string           `json:"bookingReference"`
	SalonID         int64            `json:"salonId"`
	ServiceID       int64            `json:"serviceId"`
	StylistID       *int64           `json:"stylistId"`
	AppointmentDate string           `json:"appointmentDate"`
	AppointmentTime string           `json:"appointmentTime"`
	DurationMinutes int              `json:"durationMinutes"`
	Status          string           `json:"status"`
	ConfirmBy       string           `json:"confirmBy"`
	Notes           *string          `json:"notes,omitempty"`
	Client          *ClientResponse  `json:"client,omitempty"`
	Service         *ServiceResponse `json:"service,omitempty"`
	Stylist         *StylistResponse `json:"stylist,omitempty"`
	CreatedAt       string           `json:"createdAt"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case (с парсингом дат)
func (r *CreateBookingRequest) ToUseCaseRequest(salonID int64) (*createBooking.Request, error) {
	date, err := time.Parse(domain.DateFormat, strings.TrimSpace(r.Date))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errInvalidDate, err)
	}

	var birthDate *time.Time
	if r.Client.BirthDate != nil && strings.TrimSpace(*r.Client.BirthDate) != "" {
		parsed, err := time.Parse(domain.DateFormat, strings.TrimSpace(*r.Client.BirthDate))
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errInvalidBirthDate, err)
		}
		birthDate = &parsed
	}

	return &createBooking.Request{
		SalonID:   salonID,
		ServiceID: r.ServiceID,
		StylistID: r.StylistID.ID,
		Date:      date,
		Time:      strings.TrimSpace(r.Time),
		Client: createBooking.ClientInfo{
			Name:      r.Client.Name,
			Email:     r.Client.Email,
			Phone:     r.Client.Phone,
			BirthDate: birthDate,
			Notes:     r.Client.Notes,
		},
		Notes: r.Notes,
	}, nil
}

// FromUseCaseResponse конвертирует ответ use case в HTTP response
func FromUseCaseResponse(resp *createBooking.Response) *BookingResponse {
	result := &BookingResponse{
		ID:              resp.ID,
		Reference:       resp.Reference,
		SalonID:         resp.SalonID,
		ServiceID:       resp.ServiceID,
		StylistID:       resp.StylistID,
		AppointmentDate: resp.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime: resp.AppointmentTime,
		DurationMinutes: resp.DurationMinutes,
		Status:          resp.Status,
		ConfirmBy:       resp.TokenExpiry.UTC().Format(time.RFC3339),
		Notes:           resp.Notes,
		CreatedAt:       resp.CreatedAt.UTC().Format(time.RFC3339),
	}

	if resp.Client != nil {
		result.Client = &ClientResponse{
			ID:    resp.Client.ID,
			Name:  resp.Client.Name,
			Email: resp.Client.Email,
			Phone: resp.Client.Phone,
		}
	}
	if resp.Service != nil {
		result.Service = &ServiceResponse{
			ID:              resp.Service.ID,
			Name:            resp.Service.Name,
			DurationMinutes: resp.Service.EffectiveDuration(),
			Price:           resp.Service.Price,
			Currency:        resp.Service.Currency,
		}
	}
	if resp.Stylist != nil {
		result.Stylist = &StylistResponse{ID: resp.Stylist.ID, Name: resp.Stylist.Name}
	}

	return result
}
