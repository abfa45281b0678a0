package models

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid booking status")
)

// Request модели

// UpdateStatusRequest запрос на смену статуса (канбан)
type UpdateStatusRequest struct {
	Status string `json:"status"`
}

// UpdateCompletionRequest запрос на смену статуса с итоговой ценой
type UpdateCompletionRequest struct {
	Status     string `json:"status"`
	FinalPrice *int64 `json:"finalPrice,omitempty"` // в минимальных единицах валюты
}

// TokenRequest запрос на подтверждение или отмену по токену из письма
type TokenRequest struct {
	Token string `json:"token"`
}

// ListSalonBookingsRequest запрос на получение бронирований салона
type ListSalonBookingsRequest struct {
	SalonID          int64      `json:"salonId"`
	StylistID        *int64     `json:"stylistId,omitempty"`
	StartDate        *time.Time `json:"startDate,omitempty"`
	EndDate          *time.Time `json:"endDate,omitempty"`
	Status           *string    `json:"status,omitempty"`
	IncludeCancelled bool       `json:"includeCancelled,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *ListSalonBookingsRequest) ToDomainFilter() (domain.SalonBookingsFilter, error) {
	filter := domain.SalonBookingsFilter{
		SalonID:          r.SalonID,
		StylistID:        r.StylistID,
		StartDate:        r.StartDate,
		EndDate:          r.EndDate,
		IncludeCancelled: r.IncludeCancelled,
	}

	if r.Status != nil {
		status, err := ToDomainBookingStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// Response модели

// ClientResponse контактные данные клиента
type ClientResponse struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Email *string `json:"email,omitempty"`
	Phone *string `json:"phone,omitempty"`
}

// ServiceResponse услуга бронирования
type ServiceResponse struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	DurationMinutes int    `json:"durationMinutes"`
	Price           int64  `json:"price"`
	Currency        string `json:"currency"`
}

// StylistResponse мастер бронирования
type StylistResponse struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID              int64   `json:"id"`
	Reference       string  `json:"bookingReference"`
	SalonID         int64   `json:"salonId"`
	ServiceID       int64   `json:"serviceId"`
	StylistID       *int64  `json:"stylistId"`
	AppointmentDate string  `json:"appointmentDate"` // "2026-10-19"
	AppointmentTime string  `json:"appointmentTime"` // "09:30"
	DurationMinutes int     `json:"durationMinutes"`
	Status          string  `json:"status"`
	FinalPrice      *int64  `json:"finalPrice,omitempty"`
	Confirmed       bool    `json:"confirmed"`
	Notes           *string `json:"notes,omitempty"`

	Client  *ClientResponse  `json:"client,omitempty"`
	Service *ServiceResponse `json:"service,omitempty"`
	Stylist *StylistResponse `json:"stylist,omitempty"`

	ConfirmedAt *time.Time `json:"confirmedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BookingListResponse ответ со списком бронирований
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
}

// Методы конвертации

// FromDomainBooking конвертирует domain модель в DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:              b.ID,
		Reference:       b.Reference,
		SalonID:         b.SalonID,
		ServiceID:       b.ServiceID,
		StylistID:       b.StylistID,
		AppointmentDate: b.AppointmentDate.Format(domain.DateFormat),
		AppointmentTime: b.AppointmentTime,
		DurationMinutes: b.EffectiveDuration(),
		Status:          string(b.Status),
		FinalPrice:      b.FinalPrice,
		Confirmed:       b.IsConfirmed(),
		Notes:           b.Notes,
		ConfirmedAt:     b.ConfirmedAt,
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}

	if b.Client != nil {
		resp.Client = &ClientResponse{
			ID:    b.Client.ID,
			Name:  b.Client.Name,
			Email: b.Client.Email,
			Phone: b.Client.Phone,
		}
	}
	if b.Service != nil {
		resp.Service = &ServiceResponse{
			ID:              b.Service.ID,
			Name:            b.Service.Name,
			DurationMinutes: b.Service.EffectiveDuration(),
			Price:           b.Service.Price,
			Currency:        b.Service.Currency,
		}
	}
	if b.Stylist != nil {
		resp.Stylist = &StylistResponse{
			ID:   b.Stylist.ID,
			Name: b.Stylist.Name,
		}
	}

	return resp
}

// FromDomainBookingList конвертирует список domain моделей в DTO
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(bookings)),
	}

	for _, booking := range bookings {
		if bookingResp := FromDomainBooking(booking); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus конвертирует строку в domain.BookingStatus с валидацией
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}
