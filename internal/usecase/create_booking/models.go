package create_booking

import (
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// Request модель запроса на создание бронирования
type Request struct {
	SalonID   int64     `validate:"gt=0"`
	ServiceID int64     `validate:"gt=0"`
	StylistID *int64    `validate:"omitempty,gt=0"` // nil = любой мастер
	Date      time.Time // Дата записи, время суток игнорируется
	Time      string    `validate:"clock"` // "HH:MM" или "H:MM AM|PM"
	Client    ClientInfo
	Notes     *string `validate:"omitempty,max=500"`
}

// ClientInfo контактные данные клиента
type ClientInfo struct {
	Name      string  `validate:"notblank,max=200"`
	Email     *string `validate:"omitempty,email"`
	Phone     *string `validate:"omitempty,min=5,max=32"`
	BirthDate *time.Time
	Notes     *string `validate:"omitempty,max=500"`
}

// Response модель ответа с созданным бронированием
type Response struct {
	ID              int64
	Reference       string
	SalonID         int64
	ServiceID       int64
	StylistID       *int64
	AppointmentDate time.Time
	AppointmentTime string
	DurationMinutes int
	Status          string
	TokenExpiry     time.Time
	Notes           *string

	Client  *domain.Client
	Service *domain.Service
	Stylist *domain.Stylist

	CreatedAt time.Time
}
