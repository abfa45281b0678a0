package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListStylistDay получает неотменённые бронирования мастера на дату
	ListStylistDay(ctx context.Context, stylistID int64, date time.Time) ([]*domain.Booking, error)
}

// CatalogRepository интерфейс репозитория салонов, услуг и мастеров
type CatalogRepository interface {
	GetSalon(ctx context.Context, id int64) (*domain.Salon, error)
	GetService(ctx context.Context, salonID, serviceID int64) (*domain.Service, error)
	GetStylist(ctx context.Context, salonID, stylistID int64) (*domain.Stylist, error)
}

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	ListByStylist(ctx context.Context, stylistID int64) ([]*domain.AvailabilityWindow, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
