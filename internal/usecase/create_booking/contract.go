package create_booking

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) (*domain.Booking, error)
	ReferenceExists(ctx context.Context, reference string) (bool, error)
	LockStylistDay(ctx context.Context, stylistID int64, date time.Time) error
	ListStylistDay(ctx context.Context, stylistID int64, date time.Time) ([]*domain.Booking, error)
}

// ClientRepository интерфейс репозитория клиентов
type ClientRepository interface {
	Create(ctx context.Context, client *domain.Client) (*domain.Client, error)
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

// Locker блокировка на (мастер, дата) на время проверки и записи
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier асинхронная отправка подтверждения. Не блокирует и не возвращает ошибок.
type Notifier interface {
	NotifyBookingCreated(booking *domain.Booking, salon *domain.Salon, token string)
}

// Metrics метрики исходов бронирования
type Metrics interface {
	IncBookingOutcome(outcome string)
	ObserveLockWait(d time.Duration)
}

// ReferenceGenerator генерирует номер бронирования вида BK-YYYY-NNNNNN
type ReferenceGenerator interface {
	Generate(year int) (string, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
