package bookings

import (
	"context"
	"time"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ListBySalon(ctx context.Context, filter domain.SalonBookingsFilter) ([]*domain.Booking, error)
	UpdateStatus(ctx context.Context, id, salonID int64, status domain.BookingStatus) error
	UpdateCompletion(ctx context.Context, id, salonID int64, status domain.BookingStatus, finalPrice *int64) error
	ConfirmByToken(ctx context.Context, id int64, token string, now time.Time) error
	CancelByToken(ctx context.Context, id int64, token string, now time.Time) error

	// LockStylistDay и ListStylistDay нужны для проверки пересечений при возврате отменённой записи
	LockStylistDay(ctx context.Context, stylistID int64, date time.Time) error
	ListStylistDay(ctx context.Context, stylistID int64, date time.Time) ([]*domain.Booking, error)
}

// ConflictDetector проверка пересечения интервала с записями мастера
type ConflictDetector interface {
	HasConflict(startMinutes, durationMinutes int, existing []*domain.Booking) (bool, error)
}

// Locker блокировка на (мастер, дата), общая с созданием бронирований
type Locker interface {
	Lock(ctx context.Context, key string) (unlock func(), err error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
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
