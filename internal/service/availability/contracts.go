package availability

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// AvailabilityRepository интерфейс репозитория окон доступности
type AvailabilityRepository interface {
	ListByStylist(ctx context.Context, stylistID int64) ([]*domain.AvailabilityWindow, error)
	ReplaceForStylist(ctx context.Context, stylistID int64, windows []*domain.AvailabilityWindow) error
}

// CatalogRepository интерфейс репозитория мастеров
type CatalogRepository interface {
	GetStylist(ctx context.Context, salonID, stylistID int64) (*domain.Stylist, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
