package catalog

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/domain"
)

// CatalogRepository интерфейс репозитория каталога салона
type CatalogRepository interface {
	GetSalon(ctx context.Context, id int64) (*domain.Salon, error)
	ListServices(ctx context.Context, salonID int64) ([]*domain.Service, error)
	ListStylists(ctx context.Context, salonID int64) ([]*domain.Stylist, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
