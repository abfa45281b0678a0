package notifier

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/integrations/notification"
)

// Sender канал доставки уведомлений (вебхук, Kafka)
type Sender interface {
	Name() string
	Send(ctx context.Context, confirmation *notification.Confirmation) error
}

// Metrics метрики доставки уведомлений
type Metrics interface {
	IncNotification(channel, result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
