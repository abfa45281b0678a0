package get_availability

import (
	"context"

	"github.com/m04kA/SMC-SalonBooking/internal/service/availability/models"
)

type AvailabilityService interface {
	Get(ctx context.Context, salonID, stylistID int64) (*models.WindowsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
