package create_booking

import (
	"fmt"
	"strings"
	"time"

	"github.com/m04kA/SMC-SalonBooking/pkg/types"
	"github.com/m04kA/SMC-SalonBooking/pkg/validator"
)

// validateRequest валидирует входные данные запроса и возвращает время начала в минутах
func validateRequest(req *Request) (int, error) {
	if fields := validator.Validate(req); fields != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidInput, fields)
	}

	if req.Date.IsZero() {
		return 0, fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	// Нужен хотя бы один способ связи
	if isBlank(req.Client.Email) && isBlank(req.Client.Phone) {
		return 0, fmt.Errorf("%w: email or phone is required", ErrInvalidInput)
	}

	startMinutes, err := types.ToMinutes(req.Time)
	if err != nil {
		return 0, fmt.Errorf("%w: invalid time: %v", ErrInvalidInput, err)
	}

	return startMinutes, nil
}

// normalizeDate отбрасывает время суток, оставляя календарную дату в UTC
func normalizeDate(d time.Time) time.Time {
	return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
}

func isBlank(s *string) bool {
	return s == nil || strings.TrimSpace(*s) == ""
}

func trimmed(s *string) *string {
	if isBlank(s) {
		return nil
	}
	v := strings.TrimSpace(*s)
	return &v
}
