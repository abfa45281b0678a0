package scheduling

import "errors"

var (
	// ErrInvalidGrid некорректная конфигурация сетки слотов
	ErrInvalidGrid = errors.New("scheduling: invalid slot grid")
	// ErrMalformedBookingTime у существующей записи время не разбирается
	ErrMalformedBookingTime = errors.New("scheduling: malformed stored booking time")
)
