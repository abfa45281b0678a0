package create_booking

import "errors"

var (
	// ErrSalonNotFound возвращается, когда салон не найден
	ErrSalonNotFound = errors.New("create_booking: salon not found")

	// ErrServiceNotFound возвращается, когда услуга не найдена в салоне
	ErrServiceNotFound = errors.New("create_booking: service not found")

	// ErrStylistNotFound возвращается, когда мастер не найден в салоне
	ErrStylistNotFound = errors.New("create_booking: stylist not found")

	// ErrSlotNotAvailable возвращается, когда время пересекается с существующей записью
	ErrSlotNotAvailable = errors.New("create_booking: slot is not available")

	// ErrOutsideAvailability возвращается, когда время вне рабочих окон мастера
	ErrOutsideAvailability = errors.New("create_booking: time is outside stylist availability")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("create_booking: invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_booking: internal error")

	// errReferenceCollision номер заняли между проверкой и вставкой, транзакция повторяется
	errReferenceCollision = errors.New("create_booking: reference collision on insert")
)

// Исходы для метрик
const (
	outcomeCreated  = "created"
	outcomeConflict = "slot_unavailable"
	outcomeOutside  = "outside_availability"
	outcomeInvalid  = "invalid"
	outcomeNotFound = "not_found"
	outcomeError    = "error"
)
