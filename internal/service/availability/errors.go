package availability

import "errors"

var (
	// ErrStylistNotFound возвращается, когда мастер не найден в салоне
	ErrStylistNotFound = errors.New("availability: stylist not found")

	// ErrInvalidInput возвращается при некорректных окнах доступности
	ErrInvalidInput = errors.New("availability: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("availability: internal error")
)
