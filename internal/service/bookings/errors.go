package bookings

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено в салоне
	ErrBookingNotFound = errors.New("bookings: booking not found")

	// ErrTokenInvalid возвращается при любой неудаче подтверждения или отмены по токену.
	// Причина (нет записи, чужой токен, истёк, уже использован) наружу не раскрывается.
	ErrTokenInvalid = errors.New("bookings: invalid or expired token")

	// ErrSlotNotAvailable возвращается, когда время отменённой записи уже занято другой
	ErrSlotNotAvailable = errors.New("bookings: slot is not available")

	// ErrInvalidStatus возвращается при попытке установить недопустимый статус
	ErrInvalidStatus = errors.New("bookings: invalid booking status")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("bookings: invalid input data")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings: internal error")
)
