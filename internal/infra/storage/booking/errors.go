package booking

import "errors"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrTokenNotMatched токен не совпал, истёк или уже использован
	ErrTokenNotMatched = errors.New("booking.repository: token not matched")

	// ErrDuplicateReference номер бронирования уже занят
	ErrDuplicateReference = errors.New("booking.repository: duplicate booking reference")

	// ErrTransaction возвращается при вызове, требующем транзакцию, вне её
	ErrTransaction = errors.New("booking.repository: transaction required")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")
)
