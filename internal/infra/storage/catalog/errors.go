package catalog

import "errors"

var (
	// ErrSalonNotFound салон не найден
	ErrSalonNotFound = errors.New("catalog.repository: salon not found")

	// ErrServiceNotFound услуга не найдена или принадлежит другому салону
	ErrServiceNotFound = errors.New("catalog.repository: service not found")

	// ErrStylistNotFound мастер не найден или принадлежит другому салону
	ErrStylistNotFound = errors.New("catalog.repository: stylist not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("catalog.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("catalog.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("catalog.repository: failed to scan row")
)
