package notification

import "errors"

var (
	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("notification client: internal error")

	// ErrInvalidResponse возвращается при неожиданном ответе получателя
	ErrInvalidResponse = errors.New("notification client: invalid response")

	// ErrRejected возвращается, когда получатель отклонил уведомление (4xx)
	ErrRejected = errors.New("notification client: notification rejected")

	// ErrPublish возвращается при ошибке публикации события
	ErrPublish = errors.New("notification client: failed to publish event")
)
