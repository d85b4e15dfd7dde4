package slots

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("time slot not found")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrAlreadyBlocked возвращается при блокировке уже заблокированного слота
	ErrAlreadyBlocked = errors.New("time slot already blocked")

	// ErrNotBlocked возвращается при разблокировке незаблокированного слота
	ErrNotBlocked = errors.New("time slot is not blocked")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
