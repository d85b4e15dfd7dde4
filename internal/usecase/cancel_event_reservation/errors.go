package cancel_event_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrEventNotFound возвращается, когда мероприятие не найдено
	ErrEventNotFound = errors.New("event not found")

	// ErrReservationNotFound возвращается, когда у пользователя нет
	// подтверждённых броней на мероприятие
	ErrReservationNotFound = errors.New("no confirmed reservations for event")

	// ErrCancellationWindowClosed возвращается, когда до начала
	// мероприятия осталось меньше окна отмены
	ErrCancellationWindowClosed = errors.New("cancellation window closed")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
