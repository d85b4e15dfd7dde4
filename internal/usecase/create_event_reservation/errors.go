package create_event_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrEventNotFound возвращается, когда мероприятие не найдено
	ErrEventNotFound = errors.New("event not found")

	// ErrEventInactive возвращается при бронировании неактивного мероприятия
	ErrEventInactive = errors.New("event is not active")

	// ErrNoAvailableSlots возвращается, когда у мероприятия не осталось
	// доступных слотов
	ErrNoAvailableSlots = errors.New("event has no available slots")

	// ErrBookingWindowClosed возвращается, когда до начала мероприятия
	// осталось меньше окна бронирования
	ErrBookingWindowClosed = errors.New("booking window closed")

	// ErrAlreadyReserved возвращается, когда у пользователя уже есть
	// подтверждённые брони на все слоты мероприятия
	ErrAlreadyReserved = errors.New("user already reserved the event")

	// ErrNotEnoughSpots возвращается, когда хотя бы в одном слоте
	// мероприятия не хватает мест
	ErrNotEnoughSpots = errors.New("not enough spots in event slots")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
