package create_reservation

import "errors"

var (
	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("time slot not found")

	// ErrSlotBlocked возвращается при бронировании заблокированного слота
	ErrSlotBlocked = errors.New("time slot is blocked")

	// ErrSlotStarted возвращается при бронировании уже начавшегося слота
	ErrSlotStarted = errors.New("time slot already started")

	// ErrBookingWindowClosed возвращается, когда до начала слота
	// осталось меньше окна бронирования
	ErrBookingWindowClosed = errors.New("booking window closed")

	// ErrAlreadyReserved возвращается, когда у пользователя уже есть
	// подтверждённая бронь на слот
	ErrAlreadyReserved = errors.New("user already has a confirmed reservation")

	// ErrSlotFull возвращается, когда в слоте не осталось ни одного места
	ErrSlotFull = errors.New("time slot is full")

	// ErrNotEnoughSpots возвращается, когда свободных мест меньше,
	// чем запрошено участников
	ErrNotEnoughSpots = errors.New("not enough spots in time slot")

	// ErrInternal возвращается при внутренних ошибках
	ErrInternal = errors.New("usecase: internal error")
)
