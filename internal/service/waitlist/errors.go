package waitlist

import "errors"

var (
	// ErrSlotNotFound возвращается, когда слот не найден
	ErrSlotNotFound = errors.New("time slot not found")

	// ErrEntryNotFound возвращается, когда запись листа ожидания не найдена
	ErrEntryNotFound = errors.New("waitlist entry not found")

	// ErrSlotBlocked возвращается при попытке встать в очередь заблокированного слота
	ErrSlotBlocked = errors.New("time slot is blocked")

	// ErrSlotStarted возвращается, когда слот уже начался
	ErrSlotStarted = errors.New("time slot already started")

	// ErrSlotNotFull возвращается, когда в слоте ещё есть свободные места
	ErrSlotNotFull = errors.New("time slot has free spots")

	// ErrAlreadyReserved возвращается, когда у пользователя уже есть
	// подтверждённая бронь на слот
	ErrAlreadyReserved = errors.New("user already has a confirmed reservation")

	// ErrAlreadyInWaitlist возвращается, когда пользователь уже стоит в очереди
	ErrAlreadyInWaitlist = errors.New("user already in waitlist")

	// ErrAccessDenied возвращается, когда у пользователя нет прав доступа
	ErrAccessDenied = errors.New("access denied")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("service: internal error")
)
