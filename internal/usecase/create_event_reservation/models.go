package create_event_reservation

// Request модель запроса на бронирование мероприятия
type Request struct {
	UserID       int64   // ID пользователя
	EventID      int64   // ID мероприятия
	Participants int     // Число участников на каждый день
	Comment      *string // Комментарий к броням (опционально)
}

// Response модель ответа с созданными бронями
type Response struct {
	EventID        int64   // ID мероприятия
	UserID         int64   // ID пользователя
	Participants   int     // Число участников
	ReservationIDs []int64 // ID броней по дням мероприятия
	SlotIDs        []int64 // ID забронированных слотов
}
