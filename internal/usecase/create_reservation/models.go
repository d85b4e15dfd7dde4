package create_reservation

import (
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// Request модель запроса на бронирование слота
type Request struct {
	UserID       int64   // ID пользователя
	TimeSlotID   int64   // ID слота
	Participants int     // Число участников, которое занимает бронь
	Comment      *string // Комментарий к брони (опционально)
}

// Response модель ответа с созданной бронью
type Response struct {
	ID           int64     // ID брони
	UserID       int64     // ID пользователя
	TimeSlotID   int64     // ID слота
	Status       string    // Статус брони
	Participants int       // Число участников
	Comment      *string   // Комментарий
	Reactivated  bool      // true, если реактивирована отменённая бронь
	SpotsLeft    int       // Свободных мест в слоте после брони
	CreatedAt    time.Time // Время создания
}

func buildResponse(res *domain.Reservation, reactivated bool, spotsLeft int) *Response {
	return &Response{
		ID:           res.ID,
		UserID:       res.UserID,
		TimeSlotID:   res.TimeSlotID,
		Status:       string(res.Status),
		Participants: res.Participants,
		Comment:      res.Comment,
		Reactivated:  reactivated,
		SpotsLeft:    spotsLeft,
		CreatedAt:    res.CreatedAt,
	}
}
