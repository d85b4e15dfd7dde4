package create_reservation

import (
	"time"

	createReservation "github.com/nextsteppro/NSP-BookingService/internal/usecase/create_reservation"
)

// CreateReservationRequest HTTP запрос на бронирование слота
type CreateReservationRequest struct {
	TimeSlotID   int64   `json:"timeSlotId"`
	Participants int     `json:"participants"`
	Comment      *string `json:"comment,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateReservationRequest) ToUseCaseRequest(userID int64) *createReservation.Request {
	return &createReservation.Request{
		UserID:       userID,
		TimeSlotID:   r.TimeSlotID,
		Participants: r.Participants,
		Comment:      r.Comment,
	}
}

// CreateReservationResponse HTTP ответ с созданной бронью
type CreateReservationResponse struct {
	ID           int64     `json:"id"`
	TimeSlotID   int64     `json:"timeSlotId"`
	Status       string    `json:"status"`
	Participants int       `json:"participants"`
	Comment      *string   `json:"comment,omitempty"`
	Reactivated  bool      `json:"reactivated"`
	SpotsLeft    int       `json:"spotsLeft"`
	CreatedAt    time.Time `json:"createdAt"`
}

// FromUseCaseResponse конвертирует ответ use case в HTTP ответ
func FromUseCaseResponse(res *createReservation.Response) *CreateReservationResponse {
	return &CreateReservationResponse{
		ID:           res.ID,
		TimeSlotID:   res.TimeSlotID,
		Status:       res.Status,
		Participants: res.Participants,
		Comment:      res.Comment,
		Reactivated:  res.Reactivated,
		SpotsLeft:    res.SpotsLeft,
		CreatedAt:    res.CreatedAt,
	}
}
