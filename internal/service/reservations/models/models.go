package models

import (
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// ReservationResponse бронь вместе с данными слота
type ReservationResponse struct {
	ID           int64      `json:"id"`
	TimeSlotID   int64      `json:"timeSlotId"`
	EventID      *int64     `json:"eventId,omitempty"`
	Date         string     `json:"date"`
	StartTime    string     `json:"startTime"`
	EndTime      string     `json:"endTime"`
	SlotTitle    *string    `json:"slotTitle,omitempty"`
	Status       string     `json:"status"`
	Participants int        `json:"participants"`
	Comment      *string    `json:"comment,omitempty"`
	CancelledAt  *time.Time `json:"cancelledAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

// ReservationGroup брони, разделённые на предстоящие и прошедшие
type ReservationGroup struct {
	Upcoming []ReservationResponse `json:"upcoming"`
	Past     []ReservationResponse `json:"past"`
}

// UserReservationsResponse брони пользователя, разделённые на одиночные
// слоты и слоты мероприятий
type UserReservationsResponse struct {
	Slots  ReservationGroup `json:"slots"`
	Events ReservationGroup `json:"events"`
}

// FromDomain собирает ответ из брони и её слота
func FromDomain(res *domain.Reservation, slot *domain.TimeSlot) ReservationResponse {
	return ReservationResponse{
		ID:           res.ID,
		TimeSlotID:   res.TimeSlotID,
		EventID:      slot.EventID,
		Date:         slot.Date.Format(domain.DateFormat),
		StartTime:    slot.StartTime.String(),
		EndTime:      slot.EndTime.String(),
		SlotTitle:    slot.Title,
		Status:       string(res.Status),
		Participants: res.Participants,
		Comment:      res.Comment,
		CancelledAt:  res.CancelledAt,
		CreatedAt:    res.CreatedAt,
	}
}
