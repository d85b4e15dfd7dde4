package domain

import "time"

// ReservationStatus represents the lifecycle status of a reservation
type ReservationStatus string

const (
	StatusConfirmed ReservationStatus = "confirmed"
	StatusCancelled ReservationStatus = "cancelled"
)

// Reservation represents a user's seat claim on a time slot
//
// На пару (user, slot) существует не более одной строки: повторное
// бронирование после отмены реактивирует ту же строку, отменённая
// бронь сохраняется ради уникальности и истории.
type Reservation struct {
	ID         int64
	UserID     int64
	TimeSlotID int64
	Status     ReservationStatus
	// Participants количество мест, которое занимает эта бронь
	Participants int
	Comment      *string
	// CancelledBy идентификатор администратора, отменившего бронь.
	// nil - пользователь отменил сам (или бронь не отменена).
	CancelledBy *int64
	CancelledAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsConfirmed returns true if the reservation is active
func (r *Reservation) IsConfirmed() bool {
	return r.Status == StatusConfirmed
}

// IsCancelled returns true if the reservation has been cancelled
func (r *Reservation) IsCancelled() bool {
	return r.Status == StatusCancelled
}

// IsCancelledByAdmin returns true if the cancellation was made by an
// administrator rather than the owner
func (r *Reservation) IsCancelledByAdmin() bool {
	return r.IsCancelled() && r.CancelledBy != nil
}

// SanitizeComment нормализует комментарий к брони: пустые строки
// превращаются в nil, комментарии длиннее maxLen молча обрезаются
func SanitizeComment(comment *string, maxLen int) *string {
	if comment == nil {
		return nil
	}
	trimmed := *comment
	if trimmed == "" {
		return nil
	}
	if maxLen > 0 && len([]rune(trimmed)) > maxLen {
		trimmed = string([]rune(trimmed)[:maxLen])
	}
	return &trimmed
}
