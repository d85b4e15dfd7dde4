package domain

import "time"

// WaitlistEntry represents a queue position for a full time slot
//
// Позиции плотные и начинаются с 1 для каждого слота: после выхода
// участника из очереди позиции последующих записей уменьшаются на 1.
type WaitlistEntry struct {
	ID         int64
	UserID     int64
	TimeSlotID int64
	Position   int
	// NotifiedAt время отправки уведомления об освободившемся месте.
	// nil - участник ещё не уведомлялся. Уведомление не создает бронь:
	// участник бронирует сам через обычный протокол.
	NotifiedAt *time.Time

	CreatedAt time.Time
}

// WasNotified returns true if the entry has been promoted (notified)
func (w *WaitlistEntry) WasNotified() bool {
	return w.NotifiedAt != nil
}
