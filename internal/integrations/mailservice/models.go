package mailservice

// NotificationType тип уведомления, определяет шаблон письма на стороне MailService
type NotificationType string

const (
	// TypeReservationConfirmed бронь слота подтверждена
	TypeReservationConfirmed NotificationType = "reservation_confirmed"
	// TypeReservationCancelled бронь отменена самим пользователем
	TypeReservationCancelled NotificationType = "reservation_cancelled"
	// TypeReservationCancelledByAdmin бронь отменена администратором
	TypeReservationCancelledByAdmin NotificationType = "reservation_cancelled_by_admin"
	// TypeEventReservationConfirmed бронь на все дни мероприятия подтверждена
	TypeEventReservationConfirmed NotificationType = "event_reservation_confirmed"
	// TypeEventReservationCancelled бронь на дни мероприятия отменена
	TypeEventReservationCancelled NotificationType = "event_reservation_cancelled"
	// TypeSlotBlocked слот заблокирован, брони сняты
	TypeSlotBlocked NotificationType = "slot_blocked"
	// TypeSlotDeleted слот удалён, брони сняты
	TypeSlotDeleted NotificationType = "slot_deleted"
	// TypeEventDeleted мероприятие удалено, брони сняты
	TypeEventDeleted NotificationType = "event_deleted"
	// TypeWaitlistSpotAvailable в слоте освободилось место
	TypeWaitlistSpotAvailable NotificationType = "waitlist_spot_available"
)

// Notification запрос на отправку уведомления
type Notification struct {
	Type      NotificationType  `json:"type"`
	UserID    int64             `json:"user_id"`
	Email     string            `json:"email,omitempty"`
	UserName  string            `json:"user_name,omitempty"`
	Locale    string            `json:"locale,omitempty"`
	Variables map[string]string `json:"variables,omitempty"`
}

// ErrorResponse модель ошибки от MailService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
