package userservice

// User профиль пользователя из UserService
type User struct {
	ID        int64  `json:"id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
	Locale    string `json:"locale"`
	// Notifications nil трактуется как согласие: старые профили
	// в UserService поля не имеют
	Notifications *bool `json:"notifications_enabled"`
}

// NotificationsEnabled сообщает, согласен ли пользователь получать письма
func (u *User) NotificationsEnabled() bool {
	return u.Notifications == nil || *u.Notifications
}

// FullName возвращает имя для подстановки в уведомления
func (u *User) FullName() string {
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// ErrorResponse модель ошибки от UserService
type ErrorResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}
