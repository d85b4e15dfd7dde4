package userservice

// Logger интерфейс логгера для клиента UserService
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
