package mailservice

// Logger интерфейс логгера для клиента MailService
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
