package notify

import (
	"context"

	"github.com/nextsteppro/NSP-BookingService/internal/integrations/mailservice"
	"github.com/nextsteppro/NSP-BookingService/internal/integrations/userservice"
)

// UserServiceClient интерфейс клиента для UserService
type UserServiceClient interface {
	GetUserWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.User, error)
}

// MailServiceClient интерфейс клиента для MailService
type MailServiceClient interface {
	Send(ctx context.Context, n mailservice.Notification) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
