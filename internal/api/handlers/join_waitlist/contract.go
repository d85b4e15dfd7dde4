package join_waitlist

import (
	"context"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

type WaitlistService interface {
	Join(ctx context.Context, userID, slotID int64) (*domain.WaitlistEntry, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
