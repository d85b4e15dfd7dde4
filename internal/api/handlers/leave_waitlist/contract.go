package leave_waitlist

import "context"

type WaitlistService interface {
	Leave(ctx context.Context, entryID, userID int64, isAdmin bool) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
