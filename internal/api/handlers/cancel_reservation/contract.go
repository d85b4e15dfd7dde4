package cancel_reservation

import "context"

type ReservationsService interface {
	Cancel(ctx context.Context, reservationID, actorID int64, isAdmin bool, reason string) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
