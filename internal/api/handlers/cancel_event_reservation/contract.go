package cancel_event_reservation

import (
	"context"

	cancelEventReservation "github.com/nextsteppro/NSP-BookingService/internal/usecase/cancel_event_reservation"
)

type CancelEventReservationUseCase interface {
	Execute(ctx context.Context, req *cancelEventReservation.Request) (*cancelEventReservation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
