package create_event_reservation

import (
	"context"

	createEventReservation "github.com/nextsteppro/NSP-BookingService/internal/usecase/create_event_reservation"
)

type CreateEventReservationUseCase interface {
	Execute(ctx context.Context, req *createEventReservation.Request) (*createEventReservation.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
