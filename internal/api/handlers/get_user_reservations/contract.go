package get_user_reservations

import (
	"context"

	"github.com/nextsteppro/NSP-BookingService/internal/service/reservations/models"
)

type ReservationsService interface {
	UserReservations(ctx context.Context, userID int64) (*models.UserReservationsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
