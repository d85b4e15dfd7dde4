package get_event_participants

import (
	"context"

	"github.com/nextsteppro/NSP-BookingService/internal/service/events/models"
)

type EventsService interface {
	Participants(ctx context.Context, id int64) (*models.EventParticipantsResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
