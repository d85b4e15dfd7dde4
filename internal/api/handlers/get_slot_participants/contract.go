package get_slot_participants

import (
	"context"

	"github.com/nextsteppro/NSP-BookingService/internal/service/slots/models"
)

type SlotsService interface {
	Participants(ctx context.Context, id int64) (*models.ParticipantsListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
