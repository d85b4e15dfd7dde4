package get_slots

import (
	"context"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/service/slots/models"
)

type SlotsService interface {
	ListByDateRange(ctx context.Context, from, to time.Time) (*models.SlotListResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
