package get_events

import (
	"context"

	"github.com/nextsteppro/NSP-BookingService/internal/service/events/models"
)

type EventsService interface {
	List(ctx context.Context, activeOnly bool) (*models.EventListResponse, error)
	GetByID(ctx context.Context, id int64) (*models.EventResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
