package capacity

import (
	"context"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	SumConfirmedBySlotID(ctx context.Context, slotID int64) (int, error)
	SumConfirmedBySlotIDs(ctx context.Context, slotIDs []int64) (map[int64]int, error)
}

// TimeSlotRepository интерфейс репозитория слотов
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	ListByEventID(ctx context.Context, eventID int64, forUpdate bool) ([]*domain.TimeSlot, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
