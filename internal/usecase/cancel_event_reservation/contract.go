package cancel_event_reservation

import (
	"context"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// EventRepository интерфейс репозитория мероприятий
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
}

// TimeSlotRepository интерфейс репозитория слотов
type TimeSlotRepository interface {
	ListByEventID(ctx context.Context, eventID int64, forUpdate bool) ([]*domain.TimeSlot, error)
}

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	GetByUserAndSlot(ctx context.Context, userID, slotID int64) (*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, cancelledBy *int64) error
}

// WaitlistPromoter уведомляет очередь слота об освободившемся месте
type WaitlistPromoter interface {
	PromoteNext(ctx context.Context, slot *domain.TimeSlot)
}

// Notifier интерфейс сервиса уведомлений
type Notifier interface {
	EventReservationCancelled(userID int64, event *domain.Event)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
