package create_event_reservation

import (
	"context"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// EventRepository интерфейс репозитория мероприятий
type EventRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
}

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	Create(ctx context.Context, res *domain.Reservation) (*domain.Reservation, error)
	GetByUserAndSlot(ctx context.Context, userID, slotID int64) (*domain.Reservation, error)
	Reactivate(ctx context.Context, id int64, participants int, comment *string) error
	SumConfirmedBySlotID(ctx context.Context, slotID int64) (int, error)
}

// SlotExpander разворачивает мероприятие в слоты по дням
type SlotExpander interface {
	EnsureSlots(ctx context.Context, event *domain.Event, forUpdate bool) ([]*domain.TimeSlot, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс сервиса уведомлений
type Notifier interface {
	EventReservationConfirmed(userID int64, event *domain.Event, days int)
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
