package events

import (
	"context"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// EventRepository интерфейс репозитория мероприятий
type EventRepository interface {
	Create(ctx context.Context, event *domain.Event) (*domain.Event, error)
	GetByID(ctx context.Context, id int64) (*domain.Event, error)
	List(ctx context.Context, activeOnly bool) ([]*domain.Event, error)
	Update(ctx context.Context, event *domain.Event) error
	Delete(ctx context.Context, id int64) error
}

// TimeSlotRepository интерфейс репозитория слотов
type TimeSlotRepository interface {
	ListByEventID(ctx context.Context, eventID int64, forUpdate bool) ([]*domain.TimeSlot, error)
}

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	ListConfirmedBySlotIDs(ctx context.Context, slotIDs []int64) ([]*domain.Reservation, error)
	SumConfirmedBySlotIDs(ctx context.Context, slotIDs []int64) (map[int64]int, error)
}

// SlotExpander разворачивает мероприятие в слоты по дням
type SlotExpander interface {
	EnsureSlots(ctx context.Context, event *domain.Event, forUpdate bool) ([]*domain.TimeSlot, error)
}

// Notifier интерфейс сервиса уведомлений
type Notifier interface {
	EventDeleted(userIDs []int64, event *domain.Event)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
