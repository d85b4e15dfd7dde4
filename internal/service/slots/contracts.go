package slots

import (
	"context"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// TimeSlotRepository интерфейс репозитория слотов
type TimeSlotRepository interface {
	Create(ctx context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error)
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error)
	ListByDateRange(ctx context.Context, from, to time.Time) ([]*domain.TimeSlot, error)
	Update(ctx context.Context, slot *domain.TimeSlot) error
	SetBlocked(ctx context.Context, id int64, blocked bool, reason *string) error
	Delete(ctx context.Context, id int64) error
}

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	ListConfirmedBySlotID(ctx context.Context, slotID int64) ([]*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, cancelledBy *int64) error
}

// Notifier интерфейс сервиса уведомлений
type Notifier interface {
	SlotBlocked(userIDs []int64, slot *domain.TimeSlot, reason string)
	SlotDeleted(userIDs []int64, slot *domain.TimeSlot)
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
