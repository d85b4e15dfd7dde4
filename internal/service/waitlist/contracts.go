package waitlist

import (
	"context"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// WaitlistRepository интерфейс репозитория листа ожидания
type WaitlistRepository interface {
	Create(ctx context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error)
	GetByID(ctx context.Context, id int64) (*domain.WaitlistEntry, error)
	Exists(ctx context.Context, userID, slotID int64) (bool, error)
	MaxPositionBySlotID(ctx context.Context, slotID int64) (int, error)
	ListBySlotID(ctx context.Context, slotID int64) ([]*domain.WaitlistEntry, error)
	FirstUnnotifiedBySlotID(ctx context.Context, slotID int64) (*domain.WaitlistEntry, error)
	MarkNotified(ctx context.Context, id int64) error
	Delete(ctx context.Context, id int64) error
	DecrementPositionsAfter(ctx context.Context, slotID int64, position int) error
}

// TimeSlotRepository интерфейс репозитория слотов
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	ExistsConfirmed(ctx context.Context, userID, slotID int64) (bool, error)
	SumConfirmedBySlotID(ctx context.Context, slotID int64) (int, error)
}

// Notifier интерфейс сервиса уведомлений
type Notifier interface {
	WaitlistSpotAvailable(userID int64, slot *domain.TimeSlot)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
	DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error
}

// TimeProvider источник текущего времени
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
