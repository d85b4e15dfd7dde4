package reservations

import (
	"context"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// ReservationRepository интерфейс репозитория броней
type ReservationRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Reservation, error)
	ListByUserID(ctx context.Context, userID int64) ([]*domain.Reservation, error)
	Cancel(ctx context.Context, id int64, cancelledBy *int64) error
}

// TimeSlotRepository интерфейс репозитория слотов
type TimeSlotRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.TimeSlot, error)
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.TimeSlot, error)
}

// WaitlistPromoter уведомляет очередь слота об освободившемся месте
type WaitlistPromoter interface {
	PromoteNext(ctx context.Context, slot *domain.TimeSlot)
}

// Notifier интерфейс сервиса уведомлений
type Notifier interface {
	ReservationCancelled(userID int64, slot *domain.TimeSlot)
	ReservationCancelledByAdmin(userID int64, slot *domain.TimeSlot, reason string)
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
