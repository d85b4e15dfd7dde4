package cancel_event_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	eventRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/event"
	reservationRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/reservation"
)

// Request модель запроса на отмену броней мероприятия
type Request struct {
	UserID  int64 // ID пользователя
	EventID int64 // ID мероприятия
	AdminID int64 // ID администратора при админской отмене, 0 иначе
}

// Response модель ответа с отменёнными бронями
type Response struct {
	EventID        int64   // ID мероприятия
	ReservationIDs []int64 // ID отменённых броней
}

// UseCase use case отмены броней мероприятия.
// Брони пользователя снимаются со всех дней мероприятия разом.
type UseCase struct {
	eventRepo       EventRepository
	timeSlotRepo    TimeSlotRepository
	reservationRepo ReservationRepository
	promoter        WaitlistPromoter
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	window          time.Duration
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	eventRepo EventRepository,
	timeSlotRepo TimeSlotRepository,
	reservationRepo ReservationRepository,
	promoter WaitlistPromoter,
	notifier Notifier,
	txManager TransactionManager,
	window time.Duration,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventRepo:       eventRepo,
		timeSlotRepo:    timeSlotRepo,
		reservationRepo: reservationRepo,
		promoter:        promoter,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    &RealTimeProvider{},
		window:          window,
		logger:          logger,
	}
}

// Execute отменяет все подтверждённые брони пользователя на мероприятие.
// Пользовательская отмена подчиняется окну отмены по началу мероприятия,
// административная (AdminID > 0) проходит без ограничения по времени.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CancelEventReservation: user=%d, event=%d, admin=%d", req.UserID, req.EventID, req.AdminID)

	if req.UserID <= 0 {
		return nil, fmt.Errorf("%w: userID must be positive", ErrInvalidInput)
	}
	if req.EventID <= 0 {
		return nil, fmt.Errorf("%w: eventID must be positive", ErrInvalidInput)
	}

	isAdmin := req.AdminID > 0

	var result *Response
	var freedSlots []*domain.TimeSlot
	var cancelledEvent *domain.Event

	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		event, err := uc.eventRepo.GetByID(txCtx, req.EventID)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				uc.logger.Warn("CancelEventReservation: event id=%d not found", req.EventID)
				return ErrEventNotFound
			}
			uc.logger.Error("CancelEventReservation: failed to get event id=%d: %v", req.EventID, err)
			return fmt.Errorf("%w: failed to get event: %v", ErrInternal, err)
		}

		cancelledEvent = event

		// Блокируем все слоты мероприятия в стабильном порядке
		slots, err := uc.timeSlotRepo.ListByEventID(txCtx, req.EventID, true)
		if err != nil {
			uc.logger.Error("CancelEventReservation: failed to list slots for event=%d: %v", req.EventID, err)
			return fmt.Errorf("%w: failed to list slots: %v", ErrInternal, err)
		}

		// Окно отмены проверяем после захвата блокировок: пока
		// транзакция ждала, окно могло закрыться
		if !isAdmin && event.StartsAt().Before(uc.timeProvider.Now().Add(uc.window)) {
			uc.logger.Warn("CancelEventReservation: window closed for event id=%d, starts at %s",
				req.EventID, event.StartsAt())
			return ErrCancellationWindowClosed
		}

		var cancelledBy *int64
		if isAdmin {
			cancelledBy = &req.AdminID
		}

		result = &Response{
			EventID:        req.EventID,
			ReservationIDs: make([]int64, 0, len(slots)),
		}

		for _, slot := range slots {
			res, err := uc.reservationRepo.GetByUserAndSlot(txCtx, req.UserID, slot.ID)
			if err != nil {
				if errors.Is(err, reservationRepo.ErrReservationNotFound) {
					continue
				}
				uc.logger.Error("CancelEventReservation: failed to get reservation for slot=%d: %v", slot.ID, err)
				return fmt.Errorf("%w: failed to get reservation: %v", ErrInternal, err)
			}
			if !res.IsConfirmed() {
				continue
			}

			if err := uc.reservationRepo.Cancel(txCtx, res.ID, cancelledBy); err != nil {
				uc.logger.Error("CancelEventReservation: failed to cancel reservation id=%d: %v", res.ID, err)
				return fmt.Errorf("%w: failed to cancel reservation: %v", ErrInternal, err)
			}

			result.ReservationIDs = append(result.ReservationIDs, res.ID)
			freedSlots = append(freedSlots, slot)
		}

		if len(result.ReservationIDs) == 0 {
			uc.logger.Warn("CancelEventReservation: no confirmed reservations for user=%d, event=%d",
				req.UserID, req.EventID)
			return ErrReservationNotFound
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	// Места освободились на каждом дне - зовём очереди слотов
	for _, slot := range freedSlots {
		uc.promoter.PromoteNext(ctx, slot)
	}

	uc.notifier.EventReservationCancelled(req.UserID, cancelledEvent)

	uc.logger.Info("CancelEventReservation: cancelled %d reservations for user=%d, event=%d",
		len(result.ReservationIDs), req.UserID, req.EventID)
	return result, nil
}
