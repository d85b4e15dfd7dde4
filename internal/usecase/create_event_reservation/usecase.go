package create_event_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	eventRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/event"
	reservationRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/reservation"
)

// UseCase use case бронирования мероприятия целиком.
// Бронь создается на каждый день мероприятия атомарно: либо
// пользователь получает место на все доступные дни, либо ни на один.
type UseCase struct {
	eventRepo       EventRepository
	reservationRepo ReservationRepository
	expander        SlotExpander
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
	window          time.Duration
	maxCommentLen   int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	eventRepo EventRepository,
	reservationRepo ReservationRepository,
	expander SlotExpander,
	txManager TransactionManager,
	notifier Notifier,
	window time.Duration,
	maxCommentLen int,
	logger Logger,
) *UseCase {
	return &UseCase{
		eventRepo:       eventRepo,
		reservationRepo: reservationRepo,
		expander:        expander,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		window:          window,
		maxCommentLen:   maxCommentLen,
		logger:          logger,
	}
}

// Execute выполняет бронирование всех дней мероприятия.
// Слоты блокируются разом в стабильном порядке (дата, время, id) внутри
// одной сериализуемой транзакции, поэтому частичных бронирований и
// взаимных блокировок с параллельными запросами не возникает.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateEventReservation: user=%d, event=%d, participants=%d",
		req.UserID, req.EventID, req.Participants)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateEventReservation: validation failed: %v", err)
		return nil, err
	}

	var result *Response
	var bookedEvent *domain.Event

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем мероприятие
		event, err := uc.eventRepo.GetByID(txCtx, req.EventID)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				uc.logger.Warn("CreateEventReservation: event id=%d not found", req.EventID)
				return ErrEventNotFound
			}
			uc.logger.Error("CreateEventReservation: failed to get event id=%d: %v", req.EventID, err)
			return fmt.Errorf("%w: failed to get event: %v", ErrInternal, err)
		}

		if !event.Active {
			uc.logger.Warn("CreateEventReservation: event id=%d is inactive", req.EventID)
			return ErrEventInactive
		}

		bookedEvent = event

		// 2.2. Разворачиваем мероприятие в слоты и блокируем их все
		slots, err := uc.expander.EnsureSlots(txCtx, event, true)
		if err != nil {
			uc.logger.Error("CreateEventReservation: failed to expand event id=%d: %v", req.EventID, err)
			return fmt.Errorf("%w: failed to expand event: %v", ErrInternal, err)
		}

		// 2.3. Проверяем окно бронирования по началу мероприятия.
		// Время берём после захвата блокировок: пока транзакция ждала,
		// окно могло закрыться.
		now := uc.timeProvider.Now()
		if event.StartsAt().Before(now.Add(uc.window)) {
			uc.logger.Warn("CreateEventReservation: window closed for event id=%d, starts at %s",
				req.EventID, event.StartsAt())
			return ErrBookingWindowClosed
		}

		// Заблокированные администратором и уже начавшиеся дни
		// из брони исключаются
		active := make([]*domain.TimeSlot, 0, len(slots))
		for _, slot := range slots {
			if slot.Blocked || slot.StartsAt().Before(now) {
				continue
			}
			active = append(active, slot)
		}
		if len(active) == 0 {
			uc.logger.Warn("CreateEventReservation: event id=%d has no available slots", req.EventID)
			return ErrNoAvailableSlots
		}

		// 2.4. Проверяем каждый день до первой записи:
		// либо место есть везде, либо бронирование не происходит вовсе
		type slotPlan struct {
			slot     *domain.TimeSlot
			existing *domain.Reservation
		}
		plans := make([]slotPlan, 0, len(active))

		for _, slot := range active {
			existing, err := uc.reservationRepo.GetByUserAndSlot(txCtx, req.UserID, slot.ID)
			if err != nil && !errors.Is(err, reservationRepo.ErrReservationNotFound) {
				uc.logger.Error("CreateEventReservation: failed to get existing reservation: %v", err)
				return fmt.Errorf("%w: failed to get existing reservation: %v", ErrInternal, err)
			}

			// Подтверждённая бронь хотя бы на один день - повторная
			// запись на мероприятие не допускается
			if existing != nil && existing.IsConfirmed() {
				uc.logger.Warn("CreateEventReservation: user=%d already reserved slot=%d of event=%d",
					req.UserID, slot.ID, req.EventID)
				return ErrAlreadyReserved
			}

			occupied, err := uc.reservationRepo.SumConfirmedBySlotID(txCtx, slot.ID)
			if err != nil {
				uc.logger.Error("CreateEventReservation: failed to count occupied for slot=%d: %v", slot.ID, err)
				return fmt.Errorf("%w: failed to count occupied: %v", ErrInternal, err)
			}
			if occupied+req.Participants > slot.MaxParticipants {
				uc.logger.Warn("CreateEventReservation: not enough spots in slot=%d: occupied=%d, requested=%d, max=%d",
					slot.ID, occupied, req.Participants, slot.MaxParticipants)
				return ErrNotEnoughSpots
			}

			plans = append(plans, slotPlan{slot: slot, existing: existing})
		}

		comment := domain.SanitizeComment(req.Comment, uc.maxCommentLen)

		// 2.5. Создаем или реактивируем бронь на каждый день
		result = &Response{
			EventID:        req.EventID,
			UserID:         req.UserID,
			Participants:   req.Participants,
			ReservationIDs: make([]int64, 0, len(plans)),
			SlotIDs:        make([]int64, 0, len(plans)),
		}

		for _, plan := range plans {
			switch {
			case plan.existing != nil:
				if err := uc.reservationRepo.Reactivate(txCtx, plan.existing.ID, req.Participants, comment); err != nil {
					uc.logger.Error("CreateEventReservation: failed to reactivate reservation id=%d: %v", plan.existing.ID, err)
					return fmt.Errorf("%w: failed to reactivate reservation: %v", ErrInternal, err)
				}
				result.ReservationIDs = append(result.ReservationIDs, plan.existing.ID)

			default:
				created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
					UserID:       req.UserID,
					TimeSlotID:   plan.slot.ID,
					Status:       domain.StatusConfirmed,
					Participants: req.Participants,
					Comment:      comment,
				})
				if err != nil {
					uc.logger.Error("CreateEventReservation: failed to create reservation for slot=%d: %v", plan.slot.ID, err)
					return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
				}
				result.ReservationIDs = append(result.ReservationIDs, created.ID)
			}

			result.SlotIDs = append(result.SlotIDs, plan.slot.ID)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.notifier.EventReservationConfirmed(req.UserID, bookedEvent, len(result.SlotIDs))

	uc.logger.Info("CreateEventReservation: user=%d reserved event=%d across %d slots",
		req.UserID, req.EventID, len(result.SlotIDs))
	return result, nil
}
