package create_reservation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	reservationRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/reservation"
	slotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
	waitlistRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/waitlist"
)

// UseCase use case бронирования одиночного слота
type UseCase struct {
	reservationRepo ReservationRepository
	timeSlotRepo    TimeSlotRepository
	waitlistRepo    WaitlistRepository
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
	window          time.Duration
	maxCommentLen   int
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	reservationRepo ReservationRepository,
	timeSlotRepo TimeSlotRepository,
	waitlistRepo WaitlistRepository,
	txManager TransactionManager,
	notifier Notifier,
	window time.Duration,
	maxCommentLen int,
	logger Logger,
) *UseCase {
	return &UseCase{
		reservationRepo: reservationRepo,
		timeSlotRepo:    timeSlotRepo,
		waitlistRepo:    waitlistRepo,
		txManager:       txManager,
		notifier:        notifier,
		timeProvider:    &RealTimeProvider{},
		window:          window,
		maxCommentLen:   maxCommentLen,
		logger:          logger,
	}
}

// Execute выполняет бронирование слота.
// Использует сериализуемую транзакцию с блокировкой слота, чтобы
// вместимость не была превышена при гонке параллельных бронирований.
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("CreateReservation: user=%d, slot=%d, participants=%d",
		req.UserID, req.TimeSlotID, req.Participants)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("CreateReservation: validation failed: %v", err)
		return nil, err
	}

	var result *Response
	var bookedSlot *domain.TimeSlot

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Блокируем слот (FOR UPDATE)
		slot, err := uc.timeSlotRepo.GetByIDForUpdate(txCtx, req.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				uc.logger.Warn("CreateReservation: slot id=%d not found", req.TimeSlotID)
				return ErrSlotNotFound
			}
			uc.logger.Error("CreateReservation: failed to get slot id=%d: %v", req.TimeSlotID, err)
			return fmt.Errorf("%w: failed to get slot: %v", ErrInternal, err)
		}

		bookedSlot = slot

		// 2.2. Заблокированный слот недоступен для бронирования
		if slot.Blocked {
			uc.logger.Warn("CreateReservation: slot id=%d is blocked", req.TimeSlotID)
			return ErrSlotBlocked
		}

		// 2.3. Проверяем окно бронирования.
		// Время берём после захвата блокировки: пока транзакция ждала,
		// окно могло закрыться. Граница включительная: слот,
		// начинающийся ровно через окно, ещё доступен.
		now := uc.timeProvider.Now()
		if slot.StartsAt().Before(now) {
			uc.logger.Warn("CreateReservation: slot id=%d already started at %s", req.TimeSlotID, slot.StartsAt())
			return ErrSlotStarted
		}
		if slot.StartsAt().Before(now.Add(uc.window)) {
			uc.logger.Warn("CreateReservation: window closed for slot id=%d, starts at %s",
				req.TimeSlotID, slot.StartsAt())
			return ErrBookingWindowClosed
		}

		// 2.4. Проверяем существующую бронь пары (user, slot)
		existing, err := uc.reservationRepo.GetByUserAndSlot(txCtx, req.UserID, req.TimeSlotID)
		if err != nil && !errors.Is(err, reservationRepo.ErrReservationNotFound) {
			uc.logger.Error("CreateReservation: failed to get existing reservation: %v", err)
			return fmt.Errorf("%w: failed to get existing reservation: %v", ErrInternal, err)
		}

		if existing != nil && existing.IsConfirmed() {
			uc.logger.Warn("CreateReservation: user=%d already reserved slot=%d", req.UserID, req.TimeSlotID)
			return ErrAlreadyReserved
		}

		// 2.5. Проверяем вместимость
		occupied, err := uc.reservationRepo.SumConfirmedBySlotID(txCtx, req.TimeSlotID)
		if err != nil {
			uc.logger.Error("CreateReservation: failed to count occupied: %v", err)
			return fmt.Errorf("%w: failed to count occupied: %v", ErrInternal, err)
		}

		free := slot.MaxParticipants - occupied
		if free <= 0 {
			uc.logger.Warn("CreateReservation: slot=%d is full: occupied=%d, max=%d",
				req.TimeSlotID, occupied, slot.MaxParticipants)
			return ErrSlotFull
		}
		if req.Participants > free {
			uc.logger.Warn("CreateReservation: not enough spots in slot=%d: occupied=%d, requested=%d, max=%d",
				req.TimeSlotID, occupied, req.Participants, slot.MaxParticipants)
			return fmt.Errorf("%w: only %d spots left", ErrNotEnoughSpots, free)
		}

		comment := domain.SanitizeComment(req.Comment, uc.maxCommentLen)

		// 2.6. Реактивируем отменённую бронь или создаем новую
		if existing != nil {
			if err := uc.reservationRepo.Reactivate(txCtx, existing.ID, req.Participants, comment); err != nil {
				uc.logger.Error("CreateReservation: failed to reactivate reservation id=%d: %v", existing.ID, err)
				return fmt.Errorf("%w: failed to reactivate reservation: %v", ErrInternal, err)
			}

			existing.Status = domain.StatusConfirmed
			existing.Participants = req.Participants
			existing.Comment = comment
			existing.CancelledBy = nil
			existing.CancelledAt = nil

			result = buildResponse(existing, true, slot.MaxParticipants-occupied-req.Participants)
		} else {
			created, err := uc.reservationRepo.Create(txCtx, &domain.Reservation{
				UserID:       req.UserID,
				TimeSlotID:   req.TimeSlotID,
				Status:       domain.StatusConfirmed,
				Participants: req.Participants,
				Comment:      comment,
			})
			if err != nil {
				uc.logger.Error("CreateReservation: failed to create reservation: %v", err)
				return fmt.Errorf("%w: failed to create reservation: %v", ErrInternal, err)
			}

			result = buildResponse(created, false, slot.MaxParticipants-occupied-req.Participants)
		}

		// 2.7. Пользователь получил место - убираем его из очереди слота
		if err := uc.leaveWaitlist(txCtx, req.UserID, req.TimeSlotID); err != nil {
			return err
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	uc.notifier.ReservationConfirmed(req.UserID, bookedSlot, req.Participants)

	uc.logger.Info("CreateReservation: reservation id=%d confirmed for user=%d, slot=%d (reactivated=%t)",
		result.ID, req.UserID, req.TimeSlotID, result.Reactivated)
	return result, nil
}

func (uc *UseCase) leaveWaitlist(ctx context.Context, userID, slotID int64) error {
	entry, err := uc.waitlistRepo.GetByUserAndSlot(ctx, userID, slotID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return nil
		}
		uc.logger.Error("CreateReservation: failed to get waitlist entry: %v", err)
		return fmt.Errorf("%w: failed to get waitlist entry: %v", ErrInternal, err)
	}

	if err := uc.waitlistRepo.Delete(ctx, entry.ID); err != nil {
		uc.logger.Error("CreateReservation: failed to delete waitlist entry id=%d: %v", entry.ID, err)
		return fmt.Errorf("%w: failed to delete waitlist entry: %v", ErrInternal, err)
	}

	if err := uc.waitlistRepo.DecrementPositionsAfter(ctx, slotID, entry.Position); err != nil {
		uc.logger.Error("CreateReservation: failed to compact waitlist for slot=%d: %v", slotID, err)
		return fmt.Errorf("%w: failed to compact waitlist: %v", ErrInternal, err)
	}

	return nil
}
