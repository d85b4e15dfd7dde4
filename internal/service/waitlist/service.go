package waitlist

import (
	"context"
	"errors"
	"fmt"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	slotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
	waitlistRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/waitlist"
)

// Service управляет листом ожидания слотов.
// Очередь каждого слота держит позиции непрерывными (1..N):
// удаление записи сдвигает все записи после неё.
type Service struct {
	waitlistRepo    WaitlistRepository
	timeSlotRepo    TimeSlotRepository
	reservationRepo ReservationRepository
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	logger          Logger
}

// NewService создает новый экземпляр сервиса листа ожидания
func NewService(
	waitlistRepo WaitlistRepository,
	timeSlotRepo TimeSlotRepository,
	reservationRepo ReservationRepository,
	notifier Notifier,
	txManager TransactionManager,
	timeProvider TimeProvider,
	logger Logger,
) *Service {
	return &Service{
		waitlistRepo:    waitlistRepo,
		timeSlotRepo:    timeSlotRepo,
		reservationRepo: reservationRepo,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    timeProvider,
		logger:          logger,
	}
}

// Join ставит пользователя в очередь слота.
// Очередь доступна только для заполненных слотов: пока есть свободные
// места, пользователь должен бронировать напрямую.
func (s *Service) Join(ctx context.Context, userID, slotID int64) (*domain.WaitlistEntry, error) {
	s.logger.Info("Join: user=%d joining waitlist for slot=%d", userID, slotID)

	var entry *domain.WaitlistEntry

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		// Шаг 1: блокируем слот, чтобы позиция и заполненность
		// не изменились под ногами
		slot, err := s.timeSlotRepo.GetByIDForUpdate(ctx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Join - get slot: %v", ErrInternal, err)
		}

		if slot.Blocked {
			return ErrSlotBlocked
		}
		if slot.IsPast(s.timeProvider.Now()) {
			return ErrSlotStarted
		}

		// Шаг 2: пользователь не должен иметь ни брони, ни записи в очереди
		reserved, err := s.reservationRepo.ExistsConfirmed(ctx, userID, slotID)
		if err != nil {
			return fmt.Errorf("%w: Join - check reservation: %v", ErrInternal, err)
		}
		if reserved {
			return ErrAlreadyReserved
		}

		inWaitlist, err := s.waitlistRepo.Exists(ctx, userID, slotID)
		if err != nil {
			return fmt.Errorf("%w: Join - check waitlist: %v", ErrInternal, err)
		}
		if inWaitlist {
			return ErrAlreadyInWaitlist
		}

		// Шаг 3: очередь имеет смысл только для заполненного слота
		occupied, err := s.reservationRepo.SumConfirmedBySlotID(ctx, slotID)
		if err != nil {
			return fmt.Errorf("%w: Join - count occupied: %v", ErrInternal, err)
		}
		if occupied < slot.MaxParticipants {
			return ErrSlotNotFull
		}

		// Шаг 4: встаём в хвост очереди
		maxPosition, err := s.waitlistRepo.MaxPositionBySlotID(ctx, slotID)
		if err != nil {
			return fmt.Errorf("%w: Join - get max position: %v", ErrInternal, err)
		}

		entry, err = s.waitlistRepo.Create(ctx, &domain.WaitlistEntry{
			UserID:     userID,
			TimeSlotID: slotID,
			Position:   maxPosition + 1,
		})
		if err != nil {
			return fmt.Errorf("%w: Join - create entry: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Join: user=%d joined waitlist for slot=%d at position=%d", userID, slotID, entry.Position)
	return entry, nil
}

// Leave убирает пользователя из очереди.
// Администратор может убрать любую запись, пользователь - только свою.
func (s *Service) Leave(ctx context.Context, entryID, userID int64, isAdmin bool) error {
	s.logger.Info("Leave: user=%d leaving waitlist entry=%d", userID, entryID)

	return s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		entry, err := s.waitlistRepo.GetByID(ctx, entryID)
		if err != nil {
			if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
				return ErrEntryNotFound
			}
			return fmt.Errorf("%w: Leave - get entry: %v", ErrInternal, err)
		}

		if !isAdmin && entry.UserID != userID {
			s.logger.Warn("Leave: access denied for user=%d to entry=%d", userID, entryID)
			return ErrAccessDenied
		}

		if err := s.waitlistRepo.Delete(ctx, entryID); err != nil {
			return fmt.Errorf("%w: Leave - delete entry: %v", ErrInternal, err)
		}

		// Сдвигаем хвост очереди, чтобы позиции остались непрерывными
		if err := s.waitlistRepo.DecrementPositionsAfter(ctx, entry.TimeSlotID, entry.Position); err != nil {
			return fmt.Errorf("%w: Leave - compact positions: %v", ErrInternal, err)
		}

		return nil
	})
}

// ListBySlot возвращает очередь слота в порядке позиций
func (s *Service) ListBySlot(ctx context.Context, slotID int64) ([]*domain.WaitlistEntry, error) {
	entries, err := s.waitlistRepo.ListBySlotID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("%w: ListBySlot - repository error: %v", ErrInternal, err)
	}
	return entries, nil
}

// PromoteNext уведомляет первого ещё не уведомлённого в очереди слота
// об освободившемся месте. Уведомление советующее: место не
// резервируется, запись остаётся в очереди до явной брони или выхода.
// Ошибки здесь не должны ломать вызвавшую операцию отмены.
func (s *Service) PromoteNext(ctx context.Context, slot *domain.TimeSlot) {
	entry, err := s.waitlistRepo.FirstUnnotifiedBySlotID(ctx, slot.ID)
	if err != nil {
		if errors.Is(err, waitlistRepo.ErrEntryNotFound) {
			return
		}
		s.logger.Error("PromoteNext: failed to fetch waitlist for slot=%d: %v", slot.ID, err)
		return
	}

	if err := s.waitlistRepo.MarkNotified(ctx, entry.ID); err != nil {
		s.logger.Error("PromoteNext: failed to mark entry=%d notified: %v", entry.ID, err)
		return
	}

	s.logger.Info("PromoteNext: notifying user=%d about free spot in slot=%d", entry.UserID, slot.ID)
	s.notifier.WaitlistSpotAvailable(entry.UserID, slot)
}
