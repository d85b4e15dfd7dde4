package reservations

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	reservationRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/reservation"
	slotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
	"github.com/nextsteppro/NSP-BookingService/internal/service/reservations/models"
)

// Service отменяет брони и отдаёт историю броней пользователя
type Service struct {
	reservationRepo ReservationRepository
	timeSlotRepo    TimeSlotRepository
	promoter        WaitlistPromoter
	notifier        Notifier
	txManager       TransactionManager
	timeProvider    TimeProvider
	window          time.Duration
	logger          Logger
}

// NewService создает новый экземпляр сервиса броней
func NewService(
	reservationRepo ReservationRepository,
	timeSlotRepo TimeSlotRepository,
	promoter WaitlistPromoter,
	notifier Notifier,
	txManager TransactionManager,
	timeProvider TimeProvider,
	window time.Duration,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		timeSlotRepo:    timeSlotRepo,
		promoter:        promoter,
		notifier:        notifier,
		txManager:       txManager,
		timeProvider:    timeProvider,
		window:          window,
		logger:          logger,
	}
}

// Cancel отменяет бронь.
// Пользователь отменяет только свою бронь и только пока до начала слота
// не меньше окна отмены. Администратор отменяет любую бронь без
// ограничения по времени, отмена помечается его идентификатором и
// пользователь получает уведомление.
func (s *Service) Cancel(ctx context.Context, reservationID, actorID int64, isAdmin bool, reason string) error {
	s.logger.Info("Cancel: actor=%d (admin=%t) cancelling reservation=%d", actorID, isAdmin, reservationID)

	var slot *domain.TimeSlot
	var ownerID int64

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		res, err := s.reservationRepo.GetByID(ctx, reservationID)
		if err != nil {
			if errors.Is(err, reservationRepo.ErrReservationNotFound) {
				return ErrReservationNotFound
			}
			return fmt.Errorf("%w: Cancel - get reservation: %v", ErrInternal, err)
		}

		if !isAdmin && res.UserID != actorID {
			s.logger.Warn("Cancel: access denied for user=%d to reservation=%d", actorID, reservationID)
			return ErrAccessDenied
		}

		if res.IsCancelled() {
			return ErrAlreadyCancelled
		}

		// Блокируем слот: освобождение места и уведомление очереди
		// должны видеть согласованное состояние
		slot, err = s.timeSlotRepo.GetByIDForUpdate(ctx, res.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return fmt.Errorf("%w: Cancel - slot id=%d missing for reservation=%d", ErrInternal, res.TimeSlotID, reservationID)
			}
			return fmt.Errorf("%w: Cancel - get slot: %v", ErrInternal, err)
		}

		if !isAdmin {
			now := s.timeProvider.Now()
			if slot.StartsAt().Before(now.Add(s.window)) {
				s.logger.Warn("Cancel: window closed for reservation=%d, slot starts at %s", reservationID, slot.StartsAt())
				return ErrCancellationWindowClosed
			}
		}

		var cancelledBy *int64
		if isAdmin {
			cancelledBy = &actorID
		}

		if err := s.reservationRepo.Cancel(ctx, reservationID, cancelledBy); err != nil {
			return fmt.Errorf("%w: Cancel - update reservation: %v", ErrInternal, err)
		}

		ownerID = res.UserID
		return nil
	})

	if err != nil {
		return err
	}

	// Место освободилось: зовём первого из очереди.
	// Уведомление советующее, ошибки не влияют на результат отмены.
	s.promoter.PromoteNext(ctx, slot)

	if isAdmin {
		s.notifier.ReservationCancelledByAdmin(ownerID, slot, reason)
	} else {
		s.notifier.ReservationCancelled(ownerID, slot)
	}

	s.logger.Info("Cancel: reservation=%d cancelled", reservationID)
	return nil
}

// UserReservations возвращает брони пользователя, разделяя их на брони
// одиночных слотов и брони слотов мероприятий, а внутри каждой группы -
// на предстоящие и прошедшие
func (s *Service) UserReservations(ctx context.Context, userID int64) (*models.UserReservationsResponse, error) {
	list, err := s.reservationRepo.ListByUserID(ctx, userID)
	if err != nil {
		s.logger.Error("UserReservations: repository error for user=%d: %v", userID, err)
		return nil, fmt.Errorf("%w: UserReservations - repository error: %v", ErrInternal, err)
	}

	response := &models.UserReservationsResponse{
		Slots:  models.ReservationGroup{Upcoming: []models.ReservationResponse{}, Past: []models.ReservationResponse{}},
		Events: models.ReservationGroup{Upcoming: []models.ReservationResponse{}, Past: []models.ReservationResponse{}},
	}

	now := s.timeProvider.Now()

	for _, res := range list {
		slot, err := s.timeSlotRepo.GetByID(ctx, res.TimeSlotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				// Слот удалён вместе с бронями, сюда попадать не должны
				s.logger.Warn("UserReservations: slot id=%d missing for reservation=%d", res.TimeSlotID, res.ID)
				continue
			}
			return nil, fmt.Errorf("%w: UserReservations - get slot: %v", ErrInternal, err)
		}

		item := models.FromDomain(res, slot)

		group := &response.Slots
		if slot.EventID != nil {
			group = &response.Events
		}
		if slot.StartsAt().Before(now) {
			group.Past = append(group.Past, item)
		} else {
			group.Upcoming = append(group.Upcoming, item)
		}
	}

	return response, nil
}
