package slots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	slotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
	"github.com/nextsteppro/NSP-BookingService/internal/service/slots/models"
)

// Service административное управление слотами
type Service struct {
	timeSlotRepo    TimeSlotRepository
	reservationRepo ReservationRepository
	notifier        Notifier
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса слотов
func NewService(
	timeSlotRepo TimeSlotRepository,
	reservationRepo ReservationRepository,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		timeSlotRepo:    timeSlotRepo,
		reservationRepo: reservationRepo,
		notifier:        notifier,
		txManager:       txManager,
		logger:          logger,
	}
}

// Create создает одиночный слот
func (s *Service) Create(ctx context.Context, req *models.CreateSlotRequest) (*models.SlotResponse, error) {
	slot, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Create: invalid slot request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := slot.Validate(); err != nil {
		s.logger.Warn("Create: slot validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	created, err := s.timeSlotRepo.Create(ctx, slot)
	if err != nil {
		s.logger.Error("Create: repository error: %v", err)
		return nil, fmt.Errorf("%w: Create - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Create: slot id=%d created for %s %s-%s", created.ID, req.Date, req.StartTime, req.EndTime)
	return models.FromDomainSlot(created), nil
}

// GetByID возвращает слот по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.SlotResponse, error) {
	slot, err := s.getSlot(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}
	return models.FromDomainSlot(slot), nil
}

// ListByDateRange возвращает слоты в диапазоне дат
func (s *Service) ListByDateRange(ctx context.Context, from, to time.Time) (*models.SlotListResponse, error) {
	slots, err := s.timeSlotRepo.ListByDateRange(ctx, from, to)
	if err != nil {
		s.logger.Error("ListByDateRange: repository error: %v", err)
		return nil, fmt.Errorf("%w: ListByDateRange - repository error: %v", ErrInternal, err)
	}

	response := &models.SlotListResponse{Slots: make([]models.SlotResponse, 0, len(slots))}
	for _, slot := range slots {
		response.Slots = append(response.Slots, *models.FromDomainSlot(slot))
	}
	return response, nil
}

// Update изменяет слот
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateSlotRequest) (*models.SlotResponse, error) {
	slot, err := s.getSlot(ctx, id, "Update")
	if err != nil {
		return nil, err
	}

	if err := req.ApplyTo(slot); err != nil {
		s.logger.Warn("Update: invalid slot request for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := slot.Validate(); err != nil {
		s.logger.Warn("Update: slot validation failed for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.timeSlotRepo.Update(ctx, slot); err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			return nil, ErrSlotNotFound
		}
		s.logger.Error("Update: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: slot id=%d updated", id)
	return models.FromDomainSlot(slot), nil
}

// Block блокирует слот и снимает все его подтверждённые брони.
// Пользователи снятых броней получают уведомление с причиной блокировки.
func (s *Service) Block(ctx context.Context, id int64, adminID int64, reason *string) error {
	s.logger.Info("Block: admin=%d blocking slot=%d", adminID, id)

	var slot *domain.TimeSlot
	var affectedUsers []int64

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		slot, err = s.timeSlotRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Block - get slot: %v", ErrInternal, err)
		}

		if slot.Blocked {
			return ErrAlreadyBlocked
		}

		if err := s.timeSlotRepo.SetBlocked(ctx, id, true, reason); err != nil {
			return fmt.Errorf("%w: Block - set blocked: %v", ErrInternal, err)
		}

		affectedUsers, err = s.cancelConfirmed(ctx, id, adminID)
		if err != nil {
			return err
		}

		slot.Block(reason)
		return nil
	})

	if err != nil {
		return err
	}

	s.notifier.SlotBlocked(affectedUsers, slot, reasonText(reason))
	s.logger.Info("Block: slot=%d blocked, %d reservations cancelled", id, len(affectedUsers))
	return nil
}

// Unblock снимает блокировку слота. Снятые брони не восстанавливаются.
func (s *Service) Unblock(ctx context.Context, id int64) error {
	slot, err := s.getSlot(ctx, id, "Unblock")
	if err != nil {
		return err
	}

	if !slot.Blocked {
		return ErrNotBlocked
	}

	if err := s.timeSlotRepo.SetBlocked(ctx, id, false, nil); err != nil {
		s.logger.Error("Unblock: repository error for id=%d: %v", id, err)
		return fmt.Errorf("%w: Unblock - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Unblock: slot=%d unblocked", id)
	return nil
}

// Delete удаляет слот. Подтверждённые брони снимаются с уведомлением
// пользователей, записи листа ожидания удаляются каскадом.
func (s *Service) Delete(ctx context.Context, id int64, adminID int64) error {
	s.logger.Info("Delete: admin=%d deleting slot=%d", adminID, id)

	var slot *domain.TimeSlot
	var affectedUsers []int64

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		slot, err = s.timeSlotRepo.GetByIDForUpdate(ctx, id)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				return ErrSlotNotFound
			}
			return fmt.Errorf("%w: Delete - get slot: %v", ErrInternal, err)
		}

		// Собираем пользователей до удаления: каскад сотрёт брони
		confirmed, err := s.reservationRepo.ListConfirmedBySlotID(ctx, id)
		if err != nil {
			return fmt.Errorf("%w: Delete - list reservations: %v", ErrInternal, err)
		}
		for _, res := range confirmed {
			affectedUsers = append(affectedUsers, res.UserID)
		}

		if err := s.timeSlotRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: Delete - delete slot: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.notifier.SlotDeleted(affectedUsers, slot)
	s.logger.Info("Delete: slot=%d deleted, %d users notified", id, len(affectedUsers))
	return nil
}

// Participants возвращает подтверждённых участников слота
func (s *Service) Participants(ctx context.Context, id int64) (*models.ParticipantsListResponse, error) {
	if _, err := s.getSlot(ctx, id, "Participants"); err != nil {
		return nil, err
	}

	confirmed, err := s.reservationRepo.ListConfirmedBySlotID(ctx, id)
	if err != nil {
		s.logger.Error("Participants: repository error for slot=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Participants - repository error: %v", ErrInternal, err)
	}

	response := &models.ParticipantsListResponse{
		SlotID:       id,
		Participants: make([]models.ParticipantResponse, 0, len(confirmed)),
	}
	for _, res := range confirmed {
		response.Total += res.Participants
		response.Participants = append(response.Participants, models.ParticipantResponse{
			UserID:       res.UserID,
			Participants: res.Participants,
			Comment:      res.Comment,
		})
	}

	return response, nil
}

func (s *Service) getSlot(ctx context.Context, id int64, op string) (*domain.TimeSlot, error) {
	slot, err := s.timeSlotRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("%s: slot id=%d not found", op, id)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("%s: repository error for slot id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return slot, nil
}

func (s *Service) cancelConfirmed(ctx context.Context, slotID, adminID int64) ([]int64, error) {
	confirmed, err := s.reservationRepo.ListConfirmedBySlotID(ctx, slotID)
	if err != nil {
		return nil, fmt.Errorf("%w: cancelConfirmed - list reservations: %v", ErrInternal, err)
	}

	users := make([]int64, 0, len(confirmed))
	for _, res := range confirmed {
		if err := s.reservationRepo.Cancel(ctx, res.ID, &adminID); err != nil {
			return nil, fmt.Errorf("%w: cancelConfirmed - cancel reservation id=%d: %v", ErrInternal, res.ID, err)
		}
		users = append(users, res.UserID)
	}

	return users, nil
}

func reasonText(reason *string) string {
	if reason == nil {
		return ""
	}
	return *reason
}
