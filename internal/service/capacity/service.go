package capacity

import (
	"context"
	"errors"
	"fmt"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	slotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
	"github.com/nextsteppro/NSP-BookingService/internal/service/capacity/models"
)

// Service считает занятость слотов и мероприятий.
// Занятое место - сумма participants подтверждённых броней,
// а не число броней: одна бронь может занимать несколько мест.
type Service struct {
	reservationRepo ReservationRepository
	timeSlotRepo    TimeSlotRepository
	logger          Logger
}

// NewService создает новый экземпляр сервиса занятости
func NewService(
	reservationRepo ReservationRepository,
	timeSlotRepo TimeSlotRepository,
	logger Logger,
) *Service {
	return &Service{
		reservationRepo: reservationRepo,
		timeSlotRepo:    timeSlotRepo,
		logger:          logger,
	}
}

// ConfirmedCount возвращает число занятых мест слота
func (s *Service) ConfirmedCount(ctx context.Context, slotID int64) (int, error) {
	count, err := s.reservationRepo.SumConfirmedBySlotID(ctx, slotID)
	if err != nil {
		return 0, fmt.Errorf("%w: ConfirmedCount - repository error: %v", ErrInternal, err)
	}
	return count, nil
}

// ConfirmedCounts возвращает занятые места для набора слотов
func (s *Service) ConfirmedCounts(ctx context.Context, slotIDs []int64) (map[int64]int, error) {
	counts, err := s.reservationRepo.SumConfirmedBySlotIDs(ctx, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: ConfirmedCounts - repository error: %v", ErrInternal, err)
	}
	return counts, nil
}

// SpotsLeft возвращает число свободных мест слота
func (s *Service) SpotsLeft(ctx context.Context, slot *domain.TimeSlot) (int, error) {
	occupied, err := s.ConfirmedCount(ctx, slot.ID)
	if err != nil {
		return 0, err
	}

	left := slot.MaxParticipants - occupied
	if left < 0 {
		// Может случиться после того, как администратор уменьшил вместимость
		s.logger.Warn("SpotsLeft: slot id=%d over capacity: max=%d, occupied=%d", slot.ID, slot.MaxParticipants, occupied)
		left = 0
	}

	return left, nil
}

// SlotOccupancy возвращает занятость одного слота
func (s *Service) SlotOccupancy(ctx context.Context, slotID int64) (*models.SlotOccupancy, error) {
	slot, err := s.timeSlotRepo.GetByID(ctx, slotID)
	if err != nil {
		if errors.Is(err, slotRepo.ErrSlotNotFound) {
			s.logger.Warn("SlotOccupancy: slot id=%d not found", slotID)
			return nil, ErrSlotNotFound
		}
		s.logger.Error("SlotOccupancy: repository error for slot id=%d: %v", slotID, err)
		return nil, fmt.Errorf("%w: SlotOccupancy - repository error: %v", ErrInternal, err)
	}

	occupied, err := s.ConfirmedCount(ctx, slotID)
	if err != nil {
		return nil, err
	}

	return occupancy(slot, occupied), nil
}

// BatchOccupancy возвращает занятость набора слотов одним запросом.
// Неизвестные ID пропускаются без ошибки.
func (s *Service) BatchOccupancy(ctx context.Context, slotIDs []int64) (*models.SlotOccupancyList, error) {
	counts, err := s.ConfirmedCounts(ctx, slotIDs)
	if err != nil {
		return nil, err
	}

	result := &models.SlotOccupancyList{Slots: make([]models.SlotOccupancy, 0, len(slotIDs))}
	for _, slotID := range slotIDs {
		slot, err := s.timeSlotRepo.GetByID(ctx, slotID)
		if err != nil {
			if errors.Is(err, slotRepo.ErrSlotNotFound) {
				continue
			}
			s.logger.Error("BatchOccupancy: repository error for slot id=%d: %v", slotID, err)
			return nil, fmt.Errorf("%w: BatchOccupancy - repository error: %v", ErrInternal, err)
		}
		result.Slots = append(result.Slots, *occupancy(slot, counts[slotID]))
	}

	return result, nil
}

// EventOccupied возвращает занятость мероприятия: максимум занятых мест
// по его слотам. Участник, записанный на все дни, считается один раз.
func (s *Service) EventOccupied(ctx context.Context, eventID int64) (int, error) {
	slots, err := s.timeSlotRepo.ListByEventID(ctx, eventID, false)
	if err != nil {
		s.logger.Error("EventOccupied: repository error for event id=%d: %v", eventID, err)
		return 0, fmt.Errorf("%w: EventOccupied - repository error: %v", ErrInternal, err)
	}

	if len(slots) == 0 {
		return 0, nil
	}

	slotIDs := make([]int64, 0, len(slots))
	for _, slot := range slots {
		slotIDs = append(slotIDs, slot.ID)
	}

	counts, err := s.ConfirmedCounts(ctx, slotIDs)
	if err != nil {
		return 0, err
	}

	maxOccupied := 0
	for _, count := range counts {
		if count > maxOccupied {
			maxOccupied = count
		}
	}

	return maxOccupied, nil
}

func occupancy(slot *domain.TimeSlot, occupied int) *models.SlotOccupancy {
	left := slot.MaxParticipants - occupied
	if left < 0 {
		left = 0
	}
	return &models.SlotOccupancy{
		SlotID:          slot.ID,
		MaxParticipants: slot.MaxParticipants,
		Occupied:        occupied,
		SpotsLeft:       left,
	}
}
