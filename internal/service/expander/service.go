package expander

import (
	"context"
	"fmt"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

// Service разворачивает многодневное мероприятие в слоты по дням.
// Каждый день мероприятия получает ровно один слот с временем и
// вместимостью мероприятия. Развёртка выполняется не более одного раза:
// если у мероприятия уже есть слоты, они возвращаются как есть, в том
// числе когда администратор намеренно удалил слот отдельного дня.
type Service struct {
	timeSlotRepo TimeSlotRepository
	logger       Logger
}

// NewService создает новый экземпляр сервиса развёртки мероприятий
func NewService(timeSlotRepo TimeSlotRepository, logger Logger) *Service {
	return &Service{
		timeSlotRepo: timeSlotRepo,
		logger:       logger,
	}
}

// EnsureSlots разворачивает мероприятие в слоты при первом обращении.
// Возвращает полный список слотов мероприятия, упорядоченный по дате;
// существующие слоты возвращаются без изменений и досоздания.
// forUpdate пробрасывается в выборку существующих слотов, чтобы внутри
// транзакции бронирования слоты были заблокированы.
func (s *Service) EnsureSlots(ctx context.Context, event *domain.Event, forUpdate bool) ([]*domain.TimeSlot, error) {
	existing, err := s.timeSlotRepo.ListByEventID(ctx, event.ID, forUpdate)
	if err != nil {
		return nil, fmt.Errorf("EnsureSlots - list slots for event=%d: %w", event.ID, err)
	}
	if len(existing) > 0 {
		return existing, nil
	}

	created := 0
	for day := event.StartDate; !day.After(event.EndDate); day = day.AddDate(0, 0, 1) {
		eventID := event.ID
		slot := &domain.TimeSlot{
			EventID:         &eventID,
			Date:            day,
			StartTime:       event.SlotStartTime(),
			EndTime:         event.SlotEndTime(),
			MaxParticipants: event.MaxParticipants,
			Title:           &event.Title,
		}

		if _, err := s.timeSlotRepo.Create(ctx, slot); err != nil {
			return nil, fmt.Errorf("EnsureSlots - create slot for event=%d day=%s: %w", event.ID, day.Format(domain.DateFormat), err)
		}
		created++
	}

	if created > 0 {
		s.logger.Info("EnsureSlots: created %d slots for event=%d", created, event.ID)
		// Перечитываем, чтобы вернуть слоты с выставленными ID
		// в едином порядке
		existing, err = s.timeSlotRepo.ListByEventID(ctx, event.ID, forUpdate)
		if err != nil {
			return nil, fmt.Errorf("EnsureSlots - reload slots for event=%d: %w", event.ID, err)
		}
	}

	return existing, nil
}
