package events

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	eventRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/event"
	"github.com/nextsteppro/NSP-BookingService/internal/service/events/models"
)

// Service административное управление мероприятиями
type Service struct {
	eventRepo       EventRepository
	timeSlotRepo    TimeSlotRepository
	reservationRepo ReservationRepository
	expander        SlotExpander
	notifier        Notifier
	txManager       TransactionManager
	logger          Logger
}

// NewService создает новый экземпляр сервиса мероприятий
func NewService(
	eventRepo EventRepository,
	timeSlotRepo TimeSlotRepository,
	reservationRepo ReservationRepository,
	expander SlotExpander,
	notifier Notifier,
	txManager TransactionManager,
	logger Logger,
) *Service {
	return &Service{
		eventRepo:       eventRepo,
		timeSlotRepo:    timeSlotRepo,
		reservationRepo: reservationRepo,
		expander:        expander,
		notifier:        notifier,
		txManager:       txManager,
		logger:          logger,
	}
}

// Create создает мероприятие и слоты на каждый его день
func (s *Service) Create(ctx context.Context, req *models.CreateEventRequest) (*models.EventResponse, error) {
	event, err := req.ToDomain()
	if err != nil {
		s.logger.Warn("Create: invalid event request: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := event.Validate(); err != nil {
		s.logger.Warn("Create: event validation failed: %v", err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	err = s.txManager.Do(ctx, func(ctx context.Context) error {
		created, err := s.eventRepo.Create(ctx, event)
		if err != nil {
			return fmt.Errorf("%w: Create - create event: %v", ErrInternal, err)
		}
		event = created

		if _, err := s.expander.EnsureSlots(ctx, event, false); err != nil {
			return fmt.Errorf("%w: Create - expand slots: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	s.logger.Info("Create: event id=%d created for %s..%s", event.ID, req.StartDate, req.EndDate)
	return models.FromDomainEvent(event), nil
}

// GetByID возвращает мероприятие по ID
func (s *Service) GetByID(ctx context.Context, id int64) (*models.EventResponse, error) {
	event, err := s.getEvent(ctx, id, "GetByID")
	if err != nil {
		return nil, err
	}
	return models.FromDomainEvent(event), nil
}

// List возвращает мероприятия, опционально только активные
func (s *Service) List(ctx context.Context, activeOnly bool) (*models.EventListResponse, error) {
	list, err := s.eventRepo.List(ctx, activeOnly)
	if err != nil {
		s.logger.Error("List: repository error: %v", err)
		return nil, fmt.Errorf("%w: List - repository error: %v", ErrInternal, err)
	}

	response := &models.EventListResponse{Events: make([]models.EventResponse, 0, len(list))}
	for _, event := range list {
		response.Events = append(response.Events, *models.FromDomainEvent(event))
	}
	return response, nil
}

// Update изменяет мероприятие. Даты не изменяются, изменение
// вместимости не трогает уже созданные слоты.
func (s *Service) Update(ctx context.Context, id int64, req *models.UpdateEventRequest) (*models.EventResponse, error) {
	event, err := s.getEvent(ctx, id, "Update")
	if err != nil {
		return nil, err
	}

	req.ApplyTo(event)

	if err := event.Validate(); err != nil {
		s.logger.Warn("Update: event validation failed for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.eventRepo.Update(ctx, event); err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			return nil, ErrEventNotFound
		}
		s.logger.Error("Update: repository error for id=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Update - repository error: %v", ErrInternal, err)
	}

	s.logger.Info("Update: event id=%d updated", id)
	return models.FromDomainEvent(event), nil
}

// Delete удаляет мероприятие вместе со слотами и бронями.
// Каждый пользователь со снятой бронёй получает одно уведомление,
// сколько бы дней мероприятия он ни бронировал.
func (s *Service) Delete(ctx context.Context, id int64) error {
	s.logger.Info("Delete: deleting event=%d", id)

	var event *domain.Event
	var affectedUsers []int64

	err := s.txManager.DoSerializable(ctx, func(ctx context.Context) error {
		var err error
		event, err = s.eventRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, eventRepo.ErrEventNotFound) {
				return ErrEventNotFound
			}
			return fmt.Errorf("%w: Delete - get event: %v", ErrInternal, err)
		}

		slots, err := s.timeSlotRepo.ListByEventID(ctx, id, true)
		if err != nil {
			return fmt.Errorf("%w: Delete - list slots: %v", ErrInternal, err)
		}

		slotIDs := make([]int64, 0, len(slots))
		for _, slot := range slots {
			slotIDs = append(slotIDs, slot.ID)
		}

		confirmed, err := s.reservationRepo.ListConfirmedBySlotIDs(ctx, slotIDs)
		if err != nil {
			return fmt.Errorf("%w: Delete - list reservations: %v", ErrInternal, err)
		}
		for _, res := range confirmed {
			affectedUsers = append(affectedUsers, res.UserID)
		}

		if err := s.eventRepo.Delete(ctx, id); err != nil {
			return fmt.Errorf("%w: Delete - delete event: %v", ErrInternal, err)
		}

		return nil
	})

	if err != nil {
		return err
	}

	// Нотификатор сам убирает дубликаты пользователей
	s.notifier.EventDeleted(affectedUsers, event)
	s.logger.Info("Delete: event=%d deleted, %d reservations affected", id, len(affectedUsers))
	return nil
}

// Participants возвращает участников мероприятия.
// Пользователь считается один раз независимо от числа забронированных
// дней, занятость мероприятия - максимум занятых мест по дням.
func (s *Service) Participants(ctx context.Context, id int64) (*models.EventParticipantsResponse, error) {
	if _, err := s.getEvent(ctx, id, "Participants"); err != nil {
		return nil, err
	}

	slots, err := s.timeSlotRepo.ListByEventID(ctx, id, false)
	if err != nil {
		s.logger.Error("Participants: repository error for event=%d: %v", id, err)
		return nil, fmt.Errorf("%w: Participants - list slots: %v", ErrInternal, err)
	}

	slotIDs := make([]int64, 0, len(slots))
	for _, slot := range slots {
		slotIDs = append(slotIDs, slot.ID)
	}

	confirmed, err := s.reservationRepo.ListConfirmedBySlotIDs(ctx, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: Participants - list reservations: %v", ErrInternal, err)
	}

	counts, err := s.reservationRepo.SumConfirmedBySlotIDs(ctx, slotIDs)
	if err != nil {
		return nil, fmt.Errorf("%w: Participants - count occupied: %v", ErrInternal, err)
	}

	maxOccupied := 0
	for _, count := range counts {
		if count > maxOccupied {
			maxOccupied = count
		}
	}

	type userStat struct {
		participants int
		days         int
	}
	perUser := make(map[int64]*userStat)
	for _, res := range confirmed {
		stat, ok := perUser[res.UserID]
		if !ok {
			stat = &userStat{}
			perUser[res.UserID] = stat
		}
		stat.days++
		if res.Participants > stat.participants {
			stat.participants = res.Participants
		}
	}

	response := &models.EventParticipantsResponse{
		EventID:      id,
		Occupied:     maxOccupied,
		Participants: make([]models.EventParticipantResponse, 0, len(perUser)),
	}
	for userID, stat := range perUser {
		response.Participants = append(response.Participants, models.EventParticipantResponse{
			UserID:       userID,
			Participants: stat.participants,
			Days:         stat.days,
		})
	}
	sort.Slice(response.Participants, func(i, j int) bool {
		return response.Participants[i].UserID < response.Participants[j].UserID
	})

	return response, nil
}

func (s *Service) getEvent(ctx context.Context, id int64, op string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, eventRepo.ErrEventNotFound) {
			s.logger.Warn("%s: event id=%d not found", op, id)
			return nil, ErrEventNotFound
		}
		s.logger.Error("%s: repository error for event id=%d: %v", op, id, err)
		return nil, fmt.Errorf("%w: %s - repository error: %v", ErrInternal, op, err)
	}
	return event, nil
}
