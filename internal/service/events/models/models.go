package models

import (
	"errors"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	"github.com/nextsteppro/NSP-BookingService/pkg/ptr"
	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

var (
	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = errors.New("invalid date format")
	// ErrInvalidTime возвращается при некорректном времени
	ErrInvalidTime = errors.New("invalid time format")
)

// CreateEventRequest запрос на создание мероприятия
type CreateEventRequest struct {
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	Location        *string `json:"location,omitempty"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	StartTime       *string `json:"startTime,omitempty"`
	EndTime         *string `json:"endTime,omitempty"`
	MaxParticipants int     `json:"maxParticipants"`
}

// ToDomain конвертирует request в domain мероприятие
func (r *CreateEventRequest) ToDomain() (*domain.Event, error) {
	startDate, err := time.Parse(domain.DateFormat, r.StartDate)
	if err != nil {
		return nil, ErrInvalidDate
	}
	endDate, err := time.Parse(domain.DateFormat, r.EndDate)
	if err != nil {
		return nil, ErrInvalidDate
	}

	event := &domain.Event{
		Title:           r.Title,
		Description:     r.Description,
		Location:        r.Location,
		StartDate:       startDate,
		EndDate:         endDate,
		MaxParticipants: r.MaxParticipants,
		Active:          true,
	}

	if r.StartTime != nil {
		startTime, err := types.NewTimeStringFromString(*r.StartTime)
		if err != nil {
			return nil, ErrInvalidTime
		}
		event.StartTime = &startTime
	}
	if r.EndTime != nil {
		endTime, err := types.NewTimeStringFromString(*r.EndTime)
		if err != nil {
			return nil, ErrInvalidTime
		}
		event.EndTime = &endTime
	}

	return event, nil
}

// UpdateEventRequest запрос на изменение мероприятия, nil поля не изменяются
type UpdateEventRequest struct {
	Title           *string `json:"title,omitempty"`
	Description     *string `json:"description,omitempty"`
	Location        *string `json:"location,omitempty"`
	MaxParticipants *int    `json:"maxParticipants,omitempty"`
	Active          *bool   `json:"active,omitempty"`
}

// ApplyTo накладывает изменения на существующее мероприятие.
// Даты мероприятия не изменяются: под них уже созданы слоты с бронями.
func (r *UpdateEventRequest) ApplyTo(event *domain.Event) {
	if r.Title != nil {
		event.Title = *r.Title
	}
	if r.Description != nil {
		event.Description = r.Description
	}
	if r.Location != nil {
		event.Location = r.Location
	}
	if r.MaxParticipants != nil {
		event.MaxParticipants = *r.MaxParticipants
	}
	if r.Active != nil {
		event.Active = *r.Active
	}
}

// EventResponse мероприятие в ответе API
type EventResponse struct {
	ID              int64   `json:"id"`
	Title           string  `json:"title"`
	Description     *string `json:"description,omitempty"`
	Location        *string `json:"location,omitempty"`
	StartDate       string  `json:"startDate"`
	EndDate         string  `json:"endDate"`
	StartTime       *string `json:"startTime,omitempty"`
	EndTime         *string `json:"endTime,omitempty"`
	MaxParticipants int     `json:"maxParticipants"`
	Active          bool    `json:"active"`
}

// FromDomainEvent конвертирует domain мероприятие в ответ API
func FromDomainEvent(event *domain.Event) *EventResponse {
	response := &EventResponse{
		ID:              event.ID,
		Title:           event.Title,
		Description:     event.Description,
		Location:        event.Location,
		StartDate:       event.StartDate.Format(domain.DateFormat),
		EndDate:         event.EndDate.Format(domain.DateFormat),
		MaxParticipants: event.MaxParticipants,
		Active:          event.Active,
	}
	if event.StartTime != nil {
		response.StartTime = ptr.Ptr(event.StartTime.String())
	}
	if event.EndTime != nil {
		response.EndTime = ptr.Ptr(event.EndTime.String())
	}
	return response
}

// EventListResponse список мероприятий
type EventListResponse struct {
	Events []EventResponse `json:"events"`
}

// EventParticipantResponse участник мероприятия
type EventParticipantResponse struct {
	UserID       int64 `json:"userId"`
	Participants int   `json:"participants"`
	Days         int   `json:"days"`
}

// EventParticipantsResponse участники мероприятия.
// Occupied считается как максимум занятых мест по дням: участник,
// записанный на все дни, занимает одно место, а не одно на день.
type EventParticipantsResponse struct {
	EventID      int64                      `json:"eventId"`
	Occupied     int                        `json:"occupied"`
	Participants []EventParticipantResponse `json:"participants"`
}
