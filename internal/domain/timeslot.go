package domain

import (
	"time"

	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

// TimeSlot represents a bookable time interval with a fixed capacity
type TimeSlot struct {
	ID int64
	// EventID ссылка на событие, если слот создан разворачиванием
	// многодневного события. Слабая связь: слот живет и удаляется
	// независимо от события.
	EventID         *int64
	Date            time.Time // только дата, время обнулено
	StartTime       types.TimeString
	EndTime         types.TimeString
	MaxParticipants int
	Title           *string
	Blocked         bool
	BlockReason     *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// StartsAt returns the slot's start as a point in time
func (s *TimeSlot) StartsAt() time.Time {
	return s.StartTime.At(s.Date)
}

// EndsAt returns the slot's end as a point in time
func (s *TimeSlot) EndsAt() time.Time {
	return s.EndTime.At(s.Date)
}

// IsPast returns true if the slot has already started
func (s *TimeSlot) IsPast(now time.Time) bool {
	return s.StartsAt().Before(now)
}

// BelongsToEvent returns true if the slot was created for an event
func (s *TimeSlot) BelongsToEvent() bool {
	return s.EventID != nil
}

// Block marks the slot as blocked with an optional reason
func (s *TimeSlot) Block(reason *string) {
	s.Blocked = true
	s.BlockReason = reason
}

// Unblock clears the blocked state
func (s *TimeSlot) Unblock() {
	s.Blocked = false
	s.BlockReason = nil
}

// Validate проверяет инварианты слота
func (s *TimeSlot) Validate() error {
	if s.MaxParticipants < MinParticipants {
		return ErrInvalidMaxParticipants
	}
	if err := s.StartTime.Validate(); err != nil {
		return ErrInvalidTimeRange
	}
	if err := s.EndTime.Validate(); err != nil {
		return ErrInvalidTimeRange
	}
	if !s.EndTime.IsAfter(s.StartTime) {
		return ErrInvalidTimeRange
	}
	return nil
}
