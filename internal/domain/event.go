package domain

import (
	"time"

	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

// Event represents a multi-day activity that expands into one TimeSlot per day
type Event struct {
	ID          int64
	Title       string
	Description *string
	Location    *string
	StartDate   time.Time // только дата
	EndDate     time.Time // только дата, включительно
	// StartTime/EndTime окно времени для каждого дня события.
	// Если не заданы, слоты разворачиваются на весь день (00:00-23:59).
	StartTime       *types.TimeString
	EndTime         *types.TimeString
	MaxParticipants int
	Active          bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// SlotStartTime returns the per-day start time, defaulting to midnight
func (e *Event) SlotStartTime() types.TimeString {
	if e.StartTime != nil {
		return *e.StartTime
	}
	return DefaultEventDayStart
}

// SlotEndTime returns the per-day end time, defaulting to end of day
func (e *Event) SlotEndTime() types.TimeString {
	if e.EndTime != nil {
		return *e.EndTime
	}
	return DefaultEventDayEnd
}

// StartsAt returns the event's first moment: start date combined with
// the per-day start time
func (e *Event) StartsAt() time.Time {
	return e.SlotStartTime().At(e.StartDate)
}

// Days returns the number of calendar days the event spans, inclusive
func (e *Event) Days() int {
	return int(e.EndDate.Sub(e.StartDate).Hours()/24) + 1
}

// Validate проверяет инварианты события
func (e *Event) Validate() error {
	if e.Title == "" {
		return ErrEmptyTitle
	}
	if e.MaxParticipants < MinParticipants {
		return ErrInvalidMaxParticipants
	}
	if e.EndDate.Before(e.StartDate) {
		return ErrInvalidDateRange
	}
	if e.StartTime != nil && e.EndTime != nil && !e.EndTime.IsAfter(*e.StartTime) {
		return ErrInvalidTimeRange
	}
	return nil
}
