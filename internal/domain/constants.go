package domain

import (
	"errors"

	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

// Business validation constants
const (
	MinParticipants = 1

	MaxTitleLength       = 200
	MaxBlockReasonLength = 500

	DefaultBookingWindowHours = 12
	DefaultMaxCommentLength   = 500
)

// Per-day window defaults for event slot expansion
const (
	DefaultEventDayStart types.TimeString = "00:00"
	DefaultEventDayEnd   types.TimeString = "23:59"
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

var (
	// ErrInvalidMaxParticipants возвращается при вместимости меньше 1
	ErrInvalidMaxParticipants = errors.New("domain: max participants must be at least 1")

	// ErrInvalidTimeRange возвращается, когда время окончания не позже времени начала
	ErrInvalidTimeRange = errors.New("domain: end time must be after start time")

	// ErrInvalidDateRange возвращается, когда дата окончания раньше даты начала
	ErrInvalidDateRange = errors.New("domain: end date must not be before start date")

	// ErrEmptyTitle возвращается при пустом названии события
	ErrEmptyTitle = errors.New("domain: title must not be empty")
)

// SlotParticipantCount количество подтверждённых участников слота
// Считается как сумма participants по подтверждённым броням, не как
// число строк: одна бронь может занимать несколько мест.
type SlotParticipantCount struct {
	SlotID       int64
	Participants int
}
