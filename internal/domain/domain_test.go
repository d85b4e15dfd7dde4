package domain

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

func TestSanitizeComment(t *testing.T) {
	assert.Nil(t, SanitizeComment(nil, 500))

	empty := ""
	assert.Nil(t, SanitizeComment(&empty, 500))

	short := "возьму с собой снаряжение"
	got := SanitizeComment(&short, 500)
	require.NotNil(t, got)
	assert.Equal(t, short, *got)

	// Длинный комментарий молча обрезается до maxLen
	long := strings.Repeat("x", 600)
	got = SanitizeComment(&long, 500)
	require.NotNil(t, got)
	assert.Len(t, *got, 500)

	// Обрезка по рунам, не по байтам
	cyrillic := strings.Repeat("я", 10)
	got = SanitizeComment(&cyrillic, 5)
	require.NotNil(t, got)
	assert.Equal(t, strings.Repeat("я", 5), *got)
}

func TestTimeSlot_StartsAt(t *testing.T) {
	slot := &TimeSlot{
		Date:      time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		StartTime: "10:00",
		EndTime:   "12:00",
	}

	assert.Equal(t, time.Date(2026, 9, 10, 10, 0, 0, 0, time.UTC), slot.StartsAt())
	assert.Equal(t, time.Date(2026, 9, 10, 12, 0, 0, 0, time.UTC), slot.EndsAt())

	assert.False(t, slot.IsPast(time.Date(2026, 9, 10, 9, 59, 0, 0, time.UTC)))
	assert.True(t, slot.IsPast(time.Date(2026, 9, 10, 10, 0, 1, 0, time.UTC)))
}

func TestTimeSlot_Validate(t *testing.T) {
	slot := &TimeSlot{StartTime: "10:00", EndTime: "12:00", MaxParticipants: 8}
	assert.NoError(t, slot.Validate())

	slot = &TimeSlot{StartTime: "10:00", EndTime: "12:00", MaxParticipants: 0}
	assert.ErrorIs(t, slot.Validate(), ErrInvalidMaxParticipants)

	slot = &TimeSlot{StartTime: "12:00", EndTime: "10:00", MaxParticipants: 8}
	assert.ErrorIs(t, slot.Validate(), ErrInvalidTimeRange)

	slot = &TimeSlot{StartTime: "12:00", EndTime: "12:00", MaxParticipants: 8}
	assert.ErrorIs(t, slot.Validate(), ErrInvalidTimeRange)
}

func TestTimeSlot_BlockUnblock(t *testing.T) {
	reason := "сломался подъемник"
	slot := &TimeSlot{}

	slot.Block(&reason)
	assert.True(t, slot.Blocked)
	require.NotNil(t, slot.BlockReason)
	assert.Equal(t, reason, *slot.BlockReason)

	slot.Unblock()
	assert.False(t, slot.Blocked)
	assert.Nil(t, slot.BlockReason)
}

func TestEvent_Days(t *testing.T) {
	event := &Event{
		StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
	}
	assert.Equal(t, 3, event.Days())

	// Однодневное событие
	event.EndDate = event.StartDate
	assert.Equal(t, 1, event.Days())
}

func TestEvent_SlotTimes(t *testing.T) {
	event := &Event{}
	assert.Equal(t, DefaultEventDayStart, event.SlotStartTime())
	assert.Equal(t, DefaultEventDayEnd, event.SlotEndTime())

	start := types.TimeString("09:00")
	end := types.TimeString("17:00")
	event.StartTime = &start
	event.EndTime = &end
	assert.Equal(t, start, event.SlotStartTime())
	assert.Equal(t, end, event.SlotEndTime())

	assert.Equal(t,
		time.Date(2026, 9, 10, 9, 0, 0, 0, time.UTC),
		(&Event{StartDate: time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC), StartTime: &start}).StartsAt())
}

func TestEvent_Validate(t *testing.T) {
	event := &Event{
		Title:           "Лагерь выходного дня",
		StartDate:       time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		MaxParticipants: 20,
	}
	assert.NoError(t, event.Validate())

	event.Title = ""
	assert.ErrorIs(t, event.Validate(), ErrEmptyTitle)
	event.Title = "Лагерь"

	event.EndDate = event.StartDate.AddDate(0, 0, -1)
	assert.ErrorIs(t, event.Validate(), ErrInvalidDateRange)
}

func TestReservation_Status(t *testing.T) {
	res := &Reservation{Status: StatusConfirmed}
	assert.True(t, res.IsConfirmed())
	assert.False(t, res.IsCancelled())
	assert.False(t, res.IsCancelledByAdmin())

	adminID := int64(42)
	res.Status = StatusCancelled
	res.CancelledBy = &adminID
	assert.True(t, res.IsCancelled())
	assert.True(t, res.IsCancelledByAdmin())

	res.CancelledBy = nil
	assert.False(t, res.IsCancelledByAdmin())
}
