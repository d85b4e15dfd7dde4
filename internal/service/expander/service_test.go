package expander

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

type fakeSlotRepo struct {
	nextID int64
	slots  []*domain.TimeSlot
}

func (f *fakeSlotRepo) Create(_ context.Context, slot *domain.TimeSlot) (*domain.TimeSlot, error) {
	f.nextID++
	created := *slot
	created.ID = f.nextID
	f.slots = append(f.slots, &created)
	copied := created
	return &copied, nil
}

func (f *fakeSlotRepo) ListByEventID(_ context.Context, eventID int64, _ bool) ([]*domain.TimeSlot, error) {
	var result []*domain.TimeSlot
	for _, slot := range f.slots {
		if slot.EventID != nil && *slot.EventID == eventID {
			copied := *slot
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testEvent() *domain.Event {
	start := types.TimeString("09:00")
	end := types.TimeString("17:00")
	return &domain.Event{
		ID:              7,
		Title:           "Сборы",
		StartDate:       time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC),
		EndDate:         time.Date(2026, 9, 12, 0, 0, 0, 0, time.UTC),
		StartTime:       &start,
		EndTime:         &end,
		MaxParticipants: 12,
		Active:          true,
	}
}

func TestEnsureSlots_CreatesSlotPerDay(t *testing.T) {
	repo := &fakeSlotRepo{}
	svc := NewService(repo, noopLogger{})

	event := testEvent()
	slots, err := svc.EnsureSlots(context.Background(), event, false)
	require.NoError(t, err)
	require.Len(t, slots, 3)

	for i, slot := range slots {
		assert.Equal(t, event.StartDate.AddDate(0, 0, i), slot.Date)
		assert.Equal(t, types.TimeString("09:00"), slot.StartTime)
		assert.Equal(t, types.TimeString("17:00"), slot.EndTime)
		assert.Equal(t, 12, slot.MaxParticipants)
		require.NotNil(t, slot.EventID)
		assert.Equal(t, event.ID, *slot.EventID)
		require.NotNil(t, slot.Title)
		assert.Equal(t, event.Title, *slot.Title)
	}
}

func TestEnsureSlots_Idempotent(t *testing.T) {
	repo := &fakeSlotRepo{}
	svc := NewService(repo, noopLogger{})

	event := testEvent()
	first, err := svc.EnsureSlots(context.Background(), event, false)
	require.NoError(t, err)

	second, err := svc.EnsureSlots(context.Background(), event, false)
	require.NoError(t, err)

	// Повторный вызов ничего не пересоздает
	require.Len(t, second, len(first))
	for i := range first {
		assert.Equal(t, first[i].ID, second[i].ID)
	}
	assert.Len(t, repo.slots, 3)
}

// Продление мероприятия досоздаёт только недостающие дни
// Развёртка выполняется не более одного раза: слот дня, намеренно
// удалённый администратором, при следующем обращении не пересоздаётся
func TestEnsureSlots_DoesNotRecreateDeletedDay(t *testing.T) {
	repo := &fakeSlotRepo{}
	svc := NewService(repo, noopLogger{})

	event := testEvent()
	first, err := svc.EnsureSlots(context.Background(), event, false)
	require.NoError(t, err)
	require.Len(t, first, 3)

	// Администратор удалил слот среднего дня
	repo.slots = append(repo.slots[:1], repo.slots[2:]...)

	again, err := svc.EnsureSlots(context.Background(), event, false)
	require.NoError(t, err)
	require.Len(t, again, 2)
	assert.Equal(t, []int64{first[0].ID, first[2].ID}, []int64{again[0].ID, again[1].ID})
}

func TestEnsureSlots_SingleDayEvent(t *testing.T) {
	repo := &fakeSlotRepo{}
	svc := NewService(repo, noopLogger{})

	event := testEvent()
	event.EndDate = event.StartDate

	slots, err := svc.EnsureSlots(context.Background(), event, false)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, event.StartDate, slots[0].Date)
}

// Мероприятие без времени дня разворачивается в слоты на весь день
func TestEnsureSlots_DefaultsToWholeDay(t *testing.T) {
	repo := &fakeSlotRepo{}
	svc := NewService(repo, noopLogger{})

	event := testEvent()
	event.StartTime = nil
	event.EndTime = nil

	slots, err := svc.EnsureSlots(context.Background(), event, false)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	for _, slot := range slots {
		assert.Equal(t, domain.DefaultEventDayStart, slot.StartTime)
		assert.Equal(t, domain.DefaultEventDayEnd, slot.EndTime)
	}
}
