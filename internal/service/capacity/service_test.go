package capacity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	slotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
)

// ---- фейки ----

type fakeReservationRepo struct {
	occupied map[int64]int // slotID -> занятые места
}

func (f *fakeReservationRepo) SumConfirmedBySlotID(_ context.Context, slotID int64) (int, error) {
	return f.occupied[slotID], nil
}

func (f *fakeReservationRepo) SumConfirmedBySlotIDs(_ context.Context, slotIDs []int64) (map[int64]int, error) {
	result := make(map[int64]int)
	for _, id := range slotIDs {
		if count, ok := f.occupied[id]; ok {
			result[id] = count
		}
	}
	return result, nil
}

type fakeSlotRepo struct {
	slots map[int64]*domain.TimeSlot
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.TimeSlot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *slot
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
	return result, nil
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// ---- инфраструктура тестов ----

func newFixture(t *testing.T) (*Service, *fakeSlotRepo, *fakeReservationRepo) {
	t.Helper()

	slots := &fakeSlotRepo{slots: make(map[int64]*domain.TimeSlot)}
	reservations := &fakeReservationRepo{occupied: make(map[int64]int)}
	svc := NewService(reservations, slots, noopLogger{})
	return svc, slots, reservations
}

// ---- тесты ----

func TestSlotOccupancy(t *testing.T) {
	svc, slots, reservations := newFixture(t)
	slots.slots[1] = &domain.TimeSlot{ID: 1, MaxParticipants: 8}
	reservations.occupied[1] = 5

	occ, err := svc.SlotOccupancy(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), occ.SlotID)
	assert.Equal(t, 8, occ.MaxParticipants)
	assert.Equal(t, 5, occ.Occupied)
	assert.Equal(t, 3, occ.SpotsLeft)

	_, err = svc.SlotOccupancy(context.Background(), 99)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

// Администратор уменьшил вместимость ниже занятости: свободных мест 0,
// а не отрицательное число
func TestSpotsLeft_ClampsOverCapacity(t *testing.T) {
	svc, _, reservations := newFixture(t)
	reservations.occupied[1] = 10

	left, err := svc.SpotsLeft(context.Background(), &domain.TimeSlot{ID: 1, MaxParticipants: 8})
	require.NoError(t, err)
	assert.Equal(t, 0, left)
}

func TestBatchOccupancy_SkipsUnknownSlots(t *testing.T) {
	svc, slots, reservations := newFixture(t)
	slots.slots[1] = &domain.TimeSlot{ID: 1, MaxParticipants: 8}
	slots.slots[2] = &domain.TimeSlot{ID: 2, MaxParticipants: 4}
	reservations.occupied[1] = 2

	list, err := svc.BatchOccupancy(context.Background(), []int64{1, 99, 2})
	require.NoError(t, err)

	// Неизвестный ID пропущен, порядок запрошенных сохранён
	require.Len(t, list.Slots, 2)
	assert.Equal(t, int64(1), list.Slots[0].SlotID)
	assert.Equal(t, 2, list.Slots[0].Occupied)
	assert.Equal(t, int64(2), list.Slots[1].SlotID)
	assert.Equal(t, 0, list.Slots[1].Occupied)
}

// Занятость мероприятия - максимум по дням, а не сумма: участник,
// записанный на все дни, занимает одно место мероприятия
func TestEventOccupied_MaxAcrossDays(t *testing.T) {
	svc, slots, reservations := newFixture(t)

	eventID := int64(7)
	for _, id := range []int64{100, 101, 102} {
		slots.slots[id] = &domain.TimeSlot{ID: id, EventID: &eventID, MaxParticipants: 10}
	}
	reservations.occupied[100] = 3
	reservations.occupied[101] = 6
	reservations.occupied[102] = 4

	occupied, err := svc.EventOccupied(context.Background(), eventID)
	require.NoError(t, err)
	assert.Equal(t, 6, occupied)

	// Мероприятие без слотов пустое
	occupied, err = svc.EventOccupied(context.Background(), 999)
	require.NoError(t, err)
	assert.Equal(t, 0, occupied)
}
