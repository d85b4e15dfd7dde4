package waitlist

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	slotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
	waitlistRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/waitlist"
	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

// ---- фейки ----

type fakeWaitlistRepo struct {
	mu      sync.Mutex
	nextID  int64
	entries map[int64]*domain.WaitlistEntry
}

func newFakeWaitlistRepo() *fakeWaitlistRepo {
	return &fakeWaitlistRepo{nextID: 1, entries: make(map[int64]*domain.WaitlistEntry)}
}

func (f *fakeWaitlistRepo) Create(_ context.Context, entry *domain.WaitlistEntry) (*domain.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *entry
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	f.nextID++
	f.entries[created.ID] = &created
	copied := created
	return &copied, nil
}

func (f *fakeWaitlistRepo) GetByID(_ context.Context, id int64) (*domain.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok {
		return nil, waitlistRepo.ErrEntryNotFound
	}
	copied := *entry
	return &copied, nil
}

func (f *fakeWaitlistRepo) Exists(_ context.Context, userID, slotID int64) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UserID == userID && e.TimeSlotID == slotID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeWaitlistRepo) MaxPositionBySlotID(_ context.Context, slotID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	maxPos := 0
	for _, e := range f.entries {
		if e.TimeSlotID == slotID && e.Position > maxPos {
			maxPos = e.Position
		}
	}
	return maxPos, nil
}

func (f *fakeWaitlistRepo) ListBySlotID(_ context.Context, slotID int64) ([]*domain.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []*domain.WaitlistEntry
	for _, e := range f.entries {
		if e.TimeSlotID == slotID {
			copied := *e
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (f *fakeWaitlistRepo) FirstUnnotifiedBySlotID(_ context.Context, slotID int64) (*domain.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var first *domain.WaitlistEntry
	for _, e := range f.entries {
		if e.TimeSlotID != slotID || e.NotifiedAt != nil {
			continue
		}
		if first == nil || e.Position < first.Position {
			first = e
		}
	}
	if first == nil {
		return nil, waitlistRepo.ErrEntryNotFound
	}
	copied := *first
	return &copied, nil
}

func (f *fakeWaitlistRepo) MarkNotified(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	entry, ok := f.entries[id]
	if !ok {
		return waitlistRepo.ErrEntryNotFound
	}
	now := time.Now()
	entry.NotifiedAt = &now
	return nil
}

func (f *fakeWaitlistRepo) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[id]; !ok {
		return waitlistRepo.ErrEntryNotFound
	}
	delete(f.entries, id)
	return nil
}

func (f *fakeWaitlistRepo) DecrementPositionsAfter(_ context.Context, slotID int64, position int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.TimeSlotID == slotID && e.Position > position {
			e.Position--
		}
	}
	return nil
}

type fakeSlotRepo struct {
	slots map[int64]*domain.TimeSlot
}

func (f *fakeSlotRepo) get(id int64) (*domain.TimeSlot, error) {
	slot, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

func (f *fakeSlotRepo) GetByID(_ context.Context, id int64) (*domain.TimeSlot, error) {
	return f.get(id)
}

func (f *fakeSlotRepo) GetByIDForUpdate(_ context.Context, id int64) (*domain.TimeSlot, error) {
	return f.get(id)
}

type fakeReservationRepo struct {
	confirmed map[int64]map[int64]int // slotID -> userID -> participants
}

func (f *fakeReservationRepo) ExistsConfirmed(_ context.Context, userID, slotID int64) (bool, error) {
	_, ok := f.confirmed[slotID][userID]
	return ok, nil
}

func (f *fakeReservationRepo) SumConfirmedBySlotID(_ context.Context, slotID int64) (int, error) {
	total := 0
	for _, participants := range f.confirmed[slotID] {
		total += participants
	}
	return total, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	notified []int64
}

func (f *fakeNotifier) WaitlistSpotAvailable(userID int64, _ *domain.TimeSlot) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.notified = append(f.notified, userID)
}

type passTxManager struct{}

func (passTxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (passTxManager) DoReadOnly(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// ---- инфраструктура тестов ----

type fixture struct {
	svc          *Service
	waitlist     *fakeWaitlistRepo
	slots        *fakeSlotRepo
	reservations *fakeReservationRepo
	notifier     *fakeNotifier
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	f := &fixture{
		waitlist:     newFakeWaitlistRepo(),
		slots:        &fakeSlotRepo{slots: make(map[int64]*domain.TimeSlot)},
		reservations: &fakeReservationRepo{confirmed: make(map[int64]map[int64]int)},
		notifier:     &fakeNotifier{},
		now:          now,
	}
	f.svc = NewService(f.waitlist, f.slots, f.reservations, f.notifier, passTxManager{}, fixedTime{now: now}, noopLogger{})
	return f
}

// addFullSlot создает завтрашний слот, заполненный до отказа
func (f *fixture) addFullSlot(id int64, maxParticipants int) *domain.TimeSlot {
	slot := &domain.TimeSlot{
		ID:              id,
		Date:            f.now.AddDate(0, 0, 1),
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("12:00"),
		MaxParticipants: maxParticipants,
	}
	f.slots.slots[id] = slot

	f.reservations.confirmed[id] = map[int64]int{1: maxParticipants}
	return slot
}

// ---- тесты ----

func TestJoin_AppendsToTail(t *testing.T) {
	f := newFixture(t)
	f.addFullSlot(1, 4)

	first, err := f.svc.Join(context.Background(), 10, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, first.Position)

	second, err := f.svc.Join(context.Background(), 11, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, second.Position)
}

func TestJoin_RejectsWhenSlotHasFreeSpots(t *testing.T) {
	f := newFixture(t)
	slot := f.addFullSlot(1, 4)
	f.reservations.confirmed[slot.ID] = map[int64]int{1: 3}

	_, err := f.svc.Join(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrSlotNotFull)
}

func TestJoin_RejectsBlockedAndStartedSlots(t *testing.T) {
	f := newFixture(t)

	blocked := f.addFullSlot(1, 4)
	blocked.Blocked = true
	_, err := f.svc.Join(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrSlotBlocked)

	started := f.addFullSlot(2, 4)
	started.Date = f.now.AddDate(0, 0, -1)
	_, err = f.svc.Join(context.Background(), 10, 2)
	assert.ErrorIs(t, err, ErrSlotStarted)
}

func TestJoin_RejectsDuplicates(t *testing.T) {
	f := newFixture(t)
	f.addFullSlot(1, 4)

	// Пользователь с подтверждённой бронью не встаёт в очередь
	f.reservations.confirmed[1][10] = 1
	_, err := f.svc.Join(context.Background(), 10, 1)
	assert.ErrorIs(t, err, ErrAlreadyReserved)

	// Повторный вход в очередь запрещён
	_, err = f.svc.Join(context.Background(), 11, 1)
	require.NoError(t, err)
	_, err = f.svc.Join(context.Background(), 11, 1)
	assert.ErrorIs(t, err, ErrAlreadyInWaitlist)
}

func TestJoin_SlotNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Join(context.Background(), 10, 99)
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

// После выхода из середины очереди позиции остаются непрерывными 1..N
func TestLeave_CompactsPositions(t *testing.T) {
	f := newFixture(t)
	f.addFullSlot(1, 4)

	var entries []*domain.WaitlistEntry
	for _, userID := range []int64{10, 11, 12} {
		entry, err := f.svc.Join(context.Background(), userID, 1)
		require.NoError(t, err)
		entries = append(entries, entry)
	}

	// Уходит середина очереди
	require.NoError(t, f.svc.Leave(context.Background(), entries[1].ID, 11, false))

	queue, err := f.svc.ListBySlot(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, queue, 2)
	assert.Equal(t, int64(10), queue[0].UserID)
	assert.Equal(t, 1, queue[0].Position)
	assert.Equal(t, int64(12), queue[1].UserID)
	assert.Equal(t, 2, queue[1].Position)
}

func TestLeave_Ownership(t *testing.T) {
	f := newFixture(t)
	f.addFullSlot(1, 4)

	entry, err := f.svc.Join(context.Background(), 10, 1)
	require.NoError(t, err)

	// Чужую запись пользователь удалить не может
	err = f.svc.Leave(context.Background(), entry.ID, 11, false)
	assert.ErrorIs(t, err, ErrAccessDenied)

	// Администратор может удалить любую запись
	err = f.svc.Leave(context.Background(), entry.ID, 11, true)
	assert.NoError(t, err)

	err = f.svc.Leave(context.Background(), entry.ID, 10, false)
	assert.ErrorIs(t, err, ErrEntryNotFound)
}

// Уведомляется только первый ещё не уведомлённый; запись остаётся
// в очереди (место не резервируется).
func TestPromoteNext_NotifiesFirstUnnotifiedOnce(t *testing.T) {
	f := newFixture(t)
	slot := f.addFullSlot(1, 4)

	for _, userID := range []int64{10, 11} {
		_, err := f.svc.Join(context.Background(), userID, 1)
		require.NoError(t, err)
	}

	f.svc.PromoteNext(context.Background(), slot)
	assert.Equal(t, []int64{10}, f.notifier.notified)

	// Повторное освобождение места уведомляет следующего, а не того же
	f.svc.PromoteNext(context.Background(), slot)
	assert.Equal(t, []int64{10, 11}, f.notifier.notified)

	// Очередь исчерпана - тишина
	f.svc.PromoteNext(context.Background(), slot)
	assert.Equal(t, []int64{10, 11}, f.notifier.notified)

	// Обе записи всё ещё в очереди
	queue, err := f.svc.ListBySlot(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, queue, 2)
	for _, entry := range queue {
		assert.True(t, entry.WasNotified())
	}
}
