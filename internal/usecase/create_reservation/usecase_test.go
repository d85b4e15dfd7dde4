package create_reservation

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	reservationRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/reservation"
	slotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
	waitlistRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/waitlist"
	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

// ---- фейки ----

type fakeSlotRepo struct {
	mu    sync.Mutex
	slots map[int64]*domain.TimeSlot
}

func newFakeSlotRepo() *fakeSlotRepo {
	return &fakeSlotRepo{slots: make(map[int64]*domain.TimeSlot)}
}

func (f *fakeSlotRepo) GetByIDForUpdate(_ context.Context, id int64) (*domain.TimeSlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	slot, ok := f.slots[id]
	if !ok {
		return nil, slotRepo.ErrSlotNotFound
	}
	copied := *slot
	return &copied, nil
}

type fakeReservationRepo struct {
	mu           sync.Mutex
	nextID       int64
	reservations map[int64]*domain.Reservation
}

func newFakeReservationRepo() *fakeReservationRepo {
	return &fakeReservationRepo{nextID: 1, reservations: make(map[int64]*domain.Reservation)}
}

func (f *fakeReservationRepo) Create(_ context.Context, res *domain.Reservation) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	created := *res
	created.ID = f.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt
	f.nextID++
	f.reservations[created.ID] = &created
	copied := created
	return &copied, nil
}

func (f *fakeReservationRepo) GetByUserAndSlot(_ context.Context, userID, slotID int64) (*domain.Reservation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, res := range f.reservations {
		if res.UserID == userID && res.TimeSlotID == slotID {
			copied := *res
			return &copied, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (f *fakeReservationRepo) Reactivate(_ context.Context, id int64, participants int, comment *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	res, ok := f.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	res.Status = domain.StatusConfirmed
	res.Participants = participants
	res.Comment = comment
	res.CancelledBy = nil
	res.CancelledAt = nil
	res.UpdatedAt = time.Now()
	return nil
}

func (f *fakeReservationRepo) SumConfirmedBySlotID(_ context.Context, slotID int64) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	total := 0
	for _, res := range f.reservations {
		if res.TimeSlotID == slotID && res.IsConfirmed() {
			total += res.Participants
		}
	}
	return total, nil
}

type fakeWaitlistRepo struct {
	mu      sync.Mutex
	entries map[int64]*domain.WaitlistEntry
}

func newFakeWaitlistRepo() *fakeWaitlistRepo {
	return &fakeWaitlistRepo{entries: make(map[int64]*domain.WaitlistEntry)}
}

func (f *fakeWaitlistRepo) GetByUserAndSlot(_ context.Context, userID, slotID int64) (*domain.WaitlistEntry, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.entries {
		if e.UserID == userID && e.TimeSlotID == slotID {
			copied := *e
			return &copied, nil
		}
	}
	return nil, waitlistRepo.ErrEntryNotFound
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

// fakeTxManager сериализует транзакции мьютексом, имитируя
// сериализуемый уровень изоляции
type fakeTxManager struct {
	mu sync.Mutex
}

func (f *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return fn(ctx)
}

type fixedTime struct {
	now time.Time
}

func (f *fixedTime) Now() time.Time { return f.now }

// lateTxManager сдвигает часы перед выполнением замыкания, имитируя
// транзакцию, ждавшую блокировки
type lateTxManager struct {
	tp    *fixedTime
	shift time.Duration
}

func (m *lateTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.tp.now = m.tp.now.Add(m.shift)
	return fn(ctx)
}

type fakeNotifier struct {
	mu        sync.Mutex
	confirmed []int64
}

func (f *fakeNotifier) ReservationConfirmed(userID int64, _ *domain.TimeSlot, _ int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmed = append(f.confirmed, userID)
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

// ---- инфраструктура тестов ----

type fixture struct {
	uc           *UseCase
	slots        *fakeSlotRepo
	reservations *fakeReservationRepo
	waitlist     *fakeWaitlistRepo
	notifier     *fakeNotifier
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	slots := newFakeSlotRepo()
	reservations := newFakeReservationRepo()
	waitlist := newFakeWaitlistRepo()
	notifier := &fakeNotifier{}

	uc := NewUseCase(reservations, slots, waitlist, &fakeTxManager{}, notifier, 12*time.Hour, 500, noopLogger{})

	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	uc.timeProvider = &fixedTime{now: now}

	return &fixture{uc: uc, slots: slots, reservations: reservations, waitlist: waitlist, notifier: notifier, now: now}
}

// addSlot создает слот, начинающийся через startsIn от "сейчас".
// Гранулярность времени слота - минуты, поэтому startsIn должен быть
// кратен минуте.
func (f *fixture) addSlot(id int64, startsIn time.Duration, maxParticipants int) *domain.TimeSlot {
	start := f.now.Add(startsIn)
	startTime := types.NewTimeString(start)
	endTime, _ := startTime.AddMinutes(60)

	slot := &domain.TimeSlot{
		ID:              id,
		Date:            time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:       startTime,
		EndTime:         endTime,
		MaxParticipants: maxParticipants,
	}
	f.slots.slots[id] = slot
	return slot
}

// ---- тесты ----

func TestExecute_CreatesReservation(t *testing.T) {
	f := newFixture(t)
	f.addSlot(1, 48*time.Hour, 8)

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 2})
	require.NoError(t, err)

	assert.Equal(t, int64(10), resp.UserID)
	assert.Equal(t, int64(1), resp.TimeSlotID)
	assert.Equal(t, string(domain.StatusConfirmed), resp.Status)
	assert.Equal(t, 2, resp.Participants)
	assert.False(t, resp.Reactivated)
	assert.Equal(t, 6, resp.SpotsLeft)
	assert.Equal(t, []int64{10}, f.notifier.confirmed)
}

func TestExecute_ValidatesInput(t *testing.T) {
	f := newFixture(t)
	f.addSlot(1, 48*time.Hour, 8)

	cases := []Request{
		{UserID: 0, TimeSlotID: 1, Participants: 1},
		{UserID: 10, TimeSlotID: 0, Participants: 1},
		{UserID: 10, TimeSlotID: 1, Participants: 0},
	}
	for _, req := range cases {
		_, err := f.uc.Execute(context.Background(), &req)
		assert.ErrorIs(t, err, ErrInvalidInput)
	}
}

func TestExecute_SlotNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 99, Participants: 1})
	assert.ErrorIs(t, err, ErrSlotNotFound)
}

func TestExecute_BlockedSlot(t *testing.T) {
	f := newFixture(t)
	slot := f.addSlot(1, 48*time.Hour, 8)
	slot.Blocked = true

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 1})
	assert.ErrorIs(t, err, ErrSlotBlocked)
}

func TestExecute_BookingWindow(t *testing.T) {
	f := newFixture(t)

	// Слот раньше окна - отказ
	f.addSlot(1, 12*time.Hour-time.Minute, 8)
	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 1})
	assert.ErrorIs(t, err, ErrBookingWindowClosed)

	// Слот ровно на границе окна - доступен (граница включительная)
	f.addSlot(2, 12*time.Hour, 8)
	_, err = f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 2, Participants: 1})
	assert.NoError(t, err)

	// Слот сразу за границей - доступен
	f.addSlot(3, 12*time.Hour+time.Minute, 8)
	_, err = f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 3, Participants: 1})
	assert.NoError(t, err)

	// Уже начавшийся слот - отдельная ошибка
	f.addSlot(4, -time.Hour, 8)
	_, err = f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 4, Participants: 1})
	assert.ErrorIs(t, err, ErrSlotStarted)
}

// Окно проверяется по времени после захвата блокировки: пока транзакция
// ждала, окно могло закрыться
func TestExecute_WindowCheckedAfterLock(t *testing.T) {
	f := newFixture(t)
	f.addSlot(1, 12*time.Hour+time.Minute, 8)

	tp := &fixedTime{now: f.now}
	f.uc.timeProvider = tp
	f.uc.txManager = &lateTxManager{tp: tp, shift: 2 * time.Minute}

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 1})
	assert.ErrorIs(t, err, ErrBookingWindowClosed)
}

func TestExecute_AlreadyReserved(t *testing.T) {
	f := newFixture(t)
	f.addSlot(1, 48*time.Hour, 8)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 1})
	require.NoError(t, err)

	_, err = f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 1})
	assert.ErrorIs(t, err, ErrAlreadyReserved)
}

func TestExecute_NotEnoughSpots(t *testing.T) {
	f := newFixture(t)
	f.addSlot(1, 48*time.Hour, 3)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 2})
	require.NoError(t, err)

	// Осталось 1 место, запрошено 2: в ошибке виден остаток
	_, err = f.uc.Execute(context.Background(), &Request{UserID: 11, TimeSlotID: 1, Participants: 2})
	assert.ErrorIs(t, err, ErrNotEnoughSpots)
	assert.ErrorContains(t, err, "only 1 spots left")

	// Ровно в оставшееся место - успех
	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 12, TimeSlotID: 1, Participants: 1})
	require.NoError(t, err)
	assert.Equal(t, 0, resp.SpotsLeft)

	// Мест не осталось совсем - отдельная ошибка
	_, err = f.uc.Execute(context.Background(), &Request{UserID: 13, TimeSlotID: 1, Participants: 1})
	assert.ErrorIs(t, err, ErrSlotFull)
}

func TestExecute_ReactivatesCancelledReservation(t *testing.T) {
	f := newFixture(t)
	f.addSlot(1, 48*time.Hour, 8)

	first, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 1})
	require.NoError(t, err)

	// Отменяем бронь напрямую в хранилище
	f.reservations.mu.Lock()
	f.reservations.reservations[first.ID].Status = domain.StatusCancelled
	f.reservations.mu.Unlock()

	comment := "вернулся"
	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 3, Comment: &comment})
	require.NoError(t, err)

	// Та же строка, но реактивированная с новыми параметрами
	assert.Equal(t, first.ID, resp.ID)
	assert.True(t, resp.Reactivated)
	assert.Equal(t, 3, resp.Participants)
	require.NotNil(t, resp.Comment)
	assert.Equal(t, comment, *resp.Comment)
}

func TestExecute_RemovesUserFromWaitlist(t *testing.T) {
	f := newFixture(t)
	f.addSlot(1, 48*time.Hour, 8)

	// Пользователь 10 на позиции 1, пользователь 11 на позиции 2
	f.waitlist.entries[1] = &domain.WaitlistEntry{ID: 1, UserID: 10, TimeSlotID: 1, Position: 1}
	f.waitlist.entries[2] = &domain.WaitlistEntry{ID: 2, UserID: 11, TimeSlotID: 1, Position: 2}

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 1})
	require.NoError(t, err)

	// Запись пользователя 10 удалена, позиция пользователя 11 уплотнена
	_, err = f.waitlist.GetByUserAndSlot(context.Background(), 10, 1)
	assert.ErrorIs(t, err, waitlistRepo.ErrEntryNotFound)

	entry, err := f.waitlist.GetByUserAndSlot(context.Background(), 11, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, entry.Position)
}

func TestExecute_TruncatesLongComment(t *testing.T) {
	f := newFixture(t)
	f.addSlot(1, 48*time.Hour, 8)

	long := make([]rune, 600)
	for i := range long {
		long[i] = 'a'
	}
	comment := string(long)

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 10, TimeSlotID: 1, Participants: 1, Comment: &comment})
	require.NoError(t, err)
	require.NotNil(t, resp.Comment)
	assert.Len(t, *resp.Comment, 500)
}

// Вместимость не превышается при параллельных бронированиях:
// транзакции сериализуются, лишние получают ErrNotEnoughSpots.
func TestExecute_ConcurrentBookingsRespectCapacity(t *testing.T) {
	f := newFixture(t)
	f.addSlot(1, 48*time.Hour, 5)

	const attempts = 20

	var wg sync.WaitGroup
	errs := make([]error, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = f.uc.Execute(context.Background(), &Request{
				UserID:       int64(100 + i),
				TimeSlotID:   1,
				Participants: 1,
			})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	rejected := 0
	for _, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case assert.ErrorIs(t, err, ErrSlotFull):
			rejected++
		}
	}

	assert.Equal(t, 5, succeeded)
	assert.Equal(t, attempts-5, rejected)

	occupied, err := f.reservations.SumConfirmedBySlotID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 5, occupied)
}
