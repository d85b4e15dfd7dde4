package cancel_event_reservation

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	eventRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/event"
	reservationRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/reservation"
	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

// ---- фейки ----

type fakeEventRepo struct {
	events map[int64]*domain.Event
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*domain.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, eventRepo.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

type fakeSlotRepo struct {
	slots []*domain.TimeSlot
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

type fakeReservationRepo struct {
	reservations map[int64]*domain.Reservation
}

func (f *fakeReservationRepo) GetByUserAndSlot(_ context.Context, userID, slotID int64) (*domain.Reservation, error) {
	for _, res := range f.reservations {
		if res.UserID == userID && res.TimeSlotID == slotID {
			copied := *res
			return &copied, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (f *fakeReservationRepo) Cancel(_ context.Context, id int64, cancelledBy *int64) error {
	res, ok := f.reservations[id]
	if !ok {
		return reservationRepo.ErrReservationNotFound
	}
	now := time.Now()
	res.Status = domain.StatusCancelled
	res.CancelledBy = cancelledBy
	res.CancelledAt = &now
	return nil
}

type fakePromoter struct {
	promoted []int64
}

func (f *fakePromoter) PromoteNext(_ context.Context, slot *domain.TimeSlot) {
	f.promoted = append(f.promoted, slot.ID)
}

type passTxManager struct{}

func (passTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

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
	cancelled []int64
}

func (f *fakeNotifier) EventReservationCancelled(userID int64, _ *domain.Event) {
	f.cancelled = append(f.cancelled, userID)
}

// ---- инфраструктура тестов ----

type fixture struct {
	uc           *UseCase
	events       *fakeEventRepo
	slots        *fakeSlotRepo
	reservations *fakeReservationRepo
	promoter     *fakePromoter
	notifier     *fakeNotifier
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		events:       &fakeEventRepo{events: make(map[int64]*domain.Event)},
		slots:        &fakeSlotRepo{},
		reservations: &fakeReservationRepo{reservations: make(map[int64]*domain.Reservation)},
		promoter:     &fakePromoter{},
		notifier:     &fakeNotifier{},
		now:          time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC),
	}
	f.uc = NewUseCase(f.events, f.slots, f.reservations, f.promoter, f.notifier, passTxManager{}, 12*time.Hour, noopLogger{})
	f.uc.timeProvider = fixedTime{now: f.now}
	return f
}

// addEvent создает трёхдневное мероприятие со слотами и подтверждёнными
// бронями пользователя на каждый день
func (f *fixture) addEvent(eventID, userID int64, daysAhead int) {
	start := types.TimeString("09:00")
	end := types.TimeString("17:00")
	startDate := time.Date(f.now.Year(), f.now.Month(), f.now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, daysAhead)

	f.events.events[eventID] = &domain.Event{
		ID:              eventID,
		Title:           "Сборы",
		StartDate:       startDate,
		EndDate:         startDate.AddDate(0, 0, 2),
		StartTime:       &start,
		EndTime:         &end,
		MaxParticipants: 10,
		Active:          true,
	}

	for day := 0; day < 3; day++ {
		slotID := eventID*100 + int64(day)
		eid := eventID
		f.slots.slots = append(f.slots.slots, &domain.TimeSlot{
			ID:              slotID,
			EventID:         &eid,
			Date:            startDate.AddDate(0, 0, day),
			StartTime:       start,
			EndTime:         end,
			MaxParticipants: 10,
		})
		f.reservations.reservations[slotID] = &domain.Reservation{
			ID:           slotID,
			UserID:       userID,
			TimeSlotID:   slotID,
			Status:       domain.StatusConfirmed,
			Participants: 1,
		}
	}
}

// ---- тесты ----

func TestExecute_CancelsEveryDay(t *testing.T) {
	f := newFixture(t)
	f.addEvent(1, 10, 5)

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 10, EventID: 1})
	require.NoError(t, err)
	assert.Len(t, resp.ReservationIDs, 3)

	for _, id := range resp.ReservationIDs {
		res := f.reservations.reservations[id]
		assert.True(t, res.IsCancelled())
		assert.Nil(t, res.CancelledBy)
	}

	// Очередь каждого освободившегося слота уведомлена
	assert.Equal(t, []int64{100, 101, 102}, f.promoter.promoted)
	assert.Equal(t, []int64{10}, f.notifier.cancelled)
}

func TestExecute_EventNotFound(t *testing.T) {
	f := newFixture(t)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, EventID: 99})
	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestExecute_WindowClosedForUser(t *testing.T) {
	f := newFixture(t)
	// Мероприятие начинается сегодня в 09:00: до начала меньше окна
	f.addEvent(1, 10, 0)

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, EventID: 1})
	assert.ErrorIs(t, err, ErrCancellationWindowClosed)

	// Брони остались подтверждёнными
	for _, res := range f.reservations.reservations {
		assert.True(t, res.IsConfirmed())
	}
}

// Окно проверяется по времени после захвата блокировок: пока транзакция
// ждала, окно могло закрыться
func TestExecute_WindowCheckedAfterLock(t *testing.T) {
	f := newFixture(t)
	f.addEvent(1, 10, 0)
	start := types.TimeString("20:01")
	f.events.events[1].StartTime = &start // ровно 12ч01м от "сейчас"

	tp := &fixedTime{now: f.now}
	f.uc.timeProvider = tp
	f.uc.txManager = &lateTxManager{tp: tp, shift: 2 * time.Minute}

	_, err := f.uc.Execute(context.Background(), &Request{UserID: 10, EventID: 1})
	assert.ErrorIs(t, err, ErrCancellationWindowClosed)

	for _, res := range f.reservations.reservations {
		assert.True(t, res.IsConfirmed())
	}
}

func TestExecute_AdminBypassesWindow(t *testing.T) {
	f := newFixture(t)
	f.addEvent(1, 10, 0)

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 10, EventID: 1, AdminID: 42})
	require.NoError(t, err)
	assert.Len(t, resp.ReservationIDs, 3)

	for _, id := range resp.ReservationIDs {
		res := f.reservations.reservations[id]
		require.NotNil(t, res.CancelledBy)
		assert.Equal(t, int64(42), *res.CancelledBy)
	}
}

func TestExecute_NothingToCancel(t *testing.T) {
	f := newFixture(t)
	f.addEvent(1, 10, 5)

	// У другого пользователя броней нет
	_, err := f.uc.Execute(context.Background(), &Request{UserID: 11, EventID: 1})
	assert.ErrorIs(t, err, ErrReservationNotFound)
	assert.Empty(t, f.promoter.promoted)
	assert.Empty(t, f.notifier.cancelled)
}

// Уже отменённые дни пропускаются, отменяются только подтверждённые
func TestExecute_SkipsCancelledDays(t *testing.T) {
	f := newFixture(t)
	f.addEvent(1, 10, 5)
	f.reservations.reservations[101].Status = domain.StatusCancelled

	resp, err := f.uc.Execute(context.Background(), &Request{UserID: 10, EventID: 1})
	require.NoError(t, err)
	assert.ElementsMatch(t, []int64{100, 102}, resp.ReservationIDs)
	assert.Equal(t, []int64{100, 102}, f.promoter.promoted)
}
