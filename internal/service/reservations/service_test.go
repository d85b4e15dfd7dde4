package reservations

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	reservationRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/reservation"
	slotRepo "github.com/nextsteppro/NSP-BookingService/internal/infra/storage/timeslot"
	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

// ---- фейки ----

type fakeReservationRepo struct {
	reservations map[int64]*domain.Reservation
}

func (f *fakeReservationRepo) GetByID(_ context.Context, id int64) (*domain.Reservation, error) {
	res, ok := f.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (f *fakeReservationRepo) ListByUserID(_ context.Context, userID int64) ([]*domain.Reservation, error) {
	var result []*domain.Reservation
	for _, res := range f.reservations {
		if res.UserID == userID {
			copied := *res
			result = append(result, &copied)
		}
	}
	return result, nil
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

type fakePromoter struct {
	promoted []int64
}

func (f *fakePromoter) PromoteNext(_ context.Context, slot *domain.TimeSlot) {
	f.promoted = append(f.promoted, slot.ID)
}

type fakeNotifier struct {
	cancelled    []int64
	reasons      []string
	acknowledged []int64
}

func (f *fakeNotifier) ReservationCancelled(userID int64, _ *domain.TimeSlot) {
	f.acknowledged = append(f.acknowledged, userID)
}

func (f *fakeNotifier) ReservationCancelledByAdmin(userID int64, _ *domain.TimeSlot, reason string) {
	f.cancelled = append(f.cancelled, userID)
	f.reasons = append(f.reasons, reason)
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
	reservations *fakeReservationRepo
	slots        *fakeSlotRepo
	promoter     *fakePromoter
	notifier     *fakeNotifier
	now          time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	now := time.Date(2026, 9, 10, 8, 0, 0, 0, time.UTC)
	f := &fixture{
		reservations: &fakeReservationRepo{reservations: make(map[int64]*domain.Reservation)},
		slots:        &fakeSlotRepo{slots: make(map[int64]*domain.TimeSlot)},
		promoter:     &fakePromoter{},
		notifier:     &fakeNotifier{},
		now:          now,
	}
	f.svc = NewService(
		f.reservations, f.slots, f.promoter, f.notifier,
		passTxManager{}, fixedTime{now: now}, 12*time.Hour, noopLogger{},
	)
	return f
}

// addReservation создает подтверждённую бронь на слот, начинающийся
// через startsIn от "сейчас"
func (f *fixture) addReservation(resID, userID, slotID int64, startsIn time.Duration) {
	start := f.now.Add(startsIn)
	startTime := types.NewTimeString(start)
	endTime, _ := startTime.AddMinutes(60)

	f.slots.slots[slotID] = &domain.TimeSlot{
		ID:              slotID,
		Date:            time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC),
		StartTime:       startTime,
		EndTime:         endTime,
		MaxParticipants: 8,
	}
	f.reservations.reservations[resID] = &domain.Reservation{
		ID:           resID,
		UserID:       userID,
		TimeSlotID:   slotID,
		Status:       domain.StatusConfirmed,
		Participants: 1,
	}
}

// ---- тесты ----

func TestCancel_ByOwner(t *testing.T) {
	f := newFixture(t)
	f.addReservation(1, 10, 1, 48*time.Hour)

	err := f.svc.Cancel(context.Background(), 1, 10, false, "")
	require.NoError(t, err)

	res := f.reservations.reservations[1]
	assert.True(t, res.IsCancelled())
	assert.Nil(t, res.CancelledBy)

	// Очередь слота уведомлена, пользователю ушло подтверждение отмены
	assert.Equal(t, []int64{1}, f.promoter.promoted)
	assert.Equal(t, []int64{10}, f.notifier.acknowledged)
	assert.Empty(t, f.notifier.cancelled)
}

func TestCancel_NotFound(t *testing.T) {
	f := newFixture(t)

	err := f.svc.Cancel(context.Background(), 99, 10, false, "")
	assert.ErrorIs(t, err, ErrReservationNotFound)
}

func TestCancel_AccessDenied(t *testing.T) {
	f := newFixture(t)
	f.addReservation(1, 10, 1, 48*time.Hour)

	err := f.svc.Cancel(context.Background(), 1, 11, false, "")
	assert.ErrorIs(t, err, ErrAccessDenied)
	assert.True(t, f.reservations.reservations[1].IsConfirmed())
}

func TestCancel_AlreadyCancelled(t *testing.T) {
	f := newFixture(t)
	f.addReservation(1, 10, 1, 48*time.Hour)
	f.reservations.reservations[1].Status = domain.StatusCancelled

	err := f.svc.Cancel(context.Background(), 1, 10, false, "")
	assert.ErrorIs(t, err, ErrAlreadyCancelled)
}

func TestCancel_Window(t *testing.T) {
	f := newFixture(t)

	// До начала слота меньше окна - пользователю отказано
	f.addReservation(1, 10, 1, 11*time.Hour)
	err := f.svc.Cancel(context.Background(), 1, 10, false, "")
	assert.ErrorIs(t, err, ErrCancellationWindowClosed)

	// Ровно окно - отмена проходит (граница включительная)
	f.addReservation(2, 10, 2, 12*time.Hour)
	err = f.svc.Cancel(context.Background(), 2, 10, false, "")
	assert.NoError(t, err)
}

func TestCancel_AdminBypassesWindow(t *testing.T) {
	f := newFixture(t)
	f.addReservation(1, 10, 1, time.Hour)

	err := f.svc.Cancel(context.Background(), 1, 42, true, "день закрыт по погоде")
	require.NoError(t, err)

	res := f.reservations.reservations[1]
	assert.True(t, res.IsCancelledByAdmin())
	require.NotNil(t, res.CancelledBy)
	assert.Equal(t, int64(42), *res.CancelledBy)

	// Владелец брони уведомлён с причиной
	assert.Equal(t, []int64{10}, f.notifier.cancelled)
	assert.Equal(t, []string{"день закрыт по погоде"}, f.notifier.reasons)
	assert.Equal(t, []int64{1}, f.promoter.promoted)
}

func TestUserReservations_SplitsSlotsAndEvents(t *testing.T) {
	f := newFixture(t)
	f.addReservation(1, 10, 1, 24*time.Hour)
	f.addReservation(2, 10, 2, 48*time.Hour)
	f.addReservation(3, 11, 3, 24*time.Hour)

	// Второй слот принадлежит мероприятию
	eventID := int64(7)
	f.slots.slots[2].EventID = &eventID

	resp, err := f.svc.UserReservations(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, resp.Slots.Upcoming, 1)
	assert.Equal(t, int64(1), resp.Slots.Upcoming[0].ID)
	assert.Empty(t, resp.Slots.Past)

	require.Len(t, resp.Events.Upcoming, 1)
	assert.Equal(t, int64(2), resp.Events.Upcoming[0].ID)
	require.NotNil(t, resp.Events.Upcoming[0].EventID)
	assert.Equal(t, eventID, *resp.Events.Upcoming[0].EventID)
}

// Прошедшие брони попадают в историю отдельно от предстоящих
func TestUserReservations_SplitsUpcomingAndPast(t *testing.T) {
	f := newFixture(t)
	f.addReservation(1, 10, 1, 24*time.Hour)
	f.addReservation(2, 10, 2, -24*time.Hour)

	resp, err := f.svc.UserReservations(context.Background(), 10)
	require.NoError(t, err)

	require.Len(t, resp.Slots.Upcoming, 1)
	assert.Equal(t, int64(1), resp.Slots.Upcoming[0].ID)
	require.Len(t, resp.Slots.Past, 1)
	assert.Equal(t, int64(2), resp.Slots.Past[0].ID)
}
