package notify

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	"github.com/nextsteppro/NSP-BookingService/internal/integrations/mailservice"
	"github.com/nextsteppro/NSP-BookingService/internal/integrations/userservice"
	"github.com/nextsteppro/NSP-BookingService/pkg/types"
)

// ---- фейки зависимостей ----

type fakeUserClient struct {
	users map[int64]*userservice.User
	err   error
}

func (f *fakeUserClient) GetUserWithGracefulDegradation(_ context.Context, userID int64) (*userservice.User, error) {
	if f.err != nil {
		return nil, f.err
	}
	user, ok := f.users[userID]
	if !ok {
		return nil, userservice.ErrUserNotFound
	}
	return user, nil
}

// fakeMailClient собирает отправленные уведомления в канал:
// отправка асинхронная, тесты ждут доставку через receive
type fakeMailClient struct {
	sent chan mailservice.Notification
}

func newFakeMailClient() *fakeMailClient {
	return &fakeMailClient{sent: make(chan mailservice.Notification, 8)}
}

func (f *fakeMailClient) Send(_ context.Context, n mailservice.Notification) error {
	f.sent <- n
	return nil
}

func (f *fakeMailClient) receive(t *testing.T) mailservice.Notification {
	t.Helper()
	select {
	case n := <-f.sent:
		return n
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not sent")
		return mailservice.Notification{}
	}
}

func (f *fakeMailClient) expectSilence(t *testing.T) {
	t.Helper()
	select {
	case n := <-f.sent:
		t.Fatalf("unexpected notification %s to user=%d", n.Type, n.UserID)
	case <-time.After(100 * time.Millisecond):
	}
}

type noopLogger struct{}

func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}

func testSlot() *domain.TimeSlot {
	title := "Скальный класс"
	return &domain.TimeSlot{
		ID:              1,
		Date:            time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		StartTime:       types.TimeString("10:00"),
		EndTime:         types.TimeString("12:00"),
		MaxParticipants: 8,
		Title:           &title,
	}
}

func boolPtr(b bool) *bool { return &b }

// ---- тесты ----

func TestReservationConfirmed_PersonalizesFromProfile(t *testing.T) {
	mail := newFakeMailClient()
	users := &fakeUserClient{users: map[int64]*userservice.User{
		10: {ID: 10, Email: "ivan@example.com", FirstName: "Иван", LastName: "Петров", Locale: "ru"},
	}}
	svc := NewService(users, mail, "", noopLogger{})

	svc.ReservationConfirmed(10, testSlot(), 2)

	n := mail.receive(t)
	assert.Equal(t, mailservice.TypeReservationConfirmed, n.Type)
	assert.Equal(t, int64(10), n.UserID)
	assert.Equal(t, "ivan@example.com", n.Email)
	assert.Equal(t, "Иван Петров", n.UserName)
	assert.Equal(t, "ru", n.Locale)
	assert.Equal(t, "2", n.Variables["participants"])
	assert.Equal(t, "Скальный класс", n.Variables["slot_title"])
	assert.Equal(t, "10:00", n.Variables["start_time"])
}

// Недоступность UserService не блокирует отправку: письмо уходит
// без персонализации
func TestSend_DegradesWithoutProfile(t *testing.T) {
	mail := newFakeMailClient()
	users := &fakeUserClient{err: errors.New("user service down")}
	svc := NewService(users, mail, "", noopLogger{})

	svc.ReservationCancelled(10, testSlot())

	n := mail.receive(t)
	assert.Equal(t, mailservice.TypeReservationCancelled, n.Type)
	assert.Equal(t, int64(10), n.UserID)
	assert.Empty(t, n.Email)
	assert.Empty(t, n.UserName)
}

// Каждое уведомление дублируется в административный канал
func TestSend_DeliversAdminCopy(t *testing.T) {
	mail := newFakeMailClient()
	users := &fakeUserClient{users: map[int64]*userservice.User{
		10: {ID: 10, Email: "ivan@example.com", FirstName: "Иван"},
	}}
	svc := NewService(users, mail, "admin@example.com", noopLogger{})

	svc.ReservationConfirmed(10, testSlot(), 1)

	first := mail.receive(t)
	second := mail.receive(t)
	assert.ElementsMatch(t,
		[]string{"ivan@example.com", "admin@example.com"},
		[]string{first.Email, second.Email})
	assert.Equal(t, mailservice.TypeReservationConfirmed, first.Type)
	assert.Equal(t, first.Variables, second.Variables)
}

// Отказ пользователя от рассылки не отключает административный канал
func TestSend_OptOutKeepsAdminCopy(t *testing.T) {
	mail := newFakeMailClient()
	users := &fakeUserClient{users: map[int64]*userservice.User{
		10: {ID: 10, Email: "ivan@example.com", Notifications: boolPtr(false)},
	}}
	svc := NewService(users, mail, "admin@example.com", noopLogger{})

	svc.ReservationCancelled(10, testSlot())

	n := mail.receive(t)
	assert.Equal(t, "admin@example.com", n.Email)
	assert.Equal(t, int64(10), n.UserID)
	mail.expectSilence(t)
}

func TestSend_SkipsOptedOutUser(t *testing.T) {
	mail := newFakeMailClient()
	users := &fakeUserClient{users: map[int64]*userservice.User{
		10: {ID: 10, Email: "ivan@example.com", Notifications: boolPtr(false)},
	}}
	svc := NewService(users, mail, "", noopLogger{})

	svc.WaitlistSpotAvailable(10, testSlot())

	mail.expectSilence(t)
}

// Пользователь, бронировавший несколько дней мероприятия, получает
// одно письмо об удалении
func TestEventDeleted_DeduplicatesUsers(t *testing.T) {
	mail := newFakeMailClient()
	users := &fakeUserClient{users: map[int64]*userservice.User{}}
	svc := NewService(users, mail, "", noopLogger{})

	event := &domain.Event{
		ID:        1,
		Title:     "Сборы на скалах",
		StartDate: time.Date(2026, 9, 20, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 9, 22, 0, 0, 0, 0, time.UTC),
	}
	svc.EventDeleted([]int64{10, 11, 10, 10}, event)

	first := mail.receive(t)
	second := mail.receive(t)
	assert.ElementsMatch(t, []int64{10, 11}, []int64{first.UserID, second.UserID})
	assert.Equal(t, "Сборы на скалах", first.Variables["event_title"])
	mail.expectSilence(t)

	require.Equal(t, mailservice.TypeEventDeleted, first.Type)
}
