package notify

import (
	"context"
	"strconv"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/domain"
	"github.com/nextsteppro/NSP-BookingService/internal/integrations/mailservice"
)

const sendTimeout = 10 * time.Second

// Service отправляет почтовые уведомления пользователям и копии
// в административный канал.
// Все отправки асинхронные и fire-and-forget: ошибки доставки
// логируются, но никогда не влияют на результат операции бронирования.
type Service struct {
	users      UserServiceClient
	mail       MailServiceClient
	adminEmail string
	logger     Logger
}

// NewService создает новый экземпляр сервиса уведомлений.
// Пустой adminEmail отключает административный канал.
func NewService(users UserServiceClient, mail MailServiceClient, adminEmail string, logger Logger) *Service {
	return &Service{
		users:      users,
		mail:       mail,
		adminEmail: adminEmail,
		logger:     logger,
	}
}

// ReservationConfirmed уведомляет пользователя о подтверждении его брони
func (s *Service) ReservationConfirmed(userID int64, slot *domain.TimeSlot, participants int) {
	vars := slotVariables(slot)
	vars["participants"] = strconv.Itoa(participants)
	s.send(userID, mailservice.TypeReservationConfirmed, vars)
}

// ReservationCancelled подтверждает пользователю отмену его собственной брони
func (s *Service) ReservationCancelled(userID int64, slot *domain.TimeSlot) {
	s.send(userID, mailservice.TypeReservationCancelled, slotVariables(slot))
}

// ReservationCancelledByAdmin уведомляет пользователя об отмене его
// брони администратором
func (s *Service) ReservationCancelledByAdmin(userID int64, slot *domain.TimeSlot, reason string) {
	vars := slotVariables(slot)
	if reason != "" {
		vars["reason"] = reason
	}
	s.send(userID, mailservice.TypeReservationCancelledByAdmin, vars)
}

// EventReservationConfirmed уведомляет пользователя о брони на все дни мероприятия
func (s *Service) EventReservationConfirmed(userID int64, event *domain.Event, days int) {
	vars := eventVariables(event)
	vars["days"] = strconv.Itoa(days)
	s.send(userID, mailservice.TypeEventReservationConfirmed, vars)
}

// EventReservationCancelled уведомляет пользователя об отмене его броней
// на дни мероприятия
func (s *Service) EventReservationCancelled(userID int64, event *domain.Event) {
	s.send(userID, mailservice.TypeEventReservationCancelled, eventVariables(event))
}

// SlotBlocked уведомляет пользователей о блокировке слота и снятии их броней
func (s *Service) SlotBlocked(userIDs []int64, slot *domain.TimeSlot, reason string) {
	vars := slotVariables(slot)
	if reason != "" {
		vars["reason"] = reason
	}
	for _, userID := range uniqueIDs(userIDs) {
		s.send(userID, mailservice.TypeSlotBlocked, vars)
	}
}

// SlotDeleted уведомляет пользователей об удалении слота и снятии их броней
func (s *Service) SlotDeleted(userIDs []int64, slot *domain.TimeSlot) {
	vars := slotVariables(slot)
	for _, userID := range uniqueIDs(userIDs) {
		s.send(userID, mailservice.TypeSlotDeleted, vars)
	}
}

// EventDeleted уведомляет пользователей об удалении мероприятия.
// Каждый пользователь получает одно письмо, сколько бы слотов
// мероприятия он ни бронировал.
func (s *Service) EventDeleted(userIDs []int64, event *domain.Event) {
	vars := eventVariables(event)
	for _, userID := range uniqueIDs(userIDs) {
		s.send(userID, mailservice.TypeEventDeleted, vars)
	}
}

// WaitlistSpotAvailable уведомляет первого в очереди об освободившемся месте
func (s *Service) WaitlistSpotAvailable(userID int64, slot *domain.TimeSlot) {
	s.send(userID, mailservice.TypeWaitlistSpotAvailable, slotVariables(slot))
}

func (s *Service) send(userID int64, notifType mailservice.NotificationType, vars map[string]string) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
		defer cancel()

		n := mailservice.Notification{
			Type:      notifType,
			UserID:    userID,
			Variables: vars,
		}

		// Профиль нужен только для персонализации письма:
		// при недоступности UserService отправляем без него
		optedOut := false
		user, err := s.users.GetUserWithGracefulDegradation(ctx, userID)
		if err != nil {
			s.logger.Warn("notify: sending %s to user=%d without profile: %v", notifType, userID, err)
		} else {
			optedOut = !user.NotificationsEnabled()
			n.Email = user.Email
			n.UserName = user.FullName()
			n.Locale = user.Locale
		}

		// Отказ от рассылки действует только на пользовательский канал
		if optedOut {
			s.logger.Info("notify: user=%d opted out, skipping %s", userID, notifType)
		} else if err := s.mail.Send(ctx, n); err != nil {
			s.logger.Error("notify: failed to send %s to user=%d: %v", notifType, userID, err)
		} else {
			s.logger.Info("notify: sent %s to user=%d", notifType, userID)
		}

		s.sendAdminCopy(ctx, n)
	}()
}

// sendAdminCopy отправляет копию уведомления в административный канал
func (s *Service) sendAdminCopy(ctx context.Context, n mailservice.Notification) {
	if s.adminEmail == "" {
		return
	}

	admin := n
	admin.Email = s.adminEmail
	admin.Locale = ""

	if err := s.mail.Send(ctx, admin); err != nil {
		s.logger.Error("notify: failed to send admin copy of %s for user=%d: %v", n.Type, n.UserID, err)
	}
}

func slotVariables(slot *domain.TimeSlot) map[string]string {
	vars := map[string]string{
		"date":       slot.Date.Format(domain.DateFormat),
		"start_time": slot.StartTime.String(),
		"end_time":   slot.EndTime.String(),
	}
	if slot.Title != nil {
		vars["slot_title"] = *slot.Title
	}
	return vars
}

func eventVariables(event *domain.Event) map[string]string {
	return map[string]string{
		"event_title": event.Title,
		"start_date":  event.StartDate.Format(domain.DateFormat),
		"end_date":    event.EndDate.Format(domain.DateFormat),
	}
}

func uniqueIDs(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	unique := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}
	return unique
}
