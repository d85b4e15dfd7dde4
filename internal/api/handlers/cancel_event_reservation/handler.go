package cancel_event_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	"github.com/nextsteppro/NSP-BookingService/internal/api/middleware"
	cancelEventReservation "github.com/nextsteppro/NSP-BookingService/internal/usecase/cancel_event_reservation"
)

const (
	msgInvalidEventID      = "некорректный идентификатор мероприятия"
	msgEventNotFound       = "мероприятие не найдено"
	msgReservationNotFound = "у вас нет броней на это мероприятие"
	msgWindowClosed        = "отмена закрыта: до начала мероприятия осталось слишком мало времени"
	msgUnauthorized        = "требуется аутентификация"
)

type Handler struct {
	useCase CancelEventReservationUseCase
	logger  Logger
}

func NewHandler(useCase CancelEventReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/events/{eventId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	eventID, err := strconv.ParseInt(mux.Vars(r)["eventId"], 10, 64)
	if err != nil || eventID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	req := &cancelEventReservation.Request{
		UserID:  userID,
		EventID: eventID,
	}
	// Администратор отменяет брони указанного пользователя без
	// ограничения по окну отмены
	if middleware.IsAdmin(r.Context()) {
		if target := r.URL.Query().Get("userId"); target != "" {
			targetID, err := strconv.ParseInt(target, 10, 64)
			if err == nil && targetID > 0 {
				req.UserID = targetID
				req.AdminID = userID
			}
		}
	}

	result, err := h.useCase.Execute(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, cancelEventReservation.ErrEventNotFound):
			h.logger.Warn("DELETE /events/%d/reservations - Event not found", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, cancelEventReservation.ErrReservationNotFound):
			h.logger.Warn("DELETE /events/%d/reservations - No reservations for user=%d", eventID, req.UserID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, cancelEventReservation.ErrCancellationWindowClosed):
			h.logger.Warn("DELETE /events/%d/reservations - Window closed for user=%d", eventID, req.UserID)
			handlers.RespondError(w, http.StatusConflict, msgWindowClosed)

		default:
			h.logger.Error("DELETE /events/%d/reservations - Failed: user_id=%d, error=%v", eventID, req.UserID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /events/%d/reservations - Cancelled %d reservations for user=%d",
		eventID, len(result.ReservationIDs), req.UserID)
	handlers.RespondNoContent(w)
}
