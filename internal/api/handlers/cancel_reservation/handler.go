package cancel_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	"github.com/nextsteppro/NSP-BookingService/internal/api/middleware"
	reservationsService "github.com/nextsteppro/NSP-BookingService/internal/service/reservations"
)

const (
	msgInvalidReservationID = "некорректный идентификатор брони"
	msgReservationNotFound  = "бронь не найдена"
	msgAlreadyCancelled     = "бронь уже отменена"
	msgAccessDenied         = "нет доступа к этой брони"
	msgWindowClosed         = "отмена закрыта: до начала слота осталось слишком мало времени"
)

// CancelRequest опциональное тело запроса с причиной отмены
type CancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

type Handler struct {
	service ReservationsService
	logger  Logger
}

func NewHandler(service ReservationsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/reservations/{reservationId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgAccessDenied)
		return
	}
	isAdmin := middleware.IsAdmin(r.Context())

	reservationID, err := strconv.ParseInt(mux.Vars(r)["reservationId"], 10, 64)
	if err != nil || reservationID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidReservationID)
		return
	}

	// Тело опционально: причина используется в уведомлении при
	// админской отмене
	var req CancelRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("DELETE /reservations/%d - Invalid request body: %v", reservationID, err)
		}
	}

	err = h.service.Cancel(r.Context(), reservationID, userID, isAdmin, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, reservationsService.ErrReservationNotFound):
			h.logger.Warn("DELETE /reservations/%d - Not found", reservationID)
			handlers.RespondNotFound(w, msgReservationNotFound)

		case errors.Is(err, reservationsService.ErrAlreadyCancelled):
			h.logger.Warn("DELETE /reservations/%d - Already cancelled", reservationID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyCancelled)

		case errors.Is(err, reservationsService.ErrAccessDenied):
			h.logger.Warn("DELETE /reservations/%d - Access denied for user=%d", reservationID, userID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		case errors.Is(err, reservationsService.ErrCancellationWindowClosed):
			h.logger.Warn("DELETE /reservations/%d - Window closed for user=%d", reservationID, userID)
			handlers.RespondError(w, http.StatusConflict, msgWindowClosed)

		default:
			h.logger.Error("DELETE /reservations/%d - Failed to cancel: user_id=%d, error=%v",
				reservationID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /reservations/%d - Cancelled by user=%d (admin=%t)", reservationID, userID, isAdmin)
	handlers.RespondNoContent(w)
}
