package leave_waitlist

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	"github.com/nextsteppro/NSP-BookingService/internal/api/middleware"
	waitlistService "github.com/nextsteppro/NSP-BookingService/internal/service/waitlist"
)

const (
	msgInvalidEntryID = "некорректный идентификатор записи очереди"
	msgEntryNotFound  = "запись очереди не найдена"
	msgAccessDenied   = "нет доступа к этой записи очереди"
	msgUnauthorized   = "требуется аутентификация"
)

type Handler struct {
	service WaitlistService
	logger  Logger
}

func NewHandler(service WaitlistService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/waitlist/{entryId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	entryID, err := strconv.ParseInt(mux.Vars(r)["entryId"], 10, 64)
	if err != nil || entryID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidEntryID)
		return
	}

	err = h.service.Leave(r.Context(), entryID, userID, middleware.IsAdmin(r.Context()))
	if err != nil {
		switch {
		case errors.Is(err, waitlistService.ErrEntryNotFound):
			h.logger.Warn("DELETE /waitlist/%d - Entry not found", entryID)
			handlers.RespondNotFound(w, msgEntryNotFound)

		case errors.Is(err, waitlistService.ErrAccessDenied):
			h.logger.Warn("DELETE /waitlist/%d - Access denied for user=%d", entryID, userID)
			handlers.RespondError(w, http.StatusForbidden, msgAccessDenied)

		default:
			h.logger.Error("DELETE /waitlist/%d - Failed: user_id=%d, error=%v", entryID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /waitlist/%d - User=%d left waitlist", entryID, userID)
	handlers.RespondNoContent(w)
}
