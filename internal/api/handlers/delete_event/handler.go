package delete_event

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	eventsService "github.com/nextsteppro/NSP-BookingService/internal/service/events"
)

const (
	msgInvalidEventID = "некорректный идентификатор мероприятия"
	msgEventNotFound  = "мероприятие не найдено"
)

type Handler struct {
	service EventsService
	logger  Logger
}

func NewHandler(service EventsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle DELETE /api/v1/admin/events/{eventId}
// Удаляет мероприятие вместе со слотами и бронями, пользователи
// снятых броней получают по одному уведомлению.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	eventID, err := strconv.ParseInt(mux.Vars(r)["eventId"], 10, 64)
	if err != nil || eventID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	err = h.service.Delete(r.Context(), eventID)
	if err != nil {
		switch {
		case errors.Is(err, eventsService.ErrEventNotFound):
			h.logger.Warn("DELETE /admin/events/%d - Event not found", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		default:
			h.logger.Error("DELETE /admin/events/%d - Failed: %v", eventID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /admin/events/%d - Deleted", eventID)
	handlers.RespondNoContent(w)
}
