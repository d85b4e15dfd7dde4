package create_event

import (
	"errors"
	"net/http"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	eventsService "github.com/nextsteppro/NSP-BookingService/internal/service/events"
	"github.com/nextsteppro/NSP-BookingService/internal/service/events/models"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные мероприятия"
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

// Handle POST /api/v1/admin/events
// Вместе с мероприятием создаются слоты на каждый его день.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	var req models.CreateEventRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/events - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, eventsService.ErrInvalidInput):
			h.logger.Warn("POST /admin/events - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /admin/events - Failed: %v", err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/events - Event created: event_id=%d", result.ID)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
