package get_slot_occupancy

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	capacityService "github.com/nextsteppro/NSP-BookingService/internal/service/capacity"
)

const (
	msgInvalidSlotID = "некорректный идентификатор слота"
	msgInvalidIDs    = "некорректный параметр ids, ожидается список идентификаторов через запятую"
	msgSlotNotFound  = "слот не найден"

	maxBatchSize = 100
)

type Handler struct {
	service CapacityService
	logger  Logger
}

func NewHandler(service CapacityService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/slots/{slotId}/occupancy
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	result, err := h.service.SlotOccupancy(r.Context(), slotID)
	if err != nil {
		switch {
		case errors.Is(err, capacityService.ErrSlotNotFound):
			h.logger.Warn("GET /slots/%d/occupancy - Slot not found", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		default:
			h.logger.Error("GET /slots/%d/occupancy - Failed: %v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// HandleBatch GET /api/v1/slots/occupancy?ids=1,2,3
func (h *Handler) HandleBatch(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("ids")
	if raw == "" {
		handlers.RespondBadRequest(w, msgInvalidIDs)
		return
	}

	parts := strings.Split(raw, ",")
	if len(parts) > maxBatchSize {
		handlers.RespondBadRequest(w, msgInvalidIDs)
		return
	}

	slotIDs := make([]int64, 0, len(parts))
	for _, part := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(part), 10, 64)
		if err != nil || id <= 0 {
			handlers.RespondBadRequest(w, msgInvalidIDs)
			return
		}
		slotIDs = append(slotIDs, id)
	}

	result, err := h.service.BatchOccupancy(r.Context(), slotIDs)
	if err != nil {
		h.logger.Error("GET /slots/occupancy - Failed for %d ids: %v", len(slotIDs), err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
