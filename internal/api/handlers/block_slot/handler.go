package block_slot

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	"github.com/nextsteppro/NSP-BookingService/internal/api/middleware"
	slotsService "github.com/nextsteppro/NSP-BookingService/internal/service/slots"
	"github.com/nextsteppro/NSP-BookingService/internal/service/slots/models"
)

const (
	msgInvalidSlotID  = "некорректный идентификатор слота"
	msgSlotNotFound   = "слот не найден"
	msgAlreadyBlocked = "слот уже заблокирован"
	msgNotBlocked     = "слот не заблокирован"
	msgUnauthorized   = "требуется аутентификация"
)

type Handler struct {
	service SlotsService
	logger  Logger
}

func NewHandler(service SlotsService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/slots/{slotId}/block
// Блокирует слот и снимает все его подтверждённые брони.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	var req models.BlockSlotRequest
	if r.ContentLength > 0 {
		if err := handlers.DecodeJSON(r, &req); err != nil {
			h.logger.Warn("POST /admin/slots/%d/block - Invalid request body: %v", slotID, err)
		}
	}

	err = h.service.Block(r.Context(), slotID, adminID, req.Reason)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrSlotNotFound):
			h.logger.Warn("POST /admin/slots/%d/block - Slot not found", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slotsService.ErrAlreadyBlocked):
			h.logger.Warn("POST /admin/slots/%d/block - Already blocked", slotID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyBlocked)

		default:
			h.logger.Error("POST /admin/slots/%d/block - Failed: admin_id=%d, error=%v", slotID, adminID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots/%d/block - Blocked by admin=%d", slotID, adminID)
	handlers.RespondNoContent(w)
}

// HandleUnblock POST /api/v1/admin/slots/{slotId}/unblock
// Снятые при блокировке брони не восстанавливаются.
func (h *Handler) HandleUnblock(w http.ResponseWriter, r *http.Request) {
	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	err = h.service.Unblock(r.Context(), slotID)
	if err != nil {
		switch {
		case errors.Is(err, slotsService.ErrSlotNotFound):
			h.logger.Warn("POST /admin/slots/%d/unblock - Slot not found", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, slotsService.ErrNotBlocked):
			h.logger.Warn("POST /admin/slots/%d/unblock - Not blocked", slotID)
			handlers.RespondError(w, http.StatusConflict, msgNotBlocked)

		default:
			h.logger.Error("POST /admin/slots/%d/unblock - Failed: %v", slotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /admin/slots/%d/unblock - Unblocked", slotID)
	handlers.RespondNoContent(w)
}
