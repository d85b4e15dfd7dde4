package join_waitlist

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	"github.com/nextsteppro/NSP-BookingService/internal/api/middleware"
	waitlistService "github.com/nextsteppro/NSP-BookingService/internal/service/waitlist"
)

const (
	msgInvalidSlotID     = "некорректный идентификатор слота"
	msgSlotNotFound      = "слот не найден"
	msgSlotBlocked       = "слот заблокирован администратором"
	msgSlotStarted       = "слот уже начался"
	msgSlotNotFull       = "в слоте есть свободные места, забронируйте напрямую"
	msgAlreadyReserved   = "у вас уже есть бронь на этот слот"
	msgAlreadyInWaitlist = "вы уже стоите в очереди этого слота"
	msgUnauthorized      = "требуется аутентификация"
)

// JoinWaitlistResponse HTTP ответ с созданной записью очереди
type JoinWaitlistResponse struct {
	ID         int64     `json:"id"`
	TimeSlotID int64     `json:"timeSlotId"`
	Position   int       `json:"position"`
	CreatedAt  time.Time `json:"createdAt"`
}

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

// Handle POST /api/v1/waitlist/slots/{slotId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgUnauthorized)
		return
	}

	slotID, err := strconv.ParseInt(mux.Vars(r)["slotId"], 10, 64)
	if err != nil || slotID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidSlotID)
		return
	}

	entry, err := h.service.Join(r.Context(), userID, slotID)
	if err != nil {
		switch {
		case errors.Is(err, waitlistService.ErrSlotNotFound):
			h.logger.Warn("POST /waitlist/slots/%d - Slot not found", slotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, waitlistService.ErrSlotBlocked):
			h.logger.Warn("POST /waitlist/slots/%d - Slot blocked", slotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotBlocked)

		case errors.Is(err, waitlistService.ErrSlotStarted):
			h.logger.Warn("POST /waitlist/slots/%d - Slot started", slotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotStarted)

		case errors.Is(err, waitlistService.ErrSlotNotFull):
			h.logger.Warn("POST /waitlist/slots/%d - Slot not full: user_id=%d", slotID, userID)
			handlers.RespondError(w, http.StatusConflict, msgSlotNotFull)

		case errors.Is(err, waitlistService.ErrAlreadyReserved):
			h.logger.Warn("POST /waitlist/slots/%d - Already reserved: user_id=%d", slotID, userID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyReserved)

		case errors.Is(err, waitlistService.ErrAlreadyInWaitlist):
			h.logger.Warn("POST /waitlist/slots/%d - Already in waitlist: user_id=%d", slotID, userID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyInWaitlist)

		default:
			h.logger.Error("POST /waitlist/slots/%d - Failed: user_id=%d, error=%v", slotID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /waitlist/slots/%d - User=%d joined at position=%d", slotID, userID, entry.Position)
	handlers.RespondJSON(w, http.StatusCreated, &JoinWaitlistResponse{
		ID:         entry.ID,
		TimeSlotID: entry.TimeSlotID,
		Position:   entry.Position,
		CreatedAt:  entry.CreatedAt,
	})
}
