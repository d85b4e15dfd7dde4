package create_reservation

import (
	"errors"
	"net/http"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	"github.com/nextsteppro/NSP-BookingService/internal/api/middleware"
	createReservation "github.com/nextsteppro/NSP-BookingService/internal/usecase/create_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidInput       = "некорректные данные бронирования"
	msgSlotNotFound       = "слот не найден"
	msgSlotBlocked        = "слот заблокирован администратором"
	msgSlotStarted        = "слот уже начался"
	msgWindowClosed       = "бронирование закрыто: до начала слота осталось слишком мало времени"
	msgAlreadyReserved    = "у вас уже есть бронь на этот слот"
	msgSlotFull           = "в слоте не осталось свободных мест"
	msgNotEnoughSpots     = "в слоте недостаточно свободных мест"
)

type Handler struct {
	useCase CreateReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgInvalidRequestBody)
		return
	}

	var req CreateReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /reservations - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(userID))
	if err != nil {
		switch {
		case errors.Is(err, createReservation.ErrInvalidInput):
			h.logger.Warn("POST /reservations - Invalid input: user_id=%d, slot_id=%d: %v", userID, req.TimeSlotID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createReservation.ErrSlotNotFound):
			h.logger.Warn("POST /reservations - Slot not found: slot_id=%d", req.TimeSlotID)
			handlers.RespondNotFound(w, msgSlotNotFound)

		case errors.Is(err, createReservation.ErrSlotBlocked):
			h.logger.Warn("POST /reservations - Slot blocked: slot_id=%d", req.TimeSlotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotBlocked)

		case errors.Is(err, createReservation.ErrSlotStarted):
			h.logger.Warn("POST /reservations - Slot started: user_id=%d, slot_id=%d", userID, req.TimeSlotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotStarted)

		case errors.Is(err, createReservation.ErrBookingWindowClosed):
			h.logger.Warn("POST /reservations - Window closed: user_id=%d, slot_id=%d", userID, req.TimeSlotID)
			handlers.RespondError(w, http.StatusConflict, msgWindowClosed)

		case errors.Is(err, createReservation.ErrAlreadyReserved):
			h.logger.Warn("POST /reservations - Already reserved: user_id=%d, slot_id=%d", userID, req.TimeSlotID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyReserved)

		case errors.Is(err, createReservation.ErrSlotFull):
			h.logger.Warn("POST /reservations - Slot full: user_id=%d, slot_id=%d", userID, req.TimeSlotID)
			handlers.RespondError(w, http.StatusConflict, msgSlotFull)

		case errors.Is(err, createReservation.ErrNotEnoughSpots):
			h.logger.Warn("POST /reservations - Not enough spots: user_id=%d, slot_id=%d", userID, req.TimeSlotID)
			handlers.RespondError(w, http.StatusConflict, msgNotEnoughSpots)

		default:
			h.logger.Error("POST /reservations - Failed to create reservation: user_id=%d, slot_id=%d, error=%v",
				userID, req.TimeSlotID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /reservations - Reservation created: reservation_id=%d, user_id=%d, slot_id=%d",
		result.ID, userID, req.TimeSlotID)
	handlers.RespondJSON(w, http.StatusCreated, FromUseCaseResponse(result))
}
