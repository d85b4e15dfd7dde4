package create_event_reservation

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	"github.com/nextsteppro/NSP-BookingService/internal/api/middleware"
	createEventReservation "github.com/nextsteppro/NSP-BookingService/internal/usecase/create_event_reservation"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidEventID     = "некорректный идентификатор мероприятия"
	msgInvalidInput       = "некорректные данные бронирования"
	msgEventNotFound      = "мероприятие не найдено"
	msgEventInactive      = "мероприятие неактивно"
	msgNoAvailableSlots   = "у мероприятия нет доступных дней"
	msgWindowClosed       = "бронирование закрыто: до начала мероприятия осталось слишком мало времени"
	msgAlreadyReserved    = "у вас уже есть бронь на это мероприятие"
	msgNotEnoughSpots     = "недостаточно свободных мест в днях мероприятия"
)

// CreateEventReservationRequest HTTP запрос на бронирование мероприятия
type CreateEventReservationRequest struct {
	Participants int     `json:"participants"`
	Comment      *string `json:"comment,omitempty"`
}

// CreateEventReservationResponse HTTP ответ с созданными бронями
type CreateEventReservationResponse struct {
	EventID        int64   `json:"eventId"`
	Participants   int     `json:"participants"`
	ReservationIDs []int64 `json:"reservationIds"`
	SlotIDs        []int64 `json:"slotIds"`
}

type Handler struct {
	useCase CreateEventReservationUseCase
	logger  Logger
}

func NewHandler(useCase CreateEventReservationUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/events/{eventId}/reservations
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserID(r.Context())
	if !ok {
		handlers.RespondError(w, http.StatusUnauthorized, msgInvalidRequestBody)
		return
	}

	eventID, err := strconv.ParseInt(mux.Vars(r)["eventId"], 10, 64)
	if err != nil || eventID <= 0 {
		handlers.RespondBadRequest(w, msgInvalidEventID)
		return
	}

	var req CreateEventReservationRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /events/%d/reservations - Invalid request body: %v", eventID, err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &createEventReservation.Request{
		UserID:       userID,
		EventID:      eventID,
		Participants: req.Participants,
		Comment:      req.Comment,
	})
	if err != nil {
		switch {
		case errors.Is(err, createEventReservation.ErrInvalidInput):
			h.logger.Warn("POST /events/%d/reservations - Invalid input: user_id=%d: %v", eventID, userID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		case errors.Is(err, createEventReservation.ErrEventNotFound):
			h.logger.Warn("POST /events/%d/reservations - Event not found", eventID)
			handlers.RespondNotFound(w, msgEventNotFound)

		case errors.Is(err, createEventReservation.ErrEventInactive):
			h.logger.Warn("POST /events/%d/reservations - Event inactive", eventID)
			handlers.RespondError(w, http.StatusConflict, msgEventInactive)

		case errors.Is(err, createEventReservation.ErrNoAvailableSlots):
			h.logger.Warn("POST /events/%d/reservations - No available slots", eventID)
			handlers.RespondError(w, http.StatusConflict, msgNoAvailableSlots)

		case errors.Is(err, createEventReservation.ErrBookingWindowClosed):
			h.logger.Warn("POST /events/%d/reservations - Window closed: user_id=%d", eventID, userID)
			handlers.RespondError(w, http.StatusConflict, msgWindowClosed)

		case errors.Is(err, createEventReservation.ErrAlreadyReserved):
			h.logger.Warn("POST /events/%d/reservations - Already reserved: user_id=%d", eventID, userID)
			handlers.RespondError(w, http.StatusConflict, msgAlreadyReserved)

		case errors.Is(err, createEventReservation.ErrNotEnoughSpots):
			h.logger.Warn("POST /events/%d/reservations - Not enough spots: user_id=%d", eventID, userID)
			handlers.RespondError(w, http.StatusConflict, msgNotEnoughSpots)

		default:
			h.logger.Error("POST /events/%d/reservations - Failed: user_id=%d, error=%v", eventID, userID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /events/%d/reservations - Reserved %d slots for user=%d",
		eventID, len(result.SlotIDs), userID)
	handlers.RespondJSON(w, http.StatusCreated, &CreateEventReservationResponse{
		EventID:        result.EventID,
		Participants:   result.Participants,
		ReservationIDs: result.ReservationIDs,
		SlotIDs:        result.SlotIDs,
	})
}
