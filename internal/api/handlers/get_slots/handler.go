package get_slots

import (
	"net/http"
	"time"

	"github.com/nextsteppro/NSP-BookingService/internal/api/handlers"
	"github.com/nextsteppro/NSP-BookingService/internal/domain"
)

const (
	msgInvalidDateRange = "некорректный диапазон дат, ожидается from=YYYY-MM-DD&to=YYYY-MM-DD"

	defaultRangeDays = 30
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

// Handle GET /api/v1/slots?from=YYYY-MM-DD&to=YYYY-MM-DD
// Без параметров возвращает слоты на ближайшие 30 дней.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	from := time.Now().Truncate(24 * time.Hour)
	to := from.AddDate(0, 0, defaultRangeDays)

	if raw := r.URL.Query().Get("from"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
		from = parsed
	}
	if raw := r.URL.Query().Get("to"); raw != "" {
		parsed, err := time.Parse(domain.DateFormat, raw)
		if err != nil {
			handlers.RespondBadRequest(w, msgInvalidDateRange)
			return
		}
		to = parsed
	}

	if to.Before(from) {
		handlers.RespondBadRequest(w, msgInvalidDateRange)
		return
	}

	result, err := h.service.ListByDateRange(r.Context(), from, to)
	if err != nil {
		h.logger.Error("GET /slots - Failed for range %s..%s: %v",
			from.Format(domain.DateFormat), to.Format(domain.DateFormat), err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
