package get_quote

import (
	"net/http"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/pricing/models"
)

const (
	msgInvalidPlaceID = "Invalid place id"
	msgInvalidStartAt = "startAt must be an RFC 3339 timestamp"
	msgInvalidEndAt   = "endAt must be an RFC 3339 timestamp"
)

type Handler struct {
	service PricingService
	logger  Logger
}

func NewHandler(service PricingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/places/{placeId}/quote?startAt=...&endAt=...
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	placeID, err := handlers.PathID(r, "placeId")
	if err != nil {
		h.logger.Warn("GET /places/{id}/quote - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	query := r.URL.Query()
	start, err := time.Parse(time.RFC3339, query.Get("startAt"))
	if err != nil {
		h.logger.Warn("GET /places/{id}/quote - Invalid startAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidStartAt)
		return
	}
	end, err := time.Parse(time.RFC3339, query.Get("endAt"))
	if err != nil {
		h.logger.Warn("GET /places/{id}/quote - Invalid endAt: %v", err)
		handlers.RespondBadRequest(w, msgInvalidEndAt)
		return
	}

	quote, err := h.service.QuoteForSlot(r.Context(), placeID, start, end)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("GET /places/{id}/quote - Rejected: place_id=%d, error=%v", placeID, err)
			return
		}
		h.logger.Error("GET /places/{id}/quote - Failed to quote: place_id=%d, error=%v", placeID, err)
		return
	}

	h.logger.Info("GET /places/{id}/quote - Quoted: place_id=%d, unit_price=%s %s",
		placeID, quote.UnitPrice.StringFixed(2), quote.Currency)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainQuote(quote))
}
