package get_rate_card

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/pricing/models"
)

const msgInvalidPlaceID = "Invalid place id"

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

// Handle GET /api/v1/places/{placeId}/rate-card
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	placeID, err := handlers.PathID(r, "placeId")
	if err != nil {
		h.logger.Warn("GET /places/{id}/rate-card - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	card, err := h.service.GetRateCard(r.Context(), placeID)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("GET /places/{id}/rate-card - Rejected: place_id=%d, error=%v", placeID, err)
			return
		}
		h.logger.Error("GET /places/{id}/rate-card - Failed to get rate card: place_id=%d, error=%v", placeID, err)
		return
	}

	h.logger.Info("GET /places/{id}/rate-card - Rate card retrieved: place_id=%d, profiles=%d",
		placeID, len(card.Profiles))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainRateCard(card))
}
