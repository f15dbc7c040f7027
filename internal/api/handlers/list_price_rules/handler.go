package list_price_rules

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/pricing/models"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/rates"
)

const (
	msgInvalidFacilityID = "Invalid facility id"
	msgInvalidPlaceID    = "Invalid place id"
	msgInvalidProfileID  = "Invalid pricing profile id"
	msgMissingUserID     = "Missing user id"
)

type Handler struct {
	service RateService
	logger  Logger
}

func NewHandler(service RateService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/facilities/{facilityId}/places/{placeId}/pricing-profiles/{profileId}/rules
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	facilityID, err := handlers.PathID(r, "facilityId")
	if err != nil {
		h.logger.Warn("GET /pricing-profiles/{id}/rules - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}
	placeID, err := handlers.PathID(r, "placeId")
	if err != nil {
		h.logger.Warn("GET /pricing-profiles/{id}/rules - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}
	profileID, err := handlers.PathID(r, "profileId")
	if err != nil {
		h.logger.Warn("GET /pricing-profiles/{id}/rules - Invalid profile ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfileID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("GET /pricing-profiles/{id}/rules - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	scope := rates.Scope{
		FacilityID: facilityID,
		PlaceID:    placeID,
		ProfileID:  profileID,
	}

	rules, err := h.service.ListRules(r.Context(), scope, requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("GET /pricing-profiles/{id}/rules - Rejected: place_id=%d, user_id=%d, error=%v", placeID, requester.ID, err)
			return
		}
		h.logger.Error("GET /pricing-profiles/{id}/rules - Failed to list rules: place_id=%d, error=%v", placeID, err)
		return
	}

	h.logger.Info("GET /pricing-profiles/{id}/rules - Rules retrieved: place_id=%d, count=%d", placeID, len(rules))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainRules(rules))
}
