package create_pricing_profile

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/pricing/models"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/rates"
)

const (
	msgInvalidFacilityID  = "Invalid facility id"
	msgInvalidPlaceID     = "Invalid place id"
	msgInvalidRequestBody = "Invalid request body"
	msgMissingUserID      = "Missing user id"
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

// Handle POST /api/v1/facilities/{facilityId}/places/{placeId}/pricing-profiles
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	facilityID, err := handlers.PathID(r, "facilityId")
	if err != nil {
		h.logger.Warn("POST /pricing-profiles - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}
	placeID, err := handlers.PathID(r, "placeId")
	if err != nil {
		h.logger.Warn("POST /pricing-profiles - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("POST /pricing-profiles - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req rates.ProfileInput
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /pricing-profiles - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	scope := rates.Scope{
		FacilityID: facilityID,
		PlaceID:    placeID,
	}

	profile, err := h.service.CreateProfile(r.Context(), scope, req, requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("POST /pricing-profiles - Rejected: place_id=%d, user_id=%d, error=%v", placeID, requester.ID, err)
			return
		}
		h.logger.Error("POST /pricing-profiles - Failed to create profile: place_id=%d, error=%v", placeID, err)
		return
	}

	h.logger.Info("POST /pricing-profiles - Profile created: place_id=%d, profile_id=%d", placeID, profile.ID)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainProfile(profile))
}
