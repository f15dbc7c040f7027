package delete_pricing_profile

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
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

// Handle DELETE /api/v1/facilities/{facilityId}/places/{placeId}/pricing-profiles/{profileId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	facilityID, err := handlers.PathID(r, "facilityId")
	if err != nil {
		h.logger.Warn("DELETE /pricing-profiles/{id} - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}
	placeID, err := handlers.PathID(r, "placeId")
	if err != nil {
		h.logger.Warn("DELETE /pricing-profiles/{id} - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}
	profileID, err := handlers.PathID(r, "profileId")
	if err != nil {
		h.logger.Warn("DELETE /pricing-profiles/{id} - Invalid profile ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfileID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("DELETE /pricing-profiles/{id} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	scope := rates.Scope{
		FacilityID: facilityID,
		PlaceID:    placeID,
		ProfileID:  profileID,
	}

	if err := h.service.DeleteProfile(r.Context(), scope, requester); err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("DELETE /pricing-profiles/{id} - Rejected: place_id=%d, user_id=%d, error=%v", placeID, requester.ID, err)
			return
		}
		h.logger.Error("DELETE /pricing-profiles/{id} - Failed to delete profile: place_id=%d, error=%v", placeID, err)
		return
	}

	h.logger.Info("DELETE /pricing-profiles/{id} - Profile deleted: place_id=%d, profile_id=%d", placeID, scope.ProfileID)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
