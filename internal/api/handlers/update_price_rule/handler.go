package update_price_rule

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
	msgInvalidProfileID   = "Invalid pricing profile id"
	msgInvalidRuleID      = "Invalid price rule id"
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

// Handle PUT /api/v1/facilities/{facilityId}/places/{placeId}/pricing-profiles/{profileId}/rules/{ruleId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	facilityID, err := handlers.PathID(r, "facilityId")
	if err != nil {
		h.logger.Warn("PUT /pricing-profiles/{id}/rules/{ruleId} - Invalid facility ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidFacilityID)
		return
	}
	placeID, err := handlers.PathID(r, "placeId")
	if err != nil {
		h.logger.Warn("PUT /pricing-profiles/{id}/rules/{ruleId} - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}
	profileID, err := handlers.PathID(r, "profileId")
	if err != nil {
		h.logger.Warn("PUT /pricing-profiles/{id}/rules/{ruleId} - Invalid profile ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidProfileID)
		return
	}
	ruleID, err := handlers.PathID(r, "ruleId")
	if err != nil {
		h.logger.Warn("PUT /pricing-profiles/{id}/rules/{ruleId} - Invalid rule ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRuleID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("PUT /pricing-profiles/{id}/rules/{ruleId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req rates.RuleInput
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /pricing-profiles/{id}/rules/{ruleId} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	scope := rates.Scope{
		FacilityID: facilityID,
		PlaceID:    placeID,
		ProfileID:  profileID,
	}

	rule, err := h.service.UpdateRule(r.Context(), scope, ruleID, req, requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("PUT /pricing-profiles/{id}/rules/{ruleId} - Rejected: place_id=%d, user_id=%d, error=%v", placeID, requester.ID, err)
			return
		}
		h.logger.Error("PUT /pricing-profiles/{id}/rules/{ruleId} - Failed to update rule: place_id=%d, error=%v", placeID, err)
		return
	}

	h.logger.Info("PUT /pricing-profiles/{id}/rules/{ruleId} - Rule updated: place_id=%d, rule_id=%d", placeID, rule.ID)
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainRule(rule))
}
