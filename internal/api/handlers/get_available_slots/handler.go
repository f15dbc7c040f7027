package get_available_slots

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	getAvailableSlots "github.com/m04kA/SMC-FacilityBooking/internal/usecase/get_available_slots"
)

const (
	msgInvalidPlaceID = "Invalid place id"
	msgMissingDate    = "date query parameter is required"
)

type Handler struct {
	useCase UseCase
	logger  Logger
}

func NewHandler(useCase UseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/places/{placeId}/availability?date=YYYY-MM-DD
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	placeID, err := handlers.PathID(r, "placeId")
	if err != nil {
		h.logger.Warn("GET /places/{id}/availability - Invalid place ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPlaceID)
		return
	}

	date := r.URL.Query().Get("date")
	if date == "" {
		h.logger.Warn("GET /places/{id}/availability - Missing date: place_id=%d", placeID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	resp, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		PlaceID: placeID,
		Date:    date,
	})
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("GET /places/{id}/availability - Rejected: place_id=%d, date=%s, error=%v", placeID, date, err)
			return
		}
		h.logger.Error("GET /places/{id}/availability - Failed to build slots: place_id=%d, date=%s, error=%v", placeID, date, err)
		return
	}

	h.logger.Info("GET /places/{id}/availability - Built %d slots: place_id=%d, date=%s", len(resp.Slots), placeID, date)
	handlers.RespondJSON(w, http.StatusOK, FromUseCaseResponse(resp))
}
