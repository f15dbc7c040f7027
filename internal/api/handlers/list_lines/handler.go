package list_lines

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID = "Invalid booking id"
	msgMissingUserID    = "Missing user id"
)

type Handler struct {
	service LineService
	logger  Logger
}

func NewHandler(service LineService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/bookings/{bookingId}/lines
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("GET /bookings/{id}/lines - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("GET /bookings/{id}/lines - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	lines, err := h.service.ListLines(r.Context(), bookingID, requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("GET /bookings/{id}/lines - Rejected: booking_id=%d, user_id=%d, error=%v",
				bookingID, requester.ID, err)
			return
		}
		h.logger.Error("GET /bookings/{id}/lines - Failed to list lines: booking_id=%d, error=%v", bookingID, err)
		return
	}

	h.logger.Info("GET /bookings/{id}/lines - Lines retrieved: booking_id=%d, count=%d", bookingID, len(lines))
	handlers.RespondJSON(w, http.StatusOK, models.FromDomainLines(lines))
}
