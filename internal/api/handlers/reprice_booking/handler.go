package reprice_booking

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
)

const (
	msgInvalidBookingID = "Invalid booking id"
	msgMissingUserID    = "Missing user id"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/bookings/{bookingId}/reprice
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/reprice - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/reprice - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	totals, err := h.service.Reprice(r.Context(), bookingID, requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("PUT /bookings/{id}/reprice - Rejected: booking_id=%d, user_id=%d, error=%v", bookingID, requester.ID, err)
			return
		}
		h.logger.Error("PUT /bookings/{id}/reprice - Failed to reprice: booking_id=%d, error=%v", bookingID, err)
		return
	}

	h.logger.Info("PUT /bookings/{id}/reprice - Booking repriced: booking_id=%d, total=%s", bookingID, totals.Total)
	handlers.RespondJSON(w, http.StatusOK, totals)
}
