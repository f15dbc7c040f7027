package confirm_booking

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

// Handle PUT /api/v1/bookings/{bookingId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("PUT /bookings/{id}/confirm - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("PUT /bookings/{id}/confirm - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Подтверждаем без оплаты
	result, err := h.service.Confirm(r.Context(), bookingID, requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("PUT /bookings/{id}/confirm - Rejected: booking_id=%d, user_id=%d, error=%v",
				bookingID, requester.ID, err)
			return
		}
		h.logger.Error("PUT /bookings/{id}/confirm - Failed to confirm booking: booking_id=%d, error=%v",
			bookingID, err)
		return
	}

	h.logger.Info("PUT /bookings/{id}/confirm - Booking confirmed: booking_id=%d, total=%s",
		bookingID, result.Totals.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
