package initiate_payment

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

// Handle POST /api/v1/bookings/{bookingId}/initiate-payment
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/initiate-payment - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/initiate-payment - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Переводим в ожидание оплаты, удержание продлевается
	result, err := h.service.InitiatePayment(r.Context(), bookingID, requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("POST /bookings/{id}/initiate-payment - Rejected: booking_id=%d, user_id=%d, error=%v",
				bookingID, requester.ID, err)
			return
		}
		h.logger.Error("POST /bookings/{id}/initiate-payment - Failed to initiate payment: booking_id=%d, error=%v",
			bookingID, err)
		return
	}

	h.logger.Info("POST /bookings/{id}/initiate-payment - Payment initiated: booking_id=%d, total=%s",
		bookingID, result.Totals.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
