package payment_failure

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/bookings/models"
)

const (
	msgInvalidBookingID   = "Invalid booking id"
	msgInvalidRequestBody = "Invalid request body"
	msgMissingUserID      = "Missing user id"
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

// Handle POST /api/v1/bookings/{bookingId}/payment/failure
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/payment/failure - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/payment/failure - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Тело необязательное
	var req models.PaymentFailureRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/payment/failure - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Оплата не прошла: сохраняем причину
	result, err := h.service.MarkPaymentFailed(r.Context(), bookingID, &req, requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("POST /bookings/{id}/payment/failure - Rejected: booking_id=%d, user_id=%d, error=%v",
				bookingID, requester.ID, err)
			return
		}
		h.logger.Error("POST /bookings/{id}/payment/failure - Failed to mark payment failed: booking_id=%d, error=%v",
			bookingID, err)
		return
	}

	h.logger.Info("POST /bookings/{id}/payment/failure - Payment marked failed: booking_id=%d, status=%s",
		bookingID, result.Booking.Status)
	handlers.RespondJSON(w, http.StatusOK, result)
}
