package add_line

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
	msgMissingPlace       = "placeId is required"
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

// Handle POST /api/v1/bookings/{bookingId}/lines
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("POST /bookings/{id}/lines - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/{id}/lines - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req AddLineRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/{id}/lines - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	if req.PlaceID <= 0 {
		h.logger.Warn("POST /bookings/{id}/lines - Missing place ID: booking_id=%d", bookingID)
		handlers.RespondBadRequest(w, msgMissingPlace)
		return
	}

	// Цена считается сервисом, бронирование переоценивается в той же транзакции
	line, err := h.service.AddLine(r.Context(), bookingID, req.ToServiceRequest(), requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("POST /bookings/{id}/lines - Rejected: booking_id=%d, place_id=%d, error=%v",
				bookingID, req.PlaceID, err)
			return
		}
		h.logger.Error("POST /bookings/{id}/lines - Failed to add line: booking_id=%d, place_id=%d, error=%v",
			bookingID, req.PlaceID, err)
		return
	}

	h.logger.Info("POST /bookings/{id}/lines - Line added: booking_id=%d, line_id=%d, price=%s %s",
		bookingID, line.ID, line.Price.StringFixed(2), line.Currency)
	handlers.RespondJSON(w, http.StatusCreated, models.FromDomainLine(line))
}
