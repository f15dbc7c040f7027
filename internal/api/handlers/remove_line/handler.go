package remove_line

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
)

const (
	msgInvalidBookingID = "Invalid booking id"
	msgInvalidLineID    = "Invalid line id"
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

// Handle DELETE /api/v1/bookings/{bookingId}/lines/{lineId}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	bookingID, err := handlers.PathID(r, "bookingId")
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id}/lines/{lineId} - Invalid booking ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBookingID)
		return
	}
	lineID, err := handlers.PathID(r, "lineId")
	if err != nil {
		h.logger.Warn("DELETE /bookings/{id}/lines/{lineId} - Invalid line ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidLineID)
		return
	}

	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("DELETE /bookings/{id}/lines/{lineId} - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	result, err := h.service.RemoveLine(r.Context(), bookingID, lineID, requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("DELETE /bookings/{id}/lines/{lineId} - Rejected: booking_id=%d, line_id=%d, error=%v",
				bookingID, lineID, err)
			return
		}
		h.logger.Error("DELETE /bookings/{id}/lines/{lineId} - Failed to remove line: booking_id=%d, line_id=%d, error=%v",
			bookingID, lineID, err)
		return
	}

	// Отсутствующая строка не ошибка: success=false с пояснением
	resp := RemoveLineResponse{Success: result.Removed}
	if result.Message != "" {
		resp.Message = &result.Message
	}

	h.logger.Info("DELETE /bookings/{id}/lines/{lineId} - Done: booking_id=%d, line_id=%d, removed=%t",
		bookingID, lineID, result.Removed)
	handlers.RespondJSON(w, http.StatusOK, resp)
}
