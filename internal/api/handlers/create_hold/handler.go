package create_hold

import (
	"net/http"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/handlers"
	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
)

const (
	msgInvalidRequestBody = "Invalid request body"
	msgMissingUserID      = "Missing user id"
)

type Handler struct {
	useCase CreateHoldUseCase
	logger  Logger
}

func NewHandler(useCase CreateHoldUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/bookings/hold
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	requester, ok := middleware.GetRequester(r.Context())
	if !ok {
		h.logger.Warn("POST /bookings/hold - Missing user ID")
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	var req CreateHoldRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /bookings/hold - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Вызываем use case
	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(), requester)
	if err != nil {
		if handlers.RespondServiceError(w, err) {
			h.logger.Warn("POST /bookings/hold - Rejected: user_id=%d, error=%v", requester.ID, err)
			return
		}
		h.logger.Error("POST /bookings/hold - Failed to create hold: user_id=%d, error=%v", requester.ID, err)
		return
	}

	// Повтор по ключу идемпотентности возвращает существующее бронирование
	status := http.StatusCreated
	if result.Replayed {
		status = http.StatusOK
	}

	h.logger.Info("POST /bookings/hold - Hold ready: booking_id=%d, user_id=%d, replayed=%t",
		result.Booking.ID, requester.ID, result.Replayed)
	handlers.RespondJSON(w, status, result)
}
