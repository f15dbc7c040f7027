package get_available_slots

import (
	"time"

	getAvailableSlots "github.com/m04kA/SMC-FacilityBooking/internal/usecase/get_available_slots"
)

// AvailabilityResponse сетка сессий площадки на день
type AvailabilityResponse struct {
	PlaceID                int64          `json:"placeId"`
	Date                   string         `json:"date"`
	Timezone               string         `json:"timezone"`
	PricingProfileID       int64          `json:"pricingProfileId"`
	SessionDurationMinutes int            `json:"sessionDurationMinutes"`
	Slots                  []SlotResponse `json:"slots"`
}

type SlotResponse struct {
	StartAt    time.Time `json:"startAt"`
	EndAt      time.Time `json:"endAt"`
	LocalStart string    `json:"localStart"`
	Available  bool      `json:"available"`
}

// FromUseCaseResponse преобразует ответ use case в HTTP модель
func FromUseCaseResponse(resp *getAvailableSlots.Response) AvailabilityResponse {
	slots := make([]SlotResponse, 0, len(resp.Slots))
	for _, s := range resp.Slots {
		slots = append(slots, SlotResponse{
			StartAt:    s.StartAt.UTC(),
			EndAt:      s.EndAt.UTC(),
			LocalStart: s.LocalStart,
			Available:  s.Available,
		})
	}

	return AvailabilityResponse{
		PlaceID:                resp.PlaceID,
		Date:                   resp.Date,
		Timezone:               resp.Timezone,
		PricingProfileID:       resp.PricingProfileID,
		SessionDurationMinutes: resp.SessionDurationMinutes,
		Slots:                  slots,
	}
}
