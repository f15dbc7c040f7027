package get_available_slots

import (
	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/zoned"
)

// validateRequest валидирует входные данные запроса
func validateRequest(req *Request) error {
	if req.PlaceID <= 0 {
		return ErrPlaceNotFound
	}
	if !zoned.ValidDate(req.Date) {
		return ErrInvalidDate
	}
	return nil
}

// selectProfile выбирает первый профиль, действующий на дату, иначе профиль по умолчанию.
// Профили приходят упорядоченными: по умолчанию первым, затем по убыванию effective_from.
func selectProfile(profiles []*domain.PricingProfile, date string) (*domain.PricingProfile, error) {
	for _, p := range profiles {
		if p.CoversDate(date) {
			return p, nil
		}
	}
	for _, p := range profiles {
		if p.IsDefault {
			return p, nil
		}
	}
	return nil, ErrNoActiveProfile
}
