package update_pricing_profile

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/rates"
)

type RateService interface {
	UpdateProfile(ctx context.Context, scope rates.Scope, in rates.ProfileInput, requester domain.Requester) (*domain.PricingProfile, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
