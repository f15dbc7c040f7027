package get_rate_card

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

type PricingService interface {
	GetRateCard(ctx context.Context, placeID int64) (*domain.RateCard, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
