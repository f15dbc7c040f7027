package get_quote

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

type PricingService interface {
	QuoteForSlot(ctx context.Context, placeID int64, start, end time.Time) (*domain.Quote, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
