package list_price_rules

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/rates"
)

type RateService interface {
	ListRules(ctx context.Context, scope rates.Scope, requester domain.Requester) ([]*domain.PriceRule, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
