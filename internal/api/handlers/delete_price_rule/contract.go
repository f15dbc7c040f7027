package delete_price_rule

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/rates"
)

type RateService interface {
	DeleteRule(ctx context.Context, scope rates.Scope, ruleID int64, requester domain.Requester) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
