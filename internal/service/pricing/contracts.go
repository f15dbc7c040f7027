package pricing

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// RateRepository интерфейс хранилища тарифов (только чтение)
type RateRepository interface {
	GetPlace(ctx context.Context, id int64) (*domain.Place, error)
	ListProfiles(ctx context.Context, placeID int64) ([]*domain.PricingProfile, error)
	ListRules(ctx context.Context, profileIDs []int64, activeOnly bool) ([]*domain.PriceRule, error)
	GetCalendarDay(ctx context.Context, date string) (*domain.CalendarDay, error)
}

// Metrics счетчики расчета цен
type Metrics interface {
	ObserveQuote(result string)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
