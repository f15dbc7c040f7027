package rates

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// RateRepository интерфейс хранилища тарифов
type RateRepository interface {
	GetPlace(ctx context.Context, id int64) (*domain.Place, error)

	ListProfiles(ctx context.Context, placeID int64) ([]*domain.PricingProfile, error)
	GetProfile(ctx context.Context, id int64) (*domain.PricingProfile, error)
	CreateProfile(ctx context.Context, profile *domain.PricingProfile) (*domain.PricingProfile, error)
	UpdateProfile(ctx context.Context, profile *domain.PricingProfile) (*domain.PricingProfile, error)
	ClearDefaultProfiles(ctx context.Context, placeID int64, exceptID *int64) error
	SoftDeleteProfile(ctx context.Context, id int64) error

	ListRules(ctx context.Context, profileIDs []int64, activeOnly bool) ([]*domain.PriceRule, error)
	GetRule(ctx context.Context, id int64) (*domain.PriceRule, error)
	CreateRule(ctx context.Context, rule *domain.PriceRule) (*domain.PriceRule, error)
	UpdateRule(ctx context.Context, rule *domain.PriceRule) (*domain.PriceRule, error)
	SoftDeleteRule(ctx context.Context, id int64) error
	SoftDeleteRulesByProfile(ctx context.Context, profileID int64) error
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
