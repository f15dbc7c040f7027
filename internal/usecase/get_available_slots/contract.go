package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// BookingRepository интерфейс репозитория бронирований
type BookingRepository interface {
	// ListOccupiedSlots слоты строк, занимающих площадку в [from, to)
	ListOccupiedSlots(ctx context.Context, placeID int64, from, to time.Time) ([]domain.Slot, error)
}

// RateRepository интерфейс репозитория площадок и тарифов
type RateRepository interface {
	GetPlace(ctx context.Context, id int64) (*domain.Place, error)
	ListProfiles(ctx context.Context, placeID int64) ([]*domain.PricingProfile, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
