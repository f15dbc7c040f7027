package pricing

import (
	"errors"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrPlaceNotFound возвращается, когда площадка не найдена или удалена
	ErrPlaceNotFound = domain.NotFound("Place not found")

	// ErrInvalidTimeRange возвращается, когда конец слота не позже начала
	ErrInvalidTimeRange = domain.InvalidInput("endAt must be after startAt")

	// ErrNoProfiles возвращается, когда у площадки нет ценовых профилей
	ErrNoProfiles = domain.InvalidInput("No pricing profile configured for this place")

	// ErrNoActiveProfile возвращается, когда ни один профиль не действует на дату слота
	ErrNoActiveProfile = domain.InvalidInput("No active pricing profile found for the requested date")

	// ErrInvalidSessionDuration возвращается при некорректной длительности сессии профиля
	ErrInvalidSessionDuration = domain.InvalidInput("Pricing profile has invalid session duration")

	// ErrInvalidTimezone возвращается, когда часовой пояс профиля не распознан
	ErrInvalidTimezone = domain.InvalidInput("Pricing profile has invalid timezone")

	// ErrMisalignedSlot возвращается, когда длительность слота не кратна сессии
	ErrMisalignedSlot = domain.InvalidInput("Requested slot must align with session blocks")

	// ErrCurrencyMismatch возвращается, когда валюта правила не совпадает с валютой профиля
	ErrCurrencyMismatch = domain.InvalidInput("Currency mismatch on pricing override")

	// ErrNegativePrice возвращается, когда итоговая цена отрицательна
	ErrNegativePrice = domain.InvalidInput("Computed price cannot be negative")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("pricing.service: internal error")
)
