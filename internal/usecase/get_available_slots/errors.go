package get_available_slots

import (
	"errors"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrPlaceNotFound возвращается, когда площадка не найдена или удалена
	ErrPlaceNotFound = domain.NotFound("Place not found")

	// ErrInvalidDate возвращается при некорректной дате
	ErrInvalidDate = domain.InvalidInput("date must be in YYYY-MM-DD format")

	// ErrNoProfiles возвращается, когда у площадки нет тарифов
	ErrNoProfiles = domain.InvalidInput("No pricing profile configured for this place")

	// ErrNoActiveProfile возвращается, когда ни один профиль не действует на дату
	ErrNoActiveProfile = domain.InvalidInput("No active pricing profile found for the requested date")

	// ErrInvalidSessionDuration возвращается при некорректной длительности сессии профиля
	ErrInvalidSessionDuration = domain.InvalidInput("Pricing profile has invalid session duration")

	// ErrInvalidTimezone возвращается при неизвестном часовом поясе профиля
	ErrInvalidTimezone = domain.InvalidInput("Pricing profile has invalid timezone")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("get_available_slots: internal error")
)
