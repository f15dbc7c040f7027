package rates

import (
	"errors"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrPlaceNotFound возвращается, когда площадка не найдена или не принадлежит объекту
	ErrPlaceNotFound = domain.NotFound("Place not found")

	// ErrProfileNotFound возвращается, когда профиль не найден у площадки
	ErrProfileNotFound = domain.NotFound("Pricing profile not found")

	// ErrRuleNotFound возвращается, когда правило не найдено у профиля
	ErrRuleNotFound = domain.NotFound("Price rule not found")

	// ErrAccessDenied возвращается, когда пользователь не управляет объектом
	ErrAccessDenied = domain.Unauthorized("Not allowed to manage pricing of this facility")

	// ErrInvalidProfile возвращается при некорректных данных профиля
	ErrInvalidProfile = domain.InvalidInput("Invalid pricing profile")

	// ErrInvalidRule возвращается при некорректных данных правила
	ErrInvalidRule = domain.InvalidInput("Invalid price rule")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("rates.service: internal error")
)

func invalidProfile(msg string) error {
	return domain.WithMessage(ErrInvalidProfile, msg)
}

func invalidRule(msg string) error {
	return domain.WithMessage(ErrInvalidRule, msg)
}
