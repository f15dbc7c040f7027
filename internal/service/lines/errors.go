package lines

import (
	"errors"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// LineNotFoundMessage сообщение RemoveLine, когда строки нет
const LineNotFoundMessage = "Line not found"

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = domain.NotFound("Booking not found")

	// ErrPlaceNotFound возвращается, когда площадка строки не найдена
	ErrPlaceNotFound = domain.NotFound("Place not found")

	// ErrAccessDenied возвращается, когда у пользователя нет прав на бронирование
	ErrAccessDenied = domain.Unauthorized("Not allowed to modify this booking")

	// ErrInvalidQty возвращается при qty < 1
	ErrInvalidQty = domain.InvalidInput("qty must be at least 1")

	// ErrCurrencyConflict возвращается при добавлении строки в другой валюте
	ErrCurrencyConflict = domain.InvalidInput("Cannot mix currencies within a booking")

	// ErrMixedCurrencies возвращается, когда строки бронирования в разных валютах
	ErrMixedCurrencies = domain.InvalidInput("Booking has mixed currencies")

	// ErrConstraintViolation возвращается при нарушении ограничений БД; сообщение берется из БД
	ErrConstraintViolation = domain.InvalidInput("Booking line violates a constraint")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("lines.service: internal error")
)
