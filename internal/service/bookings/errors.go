package bookings

import (
	"errors"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = domain.NotFound("Booking not found")

	// ErrAccessDenied возвращается при попытке читать чужие бронирования
	ErrAccessDenied = domain.Unauthorized("Not allowed to view bookings of this user")

	// ErrFacilityAccessDenied возвращается, когда пользователь не сотрудник объекта
	ErrFacilityAccessDenied = domain.Unauthorized("Not allowed to view bookings of this facility")

	// ErrInvalidPeriod возвращается, когда конец периода не позже начала
	ErrInvalidPeriod = domain.InvalidInput("to must be after from")

	// ErrUnknownStatus возвращается при фильтре по несуществующему статусу
	ErrUnknownStatus = domain.InvalidInput("Unknown booking status")

	// ErrEmptyPayment возвращается при попытке оплатить пустое бронирование
	ErrEmptyPayment = domain.InvalidInput("Cannot initiate payment for empty booking")

	// ErrEmptyConfirm возвращается при попытке подтвердить пустое бронирование
	ErrEmptyConfirm = domain.InvalidInput("Cannot confirm an empty booking")

	// ErrCannotCancel возвращается, когда статуса отмены нет и запасной вариант выключен
	ErrCannotCancel = domain.InvalidInput("Missing booking status \"cancelled\"")

	// ErrInternal возвращается при внутренних ошибках сервиса
	ErrInternal = errors.New("bookings.service: internal error")
)
