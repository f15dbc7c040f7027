package create_hold

import (
	"errors"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

var (
	// ErrUnauthorized возвращается, когда пользователь не определен
	ErrUnauthorized = domain.Unauthorized("User is required to create a hold")

	// ErrInvalidIdempotencyKey возвращается, когда ключ идемпотентности не UUID
	ErrInvalidIdempotencyKey = domain.InvalidInput("idempotencyKey must be a valid UUID")

	// ErrHoldTooShort возвращается, когда удержание короче минимального
	ErrHoldTooShort = domain.InvalidInput("holdSeconds must be at least 60")

	// ErrInvalidCurrency возвращается при некорректном коде валюты
	ErrInvalidCurrency = domain.InvalidInput("currency must be a 3-letter code")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("create_hold: internal error")
)
