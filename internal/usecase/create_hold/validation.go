package create_hold

import (
	"strings"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// validatedRequest нормализованные параметры удержания
type validatedRequest struct {
	key         *string
	holdSeconds int
	currency    string
}

// validateRequest валидирует входные данные запроса и подставляет значения по умолчанию
func validateRequest(req *Request, requester domain.Requester, cfg Config) (*validatedRequest, error) {
	if requester.ID <= 0 {
		return nil, ErrUnauthorized
	}

	out := &validatedRequest{
		holdSeconds: cfg.DefaultHoldSeconds,
		currency:    cfg.DefaultCurrency,
	}
	if out.holdSeconds == 0 {
		out.holdSeconds = domain.DefaultHoldSeconds
	}
	if out.currency == "" {
		out.currency = domain.DefaultCurrency
	}

	if req.IdempotencyKey != nil {
		key := strings.TrimSpace(*req.IdempotencyKey)
		if key != "" {
			if _, err := uuid.Parse(key); err != nil {
				return nil, ErrInvalidIdempotencyKey
			}
			out.key = &key
		}
	}

	if req.HoldSeconds != nil {
		out.holdSeconds = *req.HoldSeconds
	}
	if out.holdSeconds < domain.MinHoldSeconds {
		return nil, ErrHoldTooShort
	}

	if req.Currency != nil && strings.TrimSpace(*req.Currency) != "" {
		out.currency = *req.Currency
	}
	currency, ok := domain.NormalizeCurrency(out.currency)
	if !ok {
		return nil, ErrInvalidCurrency
	}
	out.currency = currency

	return out, nil
}
