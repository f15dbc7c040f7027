package booking

import (
	"errors"
	"fmt"

	"github.com/lib/pq"
)

var (
	// ErrBookingNotFound возвращается, когда бронирование не найдено
	ErrBookingNotFound = errors.New("booking.repository: booking not found")

	// ErrLineNotFound возвращается, когда строка бронирования не найдена
	ErrLineNotFound = errors.New("booking.repository: booking line not found")

	// ErrDuplicateIdempotencyKey возвращается при повторной вставке ключа идемпотентности
	ErrDuplicateIdempotencyKey = errors.New("booking.repository: duplicate idempotency key")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("booking.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("booking.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("booking.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации jsonb
	ErrEncode = errors.New("booking.repository: failed to encode value")
)

// Коды ошибок Postgres
const (
	pgCheckViolation     = "23514"
	pgExclusionViolation = "23P01"
	pgRaiseException     = "P0001"
	pgUniqueViolation    = "23505"
)

// ConstraintViolationError нарушение ограничения уровня БД
// (вместимость, пересечение слотов, правила триггеров)
type ConstraintViolationError struct {
	Code       string
	Constraint string
	Message    string
}

func (e *ConstraintViolationError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("booking.repository: constraint %s violated: %s", e.Constraint, e.Message)
	}
	return fmt.Sprintf("booking.repository: constraint violated: %s", e.Message)
}

// asConstraintViolation переводит ошибку драйвера в *ConstraintViolationError, если это нарушение ограничения
func asConstraintViolation(err error) (*ConstraintViolationError, bool) {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return nil, false
	}
	switch string(pqErr.Code) {
	case pgCheckViolation, pgExclusionViolation, pgRaiseException:
		return &ConstraintViolationError{
			Code:       string(pqErr.Code),
			Constraint: pqErr.Constraint,
			Message:    pqErr.Message,
		}, true
	}
	return nil, false
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && string(pqErr.Code) == pgUniqueViolation
}
