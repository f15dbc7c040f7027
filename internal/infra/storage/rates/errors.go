package rates

import "errors"

var (
	// ErrPlaceNotFound возвращается, когда площадка не найдена
	ErrPlaceNotFound = errors.New("rates.repository: place not found")

	// ErrProfileNotFound возвращается, когда ценовой профиль не найден
	ErrProfileNotFound = errors.New("rates.repository: pricing profile not found")

	// ErrRuleNotFound возвращается, когда ценовое правило не найдено
	ErrRuleNotFound = errors.New("rates.repository: price rule not found")

	// ErrCalendarDayNotFound возвращается, когда в календаре нет строки на дату
	ErrCalendarDayNotFound = errors.New("rates.repository: calendar day not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("rates.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("rates.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("rates.repository: failed to scan row")

	// ErrEncode возвращается при ошибке сериализации jsonb
	ErrEncode = errors.New("rates.repository: failed to encode value")
)
