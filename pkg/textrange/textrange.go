// Package textrange разбирает текстовые диапазоны в формате Postgres
// ("[2025-01-01,2025-12-31)", "(08:00:00,12:00:00]") и проверяет вхождение значений.
//
// Значения сравниваются лексикографически, поэтому границы должны быть в
// сортируемом формате: даты YYYY-MM-DD, время HH:MM:SS.
package textrange

import (
	"errors"
	"regexp"
	"strings"
)

const (
	negInfinity = "-infinity"
	posInfinity = "infinity"
)

var (
	// ErrInvalidRange возвращается, если строка не является диапазоном
	ErrInvalidRange = errors.New("textrange: invalid range literal")

	rangePattern = regexp.MustCompile(`^([\[\(])([^,]*),([^\)\]]*)([\)\]])$`)
)

// Range разобранный диапазон. Пустая граница означает отсутствие ограничения.
type Range struct {
	Lower          string
	Upper          string
	LowerInclusive bool
	UpperInclusive bool
}

// Parse разбирает текстовый диапазон
func Parse(raw string) (Range, error) {
	m := rangePattern.FindStringSubmatch(strings.TrimSpace(raw))
	if m == nil {
		return Range{}, ErrInvalidRange
	}

	return Range{
		Lower:          normalizeBound(m[2], negInfinity),
		Upper:          normalizeBound(m[3], posInfinity),
		LowerInclusive: m[1] == "[",
		UpperInclusive: m[4] == "]",
	}, nil
}

// Inverted сообщает, что нижняя граница больше верхней (диапазон пуст)
func (r Range) Inverted() bool {
	return r.Lower != "" && r.Upper != "" && r.Lower > r.Upper
}

// Contains проверяет вхождение value в диапазон.
// forceExclusiveUpper делает верхнюю границу исключающей независимо от скобки.
func (r Range) Contains(value string, forceExclusiveUpper bool) bool {
	if r.Lower != "" {
		if value < r.Lower {
			return false
		}
		if !r.LowerInclusive && value == r.Lower {
			return false
		}
	}
	if r.Upper != "" {
		if value > r.Upper {
			return false
		}
		if (forceExclusiveUpper || !r.UpperInclusive) && value == r.Upper {
			return false
		}
	}
	return true
}

// Contains разбирает raw и проверяет вхождение value.
// Пустой или нераспознанный диапазон не ограничивает значение.
func Contains(raw, value string, forceExclusiveUpper bool) bool {
	if strings.TrimSpace(raw) == "" {
		return true
	}
	r, err := Parse(raw)
	if err != nil {
		return true
	}
	return r.Contains(value, forceExclusiveUpper)
}

func normalizeBound(bound, infinity string) string {
	bound = strings.Trim(strings.TrimSpace(bound), `"`)
	if bound == infinity {
		return ""
	}
	return bound
}
