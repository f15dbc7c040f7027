package domain

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
)

// Place бронируемая площадка (корт, зал); принадлежит объекту FacilityID
type Place struct {
	ID         int64
	FacilityID int64
	Name       string
	Timezone   *string
	DeletedAt  *time.Time
}

// IsDeleted returns true if the place was soft-deleted
func (p *Place) IsDeleted() bool {
	return p.DeletedAt != nil
}

// OverrideType тип ценового правила
type OverrideType string

const (
	OverrideSet          OverrideType = "set"
	OverrideDeltaAmount  OverrideType = "delta_amount"
	OverrideDeltaPercent OverrideType = "delta_percent"
)

// Valid returns true for known override types
func (t OverrideType) Valid() bool {
	switch t {
	case OverrideSet, OverrideDeltaAmount, OverrideDeltaPercent:
		return true
	}
	return false
}

// PricingProfile базовая цена сессии площадки с периодом действия
type PricingProfile struct {
	ID                     int64
	PlaceID                int64
	Name                   string
	SessionDurationMinutes int
	BasePrice              decimal.Decimal
	Currency               string
	Timezone               string
	EffectiveFrom          string  // YYYY-MM-DD
	EffectiveUntil         *string // YYYY-MM-DD, nil = бессрочно
	IsDefault              bool
	Metadata               map[string]any

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// CoversDate returns true if the local date falls into [EffectiveFrom, EffectiveUntil]
func (p *PricingProfile) CoversDate(date string) bool {
	if date < p.EffectiveFrom {
		return false
	}
	if p.EffectiveUntil != nil && date > *p.EffectiveUntil {
		return false
	}
	return true
}

// HasValidSessionDuration returns true for positive multiples of an hour
func (p *PricingProfile) HasValidSessionDuration() bool {
	return p.SessionDurationMinutes >= MinSessionDurationMinutes &&
		p.SessionDurationMinutes%SessionDurationStepMinutes == 0
}

// PriceRule условная корректировка цены профиля
type PriceRule struct {
	ID               int64
	PricingProfileID int64
	Name             string
	Priority         int
	OverrideType     OverrideType
	OverrideValue    decimal.Decimal
	Currency         *string

	// Предикаты; пустое значение не ограничивает
	EffectiveDates *string // текстовый daterange
	TimeWindow     *string // текстовый диапазон HH:MM:SS
	Weekdays       []int   // 0 = воскресенье
	SpecificDates  []string
	CalendarFlags  map[string]any

	Recurrence map[string]any
	Metadata   map[string]any
	IsActive   bool

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsDeleted returns true if the rule was soft-deleted
func (r *PriceRule) IsDeleted() bool {
	return r.DeletedAt != nil
}

// CalendarDay строка календарного справочника на одну дату
type CalendarDay struct {
	Date  string
	Flags map[string]any // ключи по именам колонок: is_public_holiday
}

// Flag returns the calendar value for key. Keys written in camelCase
// (isPublicHoliday) resolve to the snake_case column (is_public_holiday).
func (d *CalendarDay) Flag(key string) (any, bool) {
	if v, ok := d.Flags[key]; ok {
		return v, true
	}
	v, ok := d.Flags[snakeCase(key)]
	return v, ok
}

func snakeCase(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// RateCard профили площадки с их правилами
type RateCard struct {
	PlaceID  int64
	Profiles []RateCardProfile
}

// RateCardProfile профиль вместе с правилами, упорядоченными по (priority, id)
type RateCardProfile struct {
	Profile *PricingProfile
	Rules   []*PriceRule
}

// NormalizeCurrency uppercases a currency code and reports whether it is three latin letters
func NormalizeCurrency(code string) (string, bool) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return code, false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return code, false
		}
	}
	return code, true
}
