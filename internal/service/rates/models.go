package rates

import "github.com/shopspring/decimal"

// Scope путь ресурса: объект, площадка и, при необходимости, профиль
type Scope struct {
	FacilityID int64
	PlaceID    int64
	ProfileID  int64
}

// ProfileInput поля профиля; nil означает "не задано" (при обновлении не меняется)
type ProfileInput struct {
	Name                   *string          `json:"name,omitempty"`
	SessionDurationMinutes *int             `json:"sessionDurationMinutes,omitempty"`
	BasePrice              *decimal.Decimal `json:"basePrice,omitempty"`
	Currency               *string          `json:"currency,omitempty"`
	Timezone               *string          `json:"timezone,omitempty"`
	EffectiveFrom          *string          `json:"effectiveFrom,omitempty"`
	EffectiveUntil         *string          `json:"effectiveUntil,omitempty"` // пустая строка снимает ограничение
	IsDefault              *bool            `json:"isDefault,omitempty"`
	Metadata               map[string]any   `json:"metadata,omitempty"`
}

// RuleInput поля правила; nil означает "не задано" (при обновлении не меняется)
type RuleInput struct {
	Name           *string          `json:"name,omitempty"`
	Priority       *int             `json:"priority,omitempty"`
	OverrideType   *string          `json:"overrideType,omitempty"`
	OverrideValue  *decimal.Decimal `json:"overrideValue,omitempty"`
	Currency       *string          `json:"currency,omitempty"`
	EffectiveDates *string          `json:"effectiveDates,omitempty"`
	TimeWindow     *string          `json:"timeWindow,omitempty"`
	Weekdays       []int            `json:"weekdays,omitempty"`
	SpecificDates  []string         `json:"specificDates,omitempty"`
	CalendarFlags  map[string]any   `json:"calendarFlags,omitempty"`
	Recurrence     map[string]any   `json:"recurrence,omitempty"`
	Metadata       map[string]any   `json:"metadata,omitempty"`
	IsActive       *bool            `json:"isActive,omitempty"`
}
