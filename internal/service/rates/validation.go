package rates

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/textrange"
	"github.com/m04kA/SMC-FacilityBooking/pkg/zoned"
)

// applyProfileInput переносит заданные поля ввода в профиль
func applyProfileInput(p *domain.PricingProfile, in ProfileInput) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.SessionDurationMinutes != nil {
		p.SessionDurationMinutes = *in.SessionDurationMinutes
	}
	if in.BasePrice != nil {
		p.BasePrice = *in.BasePrice
	}
	if in.Currency != nil {
		p.Currency = *in.Currency
	}
	if in.Timezone != nil {
		p.Timezone = *in.Timezone
	}
	if in.EffectiveFrom != nil {
		p.EffectiveFrom = *in.EffectiveFrom
	}
	if in.EffectiveUntil != nil {
		if strings.TrimSpace(*in.EffectiveUntil) == "" {
			p.EffectiveUntil = nil
		} else {
			until := strings.TrimSpace(*in.EffectiveUntil)
			p.EffectiveUntil = &until
		}
	}
	if in.IsDefault != nil {
		p.IsDefault = *in.IsDefault
	}
	if in.Metadata != nil {
		p.Metadata = in.Metadata
	}
}

// normalizeProfile подставляет значения по умолчанию и проверяет профиль
func normalizeProfile(p *domain.PricingProfile, defaultTimezone string) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		p.Name = domain.DefaultProfileName
	}

	if p.SessionDurationMinutes == 0 {
		p.SessionDurationMinutes = domain.DefaultSessionDuration
	}
	if !p.HasValidSessionDuration() {
		return invalidProfile(fmt.Sprintf("sessionDurationMinutes must be a multiple of %d and at least %d",
			domain.SessionDurationStepMinutes, domain.MinSessionDurationMinutes))
	}

	if p.BasePrice.IsNegative() {
		return invalidProfile("basePrice cannot be negative")
	}
	p.BasePrice = p.BasePrice.Round(domain.MoneyScale)

	if strings.TrimSpace(p.Currency) == "" {
		p.Currency = domain.DefaultCurrency
	}
	currency, ok := domain.NormalizeCurrency(p.Currency)
	if !ok {
		return invalidProfile("currency must be a 3-letter code")
	}
	p.Currency = currency

	p.Timezone = strings.TrimSpace(p.Timezone)
	if p.Timezone == "" {
		p.Timezone = defaultTimezone
	}
	if _, err := zoned.Location(p.Timezone); err != nil {
		return invalidProfile(fmt.Sprintf("Unknown timezone %q", p.Timezone))
	}

	p.EffectiveFrom = strings.TrimSpace(p.EffectiveFrom)
	if !zoned.ValidDate(p.EffectiveFrom) {
		return invalidProfile("effectiveFrom must be a date in YYYY-MM-DD format")
	}
	if p.EffectiveUntil != nil {
		if !zoned.ValidDate(*p.EffectiveUntil) {
			return invalidProfile("effectiveUntil must be a date in YYYY-MM-DD format")
		}
		if *p.EffectiveUntil < p.EffectiveFrom {
			return invalidProfile("effectiveUntil must not be before effectiveFrom")
		}
	}

	return nil
}

// applyRuleInput переносит заданные поля ввода в правило
func applyRuleInput(r *domain.PriceRule, in RuleInput) {
	if in.Name != nil {
		r.Name = *in.Name
	}
	if in.Priority != nil {
		r.Priority = *in.Priority
	}
	if in.OverrideType != nil {
		r.OverrideType = domain.OverrideType(strings.TrimSpace(*in.OverrideType))
	}
	if in.OverrideValue != nil {
		r.OverrideValue = *in.OverrideValue
	}
	if in.Currency != nil {
		r.Currency = emptyToNil(*in.Currency)
	}
	if in.EffectiveDates != nil {
		r.EffectiveDates = emptyToNil(*in.EffectiveDates)
	}
	if in.TimeWindow != nil {
		r.TimeWindow = emptyToNil(*in.TimeWindow)
	}
	if in.Weekdays != nil {
		r.Weekdays = in.Weekdays
	}
	if in.SpecificDates != nil {
		r.SpecificDates = in.SpecificDates
	}
	if in.CalendarFlags != nil {
		r.CalendarFlags = in.CalendarFlags
	}
	if in.Recurrence != nil {
		r.Recurrence = in.Recurrence
	}
	if in.Metadata != nil {
		r.Metadata = in.Metadata
	}
	if in.IsActive != nil {
		r.IsActive = *in.IsActive
	}
}

// normalizeRule проверяет правило в контексте его профиля
func normalizeRule(r *domain.PriceRule, profile *domain.PricingProfile) error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return invalidRule("name is required")
	}

	if !r.OverrideType.Valid() {
		return invalidRule("overrideType must be one of set, delta_amount, delta_percent")
	}

	if r.OverrideType == domain.OverrideDeltaPercent &&
		(r.OverrideValue.LessThan(decimalInt(-domain.MaxDeltaPercent)) || r.OverrideValue.GreaterThan(decimalInt(domain.MaxDeltaPercent))) {
		return invalidRule(fmt.Sprintf("delta_percent must be between -%d and %d", domain.MaxDeltaPercent, domain.MaxDeltaPercent))
	}
	if r.OverrideType == domain.OverrideSet && r.OverrideValue.IsNegative() {
		return invalidRule("set value cannot be negative")
	}

	if r.Priority < domain.MinRulePriority || r.Priority > domain.MaxRulePriority {
		return invalidRule(fmt.Sprintf("priority must be between %d and %d", domain.MinRulePriority, domain.MaxRulePriority))
	}

	for _, day := range r.Weekdays {
		if day < 0 || day > 6 {
			return invalidRule("weekdays must be within 0..6")
		}
	}

	for _, date := range r.SpecificDates {
		if !zoned.ValidDate(date) {
			return invalidRule(fmt.Sprintf("specificDates contains invalid date %q", date))
		}
	}

	if err := validateRange("effectiveDates", r.EffectiveDates); err != nil {
		return err
	}
	if err := validateRange("timeWindow", r.TimeWindow); err != nil {
		return err
	}

	if r.Currency != nil {
		currency, ok := domain.NormalizeCurrency(*r.Currency)
		if !ok {
			return invalidRule("currency must be a 3-letter code")
		}
		if currency != profile.Currency {
			return invalidRule(fmt.Sprintf("currency must match profile currency %s", profile.Currency))
		}
		r.Currency = &currency
	} else if r.OverrideType != domain.OverrideDeltaPercent {
		return invalidRule("currency is required for set and delta_amount rules")
	}

	return nil
}

func validateRange(field string, raw *string) error {
	if raw == nil {
		return nil
	}
	rng, err := textrange.Parse(*raw)
	if err != nil {
		return invalidRule(fmt.Sprintf("%s must be a range like [from,to)", field))
	}
	if rng.Inverted() {
		return invalidRule(fmt.Sprintf("%s lower bound must not exceed upper bound", field))
	}
	return nil
}

func emptyToNil(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func decimalInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
