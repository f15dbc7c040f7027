package pricing

import (
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/textrange"
	"github.com/m04kA/SMC-FacilityBooking/pkg/zoned"
)

var hundred = decimal.NewFromInt(100)

// localSlot слот в часовом поясе профиля
type localSlot struct {
	Start zoned.Parts
	End   zoned.Parts
}

// applyRules применяет активные правила к базовой цене сессии в порядке (priority, id).
// Округление до центов выполняется один раз, после всех правил.
func applyRules(
	profile *domain.PricingProfile,
	rules []*domain.PriceRule,
	slot localSlot,
	calendar *domain.CalendarDay,
) (decimal.Decimal, []domain.AppliedRule, error) {
	ordered := make([]*domain.PriceRule, 0, len(rules))
	for _, rule := range rules {
		if rule.IsActive && !rule.IsDeleted() {
			ordered = append(ordered, rule)
		}
	}
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Priority != ordered[j].Priority {
			return ordered[i].Priority < ordered[j].Priority
		}
		return ordered[i].ID < ordered[j].ID
	})

	working := profile.BasePrice
	applied := make([]domain.AppliedRule, 0)

	for _, rule := range ordered {
		if !ruleMatches(rule, slot, calendar) {
			continue
		}

		if rule.OverrideType != domain.OverrideDeltaPercent {
			currency := profile.Currency
			if rule.Currency != nil {
				currency = *rule.Currency
			}
			if !strings.EqualFold(currency, profile.Currency) {
				return decimal.Zero, nil, ErrCurrencyMismatch
			}
		}

		switch rule.OverrideType {
		case domain.OverrideSet:
			working = rule.OverrideValue
		case domain.OverrideDeltaAmount:
			working = working.Add(rule.OverrideValue)
		case domain.OverrideDeltaPercent:
			working = working.Mul(decimal.NewFromInt(1).Add(rule.OverrideValue.Div(hundred)))
		default:
			continue
		}

		applied = append(applied, domain.AppliedRule{
			ID:            rule.ID,
			Name:          rule.Name,
			OverrideType:  rule.OverrideType,
			OverrideValue: rule.OverrideValue,
			Currency:      rule.Currency,
			Metadata:      rule.Metadata,
		})
	}

	return working.Round(domain.MoneyScale), applied, nil
}

// ruleMatches проверяет все заданные предикаты правила
func ruleMatches(rule *domain.PriceRule, slot localSlot, calendar *domain.CalendarDay) bool {
	if rule.EffectiveDates != nil && !textrange.Contains(*rule.EffectiveDates, slot.Start.Date, false) {
		return false
	}

	if len(rule.SpecificDates) > 0 && !slices.Contains(rule.SpecificDates, slot.Start.Date) {
		return false
	}

	if len(rule.Weekdays) > 0 && !slices.Contains(rule.Weekdays, slot.Start.Weekday) {
		return false
	}

	if rule.TimeWindow != nil && *rule.TimeWindow != "" {
		if !textrange.Contains(*rule.TimeWindow, slot.Start.Time, false) ||
			!textrange.Contains(*rule.TimeWindow, slot.End.Time, true) {
			return false
		}
	}

	if len(rule.CalendarFlags) > 0 {
		if calendar == nil {
			return false
		}
		for key, want := range rule.CalendarFlags {
			got, ok := calendar.Flag(key)
			if !ok || !reflect.DeepEqual(got, want) {
				return false
			}
		}
	}

	return true
}
