package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/ptr"
	"github.com/m04kA/SMC-FacilityBooking/pkg/zoned"
)

func priceRule(id int64, priority int, typ domain.OverrideType, value string) *domain.PriceRule {
	return &domain.PriceRule{
		ID:               id,
		PricingProfileID: 1,
		Name:             "Rule",
		Priority:         priority,
		OverrideType:     typ,
		OverrideValue:    decimal.RequireFromString(value),
		IsActive:         true,
	}
}

func with(r *domain.PriceRule, fn func(r *domain.PriceRule)) *domain.PriceRule {
	fn(r)
	return r
}

// субботний слот 10:00-11:00 по местному времени
var saturdaySlot = localSlot{
	Start: zoned.Parts{Date: "2025-03-15", Time: "10:00:00", Weekday: 6},
	End:   zoned.Parts{Date: "2025-03-15", Time: "11:00:00", Weekday: 6},
}

func TestApplyRules(t *testing.T) {
	holiday := &domain.CalendarDay{Date: "2025-03-15", Flags: map[string]any{
		"is_public_holiday": true,
		"is_ramadan":        false,
	}}

	tests := []struct {
		name     string
		rules    []*domain.PriceRule
		calendar *domain.CalendarDay
		wantIDs  []int64
		want     string
	}{
		{
			name:    "no rules keeps base price",
			wantIDs: []int64{},
			want:    "100.00",
		},
		{
			name: "priority then id regardless of storage order",
			rules: []*domain.PriceRule{
				priceRule(5, 2, domain.OverrideSet, "50"),
				priceRule(4, 2, domain.OverrideDeltaAmount, "7"),
				priceRule(9, 1, domain.OverrideDeltaPercent, "10"),
			},
			wantIDs: []int64{9, 4, 5},
			want:    "50.00",
		},
		{
			name: "set discards running price and later deltas apply on top",
			rules: []*domain.PriceRule{
				priceRule(1, 1, domain.OverrideDeltaAmount, "20"),
				priceRule(2, 2, domain.OverrideSet, "80"),
				priceRule(3, 3, domain.OverrideDeltaAmount, "-5"),
			},
			wantIDs: []int64{1, 2, 3},
			want:    "75.00",
		},
		{
			name: "inactive and deleted rules are skipped",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideSet, "10"), func(r *domain.PriceRule) { r.IsActive = false }),
				with(priceRule(2, 1, domain.OverrideSet, "20"), func(r *domain.PriceRule) { r.DeletedAt = ptr.Ptr(time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)) }),
			},
			wantIDs: []int64{},
			want:    "100.00",
		},
		{
			name: "time window lower bound is inclusive",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaPercent, "10"), func(r *domain.PriceRule) {
					r.TimeWindow = ptr.Ptr("[10:00:00,12:00:00)")
				}),
			},
			wantIDs: []int64{1},
			want:    "110.00",
		},
		{
			name: "slot end on closed window end does not match",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaPercent, "10"), func(r *domain.PriceRule) {
					r.TimeWindow = ptr.Ptr("[10:00:00,11:00:00]")
				}),
			},
			wantIDs: []int64{},
			want:    "100.00",
		},
		{
			name: "exclusive window start does not match",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaPercent, "10"), func(r *domain.PriceRule) {
					r.TimeWindow = ptr.Ptr("(10:00:00,12:00:00)")
				}),
			},
			wantIDs: []int64{},
			want:    "100.00",
		},
		{
			name: "calendar flag without calendar row",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaPercent, "10"), func(r *domain.PriceRule) {
					r.CalendarFlags = map[string]any{"is_public_holiday": true}
				}),
			},
			wantIDs: []int64{},
			want:    "100.00",
		},
		{
			name: "calendar flag equal",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaPercent, "10"), func(r *domain.PriceRule) {
					r.CalendarFlags = map[string]any{"is_public_holiday": true, "is_ramadan": false}
				}),
			},
			calendar: holiday,
			wantIDs:  []int64{1},
			want:     "110.00",
		},
		{
			name: "calendar flag in camel case",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaPercent, "10"), func(r *domain.PriceRule) {
					r.CalendarFlags = map[string]any{"isPublicHoliday": true}
				}),
			},
			calendar: holiday,
			wantIDs:  []int64{1},
			want:     "110.00",
		},
		{
			name: "calendar flag differs",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaPercent, "10"), func(r *domain.PriceRule) {
					r.CalendarFlags = map[string]any{"is_ramadan": true}
				}),
			},
			calendar: holiday,
			wantIDs:  []int64{},
			want:     "100.00",
		},
		{
			name: "specific dates",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaAmount, "5"), func(r *domain.PriceRule) {
					r.SpecificDates = []string{"2025-03-14", "2025-03-15"}
				}),
				with(priceRule(2, 1, domain.OverrideDeltaAmount, "50"), func(r *domain.PriceRule) {
					r.SpecificDates = []string{"2025-03-16"}
				}),
			},
			wantIDs: []int64{1},
			want:    "105.00",
		},
		{
			name: "effective date range honours brackets",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaAmount, "5"), func(r *domain.PriceRule) {
					r.EffectiveDates = ptr.Ptr("[2025-03-01,2025-03-15]")
				}),
				with(priceRule(2, 1, domain.OverrideDeltaAmount, "50"), func(r *domain.PriceRule) {
					r.EffectiveDates = ptr.Ptr("[2025-03-01,2025-03-15)")
				}),
				with(priceRule(3, 1, domain.OverrideDeltaAmount, "1"), func(r *domain.PriceRule) {
					r.EffectiveDates = ptr.Ptr("[2025-03-10,infinity)")
				}),
			},
			wantIDs: []int64{1, 3},
			want:    "106.00",
		},
		{
			name: "weekdays",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaPercent, "-10"), func(r *domain.PriceRule) { r.Weekdays = []int{5, 6} }),
				with(priceRule(2, 1, domain.OverrideDeltaPercent, "-50"), func(r *domain.PriceRule) { r.Weekdays = []int{0} }),
			},
			wantIDs: []int64{1},
			want:    "90.00",
		},
		{
			name: "percent rule in foreign currency is allowed",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaPercent, "10"), func(r *domain.PriceRule) { r.Currency = ptr.Ptr("USD") }),
			},
			wantIDs: []int64{1},
			want:    "110.00",
		},
		{
			name: "currency compared case-insensitively",
			rules: []*domain.PriceRule{
				with(priceRule(1, 1, domain.OverrideDeltaAmount, "1"), func(r *domain.PriceRule) { r.Currency = ptr.Ptr("aed") }),
			},
			wantIDs: []int64{1},
			want:    "101.00",
		},
		{
			name: "single rounding at the end",
			rules: []*domain.PriceRule{
				priceRule(1, 1, domain.OverrideSet, "10.004"),
				priceRule(2, 2, domain.OverrideDeltaAmount, "0.001"),
			},
			wantIDs: []int64{1, 2},
			want:    "10.01",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			price, applied, err := applyRules(aedProfile(), tt.rules, saturdaySlot, tt.calendar)
			require.NoError(t, err)

			ids := make([]int64, 0, len(applied))
			for _, a := range applied {
				ids = append(ids, a.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
			assert.Equal(t, tt.want, price.StringFixed(2))
		})
	}
}

func TestApplyRules_CurrencyMismatch(t *testing.T) {
	tests := []struct {
		name string
		rule *domain.PriceRule
	}{
		{name: "set", rule: priceRule(1, 1, domain.OverrideSet, "50")},
		{name: "delta amount", rule: priceRule(1, 1, domain.OverrideDeltaAmount, "5")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.rule.Currency = ptr.Ptr("USD")
			_, _, err := applyRules(aedProfile(), []*domain.PriceRule{tt.rule}, saturdaySlot, nil)
			require.ErrorIs(t, err, ErrCurrencyMismatch)
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	t.Run("non-matching foreign rule is ignored", func(t *testing.T) {
		rule := priceRule(1, 1, domain.OverrideSet, "50")
		rule.Currency = ptr.Ptr("USD")
		rule.Weekdays = []int{0}
		price, _, err := applyRules(aedProfile(), []*domain.PriceRule{rule}, saturdaySlot, nil)
		require.NoError(t, err)
		assert.Equal(t, "100.00", price.StringFixed(2))
	})
}
