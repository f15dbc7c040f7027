package models

import (
	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// QuoteResponse расчет цены слота
type QuoteResponse struct {
	PlaceID                int64                 `json:"placeId"`
	PricingProfileID       int64                 `json:"pricingProfileId"`
	SessionDurationMinutes int                   `json:"sessionDurationMinutes"`
	SessionBlocks          int                   `json:"sessionBlocks"`
	BasePricePerSession    string                `json:"basePricePerSession"`
	UnitPrice              string                `json:"unitPrice"`
	Currency               string                `json:"currency"`
	AppliedRuleIDs         []int64               `json:"appliedRuleIds"`
	AppliedRules           []domain.AppliedRule  `json:"appliedRules"`
	PricingDetails         domain.PricingDetails `json:"pricingDetails"`
	Timezone               string                `json:"timezone"`
	LocalStart             string                `json:"localStart"`
	LocalEnd               string                `json:"localEnd"`
}

// RateCardResponse тарифная сетка площадки
type RateCardResponse struct {
	PlaceID  int64                     `json:"placeId"`
	Profiles []RateCardProfileResponse `json:"profiles"`
}

// RateCardProfileResponse профиль с правилами
type RateCardProfileResponse struct {
	Profile *ProfileResponse `json:"profile"`
	Rules   []*RuleResponse  `json:"rules"`
}

// ProfileResponse ценовой профиль
type ProfileResponse struct {
	ID                     int64          `json:"id"`
	PlaceID                int64          `json:"placeId"`
	Name                   string         `json:"name"`
	SessionDurationMinutes int            `json:"sessionDurationMinutes"`
	BasePrice              string         `json:"basePrice"`
	Currency               string         `json:"currency"`
	Timezone               string         `json:"timezone"`
	EffectiveFrom          string         `json:"effectiveFrom"`
	EffectiveUntil         *string        `json:"effectiveUntil"`
	IsDefault              bool           `json:"isDefault"`
	Metadata               map[string]any `json:"metadata"`
}

// RuleResponse ценовое правило
type RuleResponse struct {
	ID               int64          `json:"id"`
	PricingProfileID int64          `json:"pricingProfileId"`
	Name             string         `json:"name"`
	Priority         int            `json:"priority"`
	OverrideType     string         `json:"overrideType"`
	OverrideValue    string         `json:"overrideValue"`
	Currency         *string        `json:"currency"`
	EffectiveDates   *string        `json:"effectiveDates"`
	TimeWindow       *string        `json:"timeWindow"`
	Weekdays         []int          `json:"weekdays"`
	SpecificDates    []string       `json:"specificDates"`
	CalendarFlags    map[string]any `json:"calendarFlags"`
	Recurrence       map[string]any `json:"recurrence"`
	Metadata         map[string]any `json:"metadata"`
	IsActive         bool           `json:"isActive"`
}

// FromDomainQuote конвертирует domain.Quote
func FromDomainQuote(q *domain.Quote) *QuoteResponse {
	ruleIDs := q.AppliedRuleIDs
	if ruleIDs == nil {
		ruleIDs = []int64{}
	}
	rules := q.AppliedRules
	if rules == nil {
		rules = []domain.AppliedRule{}
	}
	return &QuoteResponse{
		PlaceID:                q.PlaceID,
		PricingProfileID:       q.PricingProfileID,
		SessionDurationMinutes: q.SessionDurationMinutes,
		SessionBlocks:          q.SessionBlocks,
		BasePricePerSession:    q.BasePricePerSession,
		UnitPrice:              q.UnitPrice.StringFixed(domain.MoneyScale),
		Currency:               q.Currency,
		AppliedRuleIDs:         ruleIDs,
		AppliedRules:           rules,
		PricingDetails:         q.PricingDetails,
		Timezone:               q.Timezone,
		LocalStart:             q.LocalStart,
		LocalEnd:               q.LocalEnd,
	}
}

// FromDomainRateCard конвертирует domain.RateCard
func FromDomainRateCard(card *domain.RateCard) *RateCardResponse {
	resp := &RateCardResponse{
		PlaceID:  card.PlaceID,
		Profiles: make([]RateCardProfileResponse, 0, len(card.Profiles)),
	}
	for _, p := range card.Profiles {
		resp.Profiles = append(resp.Profiles, RateCardProfileResponse{
			Profile: FromDomainProfile(p.Profile),
			Rules:   FromDomainRules(p.Rules),
		})
	}
	return resp
}

// FromDomainProfile конвертирует профиль
func FromDomainProfile(p *domain.PricingProfile) *ProfileResponse {
	return &ProfileResponse{
		ID:                     p.ID,
		PlaceID:                p.PlaceID,
		Name:                   p.Name,
		SessionDurationMinutes: p.SessionDurationMinutes,
		BasePrice:              p.BasePrice.StringFixed(domain.MoneyScale),
		Currency:               p.Currency,
		Timezone:               p.Timezone,
		EffectiveFrom:          p.EffectiveFrom,
		EffectiveUntil:         p.EffectiveUntil,
		IsDefault:              p.IsDefault,
		Metadata:               p.Metadata,
	}
}

// FromDomainProfiles конвертирует список профилей
func FromDomainProfiles(profiles []*domain.PricingProfile) []*ProfileResponse {
	out := make([]*ProfileResponse, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, FromDomainProfile(p))
	}
	return out
}

// FromDomainRule конвертирует правило
func FromDomainRule(r *domain.PriceRule) *RuleResponse {
	return &RuleResponse{
		ID:               r.ID,
		PricingProfileID: r.PricingProfileID,
		Name:             r.Name,
		Priority:         r.Priority,
		OverrideType:     string(r.OverrideType),
		OverrideValue:    r.OverrideValue.String(),
		Currency:         r.Currency,
		EffectiveDates:   r.EffectiveDates,
		TimeWindow:       r.TimeWindow,
		Weekdays:         r.Weekdays,
		SpecificDates:    r.SpecificDates,
		CalendarFlags:    r.CalendarFlags,
		Recurrence:       r.Recurrence,
		Metadata:         r.Metadata,
		IsActive:         r.IsActive,
	}
}

// FromDomainRules конвертирует список правил
func FromDomainRules(rules []*domain.PriceRule) []*RuleResponse {
	out := make([]*RuleResponse, 0, len(rules))
	for _, r := range rules {
		out = append(out, FromDomainRule(r))
	}
	return out
}
