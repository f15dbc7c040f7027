package domain

import "github.com/shopspring/decimal"

// AppliedRule краткое описание сработавшего правила
type AppliedRule struct {
	ID            int64           `json:"id"`
	Name          string          `json:"name"`
	OverrideType  OverrideType    `json:"overrideType"`
	OverrideValue decimal.Decimal `json:"overrideValue"`
	Currency      *string         `json:"currency"`
	Metadata      map[string]any  `json:"metadata"`
}

// PricingDetails снимок расчета цены, сохраняется в строке бронирования (jsonb)
type PricingDetails struct {
	ProfileID              int64         `json:"profileId"`
	ProfileName            string        `json:"profileName"`
	BasePricePerSession    string        `json:"basePricePerSession"`
	SessionDurationMinutes int           `json:"sessionDurationMinutes"`
	SessionBlocks          int           `json:"sessionBlocks"`
	Currency               string        `json:"currency"`
	AppliedRules           []AppliedRule `json:"appliedRules"`
	Timezone               string        `json:"timezone"`
	LocalStart             string        `json:"localStart"`
	LocalEnd               string        `json:"localEnd"`
}

// Quote результат расчета цены слота
type Quote struct {
	PlaceID                int64
	PricingProfileID       int64
	SessionDurationMinutes int
	SessionBlocks          int
	BasePricePerSession    string
	UnitPrice              decimal.Decimal
	Currency               string
	AppliedRuleIDs         []int64
	AppliedRules           []AppliedRule
	PricingDetails         PricingDetails
	Timezone               string
	LocalStart             string
	LocalEnd               string
}
