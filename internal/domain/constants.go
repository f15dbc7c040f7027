package domain

import "time"

// Default values
const (
	DefaultCurrency        = "AED"
	DefaultTimezone        = "Asia/Dubai"
	DefaultProfileName     = "Default"
	DefaultHoldSeconds     = 900
	DefaultRulePriority    = 100
	DefaultLineQty         = 1
	PaymentHoldExtension   = 15 * time.Minute
	DefaultSessionDuration = 60
)

// Business validation constants
const (
	MinHoldSeconds             = 60
	MinSessionDurationMinutes  = 60
	SessionDurationStepMinutes = 60
	MinRulePriority            = 0
	MaxRulePriority            = 1000
	MaxDeltaPercent            = 100
	MoneyScale                 = 2
)

// Time format constants
const (
	DateFormat = "2006-01-02" // YYYY-MM-DD
	TimeFormat = "15:04:05"   // HH:MM:SS
)
