package domain

import "time"

// Slot полуинтервал [Start, End), хранится в БД как tstzrange
type Slot struct {
	Start time.Time
	End   time.Time
}

// NewSlot validates and builds a half-open slot
func NewSlot(start, end time.Time) (Slot, error) {
	if start.IsZero() {
		return Slot{}, InvalidInput("Invalid startAt")
	}
	if end.IsZero() {
		return Slot{}, InvalidInput("Invalid endAt")
	}
	if !end.After(start) {
		return Slot{}, InvalidInput("endAt must be after startAt")
	}
	return Slot{Start: start, End: end}, nil
}

// Duration returns the slot length
func (s Slot) Duration() time.Duration {
	return s.End.Sub(s.Start)
}
