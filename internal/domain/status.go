package domain

import "fmt"

// StatusTable справочник статусов code <-> id, загружается один раз при старте
type StatusTable struct {
	byCode map[BookingStatus]int64
}

// NewStatusTable builds the lookup from code -> id pairs
func NewStatusTable(ids map[BookingStatus]int64) *StatusTable {
	t := &StatusTable{
		byCode: make(map[BookingStatus]int64, len(ids)),
	}
	for code, id := range ids {
		t.byCode[code] = id
	}
	return t
}

// ID returns the id of a status code
func (t *StatusTable) ID(code BookingStatus) (int64, bool) {
	id, ok := t.byCode[code]
	return id, ok
}

// MustID returns the id or a configuration error naming the missing code
func (t *StatusTable) MustID(code BookingStatus) (int64, error) {
	id, ok := t.ID(code)
	if !ok {
		return 0, InvalidInput(fmt.Sprintf("Missing booking status %q", code))
	}
	return id, nil
}

// CancelFallback поведение отмены, если статуса cancelled нет в справочнике
type CancelFallback string

const (
	// CancelFallbackExpireHold сдвигает hold_expires_at в прошлое, статус не меняется
	CancelFallbackExpireHold CancelFallback = "expire_hold"
	// CancelFallbackNone отменять нечем, возвращается ошибка
	CancelFallbackNone CancelFallback = "none"
)

// StatusPolicy какие коды использовать для переходов
type StatusPolicy struct {
	Hold           BookingStatus
	HoldFallback   BookingStatus
	Cancelled      BookingStatus
	CancelFallback CancelFallback
}

// DefaultStatusPolicy returns the stock policy
func DefaultStatusPolicy() StatusPolicy {
	return StatusPolicy{
		Hold:           StatusHold,
		HoldFallback:   StatusAwaitingTeacher,
		Cancelled:      StatusCancelled,
		CancelFallback: CancelFallbackExpireHold,
	}
}

// ResolveHold returns the id of the hold status or its fallback
func (p StatusPolicy) ResolveHold(t *StatusTable) (int64, BookingStatus, error) {
	if id, ok := t.ID(p.Hold); ok {
		return id, p.Hold, nil
	}
	if id, ok := t.ID(p.HoldFallback); ok {
		return id, p.HoldFallback, nil
	}
	return 0, "", InvalidInput(fmt.Sprintf("Missing booking status (%s/%s)", p.Hold, p.HoldFallback))
}
