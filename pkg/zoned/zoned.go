// Package zoned проецирует момент времени в локальные дату, время и день недели
// указанного часового пояса.
package zoned

import (
	"fmt"
	"sync"
	"time"
	_ "time/tzdata"
)

const (
	DateLayout = "2006-01-02"
	TimeLayout = "15:04:05"
)

// Parts локальное представление момента времени
type Parts struct {
	Date    string // YYYY-MM-DD
	Time    string // HH:MM:SS
	Weekday int    // 0 = воскресенье
}

// Local возвращает "YYYY-MM-DDTHH:MM:SS"
func (p Parts) Local() string {
	return p.Date + "T" + p.Time
}

var locations sync.Map

// Location загружает часовой пояс по IANA имени, результаты кэшируются
func Location(tz string) (*time.Location, error) {
	if loc, ok := locations.Load(tz); ok {
		return loc.(*time.Location), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("zoned: unknown timezone %q: %w", tz, err)
	}
	locations.Store(tz, loc)
	return loc, nil
}

// Project проецирует t в часовой пояс tz
func Project(t time.Time, tz string) (Parts, error) {
	loc, err := Location(tz)
	if err != nil {
		return Parts{}, err
	}
	local := t.In(loc)
	return Parts{
		Date:    local.Format(DateLayout),
		Time:    local.Format(TimeLayout),
		Weekday: int(local.Weekday()),
	}, nil
}

// ValidDate проверяет формат YYYY-MM-DD
func ValidDate(s string) bool {
	_, err := time.Parse(DateLayout, s)
	return err == nil
}
