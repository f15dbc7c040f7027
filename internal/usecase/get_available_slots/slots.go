package get_available_slots

import (
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/zoned"
)

// generateSessions режет локальные сутки [dayStart, dayEnd) на сессии фиксированной длины.
// Хвост короче сессии отбрасывается. Сессии, начавшиеся до now, не попадают в сетку.
func generateSessions(dayStart, dayEnd time.Time, session time.Duration, now time.Time) []domain.Slot {
	sessions := make([]domain.Slot, 0)
	for start := dayStart; !start.Add(session).After(dayEnd); start = start.Add(session) {
		if start.Before(now) {
			continue
		}
		sessions = append(sessions, domain.Slot{Start: start, End: start.Add(session)})
	}
	return sessions
}

// markAvailability помечает сессии, не пересекающиеся ни с одним занятым слотом.
// Полуинтервалы: строка, закончившаяся ровно в начале сессии, её не занимает.
func markAvailability(sessions, occupied []domain.Slot, tz string) []Slot {
	result := make([]Slot, 0, len(sessions))
	for _, s := range sessions {
		local := ""
		if parts, err := zoned.Project(s.Start, tz); err == nil {
			local = parts.Local()
		}
		result = append(result, Slot{
			StartAt:    s.Start,
			EndAt:      s.End,
			LocalStart: local,
			Available:  !overlapsAny(s, occupied),
		})
	}
	return result
}

func overlapsAny(slot domain.Slot, occupied []domain.Slot) bool {
	for _, o := range occupied {
		if o.Start.Before(slot.End) && slot.Start.Before(o.End) {
			return true
		}
	}
	return false
}
