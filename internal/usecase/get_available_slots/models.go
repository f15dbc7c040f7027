package get_available_slots

import "time"

// Request модель запроса на получение сетки сессий площадки
type Request struct {
	PlaceID int64
	Date    string // Локальная дата площадки, YYYY-MM-DD
}

// Response модель ответа с сеткой сессий на день
type Response struct {
	PlaceID                int64
	Date                   string
	Timezone               string
	PricingProfileID       int64
	SessionDurationMinutes int
	Slots                  []Slot
}

// Slot одна сессия дня
type Slot struct {
	StartAt    time.Time
	EndAt      time.Time
	LocalStart string // YYYY-MM-DDTHH:MM:SS в часовом поясе профиля
	Available  bool
}
