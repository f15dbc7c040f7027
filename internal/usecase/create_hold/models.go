package create_hold

import (
	"github.com/m04kA/SMC-FacilityBooking/internal/service/bookings/models"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lines"
)

// Config значения по умолчанию для новых удержаний
type Config struct {
	DefaultHoldSeconds int
	DefaultCurrency    string
}

// Request модель запроса на создание удержания
type Request struct {
	IdempotencyKey *string                // UUID, повтор с тем же ключом вернет существующее бронирование
	HoldSeconds    *int                   // Длительность удержания (по умолчанию из конфигурации)
	Currency       *string                // Валюта бронирования (по умолчанию из конфигурации)
	Lines          []lines.AddLineRequest // Начальные строки
}

// Response модель ответа с созданным (или найденным) бронированием
type Response struct {
	Booking  *models.BookingResponse `json:"booking"`
	Lines    []*models.LineResponse  `json:"lines"`
	Totals   models.TotalsResponse   `json:"totals"`
	Replayed bool                    `json:"replayed"`
}
