package lines

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	bookingRepo "github.com/m04kA/SMC-FacilityBooking/internal/infra/storage/booking"
)

// BookingRepository интерфейс репозитория бронирований и их строк
type BookingRepository interface {
	GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error)
	UpdateCurrency(ctx context.Context, id int64, currency string) error
	UpdateTotals(ctx context.Context, id int64, total decimal.Decimal, currency *string) error

	CreateLine(ctx context.Context, line *domain.BookingLine) (*domain.BookingLine, error)
	GetLine(ctx context.Context, lineID int64) (*domain.BookingLine, error)
	ListLines(ctx context.Context, bookingID int64) ([]*domain.BookingLine, error)
	CountActiveLines(ctx context.Context, bookingID int64) (int, error)
	SoftDeleteLine(ctx context.Context, lineID int64) error
	AggregateLines(ctx context.Context, bookingID int64) (*bookingRepo.LineAggregate, error)
	ListLineFacilityIDs(ctx context.Context, bookingID int64) ([]int64, error)
}

// PlaceRepository интерфейс поиска площадок
type PlaceRepository interface {
	GetPlace(ctx context.Context, id int64) (*domain.Place, error)
}

// Pricer интерфейс движка цен
type Pricer interface {
	QuoteForSlot(ctx context.Context, placeID int64, start, end time.Time) (*domain.Quote, error)
}

// TransactionManager интерфейс для управления транзакциями
type TransactionManager interface {
	Do(ctx context.Context, fn func(ctx context.Context) error) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
