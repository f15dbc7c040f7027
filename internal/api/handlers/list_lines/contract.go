package list_lines

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

type LineService interface {
	ListLines(ctx context.Context, bookingID int64, requester domain.Requester) ([]*domain.BookingLine, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
