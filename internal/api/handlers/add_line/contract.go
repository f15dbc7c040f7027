package add_line

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lines"
)

type LineService interface {
	AddLine(ctx context.Context, bookingID int64, req lines.AddLineRequest, requester domain.Requester) (*domain.BookingLine, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
