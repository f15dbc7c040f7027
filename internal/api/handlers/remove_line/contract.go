package remove_line

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/lines"
)

type LineService interface {
	RemoveLine(ctx context.Context, bookingID, lineID int64, requester domain.Requester) (*lines.RemoveLineResult, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
