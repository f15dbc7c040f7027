package create_hold

import (
	"context"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	createHold "github.com/m04kA/SMC-FacilityBooking/internal/usecase/create_hold"
)

type CreateHoldUseCase interface {
	Execute(ctx context.Context, req *createHold.Request, requester domain.Requester) (*createHold.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
