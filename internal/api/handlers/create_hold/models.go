package create_hold

import (
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lines"
	createHold "github.com/m04kA/SMC-FacilityBooking/internal/usecase/create_hold"
)

// CreateHoldRequest HTTP request model
type CreateHoldRequest struct {
	IdempotencyKey *string       `json:"idempotencyKey,omitempty"`
	HoldSeconds    *int          `json:"holdSeconds,omitempty"`
	Currency       *string       `json:"currency,omitempty"`
	Lines          []LineRequest `json:"lines,omitempty"`
}

// LineRequest начальная строка бронирования
type LineRequest struct {
	PlaceID         int64     `json:"placeId"`
	TeacherID       *int64    `json:"teacherId,omitempty"`
	CourseSessionID *int64    `json:"courseSessionId,omitempty"`
	StartAt         time.Time `json:"startAt"` // RFC 3339
	EndAt           time.Time `json:"endAt"`
	Qty             *int      `json:"qty,omitempty"`
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *CreateHoldRequest) ToUseCaseRequest() *createHold.Request {
	req := &createHold.Request{
		IdempotencyKey: r.IdempotencyKey,
		HoldSeconds:    r.HoldSeconds,
		Currency:       r.Currency,
		Lines:          make([]lines.AddLineRequest, 0, len(r.Lines)),
	}
	for _, l := range r.Lines {
		req.Lines = append(req.Lines, lines.AddLineRequest{
			PlaceID:         l.PlaceID,
			TeacherID:       l.TeacherID,
			CourseSessionID: l.CourseSessionID,
			Start:           l.StartAt,
			End:             l.EndAt,
			Qty:             l.Qty,
		})
	}
	return req
}
