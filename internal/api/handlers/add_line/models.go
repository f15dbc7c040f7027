package add_line

import (
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/service/lines"
)

// AddLineRequest HTTP request model
type AddLineRequest struct {
	PlaceID         int64     `json:"placeId"`
	TeacherID       *int64    `json:"teacherId,omitempty"`
	CourseSessionID *int64    `json:"courseSessionId,omitempty"`
	StartAt         time.Time `json:"startAt"` // RFC 3339
	EndAt           time.Time `json:"endAt"`
	Qty             *int      `json:"qty,omitempty"`
}

// ToServiceRequest конвертирует HTTP запрос в модель сервиса
func (r *AddLineRequest) ToServiceRequest() lines.AddLineRequest {
	return lines.AddLineRequest{
		PlaceID:         r.PlaceID,
		TeacherID:       r.TeacherID,
		CourseSessionID: r.CourseSessionID,
		Start:           r.StartAt,
		End:             r.EndAt,
		Qty:             r.Qty,
	}
}
