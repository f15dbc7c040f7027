package lines

import "time"

// AddLineRequest данные новой строки бронирования
type AddLineRequest struct {
	PlaceID         int64
	TeacherID       *int64
	CourseSessionID *int64
	Start           time.Time
	End             time.Time
	Qty             *int
}

// RemoveLineResult результат удаления строки
type RemoveLineResult struct {
	Removed bool
	Message string
}
