package models

import (
	"time"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// Request модели

// PaymentSuccessRequest данные успешной оплаты
type PaymentSuccessRequest struct {
	PaymentReference *string `json:"paymentReference,omitempty"`
}

// GetUserBookingsRequest запрос на получение бронирований пользователя
type GetUserBookingsRequest struct {
	UserID int64   `json:"userId"`
	Status *string `json:"status,omitempty"`
}

// GetFacilityBookingsRequest запрос на получение бронирований объекта
type GetFacilityBookingsRequest struct {
	FacilityID int64      `json:"facilityId"`
	PlaceID    *int64     `json:"placeId,omitempty"` // Фильтр по площадке (опционально)
	Status     *string    `json:"status,omitempty"`  // Фильтр по статусу (опционально)
	From       *time.Time `json:"from,omitempty"`    // Начало периода (опционально)
	To         *time.Time `json:"to,omitempty"`      // Конец периода (опционально)
}

// PaymentFailureRequest данные неуспешной оплаты
type PaymentFailureRequest struct {
	PaymentReference *string `json:"paymentReference,omitempty"`
	Reason           *string `json:"reason,omitempty"`
}

// Response модели

// BookingResponse ответ с данными бронирования
type BookingResponse struct {
	ID                   int64      `json:"id"`
	UserID               int64      `json:"userId"`
	Status               string     `json:"status"`
	Total                string     `json:"total"` // "90.00"
	Currency             *string    `json:"currency"`
	IdempotencyKey       *string    `json:"idempotencyKey,omitempty"`
	HoldExpiresAt        *time.Time `json:"holdExpiresAt"`
	PaymentReference     *string    `json:"paymentReference"`
	PaymentFailureReason *string    `json:"paymentFailureReason"`
	PaidAt               *time.Time `json:"paidAt"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

// BookingListResponse список бронирований
type BookingListResponse struct {
	Bookings []*BookingResponse `json:"bookings"`
}

// TotalsResponse итоги после переоценки
type TotalsResponse struct {
	Total    string  `json:"total"`
	Currency *string `json:"currency"`
}

// TransitionResponse бронирование после перехода вместе с итогами
type TransitionResponse struct {
	Booking *BookingResponse `json:"booking"`
	Totals  TotalsResponse   `json:"totals"`
}

// LineResponse строка бронирования
type LineResponse struct {
	ID               int64                 `json:"id"`
	BookingID        int64                 `json:"bookingId"`
	PlaceID          int64                 `json:"placeId"`
	TeacherID        *int64                `json:"teacherId"`
	CourseSessionID  *int64                `json:"courseSessionId"`
	StartAt          time.Time             `json:"startAt"`
	EndAt            time.Time             `json:"endAt"`
	Qty              int                   `json:"qty"`
	Price            string                `json:"price"`
	Currency         string                `json:"currency"`
	PricingProfileID int64                 `json:"pricingProfileId"`
	AppliedRuleIDs   []int64               `json:"appliedRuleIds"`
	PricingDetails   domain.PricingDetails `json:"pricingDetails"`
	CreatedAt        time.Time             `json:"createdAt"`
}

// FromDomainBooking конвертирует domain.Booking в BookingResponse
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}
	return &BookingResponse{
		ID:                   b.ID,
		UserID:               b.UserID,
		Status:               string(b.Status),
		Total:                b.Total.StringFixed(domain.MoneyScale),
		Currency:             b.Currency,
		IdempotencyKey:       b.IdempotencyKey,
		HoldExpiresAt:        b.HoldExpiresAt,
		PaymentReference:     b.PaymentReference,
		PaymentFailureReason: b.PaymentFailureReason,
		PaidAt:               b.PaidAt,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.UpdatedAt,
	}
}

// FromDomainBookingList конвертирует список бронирований
func FromDomainBookingList(bookings []*domain.Booking) *BookingListResponse {
	result := make([]*BookingResponse, 0, len(bookings))
	for _, b := range bookings {
		result = append(result, FromDomainBooking(b))
	}
	return &BookingListResponse{Bookings: result}
}

// FromDomainTotals конвертирует итоги
func FromDomainTotals(t domain.Totals) TotalsResponse {
	return TotalsResponse{
		Total:    t.Total.StringFixed(domain.MoneyScale),
		Currency: t.Currency,
	}
}

// FromDomainTransition конвертирует результат перехода
func FromDomainTransition(r *domain.TransitionResult) *TransitionResponse {
	return &TransitionResponse{
		Booking: FromDomainBooking(r.Booking),
		Totals:  FromDomainTotals(r.Totals),
	}
}

// FromDomainLine конвертирует строку бронирования
func FromDomainLine(l *domain.BookingLine) *LineResponse {
	ruleIDs := l.AppliedRuleIDs
	if ruleIDs == nil {
		ruleIDs = []int64{}
	}
	return &LineResponse{
		ID:               l.ID,
		BookingID:        l.BookingID,
		PlaceID:          l.PlaceID,
		TeacherID:        l.TeacherID,
		CourseSessionID:  l.CourseSessionID,
		StartAt:          l.Slot.Start,
		EndAt:            l.Slot.End,
		Qty:              l.Qty,
		Price:            l.Price.StringFixed(domain.MoneyScale),
		Currency:         l.Currency,
		PricingProfileID: l.PricingProfileID,
		AppliedRuleIDs:   ruleIDs,
		PricingDetails:   l.PricingDetails,
		CreatedAt:        l.CreatedAt,
	}
}

// FromDomainLines конвертирует список строк
func FromDomainLines(lines []*domain.BookingLine) []*LineResponse {
	out := make([]*LineResponse, 0, len(lines))
	for _, l := range lines {
		out = append(out, FromDomainLine(l))
	}
	return out
}
