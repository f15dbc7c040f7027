package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// BookingStatus код статуса бронирования из справочника booking_statuses
type BookingStatus string

const (
	StatusHold            BookingStatus = "hold"
	StatusAwaitingTeacher BookingStatus = "awaiting_teacher"
	StatusPendingPayment  BookingStatus = "pending_payment"
	StatusConfirmed       BookingStatus = "confirmed"
	StatusPaymentFailed   BookingStatus = "payment_failed"
	StatusCancelled       BookingStatus = "cancelled"
)

// Booking represents a reservation aggregate owned by one user
type Booking struct {
	ID       int64
	UserID   int64
	StatusID int64
	Status   BookingStatus

	// Total сумма price*qty по неудаленным строкам, пишется только при переоценке
	Total    decimal.Decimal
	Currency *string

	IdempotencyKey       *string
	HoldExpiresAt        *time.Time
	PaymentReference     *string
	PaymentFailureReason *string
	PaidAt               *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsOwnedBy returns true if the booking belongs to the user
func (b *Booking) IsOwnedBy(userID int64) bool {
	return b.UserID == userID
}

// HasCurrency returns true if the booking currency equals c (case-insensitive)
func (b *Booking) HasCurrency(c string) bool {
	return b.Currency != nil && strings.EqualFold(*b.Currency, c)
}

// FacilityBookingsFilter фильтр бронирований, у которых есть строки на площадках объекта
type FacilityBookingsFilter struct {
	FacilityID int64      // Обязательный параметр
	PlaceID    *int64     // Только строки этой площадки
	StatusID   *int64     // Фильтр по статусу
	From       *time.Time // Слот строки пересекается с [From, To)
	To         *time.Time
}

// BookingLine represents one priced slot inside a booking
type BookingLine struct {
	ID              int64
	BookingID       int64
	PlaceID         int64
	TeacherID       *int64
	CourseSessionID *int64
	Slot            Slot
	Qty             int

	// Снимок цены на момент добавления строки
	Price            decimal.Decimal
	Currency         string
	PricingProfileID int64
	AppliedRuleIDs   []int64
	PricingDetails   PricingDetails

	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt *time.Time
}

// IsDeleted returns true if the line was soft-deleted
func (l *BookingLine) IsDeleted() bool {
	return l.DeletedAt != nil
}

// Totals результат переоценки бронирования
type Totals struct {
	Total    decimal.Decimal
	Currency *string
}

// TransitionResult состояние бронирования после перехода вместе с итогами
type TransitionResult struct {
	Booking *Booking
	Totals  Totals
}
