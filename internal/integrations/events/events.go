package events

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

// Типы событий жизненного цикла бронирования (ключи маршрутизации)
const (
	TypeHoldCreated      = "booking.hold_created"
	TypePaymentInitiated = "booking.payment_initiated"
	TypeConfirmed        = "booking.confirmed"
	TypePaymentFailed    = "booking.payment_failed"
	TypeCancelled        = "booking.cancelled"
)

// Event сообщение о переходе бронирования
type Event struct {
	ID         string     `json:"id"`
	Type       string     `json:"type"`
	BookingID  int64      `json:"bookingId"`
	UserID     int64      `json:"userId"`
	Status     string     `json:"status"`
	Total      string     `json:"total"`
	Currency   *string    `json:"currency"`
	HoldUntil  *time.Time `json:"holdExpiresAt,omitempty"`
	OccurredAt time.Time  `json:"occurredAt"`
}

// NewEvent builds an event snapshot of the booking
func NewEvent(eventType string, b *domain.Booking, now time.Time) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		BookingID:  b.ID,
		UserID:     b.UserID,
		Status:     string(b.Status),
		Total:      b.Total.StringFixed(domain.MoneyScale),
		Currency:   b.Currency,
		HoldUntil:  b.HoldExpiresAt,
		OccurredAt: now.UTC(),
	}
}

// Broker транспорт публикации (pkg/mq.Publisher)
type Broker interface {
	PublishJSON(ctx context.Context, key, messageID string, v any) error
}

// Publisher публикует события бронирований в брокер
type Publisher struct {
	broker Broker
}

// NewPublisher создает издателя событий
func NewPublisher(broker Broker) *Publisher {
	return &Publisher{broker: broker}
}

// Publish отправляет событие с ключом маршрутизации event.Type
func (p *Publisher) Publish(ctx context.Context, event Event) error {
	return p.broker.PublishJSON(ctx, event.Type, event.ID, event)
}

// NoopPublisher используется, когда события выключены
type NoopPublisher struct{}

// Publish does nothing
func (NoopPublisher) Publish(context.Context, Event) error {
	return nil
}
