package events

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/pkg/ptr"
)

type recordingBroker struct {
	key, id string
	body    any
	err     error
}

func (b *recordingBroker) PublishJSON(_ context.Context, key, messageID string, v any) error {
	b.key, b.id, b.body = key, messageID, v
	return b.err
}

func TestPublisher_Publish(t *testing.T) {
	now := time.Date(2025, time.March, 15, 6, 0, 0, 0, time.UTC)
	booking := &domain.Booking{
		ID: 5, UserID: 7, Status: domain.StatusConfirmed,
		Total: decimal.RequireFromString("90"), Currency: ptr.Ptr("AED"),
	}
	event := NewEvent(TypeConfirmed, booking, now)

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)
	assert.Equal(t, "90.00", event.Total)
	assert.Equal(t, "confirmed", event.Status)

	broker := &recordingBroker{}
	require.NoError(t, NewPublisher(broker).Publish(context.Background(), event))
	assert.Equal(t, TypeConfirmed, broker.key)
	assert.Equal(t, event.ID, broker.id)
	assert.Equal(t, event, broker.body)

	broker.err = errors.New("channel closed")
	assert.Error(t, NewPublisher(broker).Publish(context.Background(), event))

	assert.NoError(t, NoopPublisher{}.Publish(context.Background(), event))
}
