package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequester_CanMutate(t *testing.T) {
	b := &Booking{ID: 1, UserID: 10}

	assert.True(t, Requester{ID: 99, IsAdmin: true}.CanMutate(b, nil))
	assert.True(t, Requester{ID: 10}.CanMutate(b, nil))
	assert.True(t, Requester{ID: 20, FacilityIDs: []int64{3}}.CanMutate(b, []int64{5, 3}))
	assert.False(t, Requester{ID: 20, FacilityIDs: []int64{4}}.CanMutate(b, []int64{5, 3}))
}

func TestStatusPolicy_ResolveHold(t *testing.T) {
	policy := DefaultStatusPolicy()

	t.Run("hold present", func(t *testing.T) {
		id, code, err := policy.ResolveHold(NewStatusTable(map[BookingStatus]int64{StatusHold: 1, StatusAwaitingTeacher: 2}))
		require.NoError(t, err)
		assert.Equal(t, int64(1), id)
		assert.Equal(t, StatusHold, code)
	})

	t.Run("falls back", func(t *testing.T) {
		id, code, err := policy.ResolveHold(NewStatusTable(map[BookingStatus]int64{StatusAwaitingTeacher: 2}))
		require.NoError(t, err)
		assert.Equal(t, int64(2), id)
		assert.Equal(t, StatusAwaitingTeacher, code)
	})

	t.Run("neither", func(t *testing.T) {
		_, _, err := policy.ResolveHold(NewStatusTable(nil))
		require.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestError_Chain(t *testing.T) {
	sentinel := InvalidInput("Cannot mix currencies within a booking")
	cause := errors.New("pq: check violation")

	wrapped := fmt.Errorf("AddLine: %w", Wrap(sentinel, cause))

	assert.ErrorIs(t, wrapped, sentinel)
	assert.ErrorIs(t, wrapped, ErrInvalidInput)
	assert.ErrorIs(t, wrapped, cause)
	assert.Equal(t, "Cannot mix currencies within a booking", Message(wrapped, "fallback"))
	assert.Equal(t, "fallback", Message(cause, "fallback"))
}

func TestPricingProfile_CoversDate(t *testing.T) {
	until := "2025-06-30"
	p := &PricingProfile{EffectiveFrom: "2025-01-01", EffectiveUntil: &until}

	assert.True(t, p.CoversDate("2025-01-01"))
	assert.True(t, p.CoversDate("2025-06-30"))
	assert.False(t, p.CoversDate("2024-12-31"))
	assert.False(t, p.CoversDate("2025-07-01"))

	p.EffectiveUntil = nil
	assert.True(t, p.CoversDate("2099-01-01"))
}

func TestCalendarDay_Flag(t *testing.T) {
	day := &CalendarDay{Date: "2025-03-30", Flags: map[string]any{
		"is_public_holiday": true,
		"holiday_name":      "Eid al-Fitr",
	}}

	tests := []struct {
		key    string
		want   any
		wantOK bool
	}{
		{key: "is_public_holiday", want: true, wantOK: true},
		{key: "isPublicHoliday", want: true, wantOK: true},
		{key: "holidayName", want: "Eid al-Fitr", wantOK: true},
		{key: "isRamadan", want: nil, wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			got, ok := day.Flag(tt.key)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
