package get_quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/pricing"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/pricing/models"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakePricing struct {
	start, end time.Time
	err        error
}

func (f *fakePricing) QuoteForSlot(_ context.Context, placeID int64, start, end time.Time) (*domain.Quote, error) {
	f.start, f.end = start, end
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Quote{
		PlaceID:             placeID,
		PricingProfileID:    1,
		SessionBlocks:       1,
		BasePricePerSession: "100.00",
		UnitPrice:           decimal.RequireFromString("90"),
		Currency:            "AED",
		AppliedRuleIDs:      []int64{4},
	}, nil
}

func serve(h *Handler, query string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/places/3/quote?"+query, nil)
	req = mux.SetURLVars(req, map[string]string{"placeId": "3"})
	rec := httptest.NewRecorder()
	h.Handle(rec, req)
	return rec
}

func TestHandler_Handle(t *testing.T) {
	t.Run("quote", func(t *testing.T) {
		svc := &fakePricing{}
		rec := serve(NewHandler(svc, nopLogger{}), "startAt=2025-03-15T10:00:00%2B04:00&endAt=2025-03-15T11:00:00%2B04:00")
		require.Equal(t, http.StatusOK, rec.Code)

		var body models.QuoteResponse
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, "90.00", body.UnitPrice)
		assert.Equal(t, []int64{4}, body.AppliedRuleIDs)
		assert.Equal(t, time.Date(2025, time.March, 15, 6, 0, 0, 0, time.UTC), svc.start.UTC())
		assert.Equal(t, time.Hour, svc.end.Sub(svc.start))
	})

	t.Run("missing endAt", func(t *testing.T) {
		rec := serve(NewHandler(&fakePricing{}, nopLogger{}), "startAt=2025-03-15T10:00:00Z")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), msgInvalidEndAt)
	})

	t.Run("pricing rejects slot", func(t *testing.T) {
		rec := serve(NewHandler(&fakePricing{err: pricing.ErrMisalignedSlot}, nopLogger{}), "startAt=2025-03-15T10:00:00Z&endAt=2025-03-15T10:30:00Z")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown place", func(t *testing.T) {
		rec := serve(NewHandler(&fakePricing{err: pricing.ErrPlaceNotFound}, nopLogger{}), "startAt=2025-03-15T10:00:00Z&endAt=2025-03-15T11:00:00Z")
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}
