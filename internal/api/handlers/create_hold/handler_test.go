package create_hold

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/api/middleware"
	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
	"github.com/m04kA/SMC-FacilityBooking/internal/service/bookings/models"
	createHold "github.com/m04kA/SMC-FacilityBooking/internal/usecase/create_hold"
)

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

type fakeUseCase struct {
	got       *createHold.Request
	requester domain.Requester
	resp      *createHold.Response
	err       error
}

func (f *fakeUseCase) Execute(_ context.Context, req *createHold.Request, requester domain.Requester) (*createHold.Response, error) {
	f.got = req
	f.requester = requester
	return f.resp, f.err
}

func newRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/hold", strings.NewReader(body))
	return req.WithContext(middleware.WithRequester(req.Context(), domain.Requester{ID: 7}))
}

func TestHandler_Handle(t *testing.T) {
	created := &createHold.Response{
		Booking: &models.BookingResponse{ID: 11, UserID: 7, Status: "hold", Total: "100.00"},
		Totals:  models.TotalsResponse{Total: "100.00"},
	}

	t.Run("created", func(t *testing.T) {
		uc := &fakeUseCase{resp: created}
		h := NewHandler(uc, nopLogger{})

		rec := httptest.NewRecorder()
		h.Handle(rec, newRequest(`{
			"idempotencyKey": "4f1c2a52-4b55-4c1e-9a36-0c8d2a6f9e10",
			"holdSeconds": 600,
			"lines": [{"placeId": 3, "startAt": "2025-03-15T10:00:00+04:00", "endAt": "2025-03-15T11:00:00+04:00", "qty": 2}]
		}`))

		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.Equal(t, int64(7), uc.requester.ID)
		require.Len(t, uc.got.Lines, 1)
		line := uc.got.Lines[0]
		assert.Equal(t, int64(3), line.PlaceID)
		assert.Equal(t, time.Date(2025, time.March, 15, 6, 0, 0, 0, time.UTC), line.Start.UTC())
		assert.Equal(t, 2, *line.Qty)
		assert.Equal(t, 600, *uc.got.HoldSeconds)

		var body createHold.Response
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
		assert.Equal(t, int64(11), body.Booking.ID)
	})

	t.Run("replay answers 200", func(t *testing.T) {
		replayed := *created
		replayed.Replayed = true
		h := NewHandler(&fakeUseCase{resp: &replayed}, nopLogger{})

		rec := httptest.NewRecorder()
		h.Handle(rec, newRequest(`{}`))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid body", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{}, nopLogger{})
		rec := httptest.NewRecorder()
		h.Handle(rec, newRequest(`{"holdSeconds": "soon"}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("validation error", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{err: createHold.ErrHoldTooShort}, nopLogger{})
		rec := httptest.NewRecorder()
		h.Handle(rec, newRequest(`{"holdSeconds": 10}`))

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "holdSeconds must be at least 60")
	})

	t.Run("no requester", func(t *testing.T) {
		h := NewHandler(&fakeUseCase{}, nopLogger{})
		rec := httptest.NewRecorder()
		h.Handle(rec, httptest.NewRequest(http.MethodPost, "/api/v1/bookings/hold", strings.NewReader(`{}`)))
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}
