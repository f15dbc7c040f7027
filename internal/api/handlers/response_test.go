package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-FacilityBooking/internal/domain"
)

func TestRespondServiceError(t *testing.T) {
	sentinel := domain.InvalidInput("Invalid price rule")

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
		wantClient bool
	}{
		{name: "not found", err: domain.NotFound("Booking not found"), wantStatus: http.StatusNotFound, wantMsg: "Booking not found", wantClient: true},
		{name: "specific message", err: domain.WithMessage(sentinel, "weekdays must be within 0..6"), wantStatus: http.StatusBadRequest, wantMsg: "weekdays must be within 0..6", wantClient: true},
		{name: "wrapped", err: fmt.Errorf("outer: %w", domain.Unauthorized("Not allowed")), wantStatus: http.StatusForbidden, wantMsg: "Not allowed", wantClient: true},
		{name: "internal", err: errors.New("pq: connection refused"), wantStatus: http.StatusInternalServerError, wantMsg: msgInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			assert.Equal(t, tt.wantClient, RespondServiceError(rec, tt.err))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var body ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.wantStatus, body.Code)
			assert.Equal(t, tt.wantMsg, body.Message)
		})
	}
}

func TestPathID(t *testing.T) {
	tests := []struct {
		name    string
		vars    map[string]string
		want    int64
		wantErr bool
	}{
		{name: "valid", vars: map[string]string{"bookingId": "15"}, want: 15},
		{name: "missing", vars: map[string]string{}, wantErr: true},
		{name: "not a number", vars: map[string]string{"bookingId": "x"}, wantErr: true},
		{name: "negative", vars: map[string]string{"bookingId": "-3"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := mux.SetURLVars(httptest.NewRequest(http.MethodGet, "/", nil), tt.vars)
			got, err := PathID(req, "bookingId")
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
