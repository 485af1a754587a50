package api_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/epccam/directory-api/internal/api"
	"github.com/epccam/directory-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		kind domain.Kind
		want int
	}{
		{domain.KindValidation, http.StatusBadRequest},
		{domain.KindConflict, http.StatusBadRequest},
		{domain.KindInvalidPayload, http.StatusConflict},
		{domain.KindNotFound, http.StatusNotFound},
		{domain.KindUnauthorized, http.StatusUnauthorized},
		{domain.KindForbidden, http.StatusForbidden},
		{domain.KindPersistence, http.StatusInternalServerError},
		{domain.KindUnknown, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, api.StatusFor(tt.kind), "kind %v", tt.kind)
	}
}

func TestHandleAPIError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantMessage string
		wantError   any
	}{
		{
			name:        "field errors become the error member",
			err:         domain.NewFieldError("name", "name is required"),
			wantStatus:  http.StatusBadRequest,
			wantMessage: "name is required",
			wantError:   map[string]any{"name": "name is required"},
		},
		{
			name:        "not found",
			err:         domain.NewNotFoundError("region", 4),
			wantStatus:  http.StatusNotFound,
			wantMessage: domain.MessageOf(domain.NewNotFoundError("region", 4)),
			wantError:   float64(http.StatusNotFound),
		},
		{
			name:        "persistence failures are hidden",
			err:         domain.NewPersistenceError("create region", errors.New("pq: password authentication failed for user admin")),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
			wantError:   float64(http.StatusInternalServerError),
		},
		{
			name:        "plain errors are hidden",
			err:         errors.New("dial tcp 10.0.0.1:5432: connection refused"),
			wantStatus:  http.StatusInternalServerError,
			wantMessage: "Internal Server Error",
			wantError:   float64(http.StatusInternalServerError),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			rec := httptest.NewRecorder()
			api.HandleAPIError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.Equal(t, tt.wantMessage, body["message"])
			assert.Equal(t, tt.wantError, body["error"])
			assert.NotContains(t, rec.Body.String(), "password")
			assert.NotContains(t, rec.Body.String(), "10.0.0.1")
		})
	}
}
