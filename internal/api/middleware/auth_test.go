package middleware

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/mocks"
	"github.com/epccam/directory-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthMiddleware_Require(t *testing.T) {
	t.Parallel()

	reader := &auth.Claims{UserID: 42, RoleName: "ROLE_USER", Permissions: []string{"get:regions"}}

	tests := []struct {
		name           string
		authHeader     string
		validateErr    error
		claims         *auth.Claims
		expectedStatus int
		expectedCode   string
	}{
		{
			name:           "valid token with permission",
			authHeader:     "Bearer valid-token",
			claims:         reader,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "lower-case scheme",
			authHeader:     "bearer valid-token",
			claims:         reader,
			expectedStatus: http.StatusOK,
		},
		{
			name:           "missing auth header",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   CodeHeaderMissing,
		},
		{
			name:           "not a bearer header",
			authHeader:     "Basic dXNlcjpwYXNz",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   CodeInvalidHeader,
		},
		{
			name:           "too many parts",
			authHeader:     "Bearer a b",
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   CodeInvalidHeader,
		},
		{
			name:           "expired token",
			authHeader:     "Bearer expired-token",
			validateErr:    auth.ErrExpiredToken,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   CodeTokenExpired,
		},
		{
			name:           "invalid token",
			authHeader:     "Bearer invalid-token",
			validateErr:    auth.ErrInvalidToken,
			expectedStatus: http.StatusUnauthorized,
			expectedCode:   CodeInvalidToken,
		},
		{
			name:           "token without permissions",
			authHeader:     "Bearer claimless-token",
			validateErr:    auth.ErrInvalidClaims,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   CodeInvalidClaims,
		},
		{
			name:           "permission absent",
			authHeader:     "Bearer valid-token",
			claims:         &auth.Claims{UserID: 42, Permissions: []string{"get:fonctions"}},
			expectedStatus: http.StatusForbidden,
			expectedCode:   CodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			jwtService := &mocks.MockJWTService{ValidateErr: tt.validateErr, Claims: tt.claims}
			gate := NewAuthMiddleware(jwtService, nil)

			var reached *auth.Claims
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				reached, _ = shared.ClaimsFrom(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/v1/regions", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()
			gate.Require("get:regions")(next).ServeHTTP(rec, req)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.expectedCode == "" {
				require.NotNil(t, reached)
				assert.Equal(t, int64(42), reached.UserID)
				return
			}
			assert.Nil(t, reached, "handler must not run")

			var body struct {
				Success bool             `json:"success"`
				Message string           `json:"message"`
				Error   shared.AuthError `json:"error"`
			}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.False(t, body.Success)
			assert.Equal(t, AuthErrorsMessage, body.Message)
			assert.Equal(t, tt.expectedCode, body.Error.Code)
			assert.NotEmpty(t, body.Error.Description)
		})
	}
}

func TestAuthMiddleware_UnexpectedValidationError(t *testing.T) {
	t.Parallel()
	gate := NewAuthMiddleware(&mocks.MockJWTService{ValidateErr: errors.New("keystore offline")}, nil)
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer x")
	rec := httptest.NewRecorder()

	gate.Require("get:regions")(http.NotFoundHandler()).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "keystore")
}

func TestAuthMiddleware_RealTokens(t *testing.T) {
	t.Parallel()
	svc := auth.MustCreateTestJWTService()
	gate := NewAuthMiddleware(svc, nil)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer not.a.jwt")
	rec := httptest.NewRecorder()
	gate.Require("get:regions")(next).ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), CodeInvalidToken)
}
