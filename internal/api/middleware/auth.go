package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/platform/logger"
	"github.com/epccam/directory-api/internal/redact"
	"github.com/epccam/directory-api/internal/service/auth"
)

// AuthErrorsMessage is the message of every gate failure.
const AuthErrorsMessage = "Auth errors"

// Gate failure codes.
const (
	CodeHeaderMissing = "authorization_header_missing"
	CodeInvalidHeader = "invalid_header"
	CodeTokenExpired  = "token_expired"
	CodeInvalidToken  = "invalid_token"
	CodeInvalidClaims = "invalid_claims"
	CodeUnauthorized  = "unauthorized"
)

// AuthMiddleware verifies bearer tokens and the permission each route
// requires.
type AuthMiddleware struct {
	jwtService auth.JWTService
	logger     *slog.Logger
}

// NewAuthMiddleware creates an AuthMiddleware backed by jwtService.
func NewAuthMiddleware(jwtService auth.JWTService, l *slog.Logger) *AuthMiddleware {
	if l == nil {
		l = slog.Default()
	}
	return &AuthMiddleware{
		jwtService: jwtService,
		logger:     l.With(slog.String("component", "auth_middleware")),
	}
}

// Require rejects requests whose token is missing, invalid or lacks
// permission. Accepted requests carry their claims in the context
// (shared.ClaimsFrom).
func (m *AuthMiddleware) Require(permission string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			log := logger.FromContextOrDefault(r.Context(), m.logger)

			header := r.Header.Get("Authorization")
			if header == "" {
				deny(w, r, http.StatusUnauthorized, CodeHeaderMissing, "Authorization header is expected.", nil)
				return
			}
			parts := strings.Split(header, " ")
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || parts[1] == "" {
				deny(w, r, http.StatusUnauthorized, CodeInvalidHeader, "Authorization header must be bearer token.", nil)
				return
			}

			claims, err := m.jwtService.ValidateToken(r.Context(), parts[1])
			switch {
			case err == nil:
			case errors.Is(err, auth.ErrExpiredToken):
				deny(w, r, http.StatusUnauthorized, CodeTokenExpired, "Token expired.", err)
				return
			case errors.Is(err, auth.ErrInvalidClaims):
				deny(w, r, http.StatusBadRequest, CodeInvalidClaims, "Permissions not included in JWT.", err)
				return
			case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrTokenNotYetValid):
				deny(w, r, http.StatusUnauthorized, CodeInvalidToken, "Unable to parse authentication token.", err)
				return
			default:
				log.Error("failed to validate token", slog.String("error", redact.Error(err)))
				shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal Server Error")
				return
			}

			if !claims.HasPermission(permission) {
				log.Debug("permission denied",
					slog.Int64("user_id", claims.UserID),
					slog.String("permission", permission))
				deny(w, r, http.StatusForbidden, CodeUnauthorized, "Permission not found.", nil)
				return
			}

			ctx := shared.WithClaims(r.Context(), claims)
			ctx = logger.WithLogger(ctx, log.With(slog.Int64("user_id", claims.UserID)))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func deny(w http.ResponseWriter, r *http.Request, status int, code, description string, cause error) {
	shared.RespondWithErrorAndLog(w, r, status, AuthErrorsMessage,
		shared.AuthError{Code: code, Description: description}, cause, shared.WithElevatedLogLevel())
}
