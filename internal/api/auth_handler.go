package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/epccam/directory-api/internal/api/shared"
	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/platform/logger"
	"github.com/epccam/directory-api/internal/service"
	"github.com/epccam/directory-api/internal/validate"
)

// LoginResponse is the data of a successful login.
type LoginResponse struct {
	ExpiresAt string `json:"exp"`
	Token     string `json:"token"`
}

// AuthHandler serves registration, login and the caller's profile.
type AuthHandler struct {
	accounts service.AccountService
	logger   *slog.Logger
}

// NewAuthHandler creates an AuthHandler.
func NewAuthHandler(accounts service.AccountService, l *slog.Logger) *AuthHandler {
	if l == nil {
		l = slog.Default()
	}
	return &AuthHandler{
		accounts: accounts,
		logger:   l.With(slog.String("component", "auth_handler")),
	}
}

// Register handles POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in validate.UserInput
	if !decodeEntry(w, r, &in) {
		return
	}
	view, err := h.accounts.Register(r.Context(), in)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusCreated, view, "User created successfully")
}

// Login handles POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContextOrDefault(r.Context(), h.logger)

	var in validate.Credentials
	if !decodeBody(w, r, &in) {
		return
	}
	res, err := h.accounts.Login(r.Context(), in)
	if err != nil {
		if domain.KindOf(err) == domain.KindNotFound {
			log.Info("failed login attempt", slog.String("remote_addr", r.RemoteAddr))
		}
		HandleAPIError(w, r, err)
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, LoginResponse{
		ExpiresAt: res.ExpiresAt.UTC().Format(time.RFC3339),
		Token:     res.Token,
	}, "Successfully logged in")
}

// Me handles GET /users/me and returns the identity carried by the token.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims, ok := shared.ClaimsFrom(r.Context())
	if !ok {
		HandleAPIError(w, r, domain.NewUnauthorizedError("missing identity"))
		return
	}
	shared.RespondWithData(w, r, http.StatusOK, claims.View(), "successfully retrieved user profile")
}
