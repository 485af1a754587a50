package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/epccam/directory-api/internal/domain"
	"github.com/epccam/directory-api/internal/platform/logger"
	"github.com/epccam/directory-api/internal/redact"
	"github.com/epccam/directory-api/internal/service/auth"
	"github.com/epccam/directory-api/internal/store"
	"github.com/epccam/directory-api/internal/validate"
)

// Messages returned by the account use cases.
const (
	MsgInvalidEntry  = "Invalid data entry"
	MsgAccountExists = "That email or username already exists"
	MsgWrongLogin    = "Wrong email or password"
)

// LoginResult is a freshly issued access token.
type LoginResult struct {
	Token     string
	ExpiresAt time.Time
}

// AccountService registers users and logs them in.
type AccountService interface {
	// Register creates an active account with the default role.
	Register(ctx context.Context, in validate.UserInput) (domain.UserView, error)
	// Login checks credentials of an active account and issues a token.
	Login(ctx context.Context, in validate.Credentials) (LoginResult, error)
}

type accountService struct {
	uow         store.UnitOfWork
	hasher      auth.PasswordHasher
	tokens      auth.JWTService
	defaultRole string
	logger      *slog.Logger
}

// NewAccountService creates an AccountService. Accounts created by Register
// get the role named defaultRole.
func NewAccountService(
	uow store.UnitOfWork,
	hasher auth.PasswordHasher,
	tokens auth.JWTService,
	defaultRole string,
	logger *slog.Logger,
) (AccountService, error) {
	if uow == nil {
		return nil, errors.New("account service: unit of work cannot be nil")
	}
	if hasher == nil {
		return nil, errors.New("account service: password hasher cannot be nil")
	}
	if tokens == nil {
		return nil, errors.New("account service: jwt service cannot be nil")
	}
	if defaultRole == "" {
		return nil, errors.New("account service: default role cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &accountService{
		uow:         uow,
		hasher:      hasher,
		tokens:      tokens,
		defaultRole: defaultRole,
		logger:      logger.With(slog.String("component", "account_service")),
	}, nil
}

func (s *accountService) Register(ctx context.Context, in validate.UserInput) (domain.UserView, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if fe := validate.User(in); fe != nil {
		return domain.UserView{}, domain.NewInvalidPayloadError(MsgInvalidEntry, fe)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return domain.UserView{}, domain.NewPersistenceError("hash password", err)
	}

	user := domain.User{
		UserName:       in.UserName,
		Email:          strings.TrimSpace(in.Email),
		HashedPassword: hash,
		Active:         true,
	}
	var role *domain.Role
	err = s.uow.WithinTx(ctx, func(ctx context.Context, r store.Repos) error {
		taken, err := accountTaken(ctx, r, user.Email, user.UserName)
		if err != nil {
			return err
		}
		if taken {
			return domain.NewInvalidPayloadError(MsgAccountExists, nil)
		}
		if role, err = r.Roles.GetByName(ctx, s.defaultRole); err != nil {
			return err
		}
		user.RoleID = role.ID
		return r.Users.Create(ctx, &user)
	})

	var de *domain.Error
	switch {
	case err == nil:
	case errors.As(err, &de):
		return domain.UserView{}, err
	case errors.Is(err, store.ErrDuplicate):
		return domain.UserView{}, domain.NewInvalidPayloadError(MsgAccountExists, nil)
	default:
		log.Error("failed to register user", slog.String("error", redact.Error(err)))
		return domain.UserView{}, domain.NewPersistenceError("register user", err)
	}

	log.Info("user registered", slog.Int64("user_id", user.ID), slog.String("role", role.Name))
	return domain.NewUserView(user, *role), nil
}

func accountTaken(ctx context.Context, r store.Repos, email, userName string) (bool, error) {
	if _, err := r.Users.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	if _, err := r.Users.GetByUserName(ctx, userName); err == nil {
		return true, nil
	} else if !errors.Is(err, store.ErrNotFound) {
		return false, err
	}
	return false, nil
}

func (s *accountService) Login(ctx context.Context, in validate.Credentials) (LoginResult, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if fe := validate.EmailAndPassword(in.Email, in.Password); fe != nil {
		return LoginResult{}, domain.NewValidationError(MsgInvalidEntry, fe)
	}
	wrong := &domain.Error{Kind: domain.KindNotFound, Message: MsgWrongLogin}

	r := s.uow.Repos()
	user, err := r.Users.GetByEmail(ctx, strings.TrimSpace(in.Email))
	if errors.Is(err, store.ErrNotFound) {
		log.Debug("login for unknown email")
		return LoginResult{}, wrong
	}
	if err != nil {
		return LoginResult{}, domain.NewPersistenceError("look up user", err)
	}
	if !user.Active {
		log.Debug("login for inactive account", slog.Int64("user_id", user.ID))
		return LoginResult{}, wrong
	}
	if err := s.hasher.Compare(user.HashedPassword, in.Password); err != nil {
		log.Debug("login with wrong password", slog.Int64("user_id", user.ID))
		return LoginResult{}, wrong
	}

	role, err := r.Roles.GetByID(ctx, user.RoleID)
	if err != nil {
		return LoginResult{}, domain.NewPersistenceError("look up role", err)
	}
	token, exp, err := s.tokens.GenerateToken(ctx, *user, *role)
	if err != nil {
		return LoginResult{}, domain.NewPersistenceError("issue token", err)
	}

	log.Info("user logged in", slog.Int64("user_id", user.ID))
	return LoginResult{Token: token, ExpiresAt: exp}, nil
}
