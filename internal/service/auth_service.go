package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/cache"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

// LoginStatus classifies the outcome of a login attempt.
type LoginStatus int

const (
	LoginSuccess LoginStatus = iota
	LoginInvalidCredentials
	LoginInternalError
)

// LoginOutcome is the result of a credential check. Failures are values, not
// errors; the handler decides how each status maps onto the wire.
type LoginOutcome struct {
	Status    LoginStatus
	Token     string
	ExpiresAt time.Time
}

// ErrInvalidAuthHeader signals a logout request whose Authorization header is
// absent or does not carry the expected bearer prefix.
var ErrInvalidAuthHeader = errors.New("invalid authorization header")

// AuthService coordinates registration, login, and logout flows.
type AuthService struct {
	users       repository.UserRepository
	revocations auth.RevocationStore
	tokens      *auth.TokenManager
	dispatcher  events.Dispatcher
	cache       *cache.QueryCache
	bcryptCost  int
	tokenPrefix string
	logger      *zap.Logger
}

// AuthDependencies bundles collaborator requirements for the auth service.
type AuthDependencies struct {
	Users       repository.UserRepository
	Revocations auth.RevocationStore
	Tokens      *auth.TokenManager
	Dispatcher  events.Dispatcher
	Cache       *cache.QueryCache
}

// NewAuthService builds the service. The token manager is injected rather
// than constructed here so the login path and the request authenticator share
// one signing key.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies, logger *zap.Logger) *AuthService {
	return &AuthService{
		users:       deps.Users,
		revocations: deps.Revocations,
		tokens:      deps.Tokens,
		dispatcher:  deps.Dispatcher,
		cache:       deps.Cache,
		bcryptCost:  cfg.BcryptCost,
		tokenPrefix: cfg.TokenPrefix,
		logger:      logger,
	}
}

// Login verifies credentials and issues a token on success. A missing user
// and a wrong password are indistinguishable to the caller; both fail closed
// as invalid credentials.
func (s *AuthService) Login(ctx context.Context, username, password string) LoginOutcome {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			s.publishLoginFailed(ctx, username)
			return LoginOutcome{Status: LoginInvalidCredentials}
		}
		s.logger.Error("login lookup failed", zap.String("username", username), zap.Error(err))
		return LoginOutcome{Status: LoginInternalError}
	}

	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		s.publishLoginFailed(ctx, username)
		return LoginOutcome{Status: LoginInvalidCredentials}
	}

	token, expiresAt, err := s.tokens.Issue(user.Username, []string{user.Role.Authority()})
	if err != nil {
		s.logger.Error("token issuance failed", zap.String("username", username), zap.Error(err))
		return LoginOutcome{Status: LoginInternalError}
	}

	return LoginOutcome{Status: LoginSuccess, Token: token, ExpiresAt: expiresAt}
}

// Register creates a new identity with a freshly salted password hash. The
// stored hash differs between two registrations of the same password.
func (s *AuthService) Register(ctx context.Context, username, role, password string) (*domain.User, error) {
	if strings.TrimSpace(username) == "" {
		return nil, apperrors.NewValidationError("The username can not be null or empty", nil)
	}
	if strings.TrimSpace(password) == "" {
		return nil, apperrors.NewValidationError("The password can not be null or empty", nil)
	}
	parsedRole, err := domain.ParseRole(role)
	if err != nil {
		return nil, apperrors.NewValidationError("The user role can not be null or empty", nil)
	}

	if _, err := s.users.GetByUsername(ctx, username); err == nil {
		return nil, apperrors.NewConflict("username already registered", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, err
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		Role:         parsedRole,
		PasswordHash: hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.InvalidatePrefix(ctx, userRoleCachePrefix)
	}
	s.dispatcher.Publish(ctx, events.NewEvent(events.EventUserRegistered, map[string]any{
		"username": user.Username,
		"role":     string(user.Role),
	}))
	return user, nil
}

// Logout blacklists the presented token. The header must carry the
// configured bearer prefix; anything else is rejected before the registry is
// touched. Logging out twice with the same token is harmless.
func (s *AuthService) Logout(ctx context.Context, authHeader string) error {
	if authHeader == "" || !strings.HasPrefix(authHeader, s.tokenPrefix) {
		return ErrInvalidAuthHeader
	}

	token := strings.TrimPrefix(authHeader, s.tokenPrefix)

	// The entry should die with the token. When the expiry cannot be read
	// (already expired, garbled) fall back to a full TTL so the blacklist
	// still takes effect.
	expiresAt, err := s.tokens.ExtractExpiry(token)
	if err != nil {
		expiresAt = time.Now().Add(s.tokens.TTL())
	}

	if err := s.revocations.Blacklist(ctx, token, expiresAt); err != nil {
		return err
	}

	s.dispatcher.Publish(ctx, events.NewEvent(events.EventTokenRevoked, map[string]any{
		"expires_at": expiresAt,
	}))
	return nil
}

func (s *AuthService) publishLoginFailed(ctx context.Context, username string) {
	s.dispatcher.Publish(ctx, events.NewEvent(events.EventLoginFailed, map[string]any{
		"username": username,
	}))
}
