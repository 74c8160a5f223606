package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/auth"
	"github.com/spec-kit/order-service/internal/cache"
	"github.com/spec-kit/order-service/internal/config"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/events"
)

type fakeUserRepo struct {
	users   map[string]*domain.User
	failure error
	nextID  int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if f.failure != nil {
		return f.failure
	}
	f.nextID++
	user.ID = f.nextID
	user.CreatedAt = time.Now()
	f.users[user.Username] = user
	return nil
}

func (f *fakeUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	user, ok := f.users[username]
	if !ok {
		return nil, pgx.ErrNoRows
	}
	copied := *user
	return &copied, nil
}

func (f *fakeUserRepo) GetByRole(_ context.Context, role string) ([]domain.User, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	out := make([]domain.User, 0)
	for _, user := range f.users {
		if string(user.Role) == role {
			out = append(out, *user)
		}
	}
	return out, nil
}

func (f *fakeUserRepo) GetAll(_ context.Context) ([]domain.User, error) {
	if f.failure != nil {
		return nil, f.failure
	}
	out := make([]domain.User, 0, len(f.users))
	for _, user := range f.users {
		out = append(out, *user)
	}
	return out, nil
}

func newAuthServiceForTest(t *testing.T, repo *fakeUserRepo) (*AuthService, *auth.MemoryRevocationStore, *auth.TokenManager) {
	t.Helper()

	tm := auth.NewTokenManager("test-secret", time.Hour)
	revocations := auth.NewMemoryRevocationStore()
	cfg := config.AuthConfig{BcryptCost: 4, TokenPrefix: "Bearer "}
	svc := NewAuthService(cfg, AuthDependencies{
		Users:       repo,
		Revocations: revocations,
		Tokens:      tm,
		Dispatcher:  events.NewInMemoryDispatcher(),
		Cache:       cache.New(nil, time.Minute, zap.NewNop()),
	}, zap.NewNop())
	return svc, revocations, tm
}

func registerJohn(t *testing.T, svc *AuthService) {
	t.Helper()
	_, err := svc.Register(context.Background(), "john", "USER", "pass123")
	require.NoError(t, err)
}

func TestLoginSuccess(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, tm := newAuthServiceForTest(t, repo)
	registerJohn(t, svc)

	outcome := svc.Login(context.Background(), "john", "pass123")
	require.Equal(t, LoginSuccess, outcome.Status)
	assert.Len(t, strings.Split(outcome.Token, "."), 3)
	assert.True(t, outcome.ExpiresAt.After(time.Now()))

	claims, err := tm.Parse(outcome.Token)
	require.NoError(t, err)
	assert.Equal(t, "john", claims.Subject)
	assert.Equal(t, []string{"ROLE_USER"}, claims.Roles)
}

func TestLoginWrongPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newAuthServiceForTest(t, repo)
	registerJohn(t, svc)

	outcome := svc.Login(context.Background(), "john", "wrong")
	assert.Equal(t, LoginInvalidCredentials, outcome.Status)
	assert.Empty(t, outcome.Token)
}

func TestLoginUnknownUser(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newAuthServiceForTest(t, repo)

	outcome := svc.Login(context.Background(), "nobody", "pass123")
	assert.Equal(t, LoginInvalidCredentials, outcome.Status)
}

func TestLoginInternalError(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newAuthServiceForTest(t, repo)
	repo.failure = errors.New("connection refused")

	outcome := svc.Login(context.Background(), "john", "pass123")
	assert.Equal(t, LoginInternalError, outcome.Status)
}

func TestRegisterValidation(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newAuthServiceForTest(t, repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "", "USER", "pass123")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "john", "USER", "")
	assert.Error(t, err)

	_, err = svc.Register(ctx, "john", "WIZARD", "pass123")
	assert.Error(t, err)
}

func TestRegisterHashesPassword(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newAuthServiceForTest(t, repo)

	user, err := svc.Register(context.Background(), "john", "user", "pass123")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.NotEqual(t, "pass123", user.PasswordHash)
	assert.NoError(t, auth.ComparePassword(user.PasswordHash, "pass123"))

	// Same password, different salt.
	other, err := svc.Register(context.Background(), "jane", "USER", "pass123")
	require.NoError(t, err)
	assert.NotEqual(t, user.PasswordHash, other.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newAuthServiceForTest(t, repo)
	registerJohn(t, svc)

	_, err := svc.Register(context.Background(), "john", "ADMIN", "other")
	assert.Error(t, err)
}

func TestLogoutBlacklistsToken(t *testing.T) {
	repo := newFakeUserRepo()
	svc, revocations, _ := newAuthServiceForTest(t, repo)
	registerJohn(t, svc)
	ctx := context.Background()

	outcome := svc.Login(ctx, "john", "pass123")
	require.Equal(t, LoginSuccess, outcome.Status)

	require.NoError(t, svc.Logout(ctx, "Bearer "+outcome.Token))

	revoked, err := revocations.IsBlacklisted(ctx, outcome.Token)
	require.NoError(t, err)
	assert.True(t, revoked)

	// Logging out twice with the same token is harmless.
	require.NoError(t, svc.Logout(ctx, "Bearer "+outcome.Token))
}

func TestLogoutRejectsMissingOrMalformedHeader(t *testing.T) {
	repo := newFakeUserRepo()
	svc, _, _ := newAuthServiceForTest(t, repo)
	ctx := context.Background()

	assert.ErrorIs(t, svc.Logout(ctx, ""), ErrInvalidAuthHeader)
	assert.ErrorIs(t, svc.Logout(ctx, "Token abc"), ErrInvalidAuthHeader)
	assert.ErrorIs(t, svc.Logout(ctx, "bearer abc"), ErrInvalidAuthHeader)
}

func TestLogoutUnparseableTokenStillBlacklisted(t *testing.T) {
	repo := newFakeUserRepo()
	svc, revocations, _ := newAuthServiceForTest(t, repo)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, "Bearer garbage"))

	revoked, err := revocations.IsBlacklisted(ctx, "garbage")
	require.NoError(t, err)
	assert.True(t, revoked)
}
