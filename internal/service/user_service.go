package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/order-service/internal/cache"
	"github.com/spec-kit/order-service/internal/domain"
	"github.com/spec-kit/order-service/internal/repository"
	apperrors "github.com/spec-kit/order-service/pkg/util"
)

const userRoleCachePrefix = "users:role:"

// UserService serves user queries with a read-through cache on the by-role
// lookup.
type UserService struct {
	users  repository.UserRepository
	cache  *cache.QueryCache
	logger *zap.Logger
}

// NewUserService builds the service.
func NewUserService(users repository.UserRepository, queryCache *cache.QueryCache, logger *zap.Logger) *UserService {
	return &UserService{users: users, cache: queryCache, logger: logger}
}

// GetAllUsers returns every registered identity.
func (s *UserService) GetAllUsers(ctx context.Context) ([]domain.User, error) {
	return s.users.GetAll(ctx)
}

// GetByUserRole returns users holding the given role, serving repeated
// lookups from the cache. An empty result is a not-found condition.
func (s *UserService) GetByUserRole(ctx context.Context, role string) ([]domain.User, error) {
	key := userRoleCachePrefix + role

	var cached []domain.User
	if err := s.cache.Get(ctx, key, &cached); err == nil {
		return cached, nil
	}

	users, err := s.users.GetByRole(ctx, role)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, apperrors.NewNotFound("No user found with role: " + role)
	}

	// Password hashes never enter the cache.
	sanitized := make([]domain.User, len(users))
	copy(sanitized, users)
	for i := range sanitized {
		sanitized[i].PasswordHash = ""
	}
	s.cache.Set(ctx, key, sanitized)

	return users, nil
}
