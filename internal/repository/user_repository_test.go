package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/order-service/internal/domain"
)

func TestUserRepositoryCreate(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users (username, role, password_hash)")).
		WithArgs("john", domain.RoleUser, "hash").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "created_at"}).AddRow(7, now))

	repo := NewUserRepository(mock)
	user := &domain.User{Username: "john", Role: domain.RoleUser, PasswordHash: "hash"}
	require.NoError(t, repo.Create(context.Background(), user))

	assert.Equal(t, 7, user.ID)
	assert.Equal(t, now, user.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByUsername(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT user_id, username, role, password_hash, created_at").
		WithArgs("john").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "role", "password_hash", "created_at"}).
			AddRow(1, "john", domain.RoleUser, "hash", now))

	repo := NewUserRepository(mock)
	user, err := repo.GetByUsername(context.Background(), "john")
	require.NoError(t, err)

	assert.Equal(t, "john", user.Username)
	assert.Equal(t, domain.RoleUser, user.Role)
	assert.Equal(t, "hash", user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByRole(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	now := time.Now()
	mock.ExpectQuery("SELECT user_id, username, role, password_hash, created_at").
		WithArgs("ADMIN").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "role", "password_hash", "created_at"}).
			AddRow(1, "alice", domain.RoleAdmin, "hash-a", now).
			AddRow(2, "bob", domain.RoleAdmin, "hash-b", now))

	repo := NewUserRepository(mock)
	users, err := repo.GetByRole(context.Background(), "ADMIN")
	require.NoError(t, err)

	require.Len(t, users, 2)
	assert.Equal(t, "alice", users[0].Username)
	assert.Equal(t, "bob", users[1].Username)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserRepositoryGetByRoleEmpty(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectQuery("SELECT user_id, username, role, password_hash, created_at").
		WithArgs("MANAGER").
		WillReturnRows(pgxmock.NewRows([]string{"user_id", "username", "role", "password_hash", "created_at"}))

	repo := NewUserRepository(mock)
	users, err := repo.GetByRole(context.Background(), "MANAGER")
	require.NoError(t, err)

	assert.Empty(t, users)
	assert.NoError(t, mock.ExpectationsWereMet())
}
