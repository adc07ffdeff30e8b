package users

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/angelmondragon/shopcart-backend/pkg/db"
	"github.com/angelmondragon/shopcart-backend/pkg/db/dbtest"
)

func TestRepositoryCreateNormalizesEmail(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Name: " Ada ", Email: " Ada@Example.COM ", PasswordHash: "hash"})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, user.ID)
	require.Equal(t, "ada@example.com", user.Email)
	require.Equal(t, "Ada", user.Name)

	found, err := repo.FindByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	require.Equal(t, user.ID, found.ID)

	byID, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, user.Email, byID.Email)
}

func TestRepositoryCreateDuplicateEmail(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	_, err := repo.Create(ctx, CreateUserDTO{Name: "a", Email: "dup@example.com", PasswordHash: "x"})
	require.NoError(t, err)

	_, err = repo.Create(ctx, CreateUserDTO{Name: "b", Email: "DUP@example.com", PasswordHash: "y"})
	require.Error(t, err)
	require.True(t, db.IsUniqueViolation(err, EmailConstraint))
}

func TestRepositoryFindMissing(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))

	_, err := repo.FindByEmail(context.Background(), "nobody@example.com")
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	_, err = repo.FindByID(context.Background(), uuid.New())
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestRepositoryUpdateLastLogin(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Name: "a", Email: "a@example.com", PasswordHash: "x"})
	require.NoError(t, err)
	require.Nil(t, user.LastLoginAt)

	at := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.UpdateLastLogin(ctx, user.ID, at))

	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, reloaded.LastLoginAt)
	require.True(t, reloaded.LastLoginAt.Equal(at))
}

func TestFromModelNil(t *testing.T) {
	require.Nil(t, FromModel(nil))
}

func TestRepositoryUpdatePasswordHash(t *testing.T) {
	repo := NewRepository(dbtest.Open(t))
	ctx := context.Background()

	user, err := repo.Create(ctx, CreateUserDTO{Name: "a", Email: "a@example.com", PasswordHash: "old"})
	require.NoError(t, err)

	require.NoError(t, repo.UpdatePasswordHash(ctx, user.ID, "new"))
	reloaded, err := repo.FindByID(ctx, user.ID)
	require.NoError(t, err)
	require.Equal(t, "new", reloaded.PasswordHash)

	require.ErrorIs(t, repo.UpdatePasswordHash(ctx, uuid.New(), "x"), gorm.ErrRecordNotFound)
}
