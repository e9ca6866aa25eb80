//go:build integration

package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/avetrov/go-shop-api/internal/domains/users/domain"
	"github.com/avetrov/go-shop-api/internal/domains/users/ports"
	"github.com/avetrov/go-shop-api/internal/platform/migrations"
)

func setupUsersPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("shop_test"),
		tcpostgres.WithUsername("test"),
		tcpostgres.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	err = migrations.Run(db)
	require.NoError(t, err)

	cleanup := func() {
		sqlDB, _ := db.DB()
		if sqlDB != nil {
			sqlDB.Close()
		}
		pgContainer.Terminate(ctx)
	}

	return db, cleanup
}

func newTestUser(t *testing.T, email string) *domain.User {
	t.Helper()
	user, err := domain.NewUser(email, "hash", "Alice Doe", "+12025550123", "42 Long Enough Street", "")
	require.NoError(t, err)
	user.VerificationCode = "1234"
	return user
}

func TestRepository_CreateAndGet(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, newTestUser(t, "alice@example.com"))
	require.NoError(t, err)
	assert.NotEmpty(t, saved.ID)
	assert.Equal(t, "alice@example.com", saved.Email)
	assert.Equal(t, domain.RoleUser, saved.Role)
	assert.False(t, saved.IsVerified)

	byID, err := repo.GetByID(ctx, saved.ID)
	require.NoError(t, err)
	assert.Equal(t, saved.Email, byID.Email)

	byEmail, err := repo.GetByEmail(ctx, "alice@example.com")
	require.NoError(t, err)
	assert.Equal(t, saved.ID, byEmail.ID)
}

func TestRepository_DuplicateEmail(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	_, err := repo.Create(ctx, newTestUser(t, "alice@example.com"))
	require.NoError(t, err)
	_, err = repo.Create(ctx, newTestUser(t, "alice@example.com"))
	assert.ErrorIs(t, err, ports.ErrEmailTaken)
}

func TestRepository_UpdatePersistsVerification(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	saved, err := repo.Create(ctx, newTestUser(t, "alice@example.com"))
	require.NoError(t, err)

	saved.MarkVerified()
	updated, err := repo.Update(ctx, saved)
	require.NoError(t, err)
	assert.True(t, updated.IsVerified)
	assert.Empty(t, updated.VerificationCode)
}

func TestRepository_ListAndDelete(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupUsersPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	var lastID string
	for i := 1; i <= 3; i++ {
		saved, err := repo.Create(ctx, newTestUser(t, fmt.Sprintf("user%d@example.com", i)))
		require.NoError(t, err)
		lastID = saved.ID
	}

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 3)

	err = repo.Delete(ctx, lastID)
	require.NoError(t, err)
	_, err = repo.GetByID(ctx, lastID)
	assert.ErrorIs(t, err, ports.ErrNotFound)

	err = repo.Delete(ctx, lastID)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}
