package user

import (
	"context"
	"testing"

	"wallet_backend/internal/common"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func setupRepositoryTest(t *testing.T) Repository {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err, "Failed to connect to test database")

	require.NoError(t, db.Migrator().DropTable(&User{}))
	require.NoError(t, db.AutoMigrate(&User{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return NewGORMRepository(db)
}

func seedUser(t *testing.T, repo Repository, email, firebaseUID, gateHubUserID string) *User {
	t.Helper()

	u := &User{Role: common.RoleUser}
	if email != "" {
		u.Email = &email
	}
	if firebaseUID != "" {
		u.FirebaseUID = &firebaseUID
	}
	if gateHubUserID != "" {
		u.GateHubUserID = &gateHubUserID
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestRepositoryCreateAndFind(t *testing.T) {
	repo := setupRepositoryTest(t)
	ctx := context.Background()

	created := seedUser(t, repo, "Jane@Example.com", "fb-1", "gh-1")
	assert.NotEqual(t, uuid.Nil, created.ID)

	t.Run("find by id", func(t *testing.T) {
		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("email is normalized on create", func(t *testing.T) {
		found, err := repo.FindByEmail(ctx, "JANE@example.COM")
		require.NoError(t, err)
		require.NotNil(t, found.Email)
		assert.Equal(t, "jane@example.com", *found.Email)
	})

	t.Run("find by firebase uid", func(t *testing.T) {
		found, err := repo.FindByFirebaseUID(ctx, "fb-1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("find by gatehub user id", func(t *testing.T) {
		found, err := repo.FindByGateHubUserID(ctx, "gh-1")
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
	})

	t.Run("missing rows map to not found", func(t *testing.T) {
		_, err := repo.FindByID(ctx, uuid.New())
		assert.ErrorIs(t, err, common.ErrNotFound)

		_, err = repo.FindByGateHubUserID(ctx, "gh-unknown")
		assert.ErrorIs(t, err, common.ErrNotFound)
	})
}

func TestRepositoryUpdate(t *testing.T) {
	repo := setupRepositoryTest(t)
	ctx := context.Background()

	created := seedUser(t, repo, "kyc@example.com", "fb-kyc", "gh-kyc")
	assert.False(t, created.KYCVerified)

	created.KYCVerified = true
	require.NoError(t, repo.Update(ctx, created))

	found, err := repo.FindByGateHubUserID(ctx, "gh-kyc")
	require.NoError(t, err)
	assert.True(t, found.KYCVerified)
}

func TestRepositoryUniqueFirebaseUID(t *testing.T) {
	repo := setupRepositoryTest(t)
	ctx := context.Background()

	seedUser(t, repo, "first@example.com", "fb-dup", "")

	dup := &User{Role: common.RoleUser}
	fbUID := "fb-dup"
	dup.FirebaseUID = &fbUID
	err := repo.Create(ctx, dup)
	assert.ErrorIs(t, err, common.ErrConflict)
}
