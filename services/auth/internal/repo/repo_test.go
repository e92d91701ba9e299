package repo

import (
	"context"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Skotchmaster/product_catalog/services/auth/internal/models"
)

func InitTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&models.Account{}))
	return db
}

func TestGormRepo_CreateAndFind(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	acc := &models.Account{ID: uuid.New(), Email: "pen@example.com", PasswordHash: "hash"}
	require.NoError(t, r.CreateAccount(ctx, acc))
	assert.False(t, acc.CreatedAt.IsZero())

	got, err := r.AccountByEmail(ctx, "pen@example.com")
	require.NoError(t, err)
	assert.Equal(t, acc.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)

	_, err = r.AccountByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, ErrAccountNotFound)
}

func TestGormRepo_CreateDuplicate(t *testing.T) {
	r := &GormRepo{DB: InitTestDB(t)}
	ctx := context.Background()

	require.NoError(t, r.CreateAccount(ctx, &models.Account{ID: uuid.New(), Email: "pen@example.com", PasswordHash: "a"}))

	err := r.CreateAccount(ctx, &models.Account{ID: uuid.New(), Email: "pen@example.com", PasswordHash: "b"})
	assert.ErrorIs(t, err, ErrAccountExists)

	got, err := r.AccountByEmail(ctx, "pen@example.com")
	require.NoError(t, err)
	assert.Equal(t, "a", got.PasswordHash)
}

func TestAccountDocument_Conversion(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	acc := &models.Account{ID: uuid.New(), Email: "pen@example.com", PasswordHash: "h", CreatedAt: now, UpdatedAt: now}

	doc := toAccountDocument(acc)
	assert.Equal(t, acc.ID.String(), doc.ID)

	back, err := doc.toModel()
	require.NoError(t, err)
	assert.Equal(t, acc, back)

	_, err = accountDocument{ID: "not-a-uuid"}.toModel()
	require.Error(t, err)
}
