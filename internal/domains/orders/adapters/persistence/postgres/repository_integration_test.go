//go:build integration
// +build integration

// To enable gopls support for this file, add the following to your VSCode settings.json:
// "gopls": {
//   "buildFlags": ["-tags=integration"]
// }

package postgres

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/ordercore/go-orders-service/internal/domains/orders/domain"
	"github.com/ordercore/go-orders-service/internal/domains/orders/ports"
	"github.com/ordercore/go-orders-service/internal/platform/migrations"
)

func setupPostgresContainer(t *testing.T) (*gorm.DB, func()) {
	ctx := context.Background()

	pgContainer, err := tcpostgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		tcpostgres.WithDatabase("orders_test"),
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

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
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

func mustOrder(t *testing.T, quantity int32) *domain.Order {
	t.Helper()
	order, err := domain.NewOrder([]domain.OrderItem{{ProductID: 1, Quantity: quantity, Price: 15}})
	require.NoError(t, err)
	return order
}

func TestPostgresRepository_InsertAndGetByID(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	order, err := domain.NewOrder([]domain.OrderItem{
		{ProductID: 1, Quantity: 2, Price: 15},
		{ProductID: 2, Quantity: 1, Price: 10},
	})
	require.NoError(t, err)

	saved, err := repo.Insert(ctx, order)
	require.NoError(t, err)
	assert.Equal(t, order.ID, saved.ID)
	assert.Equal(t, float64(40), saved.TotalAmount)
	assert.Equal(t, int32(3), saved.TotalItems)
	assert.False(t, saved.CreatedAt.IsZero())

	fetched, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, fetched.Status)
	assert.Len(t, fetched.Items, 2)

	_, err = repo.GetByID(ctx, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresRepository_ListCountAndStatus(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	repo := NewRepository(db)
	ctx := context.Background()

	var firstID string
	for i := 0; i < 5; i++ {
		order := mustOrder(t, 1)
		if i == 0 {
			firstID = order.ID
		}
		_, err := repo.Insert(ctx, order)
		require.NoError(t, err)
	}

	updated, err := repo.UpdateStatus(ctx, firstID, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, updated.Status)

	total, err := repo.Count(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)

	paid, err := repo.Count(ctx, domain.StatusPaid)
	require.NoError(t, err)
	assert.Equal(t, int64(1), paid)

	page, err := repo.List(ctx, domain.StatusPending, 1, 3)
	require.NoError(t, err)
	assert.Len(t, page, 3)
	for _, order := range page {
		assert.Equal(t, domain.StatusPending, order.Status)
		assert.Empty(t, order.Items)
	}

	_, err = repo.UpdateStatus(ctx, "00000000-0000-0000-0000-000000000000", domain.StatusPaid)
	assert.ErrorIs(t, err, ports.ErrNotFound)
}

func TestPostgresIdempotencyStore_SaveConflicts(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	db, cleanup := setupPostgresContainer(t)
	defer cleanup()

	store := NewIdempotencyStore(db)
	ctx := context.Background()

	record := ports.IdempotencyRecord{
		Key:         "retry-key",
		RequestHash: "hash-a",
		OrderID:     "11111111-1111-1111-1111-111111111111",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	saved, err := store.Save(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, record.OrderID, saved.OrderID)

	replayed, err := store.Save(ctx, record)
	require.NoError(t, err)
	assert.Equal(t, record.OrderID, replayed.OrderID)

	conflicting := record
	conflicting.RequestHash = "hash-b"
	stored, err := store.Save(ctx, conflicting)
	assert.ErrorIs(t, err, ports.ErrIdempotencyConflict)
	require.NotNil(t, stored)
	assert.Equal(t, "hash-a", stored.RequestHash)

	loaded, err := store.Get(ctx, "retry-key")
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, record.OrderID, loaded.OrderID)

	missing, err := store.Get(ctx, "unknown")
	require.NoError(t, err)
	assert.Nil(t, missing)
}
