package integration

import (
	"context"
	"testing"

	"optique-store/internal/cart"
	"optique-store/internal/model"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := cart.NewRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("Save and Load round-trips a cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		sessionID := uuid.New().String()
		saved := model.Cart{
			SessionID: sessionID,
			Items: []model.CartItem{
				{
					ProductID: "prod-1",
					Name:      "Aviator Classic",
					Price:     decimal.RequireFromString("55.00"),
					Quantity:  2,
					Image:     "aviator.jpg",
				},
				{
					ProductID: "prod-2",
					Name:      "Reading Glasses +1.5",
					Price:     decimal.RequireFromString("12.50"),
					Quantity:  1,
				},
			},
		}

		err := repo.Save(ctx, saved)
		require.NoError(t, err)

		loaded, err := repo.Load(ctx, sessionID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Equal(t, sessionID, loaded.SessionID)
		require.Len(t, loaded.Items, 2)
		assert.Equal(t, "prod-1", loaded.Items[0].ProductID)
		assert.Equal(t, 2, loaded.Items[0].Quantity)
		assert.True(t, loaded.Items[0].Price.Equal(decimal.RequireFromString("55.00")))
		assert.True(t, loaded.Subtotal().Equal(decimal.RequireFromString("122.50")))
		assert.False(t, loaded.UpdatedAt.IsZero())
	})

	t.Run("Save overwrites the stored cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		sessionID := uuid.New().String()
		first := model.Cart{
			SessionID: sessionID,
			Items: []model.CartItem{
				{ProductID: "prod-1", Name: "Aviator Classic", Price: decimal.RequireFromString("55.00"), Quantity: 1},
			},
		}
		require.NoError(t, repo.Save(ctx, first))

		second := model.Cart{
			SessionID: sessionID,
			Items: []model.CartItem{
				{ProductID: "prod-2", Name: "Round Metal", Price: decimal.RequireFromString("48.00"), Quantity: 3},
			},
		}
		require.NoError(t, repo.Save(ctx, second))

		loaded, err := repo.Load(ctx, sessionID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		require.Len(t, loaded.Items, 1)
		assert.Equal(t, "prod-2", loaded.Items[0].ProductID)
		assert.Equal(t, 3, loaded.Items[0].Quantity)
	})

	t.Run("Load returns nil for unknown session", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		loaded, err := repo.Load(ctx, uuid.New().String())
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("Save persists empty carts", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		sessionID := uuid.New().String()
		require.NoError(t, repo.Save(ctx, model.Cart{SessionID: sessionID}))

		loaded, err := repo.Load(ctx, sessionID)
		require.NoError(t, err)
		require.NotNil(t, loaded)
		assert.Empty(t, loaded.Items)
		assert.True(t, loaded.IsEmpty())
	})

	t.Run("Delete removes the stored cart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		sessionID := uuid.New().String()
		saved := model.Cart{
			SessionID: sessionID,
			Items: []model.CartItem{
				{ProductID: "prod-1", Name: "Aviator Classic", Price: decimal.RequireFromString("55.00"), Quantity: 1},
			},
		}
		require.NoError(t, repo.Save(ctx, saved))
		require.NoError(t, repo.Delete(ctx, sessionID))

		loaded, err := repo.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})

	t.Run("Delete is a no-op for unknown session", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		err := repo.Delete(ctx, uuid.New().String())
		require.NoError(t, err)
	})
}

func TestCartStore_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	testDB := SetupTestDB(t)
	logger := zerolog.Nop()
	repo := cart.NewRepository(testDB.Pool, logger)

	ctx := context.Background()

	t.Run("carts survive a store restart", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		sessionID := uuid.New().String()
		store := cart.NewStore(repo, logger)

		err := store.Add(ctx, sessionID, model.CartItem{
			ProductID: "prod-1",
			Name:      "Aviator Classic",
			Price:     decimal.RequireFromString("55.00"),
			Quantity:  2,
		})
		require.NoError(t, err)

		// A fresh store simulates a process restart; the cart must come
		// back from the database.
		restarted := cart.NewStore(repo, logger)
		reloaded, err := restarted.Get(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, reloaded.Items, 1)
		assert.Equal(t, "prod-1", reloaded.Items[0].ProductID)
		assert.Equal(t, 2, reloaded.Items[0].Quantity)
	})

	t.Run("Clear removes the durable copy", func(t *testing.T) {
		CleanupDB(t, testDB.Pool)

		sessionID := uuid.New().String()
		store := cart.NewStore(repo, logger)

		err := store.Add(ctx, sessionID, model.CartItem{
			ProductID: "prod-1",
			Name:      "Aviator Classic",
			Price:     decimal.RequireFromString("55.00"),
			Quantity:  1,
		})
		require.NoError(t, err)

		require.NoError(t, store.Clear(ctx, sessionID))

		loaded, err := repo.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	})
}
