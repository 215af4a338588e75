package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormProductRepository_SaveAndFind(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(setupTestDB(t))

	product := newTestProduct(t, "COLA-33", 50)
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "COLA-33", found.SKU)
	assert.Equal(t, "50.00", found.SellingPrice.StringFixed(2))

	// SKU lookups are case-insensitive
	found, err = repo.FindBySKU(ctx, "cola-33")
	require.NoError(t, err)
	assert.Equal(t, product.ID, found.ID)

	exists, err := repo.ExistsBySKU(ctx, "cola-33")
	require.NoError(t, err)
	assert.True(t, exists)

	_, err = repo.FindByID(ctx, uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormProductRepository_SaveUpdatesExistingRow(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(setupTestDB(t))

	product := newTestProduct(t, "COLA-33", 50)
	require.NoError(t, repo.Save(ctx, product))

	require.NoError(t, product.Update("Cola 33cl", "Bottled soda"))
	require.NoError(t, repo.Save(ctx, product))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Cola 33cl", found.Name)
	assert.Equal(t, product.Version, found.Version)
}

func TestGormProductRepository_StaleSaveConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(setupTestDB(t))

	product := newTestProduct(t, "COLA-33", 50)
	require.NoError(t, repo.Save(ctx, product))

	fresh, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)

	require.NoError(t, fresh.Update("Fresh name", ""))
	require.NoError(t, repo.Save(ctx, fresh))

	require.NoError(t, stale.Update("Stale name", ""))
	assert.Equal(t, shared.ErrConcurrencyConflict, repo.Save(ctx, stale))

	found, err := repo.FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "Fresh name", found.Name)
}

func TestGormProductRepository_StockFilters(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(setupTestDB(t))

	inStock := newTestProduct(t, "IN-STOCK", 50)
	require.NoError(t, inStock.SetStockThresholds(5, 0))
	require.NoError(t, inStock.ApplyStockChange(20))

	lowStock := newTestProduct(t, "LOW-STOCK", 50)
	require.NoError(t, lowStock.SetStockThresholds(5, 0))
	require.NoError(t, lowStock.ApplyStockChange(3))

	outOfStock := newTestProduct(t, "OUT-STOCK", 50)

	require.NoError(t, repo.Save(ctx, inStock))
	require.NoError(t, repo.Save(ctx, lowStock))
	require.NoError(t, repo.Save(ctx, outOfStock))

	low, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{"low_stock": true}})
	require.NoError(t, err)
	require.Len(t, low, 1)
	assert.Equal(t, "LOW-STOCK", low[0].SKU)

	out, err := repo.FindAll(ctx, shared.Filter{Filters: map[string]interface{}{"out_of_stock": true}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "OUT-STOCK", out[0].SKU)

	count, err := repo.Count(ctx, shared.Filter{})
	require.NoError(t, err)
	assert.EqualValues(t, 3, count)
}

func TestGormProductRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := NewGormProductRepository(setupTestDB(t))

	product := newTestProduct(t, "COLA-33", 50)
	require.NoError(t, repo.Save(ctx, product))

	require.NoError(t, repo.Delete(ctx, product.ID))
	assert.Equal(t, shared.ErrNotFound, repo.Delete(ctx, product.ID))

	_, err := repo.FindByID(ctx, product.ID)
	assert.Equal(t, shared.ErrNotFound, err)
}
