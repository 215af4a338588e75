package persistence

import (
	"context"
	"errors"
	"testing"

	"github.com/pos/backend/internal/application/pos"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormTransactionScope_CommitsOnSuccess(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)

	product := newTestProduct(t, "COLA-33", 50)

	err := scope.Execute(ctx, func(repos pos.TransactionalRepositories) error {
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}

		require.NoError(t, product.ApplyStockChange(10))
		movement, err := inventory.NewStockMovement(product.ID,
			inventory.MovementTypeIn, inventory.ReasonPurchase, 10, 0)
		if err != nil {
			return err
		}
		return repos.Movements().Save(ctx, movement)
	})
	require.NoError(t, err)

	found, err := NewGormProductRepository(db).FindByID(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, "COLA-33", found.SKU)

	latest, err := NewGormStockMovementRepository(db).FindLatestByProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.Equal(t, 10, latest.QuantityAfter)
}

func TestGormTransactionScope_RollsBackOnError(t *testing.T) {
	ctx := context.Background()
	db := setupTestDB(t)
	scope := NewGormTransactionScope(db)

	product := newTestProduct(t, "COLA-33", 50)
	boom := errors.New("boom")

	err := scope.Execute(ctx, func(repos pos.TransactionalRepositories) error {
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		return boom
	})
	assert.Equal(t, boom, err)

	_, err = NewGormProductRepository(db).FindByID(ctx, product.ID)
	assert.Equal(t, shared.ErrNotFound, err)
}
