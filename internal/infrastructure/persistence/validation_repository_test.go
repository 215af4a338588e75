package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormValidationRepository_PayloadRoundTrip(t *testing.T) {
	ctx := context.Background()
	repo := NewGormValidationRepository(setupTestDB(t))

	productID := uuid.New()
	validation, err := supervision.NewValidation(uuid.New(),
		"Delete discontinued product",
		"192.168.1.10",
		supervision.NewPayload(supervision.ProductDeletePayload{ProductID: productID}))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, validation))

	found, err := repo.FindByID(ctx, validation.ID)
	require.NoError(t, err)
	assert.Equal(t, supervision.OperationProductDelete, found.OperationType)
	assert.Equal(t, supervision.ValidationStatusPending, found.Status)

	payload, ok := found.OperationData.Data.(supervision.ProductDeletePayload)
	require.True(t, ok)
	assert.Equal(t, productID, payload.ProductID)
}

func TestGormValidationRepository_FilterByStatusAndType(t *testing.T) {
	ctx := context.Background()
	repo := NewGormValidationRepository(setupTestDB(t))

	pending, err := supervision.NewValidation(uuid.New(), "Cancel sale", "10.0.0.1",
		supervision.NewPayload(supervision.SaleCancelPayload{OrderID: uuid.New()}))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, pending))

	approved, err := supervision.NewValidation(uuid.New(), "Adjust stock", "10.0.0.1",
		supervision.NewPayload(supervision.StockAdjustPayload{ProductID: uuid.New(), Delta: -10}))
	require.NoError(t, err)
	require.NoError(t, approved.Approve(uuid.New(), "counted by hand", "10.0.0.2"))
	require.NoError(t, repo.Save(ctx, approved))

	found, err := repo.FindAll(ctx, shared.Filter{
		Filters: map[string]interface{}{"status": supervision.ValidationStatusApproved},
	})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, approved.ID, found[0].ID)

	count, err := repo.Count(ctx, shared.Filter{
		Filters: map[string]interface{}{"operation_type": supervision.OperationSaleCancel},
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)
}

func TestGormValidationRepository_StaleSaveConflicts(t *testing.T) {
	ctx := context.Background()
	repo := NewGormValidationRepository(setupTestDB(t))

	validation, err := supervision.NewValidation(uuid.New(), "Cancel sale", "10.0.0.1",
		supervision.NewPayload(supervision.SaleCancelPayload{OrderID: uuid.New()}))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, validation))

	fresh, err := repo.FindByID(ctx, validation.ID)
	require.NoError(t, err)
	stale, err := repo.FindByID(ctx, validation.ID)
	require.NoError(t, err)

	require.NoError(t, fresh.Approve(uuid.New(), "", "10.0.0.2"))
	require.NoError(t, repo.Save(ctx, fresh))

	require.NoError(t, stale.Reject(uuid.New(), "no", "10.0.0.3"))
	assert.Equal(t, shared.ErrConcurrencyConflict, repo.Save(ctx, stale))
}

func TestGormValidationSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormValidationSettingsRepository(setupTestDB(t))

	_, err := repo.Get(ctx)
	assert.Equal(t, shared.ErrNotFound, err)

	settings := supervision.DefaultSettings()
	require.NoError(t, repo.Save(ctx, settings))

	loaded, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, settings.DiscountThreshold, loaded.DiscountThreshold)
	assert.Equal(t, settings.ID, loaded.ID)
}
