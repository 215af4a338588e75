package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestSession(t *testing.T, cashierID uuid.UUID, seq int) *register.CashRegister {
	t.Helper()
	session, err := register.Open(cashierID,
		register.FormatRegisterNumber(time.Now(), seq),
		valueobject.NewMoneyHTGFromFloat(500))
	require.NoError(t, err)
	return session
}

func TestGormRegisterRepository_FindOpenByCashier(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRegisterRepository(setupTestDB(t))
	cashierID := uuid.New()

	session := openTestSession(t, cashierID, 1)
	require.NoError(t, repo.Save(ctx, session))

	found, err := repo.FindOpenByCashier(ctx, cashierID)
	require.NoError(t, err)
	assert.Equal(t, session.ID, found.ID)
	assert.Equal(t, register.StatusOpen, found.Status)

	_, err = repo.FindOpenByCashier(ctx, uuid.New())
	assert.Equal(t, shared.ErrNotFound, err)
}

func TestGormRegisterRepository_ClosedSessionNotReturnedAsOpen(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRegisterRepository(setupTestDB(t))
	cashierID := uuid.New()

	session := openTestSession(t, cashierID, 1)
	require.NoError(t, repo.Save(ctx, session))

	_, err := session.Close(valueobject.NewMoneyHTGFromFloat(500))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, session))

	_, err = repo.FindOpenByCashier(ctx, cashierID)
	assert.Equal(t, shared.ErrNotFound, err)

	found, err := repo.FindByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Equal(t, register.StatusClosed, found.Status)
	require.True(t, found.ClosingAmount.Valid)
	assert.Equal(t, "500.00", found.ClosingAmount.Decimal.StringFixed(2))
}

func TestGormRegisterRepository_CountOpenedOn(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRegisterRepository(setupTestDB(t))

	first := openTestSession(t, uuid.New(), 1)
	require.NoError(t, repo.Save(ctx, first))

	second := openTestSession(t, uuid.New(), 2)
	require.NoError(t, repo.Save(ctx, second))

	today, err := repo.CountOpenedOn(ctx, time.Now())
	require.NoError(t, err)
	assert.EqualValues(t, 2, today)

	yesterday, err := repo.CountOpenedOn(ctx, time.Now().AddDate(0, 0, -1))
	require.NoError(t, err)
	assert.EqualValues(t, 0, yesterday)
}

func TestGormRegisterRepository_ExistsByNumber(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRegisterRepository(setupTestDB(t))

	session := openTestSession(t, uuid.New(), 4)
	require.NoError(t, repo.Save(ctx, session))

	exists, err := repo.ExistsByNumber(ctx, session.RegisterNumber)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByNumber(ctx, register.FormatRegisterNumber(time.Now(), 5))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormRegisterRepository_FilterByStatus(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRegisterRepository(setupTestDB(t))

	open := openTestSession(t, uuid.New(), 1)
	require.NoError(t, repo.Save(ctx, open))

	closed := openTestSession(t, uuid.New(), 2)
	_, err := closed.Close(valueobject.NewMoneyHTGFromFloat(500))
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, closed))

	sessions, err := repo.FindAll(ctx, shared.Filter{
		Filters: map[string]interface{}{"status": register.StatusOpen},
	})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, open.ID, sessions[0].ID)
}

func TestGormRegisterSettingsRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewGormRegisterSettingsRepository(setupTestDB(t))

	_, err := repo.Get(ctx)
	assert.Equal(t, shared.ErrNotFound, err)

	settings := &register.Settings{
		BaseEntity:           shared.NewBaseEntity(),
		OpeningSecretHash:    "hash",
		DefaultOpeningAmount: decimal.NewFromInt(1000),
	}
	require.NoError(t, repo.Save(ctx, settings))

	loaded, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "hash", loaded.OpeningSecretHash)

	require.NoError(t, loaded.UpdateOpeningSecret("newhash"))
	require.NoError(t, repo.Save(ctx, loaded))

	reloaded, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, "newhash", reloaded.OpeningSecretHash)
	assert.Equal(t, settings.ID, reloaded.ID)
}
