package register

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// Repository defines the interface for register session persistence
type Repository interface {
	// FindByID finds a session by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*CashRegister, error)

	// FindOpenByCashier finds the cashier's open session, returning
	// shared.ErrNotFound when none is open
	FindOpenByCashier(ctx context.Context, cashierID uuid.UUID) (*CashRegister, error)

	// FindOpenByCashierForUpdate is FindOpenByCashier holding a row
	// lock for the duration of the surrounding transaction
	FindOpenByCashierForUpdate(ctx context.Context, cashierID uuid.UUID) (*CashRegister, error)

	// FindAll finds sessions matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]CashRegister, error)

	// CountOpenedOn counts sessions opened on the given day, used to
	// build the daily register number sequence
	CountOpenedOn(ctx context.Context, day time.Time) (int64, error)

	// ExistsByNumber checks whether a register number is taken
	ExistsByNumber(ctx context.Context, registerNumber string) (bool, error)

	// Save creates or updates a session with an optimistic version check
	Save(ctx context.Context, register *CashRegister) error

	// Count counts sessions matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// SettingsRepository loads and saves the singleton settings row
type SettingsRepository interface {
	Get(ctx context.Context) (*Settings, error)
	Save(ctx context.Context, settings *Settings) error
}
