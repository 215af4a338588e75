package inventory

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// StockMovementRepository defines the interface for movement persistence.
// Movements are append-only; there is no update or delete.
type StockMovementRepository interface {
	// Save appends a movement to the ledger
	Save(ctx context.Context, movement *StockMovement) error

	// FindByID finds a movement by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockMovement, error)

	// FindAll finds movements matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]StockMovement, error)

	// FindByProduct finds movements for a product, newest first
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)

	// FindLatestByProduct returns the most recent movement for a product
	FindLatestByProduct(ctx context.Context, productID uuid.UUID) (*StockMovement, error)

	// Count counts movements matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}

// StockAlertRepository defines the interface for alert persistence
type StockAlertRepository interface {
	// Save creates or updates an alert
	Save(ctx context.Context, alert *StockAlert) error

	// FindByID finds an alert by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*StockAlert, error)

	// FindUnresolved finds an unresolved alert for a (product, type) pair,
	// returning shared.ErrNotFound when none exists
	FindUnresolved(ctx context.Context, productID uuid.UUID, alertType AlertType) (*StockAlert, error)

	// FindAll finds alerts matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]StockAlert, error)

	// Count counts alerts matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
