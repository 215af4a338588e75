package sales

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// SalesOrderRepository defines the interface for order persistence
type SalesOrderRepository interface {
	// FindByID finds an order with its items
	FindByID(ctx context.Context, id uuid.UUID) (*SalesOrder, error)

	// FindByNumber finds an order by its order number
	FindByNumber(ctx context.Context, orderNumber string) (*SalesOrder, error)

	// FindAll finds orders matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]SalesOrder, error)

	// Save creates or updates an order and its items with an
	// optimistic version check
	Save(ctx context.Context, order *SalesOrder) error

	// Count counts orders matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// ExistsByNumber checks whether an order number is taken
	ExistsByNumber(ctx context.Context, orderNumber string) (bool, error)
}

// ProformaRepository defines the interface for proforma persistence
type ProformaRepository interface {
	// FindByID finds a proforma with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Proforma, error)

	// FindByNumber finds a proforma by its number
	FindByNumber(ctx context.Context, number string) (*Proforma, error)

	// FindAll finds proformas matching the filter, newest first
	FindAll(ctx context.Context, filter shared.Filter) ([]Proforma, error)

	// FindExpiredDrafts finds draft proformas whose validity deadline
	// passed before the given time
	FindExpiredDrafts(ctx context.Context, before time.Time) ([]Proforma, error)

	// CountCreatedOn counts proformas created on the given day, used to
	// build the daily number sequence
	CountCreatedOn(ctx context.Context, day time.Time) (int64, error)

	// ExistsByNumber checks whether a proforma number is taken
	ExistsByNumber(ctx context.Context, number string) (bool, error)

	// Save creates or updates a proforma and its items with an
	// optimistic version check
	Save(ctx context.Context, proforma *Proforma) error

	// Count counts proformas matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)
}
