package pos

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/supervision"
)

// TransactionalRepositories provides access to repositories within a transaction.
// All repositories returned share the same transaction context.
type TransactionalRepositories interface {
	Products() catalog.ProductRepository
	Movements() inventory.StockMovementRepository
	Alerts() inventory.StockAlertRepository
	Registers() register.Repository
	Orders() sales.SalesOrderRepository
	Proformas() sales.ProformaRepository
	Customers() partner.CustomerRepository
	Validations() supervision.ValidationRepository
}

// TransactionScope executes a function within a database transaction.
// A sale, cancellation, conversion or adjustment touches several
// aggregates at once; the scope makes those writes atomic.
type TransactionScope interface {
	// Execute runs the given function within a transaction.
	// If the function returns an error, the transaction is rolled back.
	// Otherwise, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// NoOpTransactionScope is a TransactionScope that doesn't use transactions.
// Useful for testing or when repositories handle their own atomicity.
type NoOpTransactionScope struct {
	repos TransactionalRepositories
}

// NewNoOpTransactionScope creates a no-op transaction scope over a
// fixed set of repositories
func NewNoOpTransactionScope(repos TransactionalRepositories) *NoOpTransactionScope {
	return &NoOpTransactionScope{repos: repos}
}

// Execute runs the function without transaction semantics
func (s *NoOpTransactionScope) Execute(_ context.Context, fn func(repos TransactionalRepositories) error) error {
	return fn(s.repos)
}

// StaticRepositories is a TransactionalRepositories backed by fixed
// repository instances
type StaticRepositories struct {
	ProductRepo    catalog.ProductRepository
	MovementRepo   inventory.StockMovementRepository
	AlertRepo      inventory.StockAlertRepository
	RegisterRepo   register.Repository
	OrderRepo      sales.SalesOrderRepository
	ProformaRepo   sales.ProformaRepository
	CustomerRepo   partner.CustomerRepository
	ValidationRepo supervision.ValidationRepository
}

// Products returns the product repository
func (r *StaticRepositories) Products() catalog.ProductRepository { return r.ProductRepo }

// Movements returns the stock movement repository
func (r *StaticRepositories) Movements() inventory.StockMovementRepository { return r.MovementRepo }

// Alerts returns the stock alert repository
func (r *StaticRepositories) Alerts() inventory.StockAlertRepository { return r.AlertRepo }

// Registers returns the register session repository
func (r *StaticRepositories) Registers() register.Repository { return r.RegisterRepo }

// Orders returns the sales order repository
func (r *StaticRepositories) Orders() sales.SalesOrderRepository { return r.OrderRepo }

// Proformas returns the proforma repository
func (r *StaticRepositories) Proformas() sales.ProformaRepository { return r.ProformaRepo }

// Customers returns the customer repository
func (r *StaticRepositories) Customers() partner.CustomerRepository { return r.CustomerRepo }

// Validations returns the validation repository
func (r *StaticRepositories) Validations() supervision.ValidationRepository { return r.ValidationRepo }

// Ensure interface compliance
var (
	_ TransactionScope          = (*NoOpTransactionScope)(nil)
	_ TransactionalRepositories = (*StaticRepositories)(nil)
)
