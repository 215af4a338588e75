package persistence

import (
	"context"

	"github.com/pos/backend/internal/application/pos"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/supervision"
	"gorm.io/gorm"
)

// GormTransactionScope implements pos.TransactionScope over a GORM
// database transaction. Every repository handed to the callback runs
// its statements on the same transaction, so a sale that writes the
// order, the stock and the register commits or rolls back as one.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs fn within a transaction, rolling back on error
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos pos.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormTransactionalRepositories{tx: tx})
	})
}

// gormTransactionalRepositories builds repositories bound to one transaction
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

func (r *gormTransactionalRepositories) Products() catalog.ProductRepository {
	return NewGormProductRepository(r.tx)
}

func (r *gormTransactionalRepositories) Movements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

func (r *gormTransactionalRepositories) Alerts() inventory.StockAlertRepository {
	return NewGormStockAlertRepository(r.tx)
}

func (r *gormTransactionalRepositories) Registers() register.Repository {
	return NewGormRegisterRepository(r.tx)
}

func (r *gormTransactionalRepositories) Orders() sales.SalesOrderRepository {
	return NewGormSalesOrderRepository(r.tx)
}

func (r *gormTransactionalRepositories) Proformas() sales.ProformaRepository {
	return NewGormProformaRepository(r.tx)
}

func (r *gormTransactionalRepositories) Customers() partner.CustomerRepository {
	return NewGormCustomerRepository(r.tx)
}

func (r *gormTransactionalRepositories) Validations() supervision.ValidationRepository {
	return NewGormValidationRepository(r.tx)
}

// Ensure interface compliance
var (
	_ pos.TransactionScope          = (*GormTransactionScope)(nil)
	_ pos.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
)
