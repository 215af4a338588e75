package persistence

import (
	"testing"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database with the full schema
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&catalog.Category{},
		&catalog.Product{},
		&inventory.StockMovement{},
		&inventory.StockAlert{},
		&register.CashRegister{},
		&register.Settings{},
		&sales.SalesOrder{},
		&sales.SalesOrderItem{},
		&sales.Proforma{},
		&sales.ProformaItem{},
		&partner.Customer{},
		&identity.User{},
		&supervision.Validation{},
		&supervision.Settings{},
	))
	return db
}

func newTestProduct(t *testing.T, sku string, sellingPrice float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(
		sku,
		"Product "+sku,
		valueobject.NewMoneyHTGFromFloat(sellingPrice/2),
		valueobject.NewMoneyHTGFromFloat(sellingPrice),
	)
	require.NoError(t, err)
	return product
}
