package pos

import (
	"context"

	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
)

// syncStockAlerts raises a threshold alert for the product's current
// stock status. At most one unresolved alert exists per (product, type),
// so an already-flagged product is left alone.
func syncStockAlerts(ctx context.Context, repos TransactionalRepositories, product *catalog.Product) error {
	var alertType inventory.AlertType
	switch product.StockStatus() {
	case catalog.StockStatusOutOfStock:
		alertType = inventory.AlertTypeOutOfStock
	case catalog.StockStatusLowStock:
		alertType = inventory.AlertTypeLowStock
	default:
		return nil
	}

	_, err := repos.Alerts().FindUnresolved(ctx, product.ID, alertType)
	if err == nil {
		return nil
	}
	if err != shared.ErrNotFound {
		return err
	}

	alert, err := inventory.NewStockAlert(product.ID, alertType, product.Name, product.CurrentStock)
	if err != nil {
		return err
	}
	return repos.Alerts().Save(ctx, alert)
}
