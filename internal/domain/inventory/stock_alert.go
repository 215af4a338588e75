package inventory

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// AlertType represents the kind of stock alert
type AlertType string

const (
	AlertTypeLowStock   AlertType = "low_stock"
	AlertTypeOutOfStock AlertType = "out_of_stock"
)

// String returns the string representation of AlertType
func (t AlertType) String() string {
	return string(t)
}

// IsValid returns true if the alert type is valid
func (t AlertType) IsValid() bool {
	switch t {
	case AlertTypeLowStock, AlertTypeOutOfStock:
		return true
	}
	return false
}

// StockAlert flags a product whose stock crossed a threshold.
// At most one unresolved alert exists per (product, type); raising
// uses get-or-create semantics.
type StockAlert struct {
	shared.BaseEntity
	ProductID  uuid.UUID  `gorm:"type:uuid;not null;index:idx_stock_alert_product_type,priority:1"`
	AlertType  AlertType  `gorm:"type:varchar(20);not null;index:idx_stock_alert_product_type,priority:2"`
	Message    string     `gorm:"type:varchar(255);not null"`
	Resolved   bool       `gorm:"not null;default:false;index"`
	ResolvedBy *uuid.UUID `gorm:"type:uuid"`
	ResolvedAt *time.Time `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (StockAlert) TableName() string {
	return "stock_alerts"
}

// NewStockAlert creates a new unresolved alert
func NewStockAlert(productID uuid.UUID, alertType AlertType, productName string, currentStock int) (*StockAlert, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if !alertType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid alert type")
	}

	var message string
	switch alertType {
	case AlertTypeOutOfStock:
		message = fmt.Sprintf("%s is out of stock", productName)
	case AlertTypeLowStock:
		message = fmt.Sprintf("%s is low on stock (%d remaining)", productName, currentStock)
	}

	return &StockAlert{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		AlertType:  alertType,
		Message:    message,
		Resolved:   false,
	}, nil
}

// Resolve marks the alert as resolved by the given user
func (a *StockAlert) Resolve(userID uuid.UUID) error {
	if a.Resolved {
		return shared.ErrAlreadyResolved
	}

	now := time.Now()
	a.Resolved = true
	a.ResolvedBy = &userID
	a.ResolvedAt = &now
	a.UpdatedAt = now

	return nil
}
