package inventory

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// MovementType represents the direction of a stock movement
type MovementType string

const (
	MovementTypeIn     MovementType = "in"
	MovementTypeOut    MovementType = "out"
	MovementTypeAdjust MovementType = "adjust"
)

// String returns the string representation of MovementType
func (t MovementType) String() string {
	return string(t)
}

// IsValid returns true if the movement type is valid
func (t MovementType) IsValid() bool {
	switch t {
	case MovementTypeIn, MovementTypeOut, MovementTypeAdjust:
		return true
	}
	return false
}

// MovementReason identifies the operation that produced a movement
type MovementReason string

const (
	ReasonPurchase           MovementReason = "purchase"
	ReasonSale               MovementReason = "sale"
	ReasonSaleCancel         MovementReason = "sale_cancel"
	ReasonReturn             MovementReason = "return"
	ReasonProformaConversion MovementReason = "proforma_conversion"
	ReasonAdjustment         MovementReason = "adjustment"
	ReasonTransfer           MovementReason = "transfer"
	ReasonDamage             MovementReason = "damage"
	ReasonInitial            MovementReason = "initial"
)

// String returns the string representation of MovementReason
func (r MovementReason) String() string {
	return string(r)
}

// IsValid returns true if the movement reason is valid
func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonPurchase, ReasonSale, ReasonSaleCancel, ReasonReturn,
		ReasonProformaConversion, ReasonAdjustment, ReasonTransfer,
		ReasonDamage, ReasonInitial:
		return true
	}
	return false
}

// StockMovement is an immutable ledger record of one stock change.
// Once created it is never updated or deleted; corrections are made
// with new movements.
type StockMovement struct {
	shared.BaseEntity
	ProductID      uuid.UUID       `gorm:"type:uuid;not null;index:idx_stock_mv_product"`
	MovementType   MovementType    `gorm:"type:varchar(10);not null"`
	Reason         MovementReason  `gorm:"type:varchar(30);not null;index:idx_stock_mv_reason"`
	QuantityChange int             `gorm:"not null"`
	QuantityBefore int             `gorm:"not null"`
	QuantityAfter  int             `gorm:"not null"`
	UnitCost       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Reference      string          `gorm:"type:varchar(100);index"`
	Note           string          `gorm:"type:varchar(255)"`
	PerformedBy    *uuid.UUID      `gorm:"type:uuid"`
	OccurredAt     time.Time       `gorm:"type:timestamptz;not null;index"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates a new stock movement.
// quantityBefore is the product stock before the change; the resulting
// QuantityAfter must equal the product's stock after the change.
func NewStockMovement(
	productID uuid.UUID,
	movementType MovementType,
	reason MovementReason,
	quantityChange int,
	quantityBefore int,
) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement type")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement reason")
	}
	if quantityChange == 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity change cannot be zero")
	}
	if movementType == MovementTypeIn && quantityChange < 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Inbound movement must have a positive quantity change")
	}
	if movementType == MovementTypeOut && quantityChange > 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Outbound movement must have a negative quantity change")
	}
	if quantityBefore+quantityChange < 0 {
		return nil, shared.ErrInsufficientStock
	}

	return &StockMovement{
		BaseEntity:     shared.NewBaseEntity(),
		ProductID:      productID,
		MovementType:   movementType,
		Reason:         reason,
		QuantityChange: quantityChange,
		QuantityBefore: quantityBefore,
		QuantityAfter:  quantityBefore + quantityChange,
		UnitCost:       decimal.Zero,
		OccurredAt:     time.Now(),
	}, nil
}

// WithUnitCost sets the unit cost snapshot
func (m *StockMovement) WithUnitCost(cost decimal.Decimal) *StockMovement {
	m.UnitCost = cost
	return m
}

// WithReference sets the source document reference (order or proforma number)
func (m *StockMovement) WithReference(reference string) *StockMovement {
	m.Reference = reference
	return m
}

// WithNote sets a free-form note
func (m *StockMovement) WithNote(note string) *StockMovement {
	m.Note = note
	return m
}

// WithPerformedBy sets the user who performed the operation
func (m *StockMovement) WithPerformedBy(userID uuid.UUID) *StockMovement {
	m.PerformedBy = &userID
	return m
}

// IsInbound returns true if the movement increased stock
func (m *StockMovement) IsInbound() bool {
	return m.QuantityChange > 0
}

// IsOutbound returns true if the movement decreased stock
func (m *StockMovement) IsOutbound() bool {
	return m.QuantityChange < 0
}
