package supervision

import (
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// Settings is the singleton row of gate thresholds and flags.
// Seeded at startup; threshold changes take effect on the next
// gated operation.
type Settings struct {
	shared.BaseEntity
	DiscountThreshold decimal.Decimal `gorm:"type:decimal(5,2);not null;default:10"`
	// CashDifferenceThreshold is a percentage of the expected drawer
	// balance: a close is gated when |difference| / expected exceeds it.
	CashDifferenceThreshold  decimal.Decimal `gorm:"type:decimal(5,2);not null;default:5"`
	StockAdjustThreshold     int             `gorm:"not null;default:10"`
	RequireSaleCancel        bool            `gorm:"not null;default:true"`
	RequirePriceChange       bool            `gorm:"not null;default:true"`
	RequireRefund            bool            `gorm:"not null;default:true"`
	RequireProductDelete     bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Settings) TableName() string {
	return "validation_settings"
}

// DefaultSettings returns the thresholds used when no row exists yet
func DefaultSettings() *Settings {
	return &Settings{
		BaseEntity:              shared.NewBaseEntity(),
		DiscountThreshold:       decimal.NewFromInt(10),
		CashDifferenceThreshold: decimal.NewFromInt(5),
		StockAdjustThreshold:    10,
		RequireSaleCancel:       true,
		RequirePriceChange:      true,
		RequireRefund:           true,
		RequireProductDelete:    true,
	}
}

// Update applies new thresholds and flags
func (s *Settings) Update(discountThreshold, cashDifferenceThreshold decimal.Decimal, stockAdjustThreshold int, saleCancel, priceChange, refund, productDelete bool) error {
	if discountThreshold.IsNegative() || discountThreshold.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("VALIDATION_ERROR", "Discount threshold must be between 0 and 100")
	}
	if cashDifferenceThreshold.IsNegative() || cashDifferenceThreshold.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("VALIDATION_ERROR", "Cash difference threshold must be between 0 and 100")
	}
	if stockAdjustThreshold < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Stock adjust threshold cannot be negative")
	}

	s.DiscountThreshold = discountThreshold
	s.CashDifferenceThreshold = cashDifferenceThreshold
	s.StockAdjustThreshold = stockAdjustThreshold
	s.RequireSaleCancel = saleCancel
	s.RequirePriceChange = priceChange
	s.RequireRefund = refund
	s.RequireProductDelete = productDelete
	s.UpdatedAt = time.Now()

	return nil
}
