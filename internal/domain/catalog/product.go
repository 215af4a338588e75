package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// StockStatus is derived from the current stock level against the
// product's thresholds
type StockStatus string

const (
	StockStatusInStock    StockStatus = "in_stock"
	StockStatusLowStock   StockStatus = "low_stock"
	StockStatusOutOfStock StockStatus = "out_of_stock"
)

// Product represents a sellable item in the catalog.
// CurrentStock is the single source of truth for on-hand quantity;
// every change to it goes through the stock ledger.
type Product struct {
	shared.BaseAggregateRoot
	SKU             string          `gorm:"type:varchar(50);not null;uniqueIndex"`
	Name            string          `gorm:"type:varchar(200);not null"`
	Description     string          `gorm:"type:text"`
	CategoryID      *uuid.UUID      `gorm:"type:uuid;index"`
	PurchasePrice   decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	SellingPrice    decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	CurrentStock    int             `gorm:"not null;default:0"`
	MinStock        int             `gorm:"not null;default:0"`
	MaxStock        int             `gorm:"not null;default:0"`
	Active          bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product
func NewProduct(sku, name string, purchasePrice, sellingPrice valueobject.Money) (*Product, error) {
	if err := validateSKU(sku); err != nil {
		return nil, err
	}
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if purchasePrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Purchase price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Selling price cannot be negative")
	}

	return &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		SKU:               strings.ToUpper(sku),
		Name:              name,
		PurchasePrice:     purchasePrice.Amount(),
		SellingPrice:      sellingPrice.Amount(),
		DiscountPercent:   decimal.Zero,
		TaxRate:           decimal.Zero,
		Active:            true,
	}, nil
}

// Update updates the product's basic information
func (p *Product) Update(name, description string) error {
	if err := validateProductName(name); err != nil {
		return err
	}

	p.Name = name
	p.Description = description
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetCategory sets the product category
func (p *Product) SetCategory(categoryID *uuid.UUID) {
	p.CategoryID = categoryID
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
}

// SetPrices sets both purchase and selling prices
func (p *Product) SetPrices(purchasePrice, sellingPrice valueobject.Money) error {
	if purchasePrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Purchase price cannot be negative")
	}
	if sellingPrice.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Selling price cannot be negative")
	}

	p.PurchasePrice = purchasePrice.Amount()
	p.SellingPrice = sellingPrice.Amount()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetDiscount sets the product-level discount percentage
func (p *Product) SetDiscount(percent decimal.Decimal) error {
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("VALIDATION_ERROR", "Discount percent must be between 0 and 100")
	}

	p.DiscountPercent = percent
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetTaxRate sets the tax rate percentage applied on top of the
// discounted price
func (p *Product) SetTaxRate(rate decimal.Decimal) error {
	if rate.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Tax rate cannot be negative")
	}

	p.TaxRate = rate
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// SetStockThresholds sets the min/max stock levels used for alerts
func (p *Product) SetStockThresholds(minStock, maxStock int) error {
	if minStock < 0 || maxStock < 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Stock thresholds cannot be negative")
	}
	if maxStock > 0 && maxStock < minStock {
		return shared.NewDomainError("VALIDATION_ERROR", "Maximum stock cannot be below minimum stock")
	}

	p.MinStock = minStock
	p.MaxStock = maxStock
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ApplyStockChange applies a signed stock delta.
// Callers must record a matching stock movement in the same transaction.
func (p *Product) ApplyStockChange(delta int) error {
	if p.CurrentStock+delta < 0 {
		return shared.ErrInsufficientStock
	}

	p.CurrentStock += delta
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Activate activates the product
func (p *Product) Activate() error {
	if p.Active {
		return shared.NewDomainError("INVALID_STATE", "Product is already active")
	}

	p.Active = true
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Deactivate deactivates the product so it can no longer be sold
func (p *Product) Deactivate() error {
	if !p.Active {
		return shared.NewDomainError("INVALID_STATE", "Product is already inactive")
	}

	p.Active = false
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsAvailable returns true if the product is active and has at least
// the requested quantity in stock
func (p *Product) IsAvailable(quantity int) bool {
	return p.Active && quantity > 0 && p.CurrentStock >= quantity
}

// StockStatus returns the derived stock status
func (p *Product) StockStatus() StockStatus {
	switch {
	case p.CurrentStock <= 0:
		return StockStatusOutOfStock
	case p.CurrentStock <= p.MinStock:
		return StockStatusLowStock
	default:
		return StockStatusInStock
	}
}

// FinalPrice returns the selling price after discount and tax
func (p *Product) FinalPrice() valueobject.Money {
	base := valueobject.NewMoneyHTG(p.SellingPrice).ApplyDiscount(p.DiscountPercent)
	tax := base.CalculatePercentage(p.TaxRate)
	return base.MustAdd(tax).Round(2)
}

// SellingPriceMoney returns the selling price as a Money value object
func (p *Product) SellingPriceMoney() valueobject.Money {
	return valueobject.NewMoneyHTG(p.SellingPrice)
}

// PurchasePriceMoney returns the purchase price as a Money value object
func (p *Product) PurchasePriceMoney() valueobject.Money {
	return valueobject.NewMoneyHTG(p.PurchasePrice)
}

// validateSKU validates the product SKU
func validateSKU(sku string) error {
	if sku == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "SKU cannot be empty")
	}
	if len(sku) > 50 {
		return shared.NewDomainError("VALIDATION_ERROR", "SKU cannot exceed 50 characters")
	}
	for _, r := range sku {
		if !((r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-') {
			return shared.NewDomainError("VALIDATION_ERROR", "SKU can only contain letters, numbers, underscores, and hyphens")
		}
	}
	return nil
}

// validateProductName validates the product name
func validateProductName(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Product name cannot exceed 200 characters")
	}
	return nil
}
