package sales

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// DefaultProformaValidity is how long a proforma stays convertible
const DefaultProformaValidity = 7 * 24 * time.Hour

// ProformaStatus represents the lifecycle state of a proforma
type ProformaStatus string

const (
	ProformaStatusDraft     ProformaStatus = "draft"
	ProformaStatusConverted ProformaStatus = "converted"
	ProformaStatusCancelled ProformaStatus = "cancelled"
	ProformaStatusExpired   ProformaStatus = "expired"
)

// IsValid checks if the status is a valid ProformaStatus
func (s ProformaStatus) IsValid() bool {
	switch s {
	case ProformaStatusDraft, ProformaStatusConverted, ProformaStatusCancelled, ProformaStatusExpired:
		return true
	}
	return false
}

// String returns the string representation of ProformaStatus
func (s ProformaStatus) String() string {
	return string(s)
}

// CanTransitionTo checks if the status can transition to the target status
func (s ProformaStatus) CanTransitionTo(target ProformaStatus) bool {
	if s != ProformaStatusDraft {
		return false
	}
	switch target {
	case ProformaStatusConverted, ProformaStatusCancelled, ProformaStatusExpired:
		return true
	}
	return false
}

// FormatProformaNumber builds the proforma number for a given day and
// daily sequence, e.g. PF-20260829-0004
func FormatProformaNumber(day time.Time, seq int) string {
	return fmt.Sprintf("PF-%s-%04d", day.Format("20060102"), seq)
}

// ProformaItem is a quote line carrying the same price snapshots as an
// order line; conversion copies them verbatim
type ProformaItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	ProformaID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID       uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductSKU      string          `gorm:"type:varchar(50);not null"`
	ProductName     string          `gorm:"type:varchar(200);not null"`
	Quantity        int             `gorm:"not null"`
	UnitPrice       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountPercent decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	TaxRate         decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0"`
	LineTotal       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt       time.Time
}

// TableName returns the table name for GORM
func (ProformaItem) TableName() string {
	return "proforma_items"
}

func newProformaItem(proformaID, productID uuid.UUID, sku, name string, quantity int, unitPrice valueobject.Money, discountPercent, taxRate decimal.Decimal) (*ProformaItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}
	if unitPrice.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Unit price cannot be negative")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Discount percent must be between 0 and 100")
	}
	if taxRate.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Tax rate cannot be negative")
	}

	item := &ProformaItem{
		ID:              uuid.New(),
		ProformaID:      proformaID,
		ProductID:       productID,
		ProductSKU:      sku,
		ProductName:     name,
		Quantity:        quantity,
		UnitPrice:       unitPrice.Amount(),
		DiscountPercent: discountPercent,
		TaxRate:         taxRate,
		CreatedAt:       time.Now(),
	}
	item.LineTotal = item.computeLineTotal()

	return item, nil
}

// Gross returns quantity times unit price before discount and tax
func (i *ProformaItem) Gross() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DiscountAmount returns the line discount amount
func (i *ProformaItem) DiscountAmount() decimal.Decimal {
	return i.Gross().Mul(i.DiscountPercent).Div(decimal.NewFromInt(100))
}

// TaxAmount returns the tax charged on the discounted line amount
func (i *ProformaItem) TaxAmount() decimal.Decimal {
	return i.Gross().Sub(i.DiscountAmount()).Mul(i.TaxRate).Div(decimal.NewFromInt(100))
}

func (i *ProformaItem) computeLineTotal() decimal.Decimal {
	return i.Gross().Sub(i.DiscountAmount()).Add(i.TaxAmount()).Round(2)
}

// Proforma is a quote: priced like an order but with no stock or
// register effect until it is converted
type Proforma struct {
	shared.BaseAggregateRoot
	Number           string         `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID       *uuid.UUID     `gorm:"type:uuid;index"`
	CreatedBy        uuid.UUID      `gorm:"type:uuid;not null;index"`
	Items            []ProformaItem `gorm:"foreignKey:ProformaID"`
	Status           ProformaStatus `gorm:"type:varchar(15);not null;index"`
	ValidUntil       time.Time      `gorm:"type:timestamptz;not null"`
	Subtotal         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	DiscountAmount   decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	TaxAmount        decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Total            decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Note             string          `gorm:"type:varchar(255)"`
	ConvertedOrderID *uuid.UUID      `gorm:"type:uuid"`
	ConvertedAt      *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Proforma) TableName() string {
	return "proformas"
}

// NewProforma creates a draft proforma valid for the default period
func NewProforma(number string, createdBy uuid.UUID, customerID *uuid.UUID) (*Proforma, error) {
	if number == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Proforma number cannot be empty")
	}
	if createdBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Creator ID cannot be empty")
	}

	return &Proforma{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Number:            number,
		CustomerID:        customerID,
		CreatedBy:         createdBy,
		Items:             make([]ProformaItem, 0),
		Status:            ProformaStatusDraft,
		ValidUntil:        time.Now().Add(DefaultProformaValidity),
		Subtotal:          decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
	}, nil
}

// AddItem adds a quote line. Only allowed on drafts.
func (p *Proforma) AddItem(productID uuid.UUID, sku, name string, quantity int, unitPrice valueobject.Money, discountPercent, taxRate decimal.Decimal) error {
	if p.Status != ProformaStatusDraft {
		return shared.ErrInvalidState
	}

	for _, item := range p.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("VALIDATION_ERROR", "Product already in proforma, adjust its quantity instead")
		}
	}

	item, err := newProformaItem(p.ID, productID, sku, name, quantity, unitPrice, discountPercent, taxRate)
	if err != nil {
		return err
	}

	p.Items = append(p.Items, *item)
	p.recalculateTotals()
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdateItemQuantity changes a line quantity. Only allowed on drafts.
func (p *Proforma) UpdateItemQuantity(itemID uuid.UUID, quantity int) error {
	if p.Status != ProformaStatusDraft {
		return shared.ErrInvalidState
	}
	if quantity <= 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Quantity must be positive")
	}

	for i := range p.Items {
		if p.Items[i].ID == itemID {
			p.Items[i].Quantity = quantity
			p.Items[i].LineTotal = p.Items[i].computeLineTotal()
			p.recalculateTotals()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.ErrNotFound
}

// RemoveItem removes a line. Only allowed on drafts.
func (p *Proforma) RemoveItem(itemID uuid.UUID) error {
	if p.Status != ProformaStatusDraft {
		return shared.ErrInvalidState
	}

	for i := range p.Items {
		if p.Items[i].ID == itemID {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			p.recalculateTotals()
			p.UpdatedAt = time.Now()
			p.IncrementVersion()
			return nil
		}
	}

	return shared.ErrNotFound
}

// SetValidUntil overrides the validity deadline. Only allowed on drafts.
func (p *Proforma) SetValidUntil(deadline time.Time) error {
	if p.Status != ProformaStatusDraft {
		return shared.ErrInvalidState
	}
	if deadline.Before(time.Now()) {
		return shared.NewDomainError("VALIDATION_ERROR", "Validity deadline cannot be in the past")
	}

	p.ValidUntil = deadline
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// IsExpired returns true if the validity deadline has passed
func (p *Proforma) IsExpired() bool {
	return time.Now().After(p.ValidUntil)
}

// MarkConverted links the proforma to the order created from it.
// Converting twice fails with ALREADY_CONVERTED; other non-draft
// states fail with INVALID_STATE.
func (p *Proforma) MarkConverted(orderID uuid.UUID) error {
	if p.Status == ProformaStatusConverted {
		return shared.ErrAlreadyConverted
	}
	if !p.Status.CanTransitionTo(ProformaStatusConverted) {
		return shared.ErrInvalidState
	}
	if p.IsExpired() {
		return shared.ErrInvalidState
	}
	if len(p.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Cannot convert a proforma with no items")
	}

	now := time.Now()
	p.Status = ProformaStatusConverted
	p.ConvertedOrderID = &orderID
	p.ConvertedAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// Cancel cancels a draft proforma
func (p *Proforma) Cancel() error {
	if !p.Status.CanTransitionTo(ProformaStatusCancelled) {
		return shared.ErrInvalidState
	}

	p.Status = ProformaStatusCancelled
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// Expire marks a past-deadline draft as expired
func (p *Proforma) Expire() error {
	if !p.Status.CanTransitionTo(ProformaStatusExpired) {
		return shared.ErrInvalidState
	}
	if !p.IsExpired() {
		return shared.NewDomainError("INVALID_STATE", "Proforma validity deadline has not passed")
	}

	p.Status = ProformaStatusExpired
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

func (p *Proforma) recalculateTotals() {
	subtotal := decimal.Zero
	discounts := decimal.Zero
	taxes := decimal.Zero
	for i := range p.Items {
		subtotal = subtotal.Add(p.Items[i].Gross())
		discounts = discounts.Add(p.Items[i].DiscountAmount())
		taxes = taxes.Add(p.Items[i].TaxAmount())
	}

	p.Subtotal = subtotal.Round(2)
	p.DiscountAmount = discounts.Round(2)
	p.TaxAmount = taxes.Round(2)
	p.Total = subtotal.Sub(discounts).Add(taxes).Round(2)
}

// TotalMoney returns the proforma total as a Money value object
func (p *Proforma) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyHTG(p.Total)
}
