package partner

import (
	"regexp"
	"time"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// AnonymousCustomerName is the seeded walk-in customer used when a
// sale carries no customer
const AnonymousCustomerName = "Anonymous"

var phonePattern = regexp.MustCompile(`^\+?[0-9 \-()]{6,20}$`)

// Customer represents a store customer with aggregated purchase stats
type Customer struct {
	shared.BaseAggregateRoot
	Name           string          `gorm:"type:varchar(200);not null"`
	Phone          string          `gorm:"type:varchar(50);index"`
	Email          string          `gorm:"type:varchar(200);index"`
	Address        string          `gorm:"type:text"`
	TotalPurchases decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	PurchaseCount  int             `gorm:"not null;default:0"`
	LastPurchaseAt *time.Time      `gorm:"type:timestamptz"`
	Active         bool            `gorm:"not null;default:true"`
}

// TableName returns the table name for GORM
func (Customer) TableName() string {
	return "customers"
}

// NewCustomer creates a new customer
func NewCustomer(name, phone, email, address string) (*Customer, error) {
	if err := validateCustomerName(name); err != nil {
		return nil, err
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid phone number")
	}

	return &Customer{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              name,
		Phone:             phone,
		Email:             email,
		Address:           address,
		TotalPurchases:    decimal.Zero,
		Active:            true,
	}, nil
}

// Update updates the customer's contact information
func (c *Customer) Update(name, phone, email, address string) error {
	if err := validateCustomerName(name); err != nil {
		return err
	}
	if phone != "" && !phonePattern.MatchString(phone) {
		return shared.NewDomainError("VALIDATION_ERROR", "Invalid phone number")
	}

	c.Name = name
	c.Phone = phone
	c.Email = email
	c.Address = address
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// RecordPurchase adds a completed sale to the customer's stats
func (c *Customer) RecordPurchase(total valueobject.Money) error {
	if total.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Purchase total cannot be negative")
	}

	now := time.Now()
	c.TotalPurchases = c.TotalPurchases.Add(total.Amount())
	c.PurchaseCount++
	c.LastPurchaseAt = &now
	c.UpdatedAt = now
	c.IncrementVersion()

	return nil
}

// ReversePurchase removes a cancelled sale from the customer's stats
func (c *Customer) ReversePurchase(total valueobject.Money) error {
	if total.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Purchase total cannot be negative")
	}
	if c.PurchaseCount == 0 {
		return shared.NewDomainError("INVALID_STATE", "Customer has no purchases to reverse")
	}

	c.TotalPurchases = c.TotalPurchases.Sub(total.Amount())
	if c.TotalPurchases.IsNegative() {
		c.TotalPurchases = decimal.Zero
	}
	c.PurchaseCount--
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Deactivate deactivates the customer
func (c *Customer) Deactivate() error {
	if !c.Active {
		return shared.NewDomainError("INVALID_STATE", "Customer is already inactive")
	}

	c.Active = false
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// Activate activates the customer
func (c *Customer) Activate() error {
	if c.Active {
		return shared.NewDomainError("INVALID_STATE", "Customer is already active")
	}

	c.Active = true
	c.UpdatedAt = time.Now()
	c.IncrementVersion()

	return nil
}

// validateCustomerName validates the customer name
func validateCustomerName(name string) error {
	if name == "" {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot be empty")
	}
	if len(name) > 200 {
		return shared.NewDomainError("VALIDATION_ERROR", "Customer name cannot exceed 200 characters")
	}
	return nil
}
