package register

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Status represents the lifecycle state of a register session
type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// String returns the string representation of Status
func (s Status) String() string {
	return string(s)
}

// CashRegister is one cashier session at the till, from opening float
// to reconciled close. A closed session is immutable.
type CashRegister struct {
	shared.BaseAggregateRoot
	RegisterNumber string          `gorm:"type:varchar(30);not null;uniqueIndex"`
	CashierID      uuid.UUID       `gorm:"type:uuid;not null;index"`
	Status         Status          `gorm:"type:varchar(10);not null;default:'open';index"`
	OpeningAmount  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ExpectedAmount decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	ClosingAmount  decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Difference     decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	SalesCount     int             `gorm:"not null;default:0"`
	TotalSales     decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	CashSales      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	OpenedAt       time.Time       `gorm:"type:timestamptz;not null"`
	ClosedAt       *time.Time      `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (CashRegister) TableName() string {
	return "cash_registers"
}

// FormatRegisterNumber builds the session number for a given day and
// daily sequence, e.g. REG-20260829-03
func FormatRegisterNumber(day time.Time, seq int) string {
	return fmt.Sprintf("REG-%s-%02d", day.Format("20060102"), seq)
}

// Open starts a new register session for a cashier.
// The caller is responsible for verifying the opening secret and that
// the cashier has no other open session.
func Open(cashierID uuid.UUID, registerNumber string, openingAmount valueobject.Money) (*CashRegister, error) {
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cashier ID cannot be empty")
	}
	if registerNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Register number cannot be empty")
	}
	if openingAmount.IsNegative() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Opening amount cannot be negative")
	}

	return &CashRegister{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RegisterNumber:    registerNumber,
		CashierID:         cashierID,
		Status:            StatusOpen,
		OpeningAmount:     openingAmount.Amount(),
		ExpectedAmount:    openingAmount.Amount(),
		TotalSales:        decimal.Zero,
		CashSales:         decimal.Zero,
		OpenedAt:          time.Now(),
	}, nil
}

// AddSale records a completed sale on the open session.
// cashAmount is the cash portion of the payment and feeds the expected
// drawer amount; total covers all tenders.
func (r *CashRegister) AddSale(total, cashAmount valueobject.Money) error {
	if r.Status != StatusOpen {
		return shared.ErrInvalidState
	}
	if total.IsNegative() || cashAmount.IsNegative() {
		return shared.NewDomainError("VALIDATION_ERROR", "Sale amounts cannot be negative")
	}
	if gt, _ := cashAmount.GreaterThan(total); gt {
		return shared.NewDomainError("VALIDATION_ERROR", "Cash amount cannot exceed sale total")
	}

	r.SalesCount++
	r.TotalSales = r.TotalSales.Add(total.Amount())
	r.CashSales = r.CashSales.Add(cashAmount.Amount())
	r.ExpectedAmount = r.ExpectedAmount.Add(cashAmount.Amount())
	r.UpdatedAt = time.Now()
	r.IncrementVersion()

	return nil
}

// Close reconciles and closes the session with the counted drawer
// amount. Returns the difference (counted minus expected).
func (r *CashRegister) Close(countedAmount valueobject.Money) (valueobject.Money, error) {
	if r.Status != StatusOpen {
		return valueobject.ZeroHTG(), shared.ErrInvalidState
	}
	if countedAmount.IsNegative() {
		return valueobject.ZeroHTG(), shared.NewDomainError("VALIDATION_ERROR", "Counted amount cannot be negative")
	}

	now := time.Now()
	diff := countedAmount.Amount().Sub(r.ExpectedAmount)

	r.Status = StatusClosed
	r.ClosingAmount = decimal.NewNullDecimal(countedAmount.Amount())
	r.Difference = decimal.NewNullDecimal(diff)
	r.ClosedAt = &now
	r.UpdatedAt = now
	r.IncrementVersion()

	return valueobject.NewMoneyHTG(diff), nil
}

// PendingDifference computes the difference a close with countedAmount
// would produce, without mutating the session
func (r *CashRegister) PendingDifference(countedAmount valueobject.Money) valueobject.Money {
	return valueobject.NewMoneyHTG(countedAmount.Amount().Sub(r.ExpectedAmount))
}

// IsOpen returns true if the session is open
func (r *CashRegister) IsOpen() bool {
	return r.Status == StatusOpen
}

// ExpectedAmountMoney returns the expected drawer amount as Money
func (r *CashRegister) ExpectedAmountMoney() valueobject.Money {
	return valueobject.NewMoneyHTG(r.ExpectedAmount)
}
