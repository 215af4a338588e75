package sales

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// OrderStatus represents the status of a sales order.
// POS orders are born completed; cancellation is the only transition.
type OrderStatus string

const (
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// IsValid checks if the status is a valid OrderStatus
func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// String returns the string representation of OrderStatus
func (s OrderStatus) String() string {
	return string(s)
}

// PaymentStatus represents how much of an order has been settled
type PaymentStatus string

const (
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusPartial PaymentStatus = "partial"
	PaymentStatusUnpaid  PaymentStatus = "unpaid"
)

// PaymentMethod represents the tender used for an order
type PaymentMethod string

const (
	PaymentMethodCash        PaymentMethod = "cash"
	PaymentMethodCard        PaymentMethod = "card"
	PaymentMethodMobileMoney PaymentMethod = "mobile_money"
	PaymentMethodCheque      PaymentMethod = "cheque"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case PaymentMethodCash, PaymentMethodCard, PaymentMethodMobileMoney, PaymentMethodCheque:
		return true
	}
	return false
}

// OrderSource identifies how the order entered the system
type OrderSource string

const (
	OrderSourcePOS      OrderSource = "pos"
	OrderSourceProforma OrderSource = "proforma"
)

// GenerateOrderNumber builds an order number of the form
// YYYYMMDD-NNNNNN with a random 6-digit suffix. Callers retry on the
// rare collision against the unique index.
func GenerateOrderNumber(now time.Time) string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails when the platform entropy source is
		// broken; fall back to the clock
		n = big.NewInt(now.UnixNano() % 1000000)
	}
	return fmt.Sprintf("%s-%06d", now.Format("20060102"), n.Int64())
}

// SalesOrderItem is a line item carrying price snapshots taken at
// sale time, so later catalog changes never rewrite history
type SalesOrderItem struct {
	ID              uuid.UUID       `gorm:"type:uuid;primaryKey"`
	OrderID         uuid.UUID       `gorm:"type:uuid;not null;index"`
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
func (SalesOrderItem) TableName() string {
	return "sales_order_items"
}

// NewSalesOrderItem creates a line item from catalog snapshots
func NewSalesOrderItem(orderID, productID uuid.UUID, sku, name string, quantity int, unitPrice valueobject.Money, discountPercent, taxRate decimal.Decimal) (*SalesOrderItem, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product ID cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Product name cannot be empty")
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

	item := &SalesOrderItem{
		ID:              uuid.New(),
		OrderID:         orderID,
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
func (i *SalesOrderItem) Gross() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// DiscountAmount returns the line discount amount
func (i *SalesOrderItem) DiscountAmount() decimal.Decimal {
	return i.Gross().Mul(i.DiscountPercent).Div(decimal.NewFromInt(100))
}

// TaxAmount returns the tax charged on the discounted line amount
func (i *SalesOrderItem) TaxAmount() decimal.Decimal {
	return i.Gross().Sub(i.DiscountAmount()).Mul(i.TaxRate).Div(decimal.NewFromInt(100))
}

func (i *SalesOrderItem) computeLineTotal() decimal.Decimal {
	return i.Gross().Sub(i.DiscountAmount()).Add(i.TaxAmount()).Round(2)
}

// SalesOrder is a completed point-of-sale transaction. Orders are
// created whole (items, totals, payment) inside one transaction
// together with their stock movements.
type SalesOrder struct {
	shared.BaseAggregateRoot
	OrderNumber     string           `gorm:"type:varchar(30);not null;uniqueIndex"`
	CustomerID      *uuid.UUID       `gorm:"type:uuid;index"`
	CashierID       uuid.UUID        `gorm:"type:uuid;not null;index"`
	RegisterID      *uuid.UUID       `gorm:"type:uuid;index"`
	Items           []SalesOrderItem `gorm:"foreignKey:OrderID"`
	Status          OrderStatus      `gorm:"type:varchar(15);not null;index"`
	PaymentStatus   PaymentStatus    `gorm:"type:varchar(10);not null"`
	PaymentMethod   PaymentMethod    `gorm:"type:varchar(15);not null"`
	Source          OrderSource      `gorm:"type:varchar(10);not null;default:'pos'"`
	DiscountPercent decimal.Decimal  `gorm:"type:decimal(5,2);not null;default:0"`
	Subtotal        decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	DiscountAmount  decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	TaxAmount       decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	Total           decimal.Decimal  `gorm:"type:decimal(18,4);not null"`
	AmountTendered  decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	ChangeDue       decimal.Decimal  `gorm:"type:decimal(18,4);not null;default:0"`
	CancelledAt     *time.Time       `gorm:"type:timestamptz"`
	CancelReason    string           `gorm:"type:varchar(255)"`

	finalized bool `gorm:"-"`
}

// TableName returns the table name for GORM
func (SalesOrder) TableName() string {
	return "sales_orders"
}

// NewSalesOrder starts a new order. Items are added with AddItem and
// the order becomes effective once Finalize succeeds.
func NewSalesOrder(orderNumber string, cashierID uuid.UUID, customerID, registerID *uuid.UUID, method PaymentMethod, source OrderSource) (*SalesOrder, error) {
	if orderNumber == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Order number cannot be empty")
	}
	if cashierID == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Cashier ID cannot be empty")
	}
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment method")
	}
	if source != OrderSourcePOS && source != OrderSourceProforma {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid order source")
	}

	return &SalesOrder{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		OrderNumber:       orderNumber,
		CustomerID:        customerID,
		CashierID:         cashierID,
		RegisterID:        registerID,
		Items:             make([]SalesOrderItem, 0),
		Status:            OrderStatusCompleted,
		PaymentStatus:     PaymentStatusUnpaid,
		PaymentMethod:     method,
		Source:            source,
		DiscountPercent:   decimal.Zero,
		Subtotal:          decimal.Zero,
		DiscountAmount:    decimal.Zero,
		TaxAmount:         decimal.Zero,
		Total:             decimal.Zero,
		AmountTendered:    decimal.Zero,
		ChangeDue:         decimal.Zero,
	}, nil
}

// AddItem appends a snapshot line item. Not allowed once finalized.
func (o *SalesOrder) AddItem(productID uuid.UUID, sku, name string, quantity int, unitPrice valueobject.Money, discountPercent, taxRate decimal.Decimal) error {
	if o.finalized {
		return shared.ErrInvalidState
	}

	for _, item := range o.Items {
		if item.ProductID == productID {
			return shared.NewDomainError("VALIDATION_ERROR", "Product already in order, adjust its quantity instead")
		}
	}

	item, err := NewSalesOrderItem(o.ID, productID, sku, name, quantity, unitPrice, discountPercent, taxRate)
	if err != nil {
		return err
	}

	o.Items = append(o.Items, *item)
	return nil
}

// Finalize computes the order totals, applies the order-level discount
// and settles payment. The order must have at least one item.
func (o *SalesOrder) Finalize(discountPercent decimal.Decimal, amountTendered valueobject.Money, paid bool) error {
	if o.finalized {
		return shared.ErrInvalidState
	}
	if len(o.Items) == 0 {
		return shared.NewDomainError("VALIDATION_ERROR", "Order must contain at least one item")
	}
	if discountPercent.IsNegative() || discountPercent.GreaterThan(decimal.NewFromInt(100)) {
		return shared.NewDomainError("VALIDATION_ERROR", "Discount percent must be between 0 and 100")
	}

	subtotal := decimal.Zero
	lineDiscounts := decimal.Zero
	lineTaxes := decimal.Zero
	for i := range o.Items {
		subtotal = subtotal.Add(o.Items[i].Gross())
		lineDiscounts = lineDiscounts.Add(o.Items[i].DiscountAmount())
		lineTaxes = lineTaxes.Add(o.Items[i].TaxAmount())
	}

	hundred := decimal.NewFromInt(100)
	orderFactor := hundred.Sub(discountPercent).Div(hundred)
	orderDiscount := subtotal.Sub(lineDiscounts).Mul(discountPercent).Div(hundred)

	o.DiscountPercent = discountPercent
	o.Subtotal = subtotal.Round(2)
	o.DiscountAmount = lineDiscounts.Add(orderDiscount).Round(2)
	o.TaxAmount = lineTaxes.Mul(orderFactor).Round(2)
	o.Total = o.Subtotal.Sub(o.DiscountAmount).Add(o.TaxAmount).Round(2)

	if paid {
		tendered := amountTendered.Amount()
		if tendered.IsNegative() {
			return shared.NewDomainError("VALIDATION_ERROR", "Amount tendered cannot be negative")
		}
		if o.PaymentMethod != PaymentMethodCash && tendered.IsZero() {
			// Non-cash tenders charge the exact total unless stated otherwise.
			tendered = o.Total
		}

		o.AmountTendered = tendered
		if tendered.GreaterThanOrEqual(o.Total) {
			o.ChangeDue = tendered.Sub(o.Total).Round(2)
			o.PaymentStatus = PaymentStatusPaid
		} else {
			// An under-tendered sale still completes; the shortfall is
			// tracked through the partial payment status.
			o.ChangeDue = decimal.Zero
			o.PaymentStatus = PaymentStatusPartial
		}
	}

	o.finalized = true
	o.UpdatedAt = time.Now()

	return nil
}

// Cancel cancels a completed order
func (o *SalesOrder) Cancel(reason string) error {
	if o.Status != OrderStatusCompleted {
		return shared.ErrInvalidState
	}

	now := time.Now()
	o.Status = OrderStatusCancelled
	o.CancelledAt = &now
	o.CancelReason = reason
	o.UpdatedAt = now
	o.IncrementVersion()

	return nil
}

// IsCancelled returns true if the order was cancelled
func (o *SalesOrder) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// IsPaid returns true if the order has been paid
func (o *SalesOrder) IsPaid() bool {
	return o.PaymentStatus == PaymentStatusPaid
}

// TotalMoney returns the order total as a Money value object
func (o *SalesOrder) TotalMoney() valueobject.Money {
	return valueobject.NewMoneyHTG(o.Total)
}

// CashPortion returns the cash kept in the drawer for this order:
// the tendered amount net of change, which is below the total on a
// partial payment.
func (o *SalesOrder) CashPortion() valueobject.Money {
	if o.PaymentMethod == PaymentMethodCash {
		return valueobject.NewMoneyHTG(o.AmountTendered.Sub(o.ChangeDue))
	}
	return valueobject.ZeroHTG()
}
