package supervision

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayloadData is the typed content of a validation's operation data.
// Each gated operation has its own struct so services can verify that
// an approval matches the exact entity being acted on.
type PayloadData interface {
	OperationType() OperationType
}

// DiscountPayload covers order-level discounts above the threshold
type DiscountPayload struct {
	OrderNumber     string          `json:"order_number"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
}

// OperationType implements PayloadData
func (DiscountPayload) OperationType() OperationType { return OperationDiscount }

// CashClosePayload covers register closes with an out-of-threshold
// drawer difference
type CashClosePayload struct {
	RegisterID uuid.UUID       `json:"register_id"`
	Difference decimal.Decimal `json:"difference"`
}

// OperationType implements PayloadData
func (CashClosePayload) OperationType() OperationType { return OperationCashClose }

// StockAdjustPayload covers manual stock corrections beyond the
// unit threshold
type StockAdjustPayload struct {
	ProductID uuid.UUID `json:"product_id"`
	Delta     int       `json:"delta"`
}

// OperationType implements PayloadData
func (StockAdjustPayload) OperationType() OperationType { return OperationStockAdjust }

// SaleCancelPayload covers sale cancellations
type SaleCancelPayload struct {
	OrderID uuid.UUID `json:"order_id"`
}

// OperationType implements PayloadData
func (SaleCancelPayload) OperationType() OperationType { return OperationSaleCancel }

// PriceChangePayload covers product price changes
type PriceChangePayload struct {
	ProductID uuid.UUID       `json:"product_id"`
	NewPrice  decimal.Decimal `json:"new_price"`
}

// OperationType implements PayloadData
func (PriceChangePayload) OperationType() OperationType { return OperationPriceChange }

// RefundPayload covers refunds
type RefundPayload struct {
	OrderID uuid.UUID       `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// OperationType implements PayloadData
func (RefundPayload) OperationType() OperationType { return OperationRefund }

// ProductDeletePayload covers product deletions
type ProductDeletePayload struct {
	ProductID uuid.UUID `json:"product_id"`
}

// OperationType implements PayloadData
func (ProductDeletePayload) OperationType() OperationType { return OperationProductDelete }

// Payload wraps a PayloadData for storage as a tagged JSON envelope:
// {"type": "...", "data": {...}}
type Payload struct {
	Data PayloadData
}

// NewPayload wraps typed operation data
func NewPayload(data PayloadData) Payload {
	return Payload{Data: data}
}

// Type returns the operation type of the wrapped data
func (p Payload) Type() OperationType {
	if p.Data == nil {
		return ""
	}
	return p.Data.OperationType()
}

type payloadEnvelope struct {
	Type OperationType   `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON implements json.Marshaler
func (p Payload) MarshalJSON() ([]byte, error) {
	if p.Data == nil {
		return []byte("null"), nil
	}
	data, err := json.Marshal(p.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(payloadEnvelope{Type: p.Type(), Data: data})
}

// UnmarshalJSON implements json.Unmarshaler, dispatching on the type
// tag and rejecting unknown operation types
func (p *Payload) UnmarshalJSON(raw []byte) error {
	if string(raw) == "null" {
		p.Data = nil
		return nil
	}

	var env payloadEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}

	var data PayloadData
	switch env.Type {
	case OperationDiscount:
		data = &DiscountPayload{}
	case OperationCashClose:
		data = &CashClosePayload{}
	case OperationStockAdjust:
		data = &StockAdjustPayload{}
	case OperationSaleCancel:
		data = &SaleCancelPayload{}
	case OperationPriceChange:
		data = &PriceChangePayload{}
	case OperationRefund:
		data = &RefundPayload{}
	case OperationProductDelete:
		data = &ProductDeletePayload{}
	default:
		return fmt.Errorf("unknown operation type %q", env.Type)
	}

	if err := json.Unmarshal(env.Data, data); err != nil {
		return err
	}

	switch d := data.(type) {
	case *DiscountPayload:
		p.Data = *d
	case *CashClosePayload:
		p.Data = *d
	case *StockAdjustPayload:
		p.Data = *d
	case *SaleCancelPayload:
		p.Data = *d
	case *PriceChangePayload:
		p.Data = *d
	case *RefundPayload:
		p.Data = *d
	case *ProductDeletePayload:
		p.Data = *d
	}

	return nil
}

// Value implements driver.Valuer for database storage
func (p Payload) Value() (driver.Value, error) {
	b, err := p.MarshalJSON()
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for database retrieval
func (p *Payload) Scan(value any) error {
	if value == nil {
		p.Data = nil
		return nil
	}

	switch v := value.(type) {
	case []byte:
		return p.UnmarshalJSON(v)
	case string:
		return p.UnmarshalJSON([]byte(v))
	default:
		return fmt.Errorf("cannot scan %T into Payload", value)
	}
}
