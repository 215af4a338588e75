package pos

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/shopspring/decimal"
)

// ==================== Sale DTOs ====================

// SaleItemInput represents one line of a checkout or quote
type SaleItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// CreateSaleRequest represents a checkout request from the till
type CreateSaleRequest struct {
	CustomerID      *uuid.UUID      `json:"customer_id"`
	Items           []SaleItemInput `json:"items" binding:"required,min=1,dive"`
	PaymentMethod   string          `json:"payment_method" binding:"required,oneof=cash card mobile_money cheque"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	AmountTendered  decimal.Decimal `json:"amount_tendered"`
	ValidationID    *uuid.UUID      `json:"validation_id"`
	IdempotencyKey  string          `json:"idempotency_key" binding:"omitempty,max=100"`
}

// CancelSaleRequest represents a request to cancel a completed sale
type CancelSaleRequest struct {
	Reason       string     `json:"reason" binding:"required,min=1,max=255"`
	ValidationID *uuid.UUID `json:"validation_id"`
}

// SaleListFilter represents filter options for the sale list
type SaleListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=completed cancelled"`
	Source     string     `form:"source" binding:"omitempty,oneof=pos proforma"`
	CashierID  *uuid.UUID `form:"cashier_id"`
	CustomerID *uuid.UUID `form:"customer_id"`
	StartDate  *time.Time `form:"start_date"`
	EndDate    *time.Time `form:"end_date"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// SaleItemResponse represents an order line in API responses
type SaleItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductSKU      string          `json:"product_sku"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// SaleResponse represents a sales order in API responses
type SaleResponse struct {
	ID              uuid.UUID          `json:"id"`
	OrderNumber     string             `json:"order_number"`
	CustomerID      *uuid.UUID         `json:"customer_id,omitempty"`
	CashierID       uuid.UUID          `json:"cashier_id"`
	RegisterID      *uuid.UUID         `json:"register_id,omitempty"`
	Items           []SaleItemResponse `json:"items"`
	Status          string             `json:"status"`
	PaymentStatus   string             `json:"payment_status"`
	PaymentMethod   string             `json:"payment_method"`
	Source          string             `json:"source"`
	DiscountPercent decimal.Decimal    `json:"discount_percent"`
	Subtotal        decimal.Decimal    `json:"subtotal"`
	DiscountAmount  decimal.Decimal    `json:"discount_amount"`
	TaxAmount       decimal.Decimal    `json:"tax_amount"`
	Total           decimal.Decimal    `json:"total"`
	AmountTendered  decimal.Decimal    `json:"amount_tendered"`
	ChangeDue       decimal.Decimal    `json:"change_due"`
	CancelledAt     *time.Time         `json:"cancelled_at,omitempty"`
	CancelReason    string             `json:"cancel_reason,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
}

// ToSaleResponse converts a domain order to a response DTO
func ToSaleResponse(o *sales.SalesOrder) SaleResponse {
	items := make([]SaleItemResponse, len(o.Items))
	for i, item := range o.Items {
		items[i] = SaleItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductSKU:      item.ProductSKU,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			TaxRate:         item.TaxRate,
			LineTotal:       item.LineTotal,
		}
	}

	return SaleResponse{
		ID:              o.ID,
		OrderNumber:     o.OrderNumber,
		CustomerID:      o.CustomerID,
		CashierID:       o.CashierID,
		RegisterID:      o.RegisterID,
		Items:           items,
		Status:          o.Status.String(),
		PaymentStatus:   string(o.PaymentStatus),
		PaymentMethod:   string(o.PaymentMethod),
		Source:          string(o.Source),
		DiscountPercent: o.DiscountPercent,
		Subtotal:        o.Subtotal,
		DiscountAmount:  o.DiscountAmount,
		TaxAmount:       o.TaxAmount,
		Total:           o.Total,
		AmountTendered:  o.AmountTendered,
		ChangeDue:       o.ChangeDue,
		CancelledAt:     o.CancelledAt,
		CancelReason:    o.CancelReason,
		CreatedAt:       o.CreatedAt,
	}
}

// ==================== Register DTOs ====================

// OpenRegisterRequest represents a request to open a till session
type OpenRegisterRequest struct {
	OpeningSecret string           `json:"opening_secret" binding:"required"`
	OpeningAmount *decimal.Decimal `json:"opening_amount"`
}

// CloseRegisterRequest represents a request to close a till session
type CloseRegisterRequest struct {
	CountedAmount decimal.Decimal `json:"counted_amount" binding:"required"`
	ValidationID  *uuid.UUID      `json:"validation_id"`
}

// ChangeOpeningSecretRequest represents a request to rotate the shared
// opening secret
type ChangeOpeningSecretRequest struct {
	CurrentSecret string `json:"current_secret" binding:"required"`
	NewSecret     string `json:"new_secret" binding:"required,min=4,max=72"`
}

// UpdateOpeningFloatRequest represents a request to change the default
// opening float
type UpdateOpeningFloatRequest struct {
	DefaultOpeningAmount decimal.Decimal `json:"default_opening_amount" binding:"required"`
}

// RegisterListFilter represents filter options for the session list
type RegisterListFilter struct {
	Status    string     `form:"status" binding:"omitempty,oneof=open closed"`
	CashierID *uuid.UUID `form:"cashier_id"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// RegisterResponse represents a till session in API responses
type RegisterResponse struct {
	ID             uuid.UUID        `json:"id"`
	RegisterNumber string           `json:"register_number"`
	CashierID      uuid.UUID        `json:"cashier_id"`
	Status         string           `json:"status"`
	OpeningAmount  decimal.Decimal  `json:"opening_amount"`
	ExpectedAmount decimal.Decimal  `json:"expected_amount"`
	ClosingAmount  *decimal.Decimal `json:"closing_amount,omitempty"`
	Difference     *decimal.Decimal `json:"difference,omitempty"`
	SalesCount     int              `json:"sales_count"`
	TotalSales     decimal.Decimal  `json:"total_sales"`
	CashSales      decimal.Decimal  `json:"cash_sales"`
	OpenedAt       time.Time        `json:"opened_at"`
	ClosedAt       *time.Time       `json:"closed_at,omitempty"`
}

// ToRegisterResponse converts a domain session to a response DTO
func ToRegisterResponse(r *register.CashRegister) RegisterResponse {
	response := RegisterResponse{
		ID:             r.ID,
		RegisterNumber: r.RegisterNumber,
		CashierID:      r.CashierID,
		Status:         r.Status.String(),
		OpeningAmount:  r.OpeningAmount,
		ExpectedAmount: r.ExpectedAmount,
		SalesCount:     r.SalesCount,
		TotalSales:     r.TotalSales,
		CashSales:      r.CashSales,
		OpenedAt:       r.OpenedAt,
		ClosedAt:       r.ClosedAt,
	}
	if r.ClosingAmount.Valid {
		amount := r.ClosingAmount.Decimal
		response.ClosingAmount = &amount
	}
	if r.Difference.Valid {
		diff := r.Difference.Decimal
		response.Difference = &diff
	}
	return response
}

// ==================== Stock DTOs ====================

// AdjustStockRequest represents a manual stock correction to an
// absolute counted quantity. Reason defaults to a plain adjustment;
// damaged goods, inter-store transfers and customer returns can be
// labelled as such in the ledger.
type AdjustStockRequest struct {
	NewQuantity  int        `json:"new_quantity" binding:"min=0"`
	Reason       string     `json:"reason" binding:"omitempty,oneof=adjustment damage transfer return"`
	Note         string     `json:"note" binding:"max=255"`
	ValidationID *uuid.UUID `json:"validation_id"`
}

// MovementListFilter represents filter options for the movement ledger
type MovementListFilter struct {
	ProductID *uuid.UUID `form:"product_id"`
	Reason    string     `form:"reason"`
	StartDate *time.Time `form:"start_date"`
	EndDate   *time.Time `form:"end_date"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// AlertListFilter represents filter options for the alert list
type AlertListFilter struct {
	Resolved  *bool      `form:"resolved"`
	AlertType string     `form:"alert_type" binding:"omitempty,oneof=low_stock out_of_stock"`
	ProductID *uuid.UUID `form:"product_id"`
	Page      int        `form:"page"`
	PageSize  int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// MovementResponse represents a ledger entry in API responses
type MovementResponse struct {
	ID             uuid.UUID       `json:"id"`
	ProductID      uuid.UUID       `json:"product_id"`
	MovementType   string          `json:"movement_type"`
	Reason         string          `json:"reason"`
	QuantityChange int             `json:"quantity_change"`
	QuantityBefore int             `json:"quantity_before"`
	QuantityAfter  int             `json:"quantity_after"`
	UnitCost       decimal.Decimal `json:"unit_cost"`
	Reference      string          `json:"reference,omitempty"`
	Note           string          `json:"note,omitempty"`
	PerformedBy    *uuid.UUID      `json:"performed_by,omitempty"`
	OccurredAt     time.Time       `json:"occurred_at"`
}

// ToMovementResponse converts a domain movement to a response DTO
func ToMovementResponse(m *inventory.StockMovement) MovementResponse {
	return MovementResponse{
		ID:             m.ID,
		ProductID:      m.ProductID,
		MovementType:   m.MovementType.String(),
		Reason:         m.Reason.String(),
		QuantityChange: m.QuantityChange,
		QuantityBefore: m.QuantityBefore,
		QuantityAfter:  m.QuantityAfter,
		UnitCost:       m.UnitCost,
		Reference:      m.Reference,
		Note:           m.Note,
		PerformedBy:    m.PerformedBy,
		OccurredAt:     m.OccurredAt,
	}
}

// AlertResponse represents a stock alert in API responses
type AlertResponse struct {
	ID         uuid.UUID  `json:"id"`
	ProductID  uuid.UUID  `json:"product_id"`
	AlertType  string     `json:"alert_type"`
	Message    string     `json:"message"`
	Resolved   bool       `json:"resolved"`
	ResolvedBy *uuid.UUID `json:"resolved_by,omitempty"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ToAlertResponse converts a domain alert to a response DTO
func ToAlertResponse(a *inventory.StockAlert) AlertResponse {
	return AlertResponse{
		ID:         a.ID,
		ProductID:  a.ProductID,
		AlertType:  a.AlertType.String(),
		Message:    a.Message,
		Resolved:   a.Resolved,
		ResolvedBy: a.ResolvedBy,
		ResolvedAt: a.ResolvedAt,
		CreatedAt:  a.CreatedAt,
	}
}

// ==================== Proforma DTOs ====================

// CreateProformaRequest represents a request to create a quote
type CreateProformaRequest struct {
	CustomerID *uuid.UUID      `json:"customer_id"`
	Items      []SaleItemInput `json:"items" binding:"required,min=1,dive"`
	Note       string          `json:"note" binding:"max=255"`
	ValidUntil *time.Time      `json:"valid_until"`
}

// AddProformaItemRequest represents a request to add a quote line
type AddProformaItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateProformaItemRequest represents a request to change a line quantity
type UpdateProformaItemRequest struct {
	Quantity int `json:"quantity" binding:"required,min=1"`
}

// ConvertProformaRequest represents a request to turn a quote into an order
type ConvertProformaRequest struct {
	PaymentMethod string `json:"payment_method" binding:"required,oneof=cash card mobile_money cheque"`
}

// ProformaListFilter represents filter options for the proforma list
type ProformaListFilter struct {
	Status     string     `form:"status" binding:"omitempty,oneof=draft converted cancelled expired"`
	CustomerID *uuid.UUID `form:"customer_id"`
	Search     string     `form:"search"`
	Page       int        `form:"page"`
	PageSize   int        `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// ProformaItemResponse represents a quote line in API responses
type ProformaItemResponse struct {
	ID              uuid.UUID       `json:"id"`
	ProductID       uuid.UUID       `json:"product_id"`
	ProductSKU      string          `json:"product_sku"`
	ProductName     string          `json:"product_name"`
	Quantity        int             `json:"quantity"`
	UnitPrice       decimal.Decimal `json:"unit_price"`
	DiscountPercent decimal.Decimal `json:"discount_percent"`
	TaxRate         decimal.Decimal `json:"tax_rate"`
	LineTotal       decimal.Decimal `json:"line_total"`
}

// ProformaResponse represents a proforma in API responses
type ProformaResponse struct {
	ID               uuid.UUID              `json:"id"`
	Number           string                 `json:"number"`
	CustomerID       *uuid.UUID             `json:"customer_id,omitempty"`
	CreatedBy        uuid.UUID              `json:"created_by"`
	Items            []ProformaItemResponse `json:"items"`
	Status           string                 `json:"status"`
	ValidUntil       time.Time              `json:"valid_until"`
	Subtotal         decimal.Decimal        `json:"subtotal"`
	DiscountAmount   decimal.Decimal        `json:"discount_amount"`
	TaxAmount        decimal.Decimal        `json:"tax_amount"`
	Total            decimal.Decimal        `json:"total"`
	Note             string                 `json:"note,omitempty"`
	ConvertedOrderID *uuid.UUID             `json:"converted_order_id,omitempty"`
	ConvertedAt      *time.Time             `json:"converted_at,omitempty"`
	CreatedAt        time.Time              `json:"created_at"`
}

// ToProformaResponse converts a domain proforma to a response DTO
func ToProformaResponse(p *sales.Proforma) ProformaResponse {
	items := make([]ProformaItemResponse, len(p.Items))
	for i, item := range p.Items {
		items[i] = ProformaItemResponse{
			ID:              item.ID,
			ProductID:       item.ProductID,
			ProductSKU:      item.ProductSKU,
			ProductName:     item.ProductName,
			Quantity:        item.Quantity,
			UnitPrice:       item.UnitPrice,
			DiscountPercent: item.DiscountPercent,
			TaxRate:         item.TaxRate,
			LineTotal:       item.LineTotal,
		}
	}

	return ProformaResponse{
		ID:               p.ID,
		Number:           p.Number,
		CustomerID:       p.CustomerID,
		CreatedBy:        p.CreatedBy,
		Items:            items,
		Status:           p.Status.String(),
		ValidUntil:       p.ValidUntil,
		Subtotal:         p.Subtotal,
		DiscountAmount:   p.DiscountAmount,
		TaxAmount:        p.TaxAmount,
		Total:            p.Total,
		Note:             p.Note,
		ConvertedOrderID: p.ConvertedOrderID,
		ConvertedAt:      p.ConvertedAt,
		CreatedAt:        p.CreatedAt,
	}
}
