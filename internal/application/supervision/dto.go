package supervision

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/shopspring/decimal"
)

// CreateValidationRequest represents a request to open a supervisor validation
type CreateValidationRequest struct {
	Description string              `json:"description" binding:"required,min=1,max=255"`
	Operation   supervision.Payload `json:"operation" binding:"required"`
}

// DecideValidationRequest carries a supervisor's decision together with
// their credentials. The supervisor re-authenticates on the cashier's
// terminal, so the decision never rides on the cashier's session.
type DecideValidationRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
	Action   string `json:"action" binding:"required,oneof=approve reject"`
	Notes    string `json:"notes" binding:"max=255"`
}

// CheckRequest asks whether an operation needs supervisor approval.
// Value is the magnitude the threshold applies to: discount percent,
// drawer difference as a percentage of the expected balance, or stock
// delta in units.
type CheckRequest struct {
	OperationType string          `json:"operation_type" form:"operation_type" binding:"required"`
	Value         decimal.Decimal `json:"value" form:"value"`
}

// ValidationListFilter represents filter options for the validation list
type ValidationListFilter struct {
	Status        string `form:"status" binding:"omitempty,oneof=pending approved rejected"`
	OperationType string `form:"operation_type"`
	RequestedBy   string `form:"requested_by"`
	Page          int    `form:"page"`
	PageSize      int    `form:"page_size" binding:"omitempty,min=1,max=100"`
}

// UpdateSettingsRequest represents a request to change the gate thresholds
type UpdateSettingsRequest struct {
	DiscountThreshold       decimal.Decimal `json:"discount_threshold"`
	CashDifferenceThreshold decimal.Decimal `json:"cash_difference_threshold"`
	StockAdjustThreshold    int             `json:"stock_adjust_threshold"`
	RequireSaleCancel       bool            `json:"require_sale_cancel"`
	RequirePriceChange      bool            `json:"require_price_change"`
	RequireRefund           bool            `json:"require_refund"`
	RequireProductDelete    bool            `json:"require_product_delete"`
}

// ValidationResponse represents a validation in API responses
type ValidationResponse struct {
	ID            uuid.UUID           `json:"id"`
	RequestedBy   uuid.UUID           `json:"requested_by"`
	OperationType string              `json:"operation_type"`
	Description   string              `json:"description"`
	Operation     supervision.Payload `json:"operation"`
	Status        string              `json:"status"`
	ValidatedBy   *uuid.UUID          `json:"validated_by,omitempty"`
	Notes         string              `json:"notes,omitempty"`
	Consumed      bool                `json:"consumed"`
	ValidatedAt   *time.Time          `json:"validated_at,omitempty"`
	CreatedAt     time.Time           `json:"created_at"`
}

// CheckResponse tells the till whether to start the validation flow
type CheckResponse struct {
	Required  bool            `json:"required"`
	Threshold decimal.Decimal `json:"threshold"`
}

// SettingsResponse represents the gate settings in API responses
type SettingsResponse struct {
	DiscountThreshold       decimal.Decimal `json:"discount_threshold"`
	CashDifferenceThreshold decimal.Decimal `json:"cash_difference_threshold"`
	StockAdjustThreshold    int             `json:"stock_adjust_threshold"`
	RequireSaleCancel       bool            `json:"require_sale_cancel"`
	RequirePriceChange      bool            `json:"require_price_change"`
	RequireRefund           bool            `json:"require_refund"`
	RequireProductDelete    bool            `json:"require_product_delete"`
	UpdatedAt               time.Time       `json:"updated_at"`
}

// ToValidationResponse converts a domain validation to a response DTO
func ToValidationResponse(v *supervision.Validation) ValidationResponse {
	return ValidationResponse{
		ID:            v.ID,
		RequestedBy:   v.RequestedBy,
		OperationType: v.OperationType.String(),
		Description:   v.Description,
		Operation:     v.OperationData,
		Status:        string(v.Status),
		ValidatedBy:   v.ValidatedBy,
		Notes:         v.Notes,
		Consumed:      v.Consumed,
		ValidatedAt:   v.ValidatedAt,
		CreatedAt:     v.CreatedAt,
	}
}

// ToSettingsResponse converts domain settings to a response DTO
func ToSettingsResponse(s *supervision.Settings) SettingsResponse {
	return SettingsResponse{
		DiscountThreshold:       s.DiscountThreshold,
		CashDifferenceThreshold: s.CashDifferenceThreshold,
		StockAdjustThreshold:    s.StockAdjustThreshold,
		RequireSaleCancel:       s.RequireSaleCancel,
		RequirePriceChange:      s.RequirePriceChange,
		RequireRefund:           s.RequireRefund,
		RequireProductDelete:    s.RequireProductDelete,
		UpdatedAt:               s.UpdatedAt,
	}
}
