package supervision

import (
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/shared"
)

// OperationType identifies the gated operation a validation covers
type OperationType string

const (
	OperationDiscount      OperationType = "discount"
	OperationCashClose     OperationType = "cash_close"
	OperationStockAdjust   OperationType = "stock_adjust"
	OperationSaleCancel    OperationType = "sale_cancel"
	OperationPriceChange   OperationType = "price_change"
	OperationRefund        OperationType = "refund"
	OperationProductDelete OperationType = "product_delete"
)

// String returns the string representation of OperationType
func (t OperationType) String() string {
	return string(t)
}

// IsValid returns true if the operation type is valid
func (t OperationType) IsValid() bool {
	switch t {
	case OperationDiscount, OperationCashClose, OperationStockAdjust,
		OperationSaleCancel, OperationPriceChange, OperationRefund,
		OperationProductDelete:
		return true
	}
	return false
}

// ValidationStatus represents the decision state of a validation
type ValidationStatus string

const (
	ValidationStatusPending  ValidationStatus = "pending"
	ValidationStatusApproved ValidationStatus = "approved"
	ValidationStatusRejected ValidationStatus = "rejected"
)

// Validation is the audit record of one supervisor override request.
// Decisions are one-way: pending becomes approved or rejected, and an
// approved validation is consumed by exactly one gated operation.
type Validation struct {
	shared.BaseAggregateRoot
	RequestedBy   uuid.UUID        `gorm:"type:uuid;not null;index"`
	OperationType OperationType    `gorm:"type:varchar(30);not null;index"`
	Description   string           `gorm:"type:varchar(255);not null"`
	OperationData Payload          `gorm:"type:jsonb"`
	RequestedIP   string           `gorm:"type:varchar(45)"`
	Status        ValidationStatus `gorm:"type:varchar(10);not null;default:'pending';index"`
	ValidatedBy   *uuid.UUID       `gorm:"type:uuid"`
	ValidatedIP   string           `gorm:"type:varchar(45)"`
	Notes         string           `gorm:"type:varchar(255)"`
	Consumed      bool             `gorm:"not null;default:false"`
	ValidatedAt   *time.Time       `gorm:"type:timestamptz"`
}

// TableName returns the table name for GORM
func (Validation) TableName() string {
	return "supervisor_validations"
}

// NewValidation creates a pending validation request
func NewValidation(requestedBy uuid.UUID, description, requestedIP string, payload Payload) (*Validation, error) {
	if requestedBy == uuid.Nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Requester ID cannot be empty")
	}
	if description == "" {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Operation description cannot be empty")
	}
	if payload.Data == nil {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Operation data cannot be empty")
	}
	if !payload.Type().IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid operation type")
	}

	return &Validation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		RequestedBy:       requestedBy,
		OperationType:     payload.Type(),
		Description:       description,
		OperationData:     payload,
		RequestedIP:       requestedIP,
		Status:            ValidationStatusPending,
	}, nil
}

// Approve records a supervisor's approval
func (v *Validation) Approve(supervisorID uuid.UUID, notes, ip string) error {
	if v.Status != ValidationStatusPending {
		return shared.ErrAlreadyResolved
	}

	now := time.Now()
	v.Status = ValidationStatusApproved
	v.ValidatedBy = &supervisorID
	v.ValidatedIP = ip
	v.Notes = notes
	v.ValidatedAt = &now
	v.UpdatedAt = now
	v.IncrementVersion()

	return nil
}

// Reject records a supervisor's refusal
func (v *Validation) Reject(supervisorID uuid.UUID, notes, ip string) error {
	if v.Status != ValidationStatusPending {
		return shared.ErrAlreadyResolved
	}

	now := time.Now()
	v.Status = ValidationStatusRejected
	v.ValidatedBy = &supervisorID
	v.ValidatedIP = ip
	v.Notes = notes
	v.ValidatedAt = &now
	v.UpdatedAt = now
	v.IncrementVersion()

	return nil
}

// Consume spends an approved validation on its gated operation.
// A validation authorizes one execution only.
func (v *Validation) Consume(opType OperationType) error {
	if v.Status != ValidationStatusApproved || v.Consumed {
		return shared.ErrValidationRequired
	}
	if v.OperationType != opType {
		return shared.ErrValidationRequired
	}

	v.Consumed = true
	v.UpdatedAt = time.Now()
	v.IncrementVersion()

	return nil
}

// IsPending returns true if the validation awaits a decision
func (v *Validation) IsPending() bool {
	return v.Status == ValidationStatusPending
}

// IsApproved returns true if the validation was approved
func (v *Validation) IsApproved() bool {
	return v.Status == ValidationStatusApproved
}
