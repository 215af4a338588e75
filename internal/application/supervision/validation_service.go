package supervision

import (
	"context"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/identity"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/supervision"
)

// ValidationService handles the supervisor override workflow: a blocked
// cashier opens a request, a supervisor steps up with their own
// credentials, and the approval is spent by exactly one operation.
type ValidationService struct {
	validationRepo supervision.ValidationRepository
	settingsRepo   supervision.SettingsRepository
	userRepo       identity.UserRepository
}

// NewValidationService creates a new ValidationService
func NewValidationService(
	validationRepo supervision.ValidationRepository,
	settingsRepo supervision.SettingsRepository,
	userRepo identity.UserRepository,
) *ValidationService {
	return &ValidationService{
		validationRepo: validationRepo,
		settingsRepo:   settingsRepo,
		userRepo:       userRepo,
	}
}

// Request opens a pending validation for a gated operation
func (s *ValidationService) Request(ctx context.Context, requesterID uuid.UUID, ip string, req CreateValidationRequest) (*ValidationResponse, error) {
	validation, err := supervision.NewValidation(requesterID, req.Description, ip, req.Operation)
	if err != nil {
		return nil, err
	}

	if err := s.validationRepo.Save(ctx, validation); err != nil {
		return nil, err
	}

	response := ToValidationResponse(validation)
	return &response, nil
}

// Decide approves or rejects a pending validation. The supervisor
// authenticates inline; cashiers cannot decide their own requests
// because their role fails the CanValidate check.
func (s *ValidationService) Decide(ctx context.Context, validationID uuid.UUID, ip string, req DecideValidationRequest) (*ValidationResponse, error) {
	supervisor, err := s.userRepo.FindByUsername(ctx, req.Username)
	if err != nil {
		if err == shared.ErrNotFound {
			return nil, shared.ErrInvalidCredentials
		}
		return nil, err
	}
	if !supervisor.Active || !supervisor.VerifyPassword(req.Password) {
		return nil, shared.ErrInvalidCredentials
	}
	if !supervisor.Role.CanValidate() {
		return nil, shared.ErrUnauthorized
	}

	validation, err := s.validationRepo.FindByID(ctx, validationID)
	if err != nil {
		return nil, err
	}

	switch req.Action {
	case "approve":
		err = validation.Approve(supervisor.ID, req.Notes, ip)
	case "reject":
		err = validation.Reject(supervisor.ID, req.Notes, ip)
	default:
		err = shared.NewDomainError("VALIDATION_ERROR", "Action must be approve or reject")
	}
	if err != nil {
		return nil, err
	}

	if err := s.validationRepo.Save(ctx, validation); err != nil {
		return nil, err
	}

	response := ToValidationResponse(validation)
	return &response, nil
}

// GetByID retrieves a validation by ID
func (s *ValidationService) GetByID(ctx context.Context, id uuid.UUID) (*ValidationResponse, error) {
	validation, err := s.validationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToValidationResponse(validation)
	return &response, nil
}

// List retrieves validations with filtering and pagination
func (s *ValidationService) List(ctx context.Context, filter ValidationListFilter) ([]ValidationResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.OperationType != "" {
		domainFilter.Filters["operation_type"] = filter.OperationType
	}
	if filter.RequestedBy != "" {
		requestedBy, err := uuid.Parse(filter.RequestedBy)
		if err != nil {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid requester ID")
		}
		domainFilter.Filters["requested_by"] = requestedBy
	}

	validations, err := s.validationRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.validationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ValidationResponse, len(validations))
	for i := range validations {
		responses[i] = ToValidationResponse(&validations[i])
	}
	return responses, total, nil
}

// Check reports whether an operation would need supervisor approval
// under the current settings
func (s *ValidationService) Check(ctx context.Context, req CheckRequest) (*CheckResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	result, err := supervision.CheckRequired(settings, supervision.OperationType(req.OperationType), req.Value)
	if err != nil {
		return nil, err
	}

	return &CheckResponse{Required: result.Required, Threshold: result.Threshold}, nil
}

// GetSettings retrieves the gate settings
func (s *ValidationService) GetSettings(ctx context.Context) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}
	response := ToSettingsResponse(settings)
	return &response, nil
}

// UpdateSettings changes the gate thresholds and flags
func (s *ValidationService) UpdateSettings(ctx context.Context, req UpdateSettingsRequest) (*SettingsResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	if err := settings.Update(
		req.DiscountThreshold,
		req.CashDifferenceThreshold,
		req.StockAdjustThreshold,
		req.RequireSaleCancel,
		req.RequirePriceChange,
		req.RequireRefund,
		req.RequireProductDelete,
	); err != nil {
		return nil, err
	}

	if err := s.settingsRepo.Save(ctx, settings); err != nil {
		return nil, err
	}

	response := ToSettingsResponse(settings)
	return &response, nil
}

// ConsumeApproved spends an approved validation on the operation it was
// requested for. Callers pass a match function to pin the approval to
// the exact entity being acted on; a nil match only checks the type.
// Any failure surfaces as VALIDATION_REQUIRED so the till restarts the
// override flow instead of leaking state details.
func ConsumeApproved(
	ctx context.Context,
	repo supervision.ValidationRepository,
	validationID *uuid.UUID,
	opType supervision.OperationType,
	match func(data supervision.PayloadData) bool,
) error {
	if validationID == nil {
		return shared.ErrValidationRequired
	}

	validation, err := repo.FindByID(ctx, *validationID)
	if err != nil {
		if err == shared.ErrNotFound {
			return shared.ErrValidationRequired
		}
		return err
	}

	if match != nil && !match(validation.OperationData.Data) {
		return shared.ErrValidationRequired
	}
	if err := validation.Consume(opType); err != nil {
		return err
	}

	return repo.Save(ctx, validation)
}
