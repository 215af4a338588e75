package pos

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	supervisionapp "github.com/pos/backend/internal/application/supervision"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/shopspring/decimal"
)

// StockService handles manual stock corrections and the read side of
// the movement ledger and alert list
type StockService struct {
	scope            TransactionScope
	movementRepo     inventory.StockMovementRepository
	alertRepo        inventory.StockAlertRepository
	gateSettingsRepo supervision.SettingsRepository
}

// NewStockService creates a new StockService
func NewStockService(
	scope TransactionScope,
	movementRepo inventory.StockMovementRepository,
	alertRepo inventory.StockAlertRepository,
	gateSettingsRepo supervision.SettingsRepository,
) *StockService {
	return &StockService{
		scope:            scope,
		movementRepo:     movementRepo,
		alertRepo:        alertRepo,
		gateSettingsRepo: gateSettingsRepo,
	}
}

// AdjustStock corrects a product's stock to a counted quantity. The
// correction is recorded as an adjustment movement; a delta beyond the
// threshold needs a consumed supervisor approval.
func (s *StockService) AdjustStock(ctx context.Context, productID, userID uuid.UUID, req AdjustStockRequest) (*MovementResponse, error) {
	reason, err := correctionReason(req.Reason)
	if err != nil {
		return nil, err
	}

	gateSettings, err := s.gateSettingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var response MovementResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		product, err := repos.Products().FindByIDForUpdate(ctx, productID)
		if err != nil {
			return err
		}

		delta := req.NewQuantity - product.CurrentStock
		if delta == 0 {
			return shared.NewDomainError("VALIDATION_ERROR",
				fmt.Sprintf("Counted quantity equals current stock (%d)", product.CurrentStock))
		}

		check, err := supervision.CheckRequired(gateSettings, supervision.OperationStockAdjust, decimal.NewFromInt(int64(delta)))
		if err != nil {
			return err
		}
		if check.Required {
			err = supervisionapp.ConsumeApproved(ctx, repos.Validations(), req.ValidationID, supervision.OperationStockAdjust,
				func(data supervision.PayloadData) bool {
					payload, ok := data.(supervision.StockAdjustPayload)
					return ok && payload.ProductID == productID && payload.Delta == delta
				})
			if err != nil {
				return err
			}
		}

		movement, err := inventory.NewStockMovement(productID, inventory.MovementTypeAdjust,
			reason, delta, product.CurrentStock)
		if err != nil {
			return err
		}
		movement.WithUnitCost(product.PurchasePrice).
			WithNote(req.Note).
			WithPerformedBy(userID)

		if err := product.ApplyStockChange(delta); err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return err
		}
		if err := repos.Movements().Save(ctx, movement); err != nil {
			return err
		}
		if err := syncStockAlerts(ctx, repos, product); err != nil {
			return err
		}

		response = ToMovementResponse(movement)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// correctionReason maps the requested label to a ledger reason. Only
// labels describing a manual correction are accepted here; sale and
// purchase reasons are written by their own flows.
func correctionReason(raw string) (inventory.MovementReason, error) {
	if raw == "" {
		return inventory.ReasonAdjustment, nil
	}
	reason := inventory.MovementReason(raw)
	switch reason {
	case inventory.ReasonAdjustment, inventory.ReasonDamage,
		inventory.ReasonTransfer, inventory.ReasonReturn:
		return reason, nil
	}
	return "", shared.NewDomainError("VALIDATION_ERROR", "Invalid adjustment reason")
}

// ListMovements retrieves ledger entries with filtering and pagination
func (s *StockService) ListMovements(ctx context.Context, filter MovementListFilter) ([]MovementResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "occurred_at"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}
	if filter.Reason != "" {
		if !inventory.MovementReason(filter.Reason).IsValid() {
			return nil, 0, shared.NewDomainError("VALIDATION_ERROR", "Invalid movement reason")
		}
		domainFilter.Filters["reason"] = filter.Reason
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	movements, err := s.movementRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.movementRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses, total, nil
}

// ProductHistory retrieves the ledger for one product, newest first
func (s *StockService) ProductHistory(ctx context.Context, productID uuid.UUID, filter MovementListFilter) ([]MovementResponse, error) {
	domainFilter := shared.DefaultFilter()
	domainFilter.OrderBy = "occurred_at"
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}

	movements, err := s.movementRepo.FindByProduct(ctx, productID, domainFilter)
	if err != nil {
		return nil, err
	}

	responses := make([]MovementResponse, len(movements))
	for i := range movements {
		responses[i] = ToMovementResponse(&movements[i])
	}
	return responses, nil
}

// ListAlerts retrieves stock alerts with filtering and pagination
func (s *StockService) ListAlerts(ctx context.Context, filter AlertListFilter) ([]AlertResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.Resolved != nil {
		domainFilter.Filters["resolved"] = *filter.Resolved
	}
	if filter.AlertType != "" {
		domainFilter.Filters["alert_type"] = filter.AlertType
	}
	if filter.ProductID != nil {
		domainFilter.Filters["product_id"] = *filter.ProductID
	}

	alerts, err := s.alertRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.alertRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]AlertResponse, len(alerts))
	for i := range alerts {
		responses[i] = ToAlertResponse(&alerts[i])
	}
	return responses, total, nil
}

// ResolveAlert marks an alert as handled by the given user
func (s *StockService) ResolveAlert(ctx context.Context, alertID, userID uuid.UUID) (*AlertResponse, error) {
	alert, err := s.alertRepo.FindByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if err := alert.Resolve(userID); err != nil {
		return nil, err
	}
	if err := s.alertRepo.Save(ctx, alert); err != nil {
		return nil, err
	}

	response := ToAlertResponse(alert)
	return &response, nil
}
