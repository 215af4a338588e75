package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProformaService handles quotes: priced like orders, numbered per day,
// and convertible into a real sale exactly once while still valid.
type ProformaService struct {
	scope        TransactionScope
	proformaRepo sales.ProformaRepository
	productRepo  catalog.ProductRepository
}

// NewProformaService creates a new ProformaService
func NewProformaService(
	scope TransactionScope,
	proformaRepo sales.ProformaRepository,
	productRepo catalog.ProductRepository,
) *ProformaService {
	return &ProformaService{
		scope:        scope,
		proformaRepo: proformaRepo,
		productRepo:  productRepo,
	}
}

// Create creates a draft proforma with price snapshots taken now
func (s *ProformaService) Create(ctx context.Context, creatorID uuid.UUID, req CreateProformaRequest) (*ProformaResponse, error) {
	var response ProformaResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		number, err := nextProformaNumber(ctx, repos.Proformas(), time.Now())
		if err != nil {
			return err
		}

		proforma, err := sales.NewProforma(number, creatorID, req.CustomerID)
		if err != nil {
			return err
		}
		proforma.Note = req.Note

		for _, item := range req.Items {
			product, err := repos.Products().FindByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !product.Active {
				return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s is not active", product.Name))
			}
			if err := proforma.AddItem(product.ID, product.SKU, product.Name, item.Quantity,
				product.SellingPriceMoney(), product.DiscountPercent, product.TaxRate); err != nil {
				return err
			}
		}

		if req.ValidUntil != nil {
			if err := proforma.SetValidUntil(*req.ValidUntil); err != nil {
				return err
			}
		}

		if err := repos.Proformas().Save(ctx, proforma); err != nil {
			return err
		}

		response = ToProformaResponse(proforma)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// nextProformaNumber allocates the next slot in the daily proforma
// number sequence. The day's count is only a starting point: a
// concurrent create can commit the same slot first, so taken numbers
// are skipped instead of surfacing the unique index violation.
func nextProformaNumber(ctx context.Context, repo sales.ProformaRepository, now time.Time) (string, error) {
	created, err := repo.CountCreatedOn(ctx, now)
	if err != nil {
		return "", err
	}
	for i := 0; i < orderNumberAttempts; i++ {
		number := sales.FormatProformaNumber(now, int(created)+1+i)
		exists, err := repo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", shared.NewDomainError("CONFLICT", "Could not allocate a unique proforma number")
}

// AddItem adds a quote line to a draft proforma, snapshotting the
// product's current prices
func (s *ProformaService) AddItem(ctx context.Context, proformaID uuid.UUID, req AddProformaItemRequest) (*ProformaResponse, error) {
	proforma, err := s.proformaRepo.FindByID(ctx, proformaID)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.Active {
		return nil, shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s is not active", product.Name))
	}

	if err := proforma.AddItem(product.ID, product.SKU, product.Name, req.Quantity,
		product.SellingPriceMoney(), product.DiscountPercent, product.TaxRate); err != nil {
		return nil, err
	}
	if err := s.proformaRepo.Save(ctx, proforma); err != nil {
		return nil, err
	}

	response := ToProformaResponse(proforma)
	return &response, nil
}

// UpdateItemQuantity changes a quote line quantity on a draft proforma
func (s *ProformaService) UpdateItemQuantity(ctx context.Context, proformaID, itemID uuid.UUID, req UpdateProformaItemRequest) (*ProformaResponse, error) {
	proforma, err := s.proformaRepo.FindByID(ctx, proformaID)
	if err != nil {
		return nil, err
	}
	if err := proforma.UpdateItemQuantity(itemID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.proformaRepo.Save(ctx, proforma); err != nil {
		return nil, err
	}

	response := ToProformaResponse(proforma)
	return &response, nil
}

// RemoveItem removes a quote line from a draft proforma
func (s *ProformaService) RemoveItem(ctx context.Context, proformaID, itemID uuid.UUID) (*ProformaResponse, error) {
	proforma, err := s.proformaRepo.FindByID(ctx, proformaID)
	if err != nil {
		return nil, err
	}
	if err := proforma.RemoveItem(itemID); err != nil {
		return nil, err
	}
	if err := s.proformaRepo.Save(ctx, proforma); err != nil {
		return nil, err
	}

	response := ToProformaResponse(proforma)
	return &response, nil
}

// Cancel cancels a draft proforma
func (s *ProformaService) Cancel(ctx context.Context, proformaID uuid.UUID) (*ProformaResponse, error) {
	proforma, err := s.proformaRepo.FindByID(ctx, proformaID)
	if err != nil {
		return nil, err
	}
	if err := proforma.Cancel(); err != nil {
		return nil, err
	}
	if err := s.proformaRepo.Save(ctx, proforma); err != nil {
		return nil, err
	}

	response := ToProformaResponse(proforma)
	return &response, nil
}

// Convert turns a valid draft proforma into a completed, unpaid order
// at the quoted prices, debiting stock in the same transaction. The
// quote holds no stock, so availability is checked now, not at quote
// time.
func (s *ProformaService) Convert(ctx context.Context, proformaID, cashierID uuid.UUID, req ConvertProformaRequest) (*SaleResponse, error) {
	method := sales.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment method")
	}

	var response SaleResponse
	err := s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		proforma, err := repos.Proformas().FindByID(ctx, proformaID)
		if err != nil {
			return err
		}

		orderNumber, err := nextOrderNumber(ctx, repos.Orders())
		if err != nil {
			return err
		}

		order, err := sales.NewSalesOrder(orderNumber, cashierID, proforma.CustomerID, nil, method, sales.OrderSourceProforma)
		if err != nil {
			return err
		}

		// Fails fast on converted, cancelled or expired quotes before
		// any stock is touched
		if err := proforma.MarkConverted(order.ID); err != nil {
			return err
		}

		for _, item := range proforma.Items {
			product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !product.IsAvailable(item.Quantity) {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Insufficient stock for %s: %d requested, %d available", product.Name, item.Quantity, product.CurrentStock))
			}

			// Quoted prices, not current catalog prices
			if err := order.AddItem(item.ProductID, item.ProductSKU, item.ProductName, item.Quantity,
				valueobject.NewMoneyHTG(item.UnitPrice), item.DiscountPercent, item.TaxRate); err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(product.ID, inventory.MovementTypeOut,
				inventory.ReasonProformaConversion, -item.Quantity, product.CurrentStock)
			if err != nil {
				return err
			}
			movement.WithUnitCost(product.PurchasePrice).
				WithReference(order.OrderNumber).
				WithNote("Converted from "+proforma.Number).
				WithPerformedBy(cashierID)

			if err := product.ApplyStockChange(-item.Quantity); err != nil {
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
		}

		if err := order.Finalize(decimal.Zero, valueobject.ZeroHTG(), false); err != nil {
			return err
		}

		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}
		if err := repos.Proformas().Save(ctx, proforma); err != nil {
			return err
		}

		response = ToSaleResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &response, nil
}

// GetByID retrieves a proforma by ID
func (s *ProformaService) GetByID(ctx context.Context, id uuid.UUID) (*ProformaResponse, error) {
	proforma, err := s.proformaRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProformaResponse(proforma)
	return &response, nil
}

// List retrieves proformas with filtering and pagination
func (s *ProformaService) List(ctx context.Context, filter ProformaListFilter) ([]ProformaResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}

	proformas, err := s.proformaRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.proformaRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProformaResponse, len(proformas))
	for i := range proformas {
		responses[i] = ToProformaResponse(&proformas[i])
	}
	return responses, total, nil
}

// ExpireProformas sweeps past-deadline drafts into the expired state.
// Returns the number of proformas expired.
func (s *ProformaService) ExpireProformas(ctx context.Context) (int, error) {
	drafts, err := s.proformaRepo.FindExpiredDrafts(ctx, time.Now())
	if err != nil {
		return 0, err
	}

	expired := 0
	for i := range drafts {
		if err := drafts[i].Expire(); err != nil {
			continue
		}
		if err := s.proformaRepo.Save(ctx, &drafts[i]); err != nil {
			return expired, err
		}
		expired++
	}
	return expired, nil
}
