package pos

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	supervisionapp "github.com/pos/backend/internal/application/supervision"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/shopspring/decimal"
)

// orderNumberAttempts bounds the retry loop on the rare collision of
// the random order number suffix
const orderNumberAttempts = 5

// SaleService handles checkout and cancellation. Every stock, register
// and customer side effect of a sale happens in one transaction with
// the order itself.
type SaleService struct {
	scope        TransactionScope
	orderRepo    sales.SalesOrderRepository
	settingsRepo supervision.SettingsRepository
	idempotency  shared.IdempotencyStore
	idemConfig   shared.IdempotencyConfig
}

// NewSaleService creates a new SaleService. idempotency may be nil, in
// which case duplicate submission detection is disabled.
func NewSaleService(
	scope TransactionScope,
	orderRepo sales.SalesOrderRepository,
	settingsRepo supervision.SettingsRepository,
	idempotency shared.IdempotencyStore,
) *SaleService {
	return &SaleService{
		scope:        scope,
		orderRepo:    orderRepo,
		settingsRepo: settingsRepo,
		idempotency:  idempotency,
		idemConfig:   shared.DefaultIdempotencyConfig(),
	}
}

type saleLine struct {
	product  *catalog.Product
	quantity int
}

// CreateSale runs a checkout: it requires an open register session for
// the cashier, debits stock, records ledger movements, updates the
// session totals and customer stats, and stores the completed order.
func (s *SaleService) CreateSale(ctx context.Context, cashierID uuid.UUID, req CreateSaleRequest) (*SaleResponse, error) {
	method := sales.PaymentMethod(req.PaymentMethod)
	if !method.IsValid() {
		return nil, shared.NewDomainError("VALIDATION_ERROR", "Invalid payment method")
	}

	keyMarked := false
	if s.idempotency != nil && s.idemConfig.Enabled && req.IdempotencyKey != "" {
		fresh, err := s.idempotency.MarkProcessed(ctx, "sale:"+req.IdempotencyKey, s.idemConfig.TTL)
		if err != nil {
			return nil, err
		}
		if !fresh {
			return nil, shared.NewDomainError("CONFLICT", "Checkout already submitted")
		}
		keyMarked = true
	}

	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var response SaleResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		session, err := repos.Registers().FindOpenByCashierForUpdate(ctx, cashierID)
		if err != nil {
			if err == shared.ErrNotFound {
				return shared.ErrNoOpenRegister
			}
			return err
		}

		check, err := supervision.CheckRequired(settings, supervision.OperationDiscount, req.DiscountPercent)
		if err != nil {
			return err
		}
		if check.Required {
			err = supervisionapp.ConsumeApproved(ctx, repos.Validations(), req.ValidationID, supervision.OperationDiscount,
				func(data supervision.PayloadData) bool {
					payload, ok := data.(supervision.DiscountPayload)
					return ok && payload.DiscountPercent.GreaterThanOrEqual(req.DiscountPercent)
				})
			if err != nil {
				return err
			}
		}

		orderNumber, err := nextOrderNumber(ctx, repos.Orders())
		if err != nil {
			return err
		}

		order, err := sales.NewSalesOrder(orderNumber, cashierID, req.CustomerID, &session.ID, method, sales.OrderSourcePOS)
		if err != nil {
			return err
		}

		lines := make([]saleLine, 0, len(req.Items))
		for _, item := range req.Items {
			product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}
			if !product.Active {
				return shared.NewDomainError("VALIDATION_ERROR", fmt.Sprintf("Product %s is not active", product.Name))
			}
			if !product.IsAvailable(item.Quantity) {
				return shared.NewDomainError("INSUFFICIENT_STOCK",
					fmt.Sprintf("Insufficient stock for %s: %d requested, %d available", product.Name, item.Quantity, product.CurrentStock))
			}

			if err := order.AddItem(product.ID, product.SKU, product.Name, item.Quantity,
				product.SellingPriceMoney(), product.DiscountPercent, product.TaxRate); err != nil {
				return err
			}
			lines = append(lines, saleLine{product: product, quantity: item.Quantity})
		}

		if err := order.Finalize(req.DiscountPercent, valueobject.NewMoneyHTG(req.AmountTendered), true); err != nil {
			return err
		}

		for _, line := range lines {
			movement, err := inventory.NewStockMovement(line.product.ID, inventory.MovementTypeOut,
				inventory.ReasonSale, -line.quantity, line.product.CurrentStock)
			if err != nil {
				return err
			}
			movement.WithUnitCost(line.product.PurchasePrice).
				WithReference(order.OrderNumber).
				WithPerformedBy(cashierID)

			if err := line.product.ApplyStockChange(-line.quantity); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, line.product); err != nil {
				return err
			}
			if err := repos.Movements().Save(ctx, movement); err != nil {
				return err
			}
			if err := syncStockAlerts(ctx, repos, line.product); err != nil {
				return err
			}
		}

		if err := session.AddSale(order.TotalMoney(), order.CashPortion()); err != nil {
			return err
		}
		if err := repos.Registers().Save(ctx, session); err != nil {
			return err
		}

		if req.CustomerID != nil {
			customer, err := repos.Customers().FindByID(ctx, *req.CustomerID)
			if err != nil {
				return err
			}
			if err := customer.RecordPurchase(order.TotalMoney()); err != nil {
				return err
			}
			if err := repos.Customers().Save(ctx, customer); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, order); err != nil {
			return err
		}

		response = ToSaleResponse(order)
		return nil
	})
	if err != nil {
		if keyMarked {
			// A failed checkout did not happen; the key must not block
			// a corrected resubmission for the rest of its TTL.
			_ = s.idempotency.Release(ctx, "sale:"+req.IdempotencyKey)
		}
		return nil, err
	}

	return &response, nil
}

// CancelSale cancels a completed sale, returning its quantities to
// stock and reversing the customer's purchase stats. Register session
// totals are not rewritten; the drawer keeps its history.
func (s *SaleService) CancelSale(ctx context.Context, orderID, userID uuid.UUID, req CancelSaleRequest) (*SaleResponse, error) {
	settings, err := s.settingsRepo.Get(ctx)
	if err != nil {
		return nil, err
	}

	var response SaleResponse
	err = s.scope.Execute(ctx, func(repos TransactionalRepositories) error {
		order, err := repos.Orders().FindByID(ctx, orderID)
		if err != nil {
			return err
		}

		check, err := supervision.CheckRequired(settings, supervision.OperationSaleCancel, decimal.Zero)
		if err != nil {
			return err
		}
		if check.Required {
			err = supervisionapp.ConsumeApproved(ctx, repos.Validations(), req.ValidationID, supervision.OperationSaleCancel,
				func(data supervision.PayloadData) bool {
					payload, ok := data.(supervision.SaleCancelPayload)
					return ok && payload.OrderID == orderID
				})
			if err != nil {
				return err
			}
		}

		wasSettled := order.PaymentStatus != sales.PaymentStatusUnpaid
		if err := order.Cancel(req.Reason); err != nil {
			return err
		}

		for _, item := range order.Items {
			product, err := repos.Products().FindByIDForUpdate(ctx, item.ProductID)
			if err != nil {
				return err
			}

			movement, err := inventory.NewStockMovement(product.ID, inventory.MovementTypeIn,
				inventory.ReasonSaleCancel, item.Quantity, product.CurrentStock)
			if err != nil {
				return err
			}
			movement.WithUnitCost(product.PurchasePrice).
				WithReference(order.OrderNumber).
				WithNote(req.Reason).
				WithPerformedBy(userID)

			if err := product.ApplyStockChange(item.Quantity); err != nil {
				return err
			}
			if err := repos.Products().Save(ctx, product); err != nil {
				return err
			}
			if err := repos.Movements().Save(ctx, movement); err != nil {
				return err
			}
		}

		if order.CustomerID != nil && wasSettled {
			customer, err := repos.Customers().FindByID(ctx, *order.CustomerID)
			if err != nil {
				return err
			}
			if err := customer.ReversePurchase(order.TotalMoney()); err != nil {
				return err
			}
			if err := repos.Customers().Save(ctx, customer); err != nil {
				return err
			}
		}

		if err := repos.Orders().Save(ctx, order); err != nil {
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

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	order, err := s.orderRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(order)
	return &response, nil
}

// GetByNumber retrieves a sale by its order number
func (s *SaleService) GetByNumber(ctx context.Context, orderNumber string) (*SaleResponse, error) {
	order, err := s.orderRepo.FindByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(order)
	return &response, nil
}

// List retrieves sales with filtering and pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
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
	if filter.Source != "" {
		domainFilter.Filters["source"] = filter.Source
	}
	if filter.CashierID != nil {
		domainFilter.Filters["cashier_id"] = *filter.CashierID
	}
	if filter.CustomerID != nil {
		domainFilter.Filters["customer_id"] = *filter.CustomerID
	}
	if filter.StartDate != nil {
		domainFilter.Filters["start_date"] = *filter.StartDate
	}
	if filter.EndDate != nil {
		domainFilter.Filters["end_date"] = *filter.EndDate
	}

	orders, err := s.orderRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.orderRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(orders))
	for i := range orders {
		responses[i] = ToSaleResponse(&orders[i])
	}
	return responses, total, nil
}

// nextOrderNumber generates an order number, retrying on the rare
// collision with an existing one
func nextOrderNumber(ctx context.Context, repo sales.SalesOrderRepository) (string, error) {
	for i := 0; i < orderNumberAttempts; i++ {
		number := sales.GenerateOrderNumber(time.Now())
		exists, err := repo.ExistsByNumber(ctx, number)
		if err != nil {
			return "", err
		}
		if !exists {
			return number, nil
		}
	}
	return "", shared.NewDomainError("CONFLICT", "Could not allocate a unique order number")
}
