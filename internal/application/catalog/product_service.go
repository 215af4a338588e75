package catalog

import (
	"context"

	"github.com/google/uuid"
	supervisionapp "github.com/pos/backend/internal/application/supervision"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/shopspring/decimal"
)

// ProductService handles catalog management. Price changes and
// deletions are gated behind supervisor approval.
type ProductService struct {
	productRepo      catalog.ProductRepository
	categoryRepo     catalog.CategoryRepository
	movementRepo     inventory.StockMovementRepository
	validationRepo   supervision.ValidationRepository
	gateSettingsRepo supervision.SettingsRepository
}

// NewProductService creates a new ProductService
func NewProductService(
	productRepo catalog.ProductRepository,
	categoryRepo catalog.CategoryRepository,
	movementRepo inventory.StockMovementRepository,
	validationRepo supervision.ValidationRepository,
	gateSettingsRepo supervision.SettingsRepository,
) *ProductService {
	return &ProductService{
		productRepo:      productRepo,
		categoryRepo:     categoryRepo,
		movementRepo:     movementRepo,
		validationRepo:   validationRepo,
		gateSettingsRepo: gateSettingsRepo,
	}
}

// Create creates a product. A non-zero initial stock is recorded as the
// product's first ledger movement.
func (s *ProductService) Create(ctx context.Context, userID uuid.UUID, req CreateProductRequest) (*ProductResponse, error) {
	exists, err := s.productRepo.ExistsBySKU(ctx, req.SKU)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "A product with this SKU already exists")
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	product, err := catalog.NewProduct(req.SKU, req.Name,
		valueobject.NewMoneyHTG(req.PurchasePrice), valueobject.NewMoneyHTG(req.SellingPrice))
	if err != nil {
		return nil, err
	}
	product.Description = req.Description
	product.SetCategory(req.CategoryID)
	if err := product.SetDiscount(req.DiscountPercent); err != nil {
		return nil, err
	}
	if err := product.SetTaxRate(req.TaxRate); err != nil {
		return nil, err
	}
	if err := product.SetStockThresholds(req.MinStock, req.MaxStock); err != nil {
		return nil, err
	}

	var movement *inventory.StockMovement
	if req.InitialStock > 0 {
		movement, err = inventory.NewStockMovement(product.ID, inventory.MovementTypeIn,
			inventory.ReasonInitial, req.InitialStock, 0)
		if err != nil {
			return nil, err
		}
		movement.WithUnitCost(product.PurchasePrice).WithPerformedBy(userID)
		if err := product.ApplyStockChange(req.InitialStock); err != nil {
			return nil, err
		}
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}
	if movement != nil {
		if err := s.movementRepo.Save(ctx, movement); err != nil {
			return nil, err
		}
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Update updates product details other than prices and stock
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.CategoryID != nil {
		if _, err := s.categoryRepo.FindByID(ctx, *req.CategoryID); err != nil {
			return nil, err
		}
	}

	if err := product.Update(req.Name, req.Description); err != nil {
		return nil, err
	}
	product.SetCategory(req.CategoryID)
	if err := product.SetDiscount(req.DiscountPercent); err != nil {
		return nil, err
	}
	if err := product.SetTaxRate(req.TaxRate); err != nil {
		return nil, err
	}
	if err := product.SetStockThresholds(req.MinStock, req.MaxStock); err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// ChangePrices updates a product's prices. A change to the selling
// price needs a consumed supervisor approval when the gate is on.
func (s *ProductService) ChangePrices(ctx context.Context, id uuid.UUID, req ChangePriceRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !product.SellingPrice.Equal(req.SellingPrice) {
		gateSettings, err := s.gateSettingsRepo.Get(ctx)
		if err != nil {
			return nil, err
		}
		check, err := supervision.CheckRequired(gateSettings, supervision.OperationPriceChange, decimal.Zero)
		if err != nil {
			return nil, err
		}
		if check.Required {
			err = supervisionapp.ConsumeApproved(ctx, s.validationRepo, req.ValidationID, supervision.OperationPriceChange,
				func(data supervision.PayloadData) bool {
					payload, ok := data.(supervision.PriceChangePayload)
					return ok && payload.ProductID == id && payload.NewPrice.Equal(req.SellingPrice)
				})
			if err != nil {
				return nil, err
			}
		}
	}

	if err := product.SetPrices(valueobject.NewMoneyHTG(req.PurchasePrice), valueobject.NewMoneyHTG(req.SellingPrice)); err != nil {
		return nil, err
	}
	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog. Deletion is gated behind
// supervisor approval when the gate is on.
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID, req DeleteProductRequest) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}

	gateSettings, err := s.gateSettingsRepo.Get(ctx)
	if err != nil {
		return err
	}
	check, err := supervision.CheckRequired(gateSettings, supervision.OperationProductDelete, decimal.Zero)
	if err != nil {
		return err
	}
	if check.Required {
		err = supervisionapp.ConsumeApproved(ctx, s.validationRepo, req.ValidationID, supervision.OperationProductDelete,
			func(data supervision.PayloadData) bool {
				payload, ok := data.(supervision.ProductDeletePayload)
				return ok && payload.ProductID == id
			})
		if err != nil {
			return err
		}
	}

	return s.productRepo.Delete(ctx, id)
}

// Activate puts a product back on sale
func (s *ProductService) Activate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.toggleActive(ctx, id, true)
}

// Deactivate takes a product off sale without deleting it
func (s *ProductService) Deactivate(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	return s.toggleActive(ctx, id, false)
}

func (s *ProductService) toggleActive(ctx context.Context, id uuid.UUID, active bool) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if active {
		err = product.Activate()
	} else {
		err = product.Deactivate()
	}
	if err != nil {
		return nil, err
	}

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetBySKU retrieves a product by SKU, the till's scan path
func (s *ProductService) GetBySKU(ctx context.Context, sku string) (*ProductResponse, error) {
	product, err := s.productRepo.FindBySKU(ctx, sku)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	domainFilter.Search = filter.Search
	if filter.CategoryID != nil {
		domainFilter.Filters["category_id"] = *filter.CategoryID
	}
	if filter.Active != nil {
		domainFilter.Filters["active"] = *filter.Active
	}
	if filter.StockStatus != "" {
		domainFilter.Filters["stock_status"] = filter.StockStatus
	}

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}
