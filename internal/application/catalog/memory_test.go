package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/stretchr/testify/require"
)

type memProductRepo struct {
	items map[uuid.UUID]*catalog.Product
}

func newMemProductRepo() *memProductRepo {
	return &memProductRepo{items: make(map[uuid.UUID]*catalog.Product)}
}

func (r *memProductRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Product, error) {
	if p, ok := r.items[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	return r.FindByID(ctx, id)
}

func (r *memProductRepo) FindBySKU(_ context.Context, sku string) (*catalog.Product, error) {
	for _, p := range r.items {
		if p.SKU == sku {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProductRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Product, error) {
	out := make([]catalog.Product, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProductRepo) FindByCategory(_ context.Context, categoryID uuid.UUID, _ shared.Filter) ([]catalog.Product, error) {
	var out []catalog.Product
	for _, p := range r.items {
		if p.CategoryID != nil && *p.CategoryID == categoryID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProductRepo) Save(_ context.Context, product *catalog.Product) error {
	r.items[product.ID] = product
	return nil
}

func (r *memProductRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memProductRepo) Count(_ context.Context, filter shared.Filter) (int64, error) {
	if categoryID, ok := filter.Filters["category_id"].(uuid.UUID); ok {
		var count int64
		for _, p := range r.items {
			if p.CategoryID != nil && *p.CategoryID == categoryID {
				count++
			}
		}
		return count, nil
	}
	return int64(len(r.items)), nil
}

func (r *memProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, sku)
	if err == shared.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

type memCategoryRepo struct {
	items map[uuid.UUID]*catalog.Category
}

func newMemCategoryRepo() *memCategoryRepo {
	return &memCategoryRepo{items: make(map[uuid.UUID]*catalog.Category)}
}

func (r *memCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*catalog.Category, error) {
	if c, ok := r.items[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) FindByName(_ context.Context, name string) (*catalog.Category, error) {
	for _, c := range r.items {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCategoryRepo) FindAll(_ context.Context, _ shared.Filter) ([]catalog.Category, error) {
	out := make([]catalog.Category, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCategoryRepo) Save(_ context.Context, category *catalog.Category) error {
	r.items[category.ID] = category
	return nil
}

func (r *memCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memCategoryRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

type memMovementRepo struct {
	items []*inventory.StockMovement
}

func (r *memMovementRepo) Save(_ context.Context, movement *inventory.StockMovement) error {
	r.items = append(r.items, movement)
	return nil
}

func (r *memMovementRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockMovement, error) {
	for _, m := range r.items {
		if m.ID == id {
			return m, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.StockMovement, error) {
	out := make([]inventory.StockMovement, 0, len(r.items))
	for _, m := range r.items {
		out = append(out, *m)
	}
	return out, nil
}

func (r *memMovementRepo) FindByProduct(_ context.Context, productID uuid.UUID, _ shared.Filter) ([]inventory.StockMovement, error) {
	var out []inventory.StockMovement
	for _, m := range r.items {
		if m.ProductID == productID {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (r *memMovementRepo) FindLatestByProduct(_ context.Context, productID uuid.UUID) (*inventory.StockMovement, error) {
	for i := len(r.items) - 1; i >= 0; i-- {
		if r.items[i].ProductID == productID {
			return r.items[i], nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memMovementRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

type memValidationRepo struct {
	items map[uuid.UUID]*supervision.Validation
}

func newMemValidationRepo() *memValidationRepo {
	return &memValidationRepo{items: make(map[uuid.UUID]*supervision.Validation)}
}

func (r *memValidationRepo) FindByID(_ context.Context, id uuid.UUID) (*supervision.Validation, error) {
	if v, ok := r.items[id]; ok {
		return v, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memValidationRepo) FindAll(_ context.Context, _ shared.Filter) ([]supervision.Validation, error) {
	out := make([]supervision.Validation, 0, len(r.items))
	for _, v := range r.items {
		out = append(out, *v)
	}
	return out, nil
}

func (r *memValidationRepo) Save(_ context.Context, validation *supervision.Validation) error {
	r.items[validation.ID] = validation
	return nil
}

func (r *memValidationRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

type memGateSettingsRepo struct {
	settings *supervision.Settings
}

func (r *memGateSettingsRepo) Get(_ context.Context) (*supervision.Settings, error) {
	return r.settings, nil
}

func (r *memGateSettingsRepo) Save(_ context.Context, settings *supervision.Settings) error {
	r.settings = settings
	return nil
}

type fixture struct {
	products     *memProductRepo
	categories   *memCategoryRepo
	movements    *memMovementRepo
	validations  *memValidationRepo
	gateSettings *memGateSettingsRepo
}

func newFixture() *fixture {
	return &fixture{
		products:     newMemProductRepo(),
		categories:   newMemCategoryRepo(),
		movements:    &memMovementRepo{},
		validations:  newMemValidationRepo(),
		gateSettings: &memGateSettingsRepo{settings: supervision.DefaultSettings()},
	}
}

func (f *fixture) productService() *ProductService {
	return NewProductService(f.products, f.categories, f.movements, f.validations, f.gateSettings)
}

func (f *fixture) categoryService() *CategoryService {
	return NewCategoryService(f.categories, f.products)
}

func (f *fixture) seedCategory(t *testing.T, name string) *catalog.Category {
	t.Helper()
	category, err := catalog.NewCategory(name, "")
	require.NoError(t, err)
	require.NoError(t, f.categories.Save(context.Background(), category))
	return category
}

func (f *fixture) seedProduct(t *testing.T, sku string, sellingPrice float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, "Product "+sku,
		valueobject.NewMoneyHTGFromFloat(sellingPrice/2), valueobject.NewMoneyHTGFromFloat(sellingPrice))
	require.NoError(t, err)
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

func (f *fixture) approvedValidation(t *testing.T, data supervision.PayloadData) *supervision.Validation {
	t.Helper()
	validation, err := supervision.NewValidation(uuid.New(), "override", "10.0.0.1", supervision.NewPayload(data))
	require.NoError(t, err)
	require.NoError(t, validation.Approve(uuid.New(), "ok", "10.0.0.9"))
	require.NoError(t, f.validations.Save(context.Background(), validation))
	return validation
}
