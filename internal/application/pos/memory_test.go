package pos

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/catalog"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/partner"
	"github.com/pos/backend/internal/domain/register"
	"github.com/pos/backend/internal/domain/sales"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// In-memory repository fakes. They ignore pagination and most filters;
// the service tests exercise orchestration, not query building.

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

func (r *memProductRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memProductRepo) ExistsBySKU(ctx context.Context, sku string) (bool, error) {
	_, err := r.FindBySKU(ctx, sku)
	if err == shared.ErrNotFound {
		return false, nil
	}
	return err == nil, err
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

func (r *memMovementRepo) byProduct(productID uuid.UUID) []*inventory.StockMovement {
	var out []*inventory.StockMovement
	for _, m := range r.items {
		if m.ProductID == productID {
			out = append(out, m)
		}
	}
	return out
}

type memAlertRepo struct {
	items map[uuid.UUID]*inventory.StockAlert
}

func newMemAlertRepo() *memAlertRepo {
	return &memAlertRepo{items: make(map[uuid.UUID]*inventory.StockAlert)}
}

func (r *memAlertRepo) Save(_ context.Context, alert *inventory.StockAlert) error {
	r.items[alert.ID] = alert
	return nil
}

func (r *memAlertRepo) FindByID(_ context.Context, id uuid.UUID) (*inventory.StockAlert, error) {
	if a, ok := r.items[id]; ok {
		return a, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memAlertRepo) FindUnresolved(_ context.Context, productID uuid.UUID, alertType inventory.AlertType) (*inventory.StockAlert, error) {
	for _, a := range r.items {
		if a.ProductID == productID && a.AlertType == alertType && !a.Resolved {
			return a, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memAlertRepo) FindAll(_ context.Context, _ shared.Filter) ([]inventory.StockAlert, error) {
	out := make([]inventory.StockAlert, 0, len(r.items))
	for _, a := range r.items {
		out = append(out, *a)
	}
	return out, nil
}

func (r *memAlertRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

type memRegisterRepo struct {
	items map[uuid.UUID]*register.CashRegister
}

func newMemRegisterRepo() *memRegisterRepo {
	return &memRegisterRepo{items: make(map[uuid.UUID]*register.CashRegister)}
}

func (r *memRegisterRepo) FindByID(_ context.Context, id uuid.UUID) (*register.CashRegister, error) {
	if s, ok := r.items[id]; ok {
		return s, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memRegisterRepo) FindOpenByCashier(_ context.Context, cashierID uuid.UUID) (*register.CashRegister, error) {
	for _, s := range r.items {
		if s.CashierID == cashierID && s.IsOpen() {
			return s, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memRegisterRepo) FindOpenByCashierForUpdate(ctx context.Context, cashierID uuid.UUID) (*register.CashRegister, error) {
	return r.FindOpenByCashier(ctx, cashierID)
}

func (r *memRegisterRepo) FindAll(_ context.Context, _ shared.Filter) ([]register.CashRegister, error) {
	out := make([]register.CashRegister, 0, len(r.items))
	for _, s := range r.items {
		out = append(out, *s)
	}
	return out, nil
}

func (r *memRegisterRepo) CountOpenedOn(_ context.Context, day time.Time) (int64, error) {
	var count int64
	for _, s := range r.items {
		if s.OpenedAt.Year() == day.Year() && s.OpenedAt.YearDay() == day.YearDay() {
			count++
		}
	}
	return count, nil
}

func (r *memRegisterRepo) ExistsByNumber(_ context.Context, registerNumber string) (bool, error) {
	for _, s := range r.items {
		if s.RegisterNumber == registerNumber {
			return true, nil
		}
	}
	return false, nil
}

func (r *memRegisterRepo) Save(_ context.Context, session *register.CashRegister) error {
	r.items[session.ID] = session
	return nil
}

func (r *memRegisterRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

type memOrderRepo struct {
	items map[uuid.UUID]*sales.SalesOrder
}

func newMemOrderRepo() *memOrderRepo {
	return &memOrderRepo{items: make(map[uuid.UUID]*sales.SalesOrder)}
}

func (r *memOrderRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.SalesOrder, error) {
	if o, ok := r.items[id]; ok {
		return o, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindByNumber(_ context.Context, orderNumber string) (*sales.SalesOrder, error) {
	for _, o := range r.items {
		if o.OrderNumber == orderNumber {
			return o, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memOrderRepo) FindAll(_ context.Context, _ shared.Filter) ([]sales.SalesOrder, error) {
	out := make([]sales.SalesOrder, 0, len(r.items))
	for _, o := range r.items {
		out = append(out, *o)
	}
	return out, nil
}

func (r *memOrderRepo) Save(_ context.Context, order *sales.SalesOrder) error {
	r.items[order.ID] = order
	return nil
}

func (r *memOrderRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

func (r *memOrderRepo) ExistsByNumber(ctx context.Context, orderNumber string) (bool, error) {
	_, err := r.FindByNumber(ctx, orderNumber)
	if err == shared.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

type memProformaRepo struct {
	items map[uuid.UUID]*sales.Proforma
}

func newMemProformaRepo() *memProformaRepo {
	return &memProformaRepo{items: make(map[uuid.UUID]*sales.Proforma)}
}

func (r *memProformaRepo) FindByID(_ context.Context, id uuid.UUID) (*sales.Proforma, error) {
	if p, ok := r.items[id]; ok {
		return p, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memProformaRepo) FindByNumber(_ context.Context, number string) (*sales.Proforma, error) {
	for _, p := range r.items {
		if p.Number == number {
			return p, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memProformaRepo) FindAll(_ context.Context, _ shared.Filter) ([]sales.Proforma, error) {
	out := make([]sales.Proforma, 0, len(r.items))
	for _, p := range r.items {
		out = append(out, *p)
	}
	return out, nil
}

func (r *memProformaRepo) FindExpiredDrafts(_ context.Context, before time.Time) ([]sales.Proforma, error) {
	var out []sales.Proforma
	for _, p := range r.items {
		if p.Status == sales.ProformaStatusDraft && p.ValidUntil.Before(before) {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (r *memProformaRepo) CountCreatedOn(_ context.Context, day time.Time) (int64, error) {
	var count int64
	for _, p := range r.items {
		if p.CreatedAt.Year() == day.Year() && p.CreatedAt.YearDay() == day.YearDay() {
			count++
		}
	}
	return count, nil
}

func (r *memProformaRepo) ExistsByNumber(ctx context.Context, number string) (bool, error) {
	_, err := r.FindByNumber(ctx, number)
	if err == shared.ErrNotFound {
		return false, nil
	}
	return err == nil, err
}

func (r *memProformaRepo) Save(_ context.Context, proforma *sales.Proforma) error {
	r.items[proforma.ID] = proforma
	return nil
}

func (r *memProformaRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
	return int64(len(r.items)), nil
}

type memCustomerRepo struct {
	items map[uuid.UUID]*partner.Customer
}

func newMemCustomerRepo() *memCustomerRepo {
	return &memCustomerRepo{items: make(map[uuid.UUID]*partner.Customer)}
}

func (r *memCustomerRepo) FindByID(_ context.Context, id uuid.UUID) (*partner.Customer, error) {
	if c, ok := r.items[id]; ok {
		return c, nil
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindByName(_ context.Context, name string) (*partner.Customer, error) {
	for _, c := range r.items {
		if c.Name == name {
			return c, nil
		}
	}
	return nil, shared.ErrNotFound
}

func (r *memCustomerRepo) FindAll(_ context.Context, _ shared.Filter) ([]partner.Customer, error) {
	out := make([]partner.Customer, 0, len(r.items))
	for _, c := range r.items {
		out = append(out, *c)
	}
	return out, nil
}

func (r *memCustomerRepo) Save(_ context.Context, customer *partner.Customer) error {
	r.items[customer.ID] = customer
	return nil
}

func (r *memCustomerRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.items, id)
	return nil
}

func (r *memCustomerRepo) Count(_ context.Context, _ shared.Filter) (int64, error) {
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

type memRegisterSettingsRepo struct {
	settings *register.Settings
}

func (r *memRegisterSettingsRepo) Get(_ context.Context) (*register.Settings, error) {
	return r.settings, nil
}

func (r *memRegisterSettingsRepo) Save(_ context.Context, settings *register.Settings) error {
	r.settings = settings
	return nil
}

type memIdempotencyStore struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newMemIdempotencyStore() *memIdempotencyStore {
	return &memIdempotencyStore{seen: make(map[string]bool)}
}

func (s *memIdempotencyStore) MarkProcessed(_ context.Context, key string, _ time.Duration) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[key] {
		return false, nil
	}
	s.seen[key] = true
	return true, nil
}

func (s *memIdempotencyStore) IsProcessed(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seen[key], nil
}

func (s *memIdempotencyStore) Release(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.seen, key)
	return nil
}

func (s *memIdempotencyStore) Close() error { return nil }

// fixture wires the fakes into a no-op transaction scope and the
// services under test
type fixture struct {
	products         *memProductRepo
	movements        *memMovementRepo
	alerts           *memAlertRepo
	registers        *memRegisterRepo
	orders           *memOrderRepo
	proformas        *memProformaRepo
	customers        *memCustomerRepo
	validations      *memValidationRepo
	gateSettings     *memGateSettingsRepo
	registerSettings *memRegisterSettingsRepo
	idempotency      *memIdempotencyStore
	scope            TransactionScope
}

func newFixture() *fixture {
	f := &fixture{
		products:     newMemProductRepo(),
		movements:    &memMovementRepo{},
		alerts:       newMemAlertRepo(),
		registers:    newMemRegisterRepo(),
		orders:       newMemOrderRepo(),
		proformas:    newMemProformaRepo(),
		customers:    newMemCustomerRepo(),
		validations:  newMemValidationRepo(),
		gateSettings: &memGateSettingsRepo{settings: supervision.DefaultSettings()},
		idempotency:  newMemIdempotencyStore(),
	}
	f.scope = NewNoOpTransactionScope(&StaticRepositories{
		ProductRepo:    f.products,
		MovementRepo:   f.movements,
		AlertRepo:      f.alerts,
		RegisterRepo:   f.registers,
		OrderRepo:      f.orders,
		ProformaRepo:   f.proformas,
		CustomerRepo:   f.customers,
		ValidationRepo: f.validations,
	})
	return f
}

func (f *fixture) saleService() *SaleService {
	return NewSaleService(f.scope, f.orders, f.gateSettings, f.idempotency)
}

func (f *fixture) stockService() *StockService {
	return NewStockService(f.scope, f.movements, f.alerts, f.gateSettings)
}

func (f *fixture) proformaService() *ProformaService {
	return NewProformaService(f.scope, f.proformas, f.products)
}

func (f *fixture) seedProduct(t *testing.T, sku string, sellingPrice float64, stock, minStock int) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(sku, "Product "+sku,
		valueobject.NewMoneyHTGFromFloat(sellingPrice/2), valueobject.NewMoneyHTGFromFloat(sellingPrice))
	require.NoError(t, err)
	require.NoError(t, product.SetStockThresholds(minStock, 0))
	if stock > 0 {
		require.NoError(t, product.ApplyStockChange(stock))
	}
	require.NoError(t, f.products.Save(context.Background(), product))
	return product
}

func (f *fixture) seedCustomer(t *testing.T, name string) *partner.Customer {
	t.Helper()
	customer, err := partner.NewCustomer(name, "", "", "")
	require.NoError(t, err)
	require.NoError(t, f.customers.Save(context.Background(), customer))
	return customer
}

func (f *fixture) openSession(t *testing.T, cashierID uuid.UUID, openingAmount float64) *register.CashRegister {
	t.Helper()
	session, err := register.Open(cashierID,
		register.FormatRegisterNumber(time.Now(), len(f.registers.items)+1),
		valueobject.NewMoneyHTGFromFloat(openingAmount))
	require.NoError(t, err)
	require.NoError(t, f.registers.Save(context.Background(), session))
	return session
}

func (f *fixture) approvedValidation(t *testing.T, data supervision.PayloadData) *supervision.Validation {
	t.Helper()
	validation, err := supervision.NewValidation(uuid.New(), "override", "10.0.0.1", supervision.NewPayload(data))
	require.NoError(t, err)
	require.NoError(t, validation.Approve(uuid.New(), "ok", "10.0.0.9"))
	require.NoError(t, f.validations.Save(context.Background(), validation))
	return validation
}

func decf(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v)
}
