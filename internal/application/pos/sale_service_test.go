package pos

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/pos/backend/internal/domain/inventory"
	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/supervision"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertErrorCode(t *testing.T, err error, code string) {
	t.Helper()
	require.Error(t, err)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, code, domainErr.Code)
}

func TestSaleService_CreateSale(t *testing.T) {
	ctx := context.Background()

	t.Run("cash checkout debits stock and updates the session", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-01", 100, 10, 2)
		session := f.openSession(t, cashierID, 500)

		resp, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			Items:          []SaleItemInput{{ProductID: product.ID, Quantity: 2}},
			PaymentMethod:  "cash",
			AmountTendered: decf(250),
		})
		require.NoError(t, err)

		assert.Equal(t, "completed", resp.Status)
		assert.Equal(t, "paid", resp.PaymentStatus)
		assert.True(t, resp.Total.Equal(decf(200)), "total = %s", resp.Total)
		assert.True(t, resp.ChangeDue.Equal(decf(50)), "change = %s", resp.ChangeDue)
		assert.Regexp(t, `^\d{8}-\d{6}$`, resp.OrderNumber)

		assert.Equal(t, 8, product.CurrentStock)

		movements := f.movements.byProduct(product.ID)
		require.Len(t, movements, 1)
		assert.Equal(t, inventory.ReasonSale, movements[0].Reason)
		assert.Equal(t, -2, movements[0].QuantityChange)
		assert.Equal(t, 8, movements[0].QuantityAfter)
		assert.Equal(t, resp.OrderNumber, movements[0].Reference)

		assert.Equal(t, 1, session.SalesCount)
		assert.True(t, session.TotalSales.Equal(decf(200)))
		assert.True(t, session.ExpectedAmount.Equal(decf(700)), "expected = %s", session.ExpectedAmount)
	})

	t.Run("card payment does not feed the drawer", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-02", 100, 10, 2)
		session := f.openSession(t, cashierID, 500)

		_, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			Items:         []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod: "card",
		})
		require.NoError(t, err)

		assert.True(t, session.CashSales.IsZero())
		assert.True(t, session.ExpectedAmount.Equal(decf(500)))
		assert.True(t, session.TotalSales.Equal(decf(100)))
	})

	t.Run("no open session fails with NO_OPEN_REGISTER", func(t *testing.T) {
		f := newFixture()
		product := f.seedProduct(t, "COLA-03", 100, 10, 2)

		_, err := f.saleService().CreateSale(ctx, uuid.New(), CreateSaleRequest{
			Items:          []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod:  "cash",
			AmountTendered: decf(100),
		})
		assert.Equal(t, shared.ErrNoOpenRegister, err)
	})

	t.Run("insufficient stock fails and changes nothing", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-04", 100, 3, 0)
		f.openSession(t, cashierID, 0)

		_, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			Items:          []SaleItemInput{{ProductID: product.ID, Quantity: 5}},
			PaymentMethod:  "cash",
			AmountTendered: decf(500),
		})
		assertErrorCode(t, err, "INSUFFICIENT_STOCK")
		assert.Equal(t, 3, product.CurrentStock)
		assert.Empty(t, f.movements.items)
	})

	t.Run("discount above threshold needs a consumed approval", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-05", 100, 10, 0)
		f.openSession(t, cashierID, 0)

		_, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			Items:           []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod:   "cash",
			DiscountPercent: decf(20),
			AmountTendered:  decf(100),
		})
		assert.Equal(t, shared.ErrValidationRequired, err)

		validation := f.approvedValidation(t, supervision.DiscountPayload{DiscountPercent: decf(20)})
		resp, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			Items:           []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod:   "cash",
			DiscountPercent: decf(20),
			AmountTendered:  decf(100),
			ValidationID:    &validation.ID,
		})
		require.NoError(t, err)
		assert.True(t, resp.Total.Equal(decf(80)), "total = %s", resp.Total)
		assert.True(t, validation.Consumed)

		// The approval is spent; replaying it fails
		_, err = f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			Items:           []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod:   "cash",
			DiscountPercent: decf(20),
			AmountTendered:  decf(100),
			ValidationID:    &validation.ID,
		})
		assert.Equal(t, shared.ErrValidationRequired, err)
	})

	t.Run("discount at threshold needs no approval", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-06", 100, 10, 0)
		f.openSession(t, cashierID, 0)

		_, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			Items:           []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod:   "cash",
			DiscountPercent: decf(10),
			AmountTendered:  decf(100),
		})
		require.NoError(t, err)
	})

	t.Run("customer purchase stats are updated", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-07", 100, 10, 0)
		customer := f.seedCustomer(t, "Marie")
		f.openSession(t, cashierID, 0)

		_, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			CustomerID:     &customer.ID,
			Items:          []SaleItemInput{{ProductID: product.ID, Quantity: 3}},
			PaymentMethod:  "cash",
			AmountTendered: decf(300),
		})
		require.NoError(t, err)

		assert.Equal(t, 1, customer.PurchaseCount)
		assert.True(t, customer.TotalPurchases.Equal(decf(300)))
		assert.NotNil(t, customer.LastPurchaseAt)
	})

	t.Run("cash below total completes as partial payment", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-08", 100, 10, 0)
		session := f.openSession(t, cashierID, 0)

		resp, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			Items:          []SaleItemInput{{ProductID: product.ID, Quantity: 2}},
			PaymentMethod:  "cash",
			AmountTendered: decf(150),
		})
		require.NoError(t, err)

		assert.Equal(t, "partial", resp.PaymentStatus)
		assert.True(t, resp.AmountTendered.Equal(decf(150)))
		assert.True(t, resp.ChangeDue.IsZero())

		// Only the tendered cash lands in the drawer.
		assert.True(t, session.CashSales.Equal(decf(150)), "cash sales = %s", session.CashSales)
		assert.True(t, session.TotalSales.Equal(decf(200)), "total sales = %s", session.TotalSales)
		assert.True(t, session.ExpectedAmount.Equal(decf(150)), "expected = %s", session.ExpectedAmount)
	})

	t.Run("duplicate idempotency key is rejected", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-09", 100, 10, 0)
		f.openSession(t, cashierID, 0)

		req := CreateSaleRequest{
			Items:          []SaleItemInput{{ProductID: product.ID, Quantity: 1}},
			PaymentMethod:  "cash",
			AmountTendered: decf(100),
			IdempotencyKey: "till-1-txn-42",
		}
		_, err := f.saleService().CreateSale(ctx, cashierID, req)
		require.NoError(t, err)

		_, err = f.saleService().CreateSale(ctx, cashierID, req)
		assertErrorCode(t, err, "CONFLICT")
	})

	t.Run("failed checkout does not burn the idempotency key", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-14", 100, 3, 0)
		f.openSession(t, cashierID, 0)

		req := CreateSaleRequest{
			Items:          []SaleItemInput{{ProductID: product.ID, Quantity: 5}},
			PaymentMethod:  "cash",
			AmountTendered: decf(500),
			IdempotencyKey: "till-1-txn-77",
		}
		_, err := f.saleService().CreateSale(ctx, cashierID, req)
		assertErrorCode(t, err, "INSUFFICIENT_STOCK")

		// The cashier corrects the quantity and resubmits with the same key.
		req.Items[0].Quantity = 2
		req.AmountTendered = decf(200)
		_, err = f.saleService().CreateSale(ctx, cashierID, req)
		require.NoError(t, err)

		// Once a checkout completed, a replay of the key is still rejected.
		_, err = f.saleService().CreateSale(ctx, cashierID, req)
		assertErrorCode(t, err, "CONFLICT")
	})

	t.Run("selling out raises an out of stock alert", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-10", 100, 2, 1)
		f.openSession(t, cashierID, 0)

		_, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			Items:          []SaleItemInput{{ProductID: product.ID, Quantity: 2}},
			PaymentMethod:  "cash",
			AmountTendered: decf(200),
		})
		require.NoError(t, err)

		alert, err := f.alerts.FindUnresolved(ctx, product.ID, inventory.AlertTypeOutOfStock)
		require.NoError(t, err)
		assert.Contains(t, alert.Message, "out of stock")
	})
}

func TestSaleService_CancelSale(t *testing.T) {
	ctx := context.Background()

	checkout := func(t *testing.T, f *fixture, cashierID uuid.UUID, customerID *uuid.UUID, productID uuid.UUID, qty int) *SaleResponse {
		t.Helper()
		resp, err := f.saleService().CreateSale(ctx, cashierID, CreateSaleRequest{
			CustomerID:     customerID,
			Items:          []SaleItemInput{{ProductID: productID, Quantity: qty}},
			PaymentMethod:  "cash",
			AmountTendered: decf(1000),
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("cancellation restores stock and reverses customer stats", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-20", 100, 10, 0)
		customer := f.seedCustomer(t, "Jean")
		f.openSession(t, cashierID, 0)

		sale := checkout(t, f, cashierID, &customer.ID, product.ID, 4)
		require.Equal(t, 6, product.CurrentStock)

		validation := f.approvedValidation(t, supervision.SaleCancelPayload{OrderID: sale.ID})
		resp, err := f.saleService().CancelSale(ctx, sale.ID, cashierID, CancelSaleRequest{
			Reason:       "customer returned the goods",
			ValidationID: &validation.ID,
		})
		require.NoError(t, err)

		assert.Equal(t, "cancelled", resp.Status)
		assert.Equal(t, "customer returned the goods", resp.CancelReason)
		assert.Equal(t, 10, product.CurrentStock)
		assert.Equal(t, 0, customer.PurchaseCount)
		assert.True(t, customer.TotalPurchases.IsZero())

		movements := f.movements.byProduct(product.ID)
		require.Len(t, movements, 2)
		assert.Equal(t, inventory.ReasonSaleCancel, movements[1].Reason)
		assert.Equal(t, 4, movements[1].QuantityChange)
	})

	t.Run("cancellation without approval fails while the gate is on", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-21", 100, 10, 0)
		f.openSession(t, cashierID, 0)

		sale := checkout(t, f, cashierID, nil, product.ID, 1)
		_, err := f.saleService().CancelSale(ctx, sale.ID, cashierID, CancelSaleRequest{Reason: "mistake"})
		assert.Equal(t, shared.ErrValidationRequired, err)
	})

	t.Run("approval for a different order is not accepted", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-22", 100, 10, 0)
		f.openSession(t, cashierID, 0)

		sale := checkout(t, f, cashierID, nil, product.ID, 1)
		validation := f.approvedValidation(t, supervision.SaleCancelPayload{OrderID: uuid.New()})
		_, err := f.saleService().CancelSale(ctx, sale.ID, cashierID, CancelSaleRequest{
			Reason:       "mistake",
			ValidationID: &validation.ID,
		})
		assert.Equal(t, shared.ErrValidationRequired, err)
	})

	t.Run("cancelling twice fails", func(t *testing.T) {
		f := newFixture()
		cashierID := uuid.New()
		product := f.seedProduct(t, "COLA-23", 100, 10, 0)
		f.openSession(t, cashierID, 0)
		require.NoError(t, f.gateSettings.settings.Update(
			decimal.NewFromInt(10), decimal.NewFromInt(5), 10, false, true, true, true))

		sale := checkout(t, f, cashierID, nil, product.ID, 1)
		_, err := f.saleService().CancelSale(ctx, sale.ID, cashierID, CancelSaleRequest{Reason: "first"})
		require.NoError(t, err)

		_, err = f.saleService().CancelSale(ctx, sale.ID, cashierID, CancelSaleRequest{Reason: "second"})
		assert.Equal(t, shared.ErrInvalidState, err)
	})
}
