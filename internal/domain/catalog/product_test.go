package catalog

import (
	"testing"

	"github.com/pos/backend/internal/domain/shared"
	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestProduct(t *testing.T) *Product {
	t.Helper()
	p, err := NewProduct("SKU-001", "Test Product",
		valueobject.NewMoneyHTGFromFloat(50),
		valueobject.NewMoneyHTGFromFloat(100))
	require.NoError(t, err)
	return p
}

func TestNewProduct(t *testing.T) {
	tests := []struct {
		name    string
		sku     string
		pname   string
		wantErr bool
	}{
		{"valid product", "SKU-001", "Widget", false},
		{"empty sku", "", "Widget", true},
		{"empty name", "SKU-001", "", true},
		{"sku with spaces", "SKU 001", "Widget", true},
		{"lowercase sku is uppercased", "sku-001", "Widget", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewProduct(tt.sku, tt.pname,
				valueobject.ZeroHTG(), valueobject.NewMoneyHTGFromFloat(10))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "SKU-001", p.SKU)
			assert.True(t, p.Active)
			assert.Equal(t, 1, p.Version)
		})
	}

	t.Run("rejects negative selling price", func(t *testing.T) {
		_, err := NewProduct("SKU-002", "Widget",
			valueobject.ZeroHTG(), valueobject.NewMoneyHTGFromFloat(-5))
		assert.Error(t, err)
	})
}

func TestProductStockStatus(t *testing.T) {
	p := newTestProduct(t)
	require.NoError(t, p.SetStockThresholds(5, 100))

	tests := []struct {
		name  string
		stock int
		want  StockStatus
	}{
		{"zero stock", 0, StockStatusOutOfStock},
		{"at minimum", 5, StockStatusLowStock},
		{"below minimum", 3, StockStatusLowStock},
		{"above minimum", 6, StockStatusInStock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p.CurrentStock = tt.stock
			assert.Equal(t, tt.want, p.StockStatus())
		})
	}
}

func TestProductApplyStockChange(t *testing.T) {
	t.Run("applies positive and negative deltas", func(t *testing.T) {
		p := newTestProduct(t)
		require.NoError(t, p.ApplyStockChange(10))
		assert.Equal(t, 10, p.CurrentStock)

		require.NoError(t, p.ApplyStockChange(-4))
		assert.Equal(t, 6, p.CurrentStock)
	})

	t.Run("rejects change below zero", func(t *testing.T) {
		p := newTestProduct(t)
		p.CurrentStock = 3
		err := p.ApplyStockChange(-5)
		require.Error(t, err)
		assert.Equal(t, shared.ErrInsufficientStock, err)
		assert.Equal(t, 3, p.CurrentStock)
	})
}

func TestProductIsAvailable(t *testing.T) {
	p := newTestProduct(t)
	p.CurrentStock = 5

	assert.True(t, p.IsAvailable(5))
	assert.False(t, p.IsAvailable(6))
	assert.False(t, p.IsAvailable(0))

	require.NoError(t, p.Deactivate())
	assert.False(t, p.IsAvailable(1))
}

func TestProductFinalPrice(t *testing.T) {
	p := newTestProduct(t)

	t.Run("no discount no tax", func(t *testing.T) {
		assert.Equal(t, "100.00", p.FinalPrice().StringFixed(2))
	})

	t.Run("discount applied", func(t *testing.T) {
		require.NoError(t, p.SetDiscount(decimal.NewFromInt(10)))
		assert.Equal(t, "90.00", p.FinalPrice().StringFixed(2))
	})

	t.Run("tax applied after discount", func(t *testing.T) {
		require.NoError(t, p.SetTaxRate(decimal.NewFromInt(10)))
		assert.Equal(t, "99.00", p.FinalPrice().StringFixed(2))
	})
}

func TestProductSetDiscount(t *testing.T) {
	p := newTestProduct(t)

	assert.Error(t, p.SetDiscount(decimal.NewFromInt(-1)))
	assert.Error(t, p.SetDiscount(decimal.NewFromInt(101)))
	assert.NoError(t, p.SetDiscount(decimal.NewFromInt(100)))
}

func TestProductSetStockThresholds(t *testing.T) {
	p := newTestProduct(t)

	assert.Error(t, p.SetStockThresholds(-1, 10))
	assert.Error(t, p.SetStockThresholds(20, 10))
	assert.NoError(t, p.SetStockThresholds(5, 0))
	assert.NoError(t, p.SetStockThresholds(5, 50))
}

func TestProductActivateDeactivate(t *testing.T) {
	p := newTestProduct(t)

	assert.Error(t, p.Activate())
	require.NoError(t, p.Deactivate())
	assert.Error(t, p.Deactivate())
	require.NoError(t, p.Activate())
	assert.True(t, p.Active)
}

func TestProductVersionIncrements(t *testing.T) {
	p := newTestProduct(t)
	v := p.Version

	require.NoError(t, p.Update("New Name", "desc"))
	assert.Equal(t, v+1, p.Version)
}
