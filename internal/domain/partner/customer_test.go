package partner

import (
	"testing"

	"github.com/pos/backend/internal/domain/shared/valueobject"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCustomer(t *testing.T) {
	t.Run("creates active customer", func(t *testing.T) {
		c, err := NewCustomer("Jean Baptiste", "+509 3456 7890", "jean@example.com", "Port-au-Prince")
		require.NoError(t, err)
		assert.True(t, c.Active)
		assert.Equal(t, 0, c.PurchaseCount)
		assert.True(t, c.TotalPurchases.IsZero())
		assert.Nil(t, c.LastPurchaseAt)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewCustomer("", "", "", "")
		assert.Error(t, err)
	})

	t.Run("rejects malformed phone", func(t *testing.T) {
		_, err := NewCustomer("Jean", "abc", "", "")
		assert.Error(t, err)
	})

	t.Run("allows empty phone", func(t *testing.T) {
		_, err := NewCustomer("Jean", "", "", "")
		assert.NoError(t, err)
	})
}

func TestCustomerRecordPurchase(t *testing.T) {
	c, err := NewCustomer("Jean", "", "", "")
	require.NoError(t, err)

	require.NoError(t, c.RecordPurchase(valueobject.NewMoneyHTGFromFloat(150)))
	require.NoError(t, c.RecordPurchase(valueobject.NewMoneyHTGFromFloat(50)))

	assert.Equal(t, 2, c.PurchaseCount)
	assert.Equal(t, "200.00", c.TotalPurchases.StringFixed(2))
	assert.NotNil(t, c.LastPurchaseAt)

	t.Run("rejects negative total", func(t *testing.T) {
		err := c.RecordPurchase(valueobject.NewMoneyHTGFromFloat(-10))
		assert.Error(t, err)
	})
}

func TestCustomerReversePurchase(t *testing.T) {
	c, err := NewCustomer("Jean", "", "", "")
	require.NoError(t, err)

	t.Run("fails with no purchases", func(t *testing.T) {
		err := c.ReversePurchase(valueobject.NewMoneyHTGFromFloat(10))
		assert.Error(t, err)
	})

	require.NoError(t, c.RecordPurchase(valueobject.NewMoneyHTGFromFloat(100)))
	require.NoError(t, c.ReversePurchase(valueobject.NewMoneyHTGFromFloat(100)))
	assert.Equal(t, 0, c.PurchaseCount)
	assert.True(t, c.TotalPurchases.IsZero())

	t.Run("total never goes negative", func(t *testing.T) {
		require.NoError(t, c.RecordPurchase(valueobject.NewMoneyHTGFromFloat(50)))
		require.NoError(t, c.ReversePurchase(valueobject.NewMoneyHTGFromFloat(80)))
		assert.True(t, c.TotalPurchases.IsZero())
	})
}

func TestCustomerActivateDeactivate(t *testing.T) {
	c, err := NewCustomer("Jean", "", "", "")
	require.NoError(t, err)

	assert.Error(t, c.Activate())
	require.NoError(t, c.Deactivate())
	assert.Error(t, c.Deactivate())
	require.NoError(t, c.Activate())
}
