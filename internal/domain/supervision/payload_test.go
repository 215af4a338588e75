package supervision

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		data PayloadData
	}{
		{"discount", DiscountPayload{OrderNumber: "20260829-000001", DiscountPercent: decimal.NewFromInt(15)}},
		{"cash close", CashClosePayload{RegisterID: uuid.New(), Difference: decimal.NewFromFloat(-7.5)}},
		{"stock adjust", StockAdjustPayload{ProductID: uuid.New(), Delta: -12}},
		{"sale cancel", SaleCancelPayload{OrderID: uuid.New()}},
		{"price change", PriceChangePayload{ProductID: uuid.New(), NewPrice: decimal.NewFromInt(250)}},
		{"refund", RefundPayload{OrderID: uuid.New(), Amount: decimal.NewFromInt(50)}},
		{"product delete", ProductDeletePayload{ProductID: uuid.New()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPayload(tt.data)
			raw, err := json.Marshal(p)
			require.NoError(t, err)

			var decoded Payload
			require.NoError(t, json.Unmarshal(raw, &decoded))
			assert.Equal(t, tt.data.OperationType(), decoded.Type())
		})
	}
}

func TestPayloadEnvelopeShape(t *testing.T) {
	p := NewPayload(SaleCancelPayload{OrderID: uuid.Nil})
	raw, err := json.Marshal(p)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"sale_cancel","data":{"order_id":"00000000-0000-0000-0000-000000000000"}}`, string(raw))
}

func TestPayloadUnknownType(t *testing.T) {
	var p Payload
	err := json.Unmarshal([]byte(`{"type":"bogus","data":{}}`), &p)
	assert.Error(t, err)
}

func TestPayloadScan(t *testing.T) {
	orderID := uuid.New()
	original := NewPayload(SaleCancelPayload{OrderID: orderID})
	val, err := original.Value()
	require.NoError(t, err)

	var scanned Payload
	require.NoError(t, scanned.Scan(val))

	data, ok := scanned.Data.(SaleCancelPayload)
	require.True(t, ok)
	assert.Equal(t, orderID, data.OrderID)

	var nilPayload Payload
	require.NoError(t, nilPayload.Scan(nil))
	assert.Nil(t, nilPayload.Data)
}
