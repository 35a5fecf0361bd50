package orders

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukahq/go-duka/consts"
)

func TestIDAcceptsNumberAndString(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want ID
	}{
		{"number", `{"order_id":17}`, "17"},
		{"string", `{"order_id":"17"}`, "17"},
		{"null", `{"order_id":null}`, ""},
		{"absent", `{}`, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var out CheckoutResponse
			require.NoError(t, json.Unmarshal([]byte(tc.in), &out))
			assert.Equal(t, tc.want, out.OrderID)
		})
	}
}

func TestIDRejectsGarbage(t *testing.T) {
	var out CheckoutResponse
	require.Error(t, json.Unmarshal([]byte(`{"order_id":{}}`), &out))
}

func TestOrderDecodesPaymentStatus(t *testing.T) {
	raw := `{"order":{"order_id":17,"total_amount":2500,"payment_status":"Paid","transaction_code":"QGH7..."}}`

	var out GetResponse
	require.NoError(t, json.Unmarshal([]byte(raw), &out))
	require.NotNil(t, out.Order)
	assert.Equal(t, ID("17"), out.Order.ID)
	assert.Equal(t, int64(2500), out.Order.TotalAmount)
	assert.Equal(t, consts.PaymentStatusPaid, out.Order.PaymentStatus)
	assert.True(t, out.Order.PaymentStatus.Terminal())
}
