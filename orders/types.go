package orders

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/dukahq/go-duka/cart"
	"github.com/dukahq/go-duka/consts"
)

// ID is an order identifier. The API is inconsistent about whether it
// serializes ids as JSON numbers or strings, so both are accepted.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return fmt.Errorf("orders: parse id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("orders: parse id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// CheckoutRequest corresponds to "Create order" (POST /api/checkout).
type CheckoutRequest struct {
	ShippingAddress string      `json:"shipping_address"`
	PaymentMethod   string      `json:"payment_method"`
	Items           []cart.Line `json:"cart_items,omitempty"`
}

// CheckoutResponse carries the identifier of the newly created order.
//
// A response without an order id is a failure, not a success.
type CheckoutResponse struct {
	OrderID ID     `json:"order_id"`
	Message string `json:"message,omitempty"`
}

// Order is the server-side view of a placed order. The client only
// reads and polls it; `TotalAmount` is the authoritative total.
type Order struct {
	ID              ID                   `json:"order_id"`
	Items           []cart.Line          `json:"items,omitempty"`
	TotalAmount     int64                `json:"total_amount,omitempty"`
	Phone           string               `json:"phone,omitempty"`
	PaymentStatus   consts.PaymentStatus `json:"payment_status"`
	TransactionCode string               `json:"transaction_code,omitempty"`
	CreatedAt       string               `json:"created_at,omitempty"`
}

// GetResponse corresponds to "Get order" (GET /api/orders/{id}).
type GetResponse struct {
	Order *Order `json:"order"`
}
