package payments

// PushRequest corresponds to "Initiate STK push"
// (POST /api/mpesa/stkpush). Phone must already be in canonical
// international form; amount is whole currency units.
type PushRequest struct {
	Phone   string `json:"phone"`
	Amount  int64  `json:"amount"`
	OrderID string `json:"order_id"`
}

// PushResponse reports whether the push prompt was sent to the
// customer's handset. Success=false with a message is a rejection by
// the gateway; the settlement itself is confirmed by polling the order.
type PushResponse struct {
	Success           bool   `json:"success"`
	Message           string `json:"message,omitempty"`
	CheckoutRequestID string `json:"checkout_request_id,omitempty"`
}
