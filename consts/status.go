package consts

// PaymentStatus is the payment state of an order as reported by the API.
//
// Values match what the order endpoint returns verbatim.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"
)

// Terminal reports whether the status ends the confirmation poll.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusPaid || s == PaymentStatusFailed
}

func (s PaymentStatus) String() string {
	return string(s)
}
