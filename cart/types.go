package cart

// Line is one product/size entry of a shopping cart.
//
// Lines are unique by (ProductID, SelectedSize); adding the same pair
// again increments the quantity instead of creating a duplicate.
// Prices are whole currency units (KSH).
type Line struct {
	ProductID    int64  `json:"product_id"`
	Name         string `json:"name"`
	UnitPrice    int64  `json:"price"`
	SelectedSize string `json:"selected_size,omitempty"`
	Quantity     int    `json:"quantity"`
	Image        string `json:"image,omitempty"`
}

// Subtotal is the line price times quantity.
func (l Line) Subtotal() int64 {
	return l.UnitPrice * int64(l.Quantity)
}

// Total sums the subtotals of lines.
func Total(lines []Line) int64 {
	var sum int64
	for _, l := range lines {
		sum += l.Subtotal()
	}
	return sum
}

// Count sums the quantities of lines.
func Count(lines []Line) int {
	var n int
	for _, l := range lines {
		n += l.Quantity
	}
	return n
}

// FetchResponse corresponds to "Fetch cart" (GET /api/cart).
type FetchResponse struct {
	Items []Line `json:"cart"`
}
