package model

// CartItem is one line of a shopper's cart.
type CartItem struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// LineTotal returns price × quantity for the line.
func (c CartItem) LineTotal() float64 {
	return c.Product.Price * float64(c.Quantity)
}
