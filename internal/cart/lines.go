package cart

import (
	"time"

	"smartmedishop-storefront/internal/model"
)

// Lines is the pure state of a cart. Every transition returns a new slice and
// leaves the receiver untouched, so the store can persist and publish the
// result only once a transition succeeded.
type Lines []model.CartItem

func (l Lines) index(productID int64) int {
	for i := range l {
		if l[i].Product.ID == productID {
			return i
		}
	}
	return -1
}

func (l Lines) clone() Lines {
	out := make(Lines, len(l))
	copy(out, l)
	return out
}

// Add merges quantity into the line for product, or appends a new line.
func (l Lines) Add(product model.Product, quantity int, now time.Time) (Lines, error) {
	if quantity <= 0 {
		quantity = 1
	}
	if product.IsExpired(now) {
		return l, &ExpiredProductError{
			ProductID:      product.ID,
			Name:           product.Name,
			ExpirationDate: product.ExpirationDate,
		}
	}

	existing := 0
	i := l.index(product.ID)
	if i >= 0 {
		existing = l[i].Quantity
	}
	if existing+quantity > product.Quantity {
		return l, &InsufficientStockError{
			ProductID: product.ID,
			Name:      product.Name,
			Available: product.Quantity,
			Requested: existing + quantity,
		}
	}

	out := l.clone()
	if i >= 0 {
		out[i].Quantity = existing + quantity
		return out, nil
	}
	return append(out, model.CartItem{Product: product, Quantity: quantity}), nil
}

// Update sets the quantity of a line. A quantity of zero or less removes the
// line; an unknown product leaves the cart unchanged.
func (l Lines) Update(productID int64, quantity int) (Lines, error) {
	i := l.index(productID)
	if i < 0 {
		return l, nil
	}
	if quantity <= 0 {
		return l.Remove(productID), nil
	}
	if quantity > l[i].Product.Quantity {
		return l, &InsufficientStockError{
			ProductID: productID,
			Name:      l[i].Product.Name,
			Available: l[i].Product.Quantity,
			Requested: quantity,
		}
	}
	out := l.clone()
	out[i].Quantity = quantity
	return out, nil
}

// Remove drops the line for productID, if any.
func (l Lines) Remove(productID int64) Lines {
	out := make(Lines, 0, len(l))
	for _, item := range l {
		if item.Product.ID != productID {
			out = append(out, item)
		}
	}
	return out
}

// Refresh replaces product snapshots with the given authoritative copies.
// Lines without a fresh copy keep their old snapshot.
func (l Lines) Refresh(products map[int64]model.Product) Lines {
	out := l.clone()
	for i := range out {
		if p, ok := products[out[i].Product.ID]; ok {
			out[i].Product = p
		}
	}
	return out
}

// Total is the sum of price × quantity.
func (l Lines) Total() float64 {
	var total float64
	for _, item := range l {
		total += item.LineTotal()
	}
	return total
}

// Count is the sum of quantities.
func (l Lines) Count() int {
	count := 0
	for _, item := range l {
		count += item.Quantity
	}
	return count
}
