package cart

import "fmt"

// InsufficientStockError is returned when a requested quantity exceeds the
// stock of the product snapshot held in the cart.
type InsufficientStockError struct {
	ProductID int64
	Name      string
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("Stock insuffisant. Disponible: %d", e.Available)
}

// ExpiredProductError is returned when adding a product whose expiration date has passed.
type ExpiredProductError struct {
	ProductID      int64
	Name           string
	ExpirationDate string
}

func (e *ExpiredProductError) Error() string {
	return fmt.Sprintf("Le produit %s est expiré", e.Name)
}
