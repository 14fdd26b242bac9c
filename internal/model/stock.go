package model

// MovementType is the direction of a stock movement.
type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// ReasonSale is the movement reason reported for checkout decrements.
const ReasonSale = "SALE"

// StockMovement is a quantity delta reported against a product's inventory.
type StockMovement struct {
	ID           int64        `json:"id,omitempty"`
	ProductID    int64        `json:"productId"`
	MovementType MovementType `json:"movementType"`
	Quantity     int          `json:"quantity"`
	Reason       string       `json:"reason"`
	CreatedAt    string       `json:"createdAt,omitempty"`
}

// Stock alert types and statuses reported by the API.
const (
	AlertLowStock = "LOW_STOCK"
	AlertExpired  = "EXPIRED"

	AlertStatusActive   = "ACTIVE"
	AlertStatusResolved = "RESOLVED"
)

// StockAlert is a low-stock or expiry warning raised by the API for a product.
type StockAlert struct {
	ID        int64  `json:"id"`
	ProductID int64  `json:"productId,omitempty"`
	AlertType string `json:"alertType"`
	Message   string `json:"message"`
	Status    string `json:"status"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ProductUpdate is a partial product edit; nil fields are left unchanged.
type ProductUpdate struct {
	Name              *string  `json:"name,omitempty"`
	Description       *string  `json:"description,omitempty"`
	Quantity          *int     `json:"quantity,omitempty"`
	LowStockThreshold *int     `json:"lowStockThreshold,omitempty"`
	Price             *float64 `json:"price,omitempty"`
	ExpirationDate    *string  `json:"expirationDate,omitempty"`
}

// IsEmpty reports whether the update changes nothing.
func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Quantity == nil &&
		u.LowStockThreshold == nil && u.Price == nil && u.ExpirationDate == nil
}

// ReasonRestock is the default reason of manual IN movements.
const ReasonRestock = "RESTOCK"
