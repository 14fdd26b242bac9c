package model

// UnknownLocation is recorded when the checkout carried no location.
const UnknownLocation = "Unknown"

// PurchaseItem is one product/quantity pair of a purchase record.
type PurchaseItem struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// PurchaseRecord links a completed transaction to the purchased items.
type PurchaseRecord struct {
	TransactionID int64          `json:"transactionId"`
	Items         []PurchaseItem `json:"items"`
	Location      string         `json:"location"`
}

// Purchase is a row of the purchase history returned by the API.
type Purchase struct {
	ID            int64   `json:"id"`
	UserID        int64   `json:"userId"`
	TransactionID int64   `json:"transactionId"`
	StockID       int64   `json:"stockId"`
	Name          string  `json:"name"`
	Brand         string  `json:"marque,omitempty"`
	Type          string  `json:"type,omitempty"`
	State         string  `json:"state,omitempty"`
	Price         float64 `json:"price"`
	Quantity      int     `json:"quantity,omitempty"`
	PurchaseDate  string  `json:"purchaseDate,omitempty"`
}
