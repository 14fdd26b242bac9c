package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	// ErrNotFound is matched by APIErrors carrying a 404.
	ErrNotFound = errors.New("resource not found")
	// ErrUnauthorized is matched by APIErrors carrying a 401 or 403.
	ErrUnauthorized = errors.New("unauthorized")
)

// APIError is a non-2xx answer from the SmartMediShop API.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("upstream returned %d", e.StatusCode)
	}
	return fmt.Sprintf("upstream returned %d: %s", e.StatusCode, e.Message)
}

// Is lets errors.Is match the status sentinels.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	}
	return false
}

// StockQueryError is a failed product read. ProductID is zero for bulk reads.
type StockQueryError struct {
	ProductID int64
	Err       error
}

func (e *StockQueryError) Error() string {
	if e.ProductID == 0 {
		return fmt.Sprintf("stock query failed: %v", e.Err)
	}
	return fmt.Sprintf("stock query for product %d failed: %v", e.ProductID, e.Err)
}

func (e *StockQueryError) Unwrap() error { return e.Err }

// TransactionSubmissionError is a failed transaction draft submission.
type TransactionSubmissionError struct {
	Err error
}

func (e *TransactionSubmissionError) Error() string {
	return fmt.Sprintf("transaction submission failed: %v", e.Err)
}

func (e *TransactionSubmissionError) Unwrap() error { return e.Err }

// StockUpdateError is a failed stock movement. TransactionID is set by the
// checkout when the movement belonged to an already created transaction.
type StockUpdateError struct {
	ProductID     int64
	TransactionID int64
	Err           error
}

func (e *StockUpdateError) Error() string {
	if e.TransactionID != 0 {
		return fmt.Sprintf("stock update for product %d (transaction %d) failed: %v", e.ProductID, e.TransactionID, e.Err)
	}
	return fmt.Sprintf("stock update for product %d failed: %v", e.ProductID, e.Err)
}

func (e *StockUpdateError) Unwrap() error { return e.Err }

// PurchaseHistoryError is a failed purchase-history write.
type PurchaseHistoryError struct {
	TransactionID int64
	Err           error
}

func (e *PurchaseHistoryError) Error() string {
	return fmt.Sprintf("purchase history for transaction %d failed: %v", e.TransactionID, e.Err)
}

func (e *PurchaseHistoryError) Unwrap() error { return e.Err }
