package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"smartmedishop-storefront/internal/cart"
	"smartmedishop-storefront/internal/gateway"
	"smartmedishop-storefront/internal/service"
	"smartmedishop-storefront/pkg/apierror"

	"github.com/stretchr/testify/assert"
)

func TestToAPIError(t *testing.T) {
	notFound := &gateway.APIError{StatusCode: http.StatusNotFound}
	expired := &gateway.APIError{StatusCode: http.StatusUnauthorized}
	unavailable := &gateway.APIError{StatusCode: http.StatusServiceUnavailable, Message: "down"}

	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"api error passes through", apierror.Conflict("taken"), http.StatusConflict, "CONFLICT"},
		{"insufficient stock", &cart.InsufficientStockError{Name: "Smecta", Available: 1, Requested: 2}, http.StatusUnprocessableEntity, "INSUFFICIENT_STOCK"},
		{"expired product", &cart.ExpiredProductError{Name: "Smecta"}, http.StatusUnprocessableEntity, "PRODUCT_EXPIRED"},
		{"journal disabled", service.ErrJournalDisabled, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE"},
		{"upstream unauthorized", fmt.Errorf("profile: %w", &gateway.APIError{StatusCode: http.StatusUnauthorized}), http.StatusUnauthorized, "UNAUTHORIZED"},
		{"upstream forbidden", fmt.Errorf("resolve: %w", &gateway.APIError{StatusCode: http.StatusForbidden}), http.StatusForbidden, "FORBIDDEN"},
		{"restock failure", &gateway.StockUpdateError{ProductID: 2, Err: unavailable}, http.StatusBadGateway, "STOCK_UPDATE_FAILED"},
		{"non-positive restock", service.ErrInvalidQuantity, http.StatusBadRequest, "VALIDATION_ERROR"},
		{"product lookup 404", &gateway.StockQueryError{ProductID: 4, Err: notFound}, http.StatusNotFound, "NOT_FOUND"},
		{"stock query", &gateway.StockQueryError{Err: unavailable}, http.StatusBadGateway, "STOCK_QUERY_FAILED"},
		{"transaction", &gateway.TransactionSubmissionError{Err: unavailable}, http.StatusBadGateway, "TRANSACTION_FAILED"},
		{"stock update", &gateway.StockUpdateError{TransactionID: 1001, ProductID: 2, Err: unavailable}, http.StatusBadGateway, "STOCK_UPDATE_FAILED"},
		{"purchase history", &gateway.PurchaseHistoryError{Err: unavailable}, http.StatusBadGateway, "PURCHASE_HISTORY_FAILED"},
		{"stock update rejected as unauthorized", &gateway.StockUpdateError{TransactionID: 1001, ProductID: 2, Err: expired}, http.StatusBadGateway, "STOCK_UPDATE_FAILED"},
		{"stock update on missing product", &gateway.StockUpdateError{TransactionID: 1001, ProductID: 2, Err: notFound}, http.StatusBadGateway, "STOCK_UPDATE_FAILED"},
		{"transaction rejected as unauthorized", &gateway.TransactionSubmissionError{Err: expired}, http.StatusBadGateway, "TRANSACTION_FAILED"},
		{"purchase history rejected as unauthorized", &gateway.PurchaseHistoryError{TransactionID: 1001, Err: expired}, http.StatusBadGateway, "PURCHASE_HISTORY_FAILED"},
		{"stock query rejected as unauthorized", &gateway.StockQueryError{Err: expired}, http.StatusBadGateway, "STOCK_QUERY_FAILED"},
		{"upstream rejection", &gateway.APIError{StatusCode: http.StatusBadRequest, Message: "Username already exists"}, http.StatusBadRequest, "UPSTREAM_REJECTED"},
		{"upstream outage", unavailable, http.StatusBadGateway, "UPSTREAM_ERROR"},
		{"anything else", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := toAPIError(tt.err)
			assert.Equal(t, tt.status, got.StatusCode)
			assert.Equal(t, tt.code, got.Code)
			assert.NotEmpty(t, got.Message)
		})
	}
}
