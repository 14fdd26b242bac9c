package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"smartmedishop-storefront/internal/cart"
	"smartmedishop-storefront/internal/gateway"
	"smartmedishop-storefront/internal/service"
	"smartmedishop-storefront/pkg/apierror"
	"smartmedishop-storefront/pkg/response"

	"github.com/go-chi/chi/v5"
)

// toAPIError maps domain and upstream failures onto the error envelope.
func toAPIError(err error) *apierror.Error {
	var (
		apiErr     *apierror.Error
		stockErr   *cart.InsufficientStockError
		expiredErr *cart.ExpiredProductError
		queryErr   *gateway.StockQueryError
		submitErr  *gateway.TransactionSubmissionError
		updateErr  *gateway.StockUpdateError
		historyErr *gateway.PurchaseHistoryError
		upstream   *gateway.APIError
	)

	switch {
	case errors.As(err, &apiErr):
		return apiErr
	case errors.As(err, &stockErr):
		return apierror.Unprocessable("INSUFFICIENT_STOCK", stockErr.Error())
	case errors.As(err, &expiredErr):
		return apierror.Unprocessable("PRODUCT_EXPIRED", expiredErr.Error())
	case errors.Is(err, service.ErrJournalDisabled):
		return apierror.ServiceUnavailable("Checkout journal is disabled")
	// Checkout step failures win over the status sentinels: the step tells
	// the client whether a transaction already exists.
	case errors.Is(err, service.ErrInvalidQuantity):
		return apierror.ValidationError(err.Error(), apierror.FieldError{Field: "quantity", Message: err.Error()})
	case errors.As(err, &updateErr) && updateErr.TransactionID == 0:
		return apierror.BadGateway("STOCK_UPDATE_FAILED",
			fmt.Sprintf("Stock update failed for product %d", updateErr.ProductID))
	case errors.As(err, &updateErr):
		return apierror.BadGateway("STOCK_UPDATE_FAILED",
			fmt.Sprintf("Stock update failed for transaction %d", updateErr.TransactionID))
	case errors.As(err, &historyErr):
		return apierror.BadGateway("PURCHASE_HISTORY_FAILED", "Purchase history unavailable")
	case errors.As(err, &submitErr):
		return apierror.BadGateway("TRANSACTION_FAILED", "Transaction submission failed")
	case errors.As(err, &queryErr):
		if errors.Is(queryErr, gateway.ErrNotFound) {
			return apierror.NotFound("")
		}
		return apierror.BadGateway("STOCK_QUERY_FAILED", "Stock service unavailable")
	case errors.As(err, &upstream) && upstream.StatusCode == http.StatusForbidden:
		return apierror.Forbidden("")
	case errors.Is(err, gateway.ErrUnauthorized):
		return apierror.Unauthorized("Session expired, please log in again")
	case errors.Is(err, gateway.ErrNotFound):
		return apierror.NotFound("")
	case errors.As(err, &upstream) && upstream.StatusCode < 500:
		msg := upstream.Message
		if msg == "" {
			msg = http.StatusText(upstream.StatusCode)
		}
		return &apierror.Error{StatusCode: upstream.StatusCode, Code: "UPSTREAM_REJECTED", Message: msg}
	case errors.As(err, &upstream):
		return apierror.BadGateway("UPSTREAM_ERROR", "")
	}
	return apierror.InternalError("")
}

func writeError(w http.ResponseWriter, err error) {
	response.Error(w, toAPIError(err))
}

// decodeJSON reads a JSON body. An empty body leaves dst untouched when
// optional is set.
func decodeJSON(r *http.Request, dst interface{}, optional bool) error {
	defer r.Body.Close()
	err := json.NewDecoder(io.LimitReader(r.Body, 1<<20)).Decode(dst)
	if errors.Is(err, io.EOF) && optional {
		return nil
	}
	if err != nil {
		return apierror.BadRequest("invalid request body")
	}
	return nil
}

func int64Param(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.ValidationError("invalid "+name, apierror.FieldError{Field: name, Message: "must be a positive integer"})
	}
	return id, nil
}

func intQuery(r *http.Request, name string, def, max int) int {
	v, err := strconv.Atoi(r.URL.Query().Get(name))
	if err != nil || v < 0 {
		return def
	}
	if max > 0 && v > max {
		return max
	}
	return v
}
