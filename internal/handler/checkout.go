package handler

import (
	"net/http"

	"smartmedishop-storefront/internal/checkout"
	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/notify"
	"smartmedishop-storefront/pkg/apierror"
	"smartmedishop-storefront/pkg/response"
)

// CheckoutHandler runs the purchase flow.
type CheckoutHandler struct {
	store Storefront
}

// NewCheckoutHandler creates a new checkout handler.
func NewCheckoutHandler(store Storefront) *CheckoutHandler {
	return &CheckoutHandler{store: store}
}

// Checkout handles POST /api/v1/checkout
// The body is optional; omitted fields fall back to configured defaults.
func (h *CheckoutHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	var opts checkout.Options
	if err := decodeJSON(r, &opts, true); err != nil {
		writeError(w, err)
		return
	}

	out, err := h.store.Checkout(r.Context(), middleware.GetSessionID(r.Context()), opts)
	if err != nil {
		apiErr := toAPIError(err)
		if out != nil {
			// The outcome keeps the created transaction and its fraud verdict.
			apiErr = apiErr.WithData(out)
			if msg := lastError(out); msg != "" {
				apiErr.Message = msg
			}
		}
		response.Error(w, apiErr)
		return
	}

	if out.State == checkout.StateInvalid {
		details := make([]apierror.FieldError, 0, len(out.Validation.Errors))
		for _, msg := range out.Validation.Errors {
			details = append(details, apierror.FieldError{Field: "cart", Message: msg})
		}
		response.Error(w, apierror.Unprocessable("CART_INVALID", "Cart validation failed").
			WithDetails(details...).WithData(out))
		return
	}

	response.Created(w, out)
}

func lastError(out *checkout.Outcome) string {
	if out == nil {
		return ""
	}
	for i := len(out.Notifications) - 1; i >= 0; i-- {
		if out.Notifications[i].Level == notify.LevelError {
			return out.Notifications[i].Message
		}
	}
	return ""
}
