package handler

import (
	"net/http"

	"smartmedishop-storefront/internal/cart"
	"smartmedishop-storefront/internal/middleware"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/apierror"
	"smartmedishop-storefront/pkg/response"
)

// CartHandler exposes the session cart.
type CartHandler struct {
	store Storefront
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(store Storefront) *CartHandler {
	return &CartHandler{store: store}
}

// CartResponse is the wire form of a cart snapshot.
type CartResponse struct {
	Items     []model.CartItem `json:"items"`
	Total     float64          `json:"total"`
	ItemCount int              `json:"itemCount"`
}

func cartResponse(snap cart.Snapshot) CartResponse {
	items := snap.Items
	if items == nil {
		items = []model.CartItem{}
	}
	return CartResponse{Items: items, Total: snap.Total, ItemCount: snap.ItemCount}
}

// AddItemRequest is the body of POST /cart/items.
type AddItemRequest struct {
	ProductID int64 `json:"productId"`
	Quantity  int   `json:"quantity"`
}

// QuantityRequest is the body of PUT /cart/items/{productId}.
type QuantityRequest struct {
	Quantity int `json:"quantity"`
}

// Get handles GET /api/v1/cart
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.OK(w, cartResponse(h.store.Cart(r.Context(), middleware.GetSessionID(r.Context()))))
}

// AddItem handles POST /api/v1/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}
	if req.ProductID <= 0 {
		response.Error(w, apierror.ValidationError("invalid item",
			apierror.FieldError{Field: "productId", Message: "must be a positive integer"}))
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 {
		response.Error(w, apierror.ValidationError("invalid item",
			apierror.FieldError{Field: "quantity", Message: "must be positive"}))
		return
	}

	snap, err := h.store.AddToCart(r.Context(), middleware.GetSessionID(r.Context()), req.ProductID, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, cartResponse(snap))
}

// UpdateItem handles PUT /api/v1/cart/items/{productId}
// A quantity of zero or less removes the line.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "productId")
	if err != nil {
		writeError(w, err)
		return
	}
	var req QuantityRequest
	if err := decodeJSON(r, &req, false); err != nil {
		writeError(w, err)
		return
	}

	snap, err := h.store.UpdateCartItem(r.Context(), middleware.GetSessionID(r.Context()), id, req.Quantity)
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, cartResponse(snap))
}

// RemoveItem handles DELETE /api/v1/cart/items/{productId}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := int64Param(r, "productId")
	if err != nil {
		writeError(w, err)
		return
	}
	response.OK(w, cartResponse(h.store.RemoveCartItem(r.Context(), middleware.GetSessionID(r.Context()), id)))
}

// Clear handles DELETE /api/v1/cart
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.store.ClearCart(r.Context(), middleware.GetSessionID(r.Context()))
	response.NoContent(w)
}

// Validate handles POST /api/v1/cart/validate
func (h *CartHandler) Validate(w http.ResponseWriter, r *http.Request) {
	v, err := h.store.ValidateCart(r.Context(), middleware.GetSessionID(r.Context()))
	if err != nil {
		writeError(w, err)
		return
	}
	if v.Errors == nil {
		v.Errors = []string{}
	}
	response.OK(w, v)
}
