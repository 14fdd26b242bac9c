package gateway

import (
	"context"
	"fmt"
	"net/http"

	"smartmedishop-storefront/internal/model"
)

// StockGateway reads and edits product records and reports stock movements.
type StockGateway struct {
	client *Client
	tokens TokenSource
}

// NewStockGateway binds the stock endpoints to a session's credential.
func NewStockGateway(client *Client, tokens TokenSource) *StockGateway {
	return &StockGateway{client: client, tokens: tokens}
}

// GetProduct fetches the authoritative snapshot of one product.
func (g *StockGateway) GetProduct(ctx context.Context, id int64) (*model.Product, error) {
	var p model.Product
	path := fmt.Sprintf("/stock/products/%d", id)
	if err := g.client.do(ctx, http.MethodGet, path, g.tokens.Token(), nil, &p); err != nil {
		return nil, &StockQueryError{ProductID: id, Err: err}
	}
	return &p, nil
}

// ListProducts fetches the full catalog.
func (g *StockGateway) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := g.client.do(ctx, http.MethodGet, "/stock/products", g.tokens.Token(), nil, &products); err != nil {
		return nil, &StockQueryError{Err: err}
	}
	if products == nil {
		products = []model.Product{}
	}
	return products, nil
}

// RecordMovement reports one stock movement.
func (g *StockGateway) RecordMovement(ctx context.Context, m model.StockMovement) (*model.StockMovement, error) {
	var out model.StockMovement
	if err := g.client.do(ctx, http.MethodPost, "/stock/movements", g.tokens.Token(), m, &out); err != nil {
		return nil, &StockUpdateError{ProductID: m.ProductID, Err: err}
	}
	return &out, nil
}

// ListMovements fetches the movement history of a product.
func (g *StockGateway) ListMovements(ctx context.Context, productID int64) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	path := fmt.Sprintf("/stock/movements/product/%d", productID)
	if err := g.client.do(ctx, http.MethodGet, path, g.tokens.Token(), nil, &movements); err != nil {
		return nil, &StockQueryError{ProductID: productID, Err: err}
	}
	if movements == nil {
		movements = []model.StockMovement{}
	}
	return movements, nil
}

// CreateProduct adds a product to the inventory.
func (g *StockGateway) CreateProduct(ctx context.Context, p model.Product) (*model.Product, error) {
	var out model.Product
	if err := g.client.do(ctx, http.MethodPost, "/stock/products", g.tokens.Token(), p, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProduct applies a partial edit to a product.
func (g *StockGateway) UpdateProduct(ctx context.Context, id int64, upd model.ProductUpdate) (*model.Product, error) {
	var out model.Product
	path := fmt.Sprintf("/stock/products/%d", id)
	if err := g.client.do(ctx, http.MethodPut, path, g.tokens.Token(), upd, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ProductAlerts lists the stock alerts raised for a product.
func (g *StockGateway) ProductAlerts(ctx context.Context, productID int64) ([]model.StockAlert, error) {
	var alerts []model.StockAlert
	path := fmt.Sprintf("/stock/alerts/product/%d", productID)
	if err := g.client.do(ctx, http.MethodGet, path, g.tokens.Token(), nil, &alerts); err != nil {
		return nil, &StockQueryError{ProductID: productID, Err: err}
	}
	if alerts == nil {
		alerts = []model.StockAlert{}
	}
	return alerts, nil
}
