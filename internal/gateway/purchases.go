package gateway

import (
	"context"
	"net/http"

	"smartmedishop-storefront/internal/model"
)

// PurchaseGateway writes and reads the purchase-history ledger.
type PurchaseGateway struct {
	client *Client
	tokens TokenSource
}

// NewPurchaseGateway binds the purchase endpoints to a session's credential.
func NewPurchaseGateway(client *Client, tokens TokenSource) *PurchaseGateway {
	return &PurchaseGateway{client: client, tokens: tokens}
}

// Record writes one purchase-history entry.
func (g *PurchaseGateway) Record(ctx context.Context, record model.PurchaseRecord) error {
	if err := g.client.do(ctx, http.MethodPost, "/purchases/record", g.tokens.Token(), record, nil); err != nil {
		return &PurchaseHistoryError{TransactionID: record.TransactionID, Err: err}
	}
	return nil
}

// Mine lists the purchase history of the session's user.
func (g *PurchaseGateway) Mine(ctx context.Context) ([]model.Purchase, error) {
	var purchases []model.Purchase
	if err := g.client.do(ctx, http.MethodGet, "/purchases/my-purchases", g.tokens.Token(), nil, &purchases); err != nil {
		return nil, err
	}
	if purchases == nil {
		purchases = []model.Purchase{}
	}
	return purchases, nil
}
