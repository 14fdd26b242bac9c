package gateway

import (
	"context"
	"net/http"

	"smartmedishop-storefront/internal/model"
)

// TransactionGateway submits transaction drafts. The API is the sole
// authority on the fraud verdict attached to the result.
type TransactionGateway struct {
	client *Client
	tokens TokenSource
}

// NewTransactionGateway binds the transaction endpoints to a session's credential.
func NewTransactionGateway(client *Client, tokens TokenSource) *TransactionGateway {
	return &TransactionGateway{client: client, tokens: tokens}
}

// Submit creates a transaction from draft.
func (g *TransactionGateway) Submit(ctx context.Context, draft model.TransactionDraft) (*model.TransactionResult, error) {
	var res model.TransactionResult
	if err := g.client.do(ctx, http.MethodPost, "/transactions", g.tokens.Token(), draft, &res); err != nil {
		return nil, &TransactionSubmissionError{Err: err}
	}
	return &res, nil
}

// Mine lists the transactions of the session's user.
func (g *TransactionGateway) Mine(ctx context.Context) ([]model.Transaction, error) {
	var txs []model.Transaction
	if err := g.client.do(ctx, http.MethodGet, "/transactions/my-transactions", g.tokens.Token(), nil, &txs); err != nil {
		return nil, err
	}
	if txs == nil {
		txs = []model.Transaction{}
	}
	return txs, nil
}

// Statistics summarizes the transactions of the session's user.
func (g *TransactionGateway) Statistics(ctx context.Context) (*model.TransactionStatistics, error) {
	var stats model.TransactionStatistics
	if err := g.client.do(ctx, http.MethodGet, "/transactions/statistics", g.tokens.Token(), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}

// Overview summarizes every transaction. Analysts and admins only.
func (g *TransactionGateway) Overview(ctx context.Context) (*model.TransactionOverview, error) {
	var stats model.TransactionOverview
	if err := g.client.do(ctx, http.MethodGet, "/transactions/statistics/all", g.tokens.Token(), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
