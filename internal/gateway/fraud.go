package gateway

import (
	"context"
	"fmt"
	"net/http"

	"smartmedishop-storefront/internal/model"
)

// FraudGateway serves the fraud-review console.
type FraudGateway struct {
	client *Client
	tokens TokenSource
}

// NewFraudGateway binds the fraud endpoints to a session's credential.
func NewFraudGateway(client *Client, tokens TokenSource) *FraudGateway {
	return &FraudGateway{client: client, tokens: tokens}
}

// Alerts lists fraud alerts.
func (g *FraudGateway) Alerts(ctx context.Context) ([]model.FraudAlert, error) {
	var alerts []model.FraudAlert
	if err := g.client.do(ctx, http.MethodGet, "/fraud/alerts", g.tokens.Token(), nil, &alerts); err != nil {
		return nil, err
	}
	if alerts == nil {
		alerts = []model.FraudAlert{}
	}
	return alerts, nil
}

// Alert fetches one fraud alert.
func (g *FraudGateway) Alert(ctx context.Context, id int64) (*model.FraudAlert, error) {
	var alert model.FraudAlert
	if err := g.client.do(ctx, http.MethodGet, fmt.Sprintf("/fraud/alerts/%d", id), g.tokens.Token(), nil, &alert); err != nil {
		return nil, err
	}
	return &alert, nil
}

// Resolve closes an alert with the analyst's investigation notes.
func (g *FraudGateway) Resolve(ctx context.Context, id int64, notes string) (*model.FraudAlertResolution, error) {
	var res model.FraudAlertResolution
	body := map[string]string{"investigationNotes": notes}
	if err := g.client.do(ctx, http.MethodPut, fmt.Sprintf("/fraud/alerts/%d/resolve", id), g.tokens.Token(), body, &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// Statistics counts alerts by status and severity.
func (g *FraudGateway) Statistics(ctx context.Context) (*model.FraudStatistics, error) {
	var stats model.FraudStatistics
	if err := g.client.do(ctx, http.MethodGet, "/fraud/statistics", g.tokens.Token(), nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
