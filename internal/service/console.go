package service

import (
	"context"
	"errors"

	"smartmedishop-storefront/internal/model"

	"go.uber.org/zap"
)

// ErrInvalidQuantity is returned for restocks of zero or fewer units.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// FraudAlert fetches one fraud alert.
func (s *Storefront) FraudAlert(ctx context.Context, sid string, id int64) (*model.FraudAlert, error) {
	return s.Shopper(ctx, sid).fraud.Alert(ctx, id)
}

// ResolveFraudAlert closes an alert with the analyst's notes.
func (s *Storefront) ResolveFraudAlert(ctx context.Context, sid string, id int64, notes string) (*model.FraudAlertResolution, error) {
	sh := s.Shopper(ctx, sid)
	res, err := sh.fraud.Resolve(ctx, id, notes)
	if err != nil {
		return nil, err
	}
	s.logger.Info("fraud alert resolved",
		zap.Int64("alert_id", id),
		zap.String("resolved_by", res.ResolvedBy),
	)
	return res, nil
}

// FraudStatistics counts alerts by status and severity.
func (s *Storefront) FraudStatistics(ctx context.Context, sid string) (*model.FraudStatistics, error) {
	return s.Shopper(ctx, sid).fraud.Statistics(ctx)
}

// TransactionStatistics summarizes the transactions of the logged-in user.
func (s *Storefront) TransactionStatistics(ctx context.Context, sid string) (*model.TransactionStatistics, error) {
	return s.Shopper(ctx, sid).transactions.Statistics(ctx)
}

// TransactionOverview summarizes every transaction.
func (s *Storefront) TransactionOverview(ctx context.Context, sid string) (*model.TransactionOverview, error) {
	return s.Shopper(ctx, sid).transactions.Overview(ctx)
}

// CreateProduct adds a product and drops the cached catalog.
func (s *Storefront) CreateProduct(ctx context.Context, sid string, p model.Product) (*model.Product, error) {
	created, err := s.Shopper(ctx, sid).stock.CreateProduct(ctx, p)
	if err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return created, nil
}

// UpdateProduct edits a product and drops the cached catalog.
func (s *Storefront) UpdateProduct(ctx context.Context, sid string, id int64, upd model.ProductUpdate) (*model.Product, error) {
	updated, err := s.Shopper(ctx, sid).stock.UpdateProduct(ctx, id, upd)
	if err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return updated, nil
}

// Restock records a manual IN movement. An empty reason defaults to RESTOCK.
func (s *Storefront) Restock(ctx context.Context, sid string, productID int64, quantity int, reason string) (*model.StockMovement, error) {
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}
	if reason == "" {
		reason = model.ReasonRestock
	}
	m, err := s.Shopper(ctx, sid).stock.RecordMovement(ctx, model.StockMovement{
		ProductID:    productID,
		MovementType: model.MovementIn,
		Quantity:     quantity,
		Reason:       reason,
	})
	if err != nil {
		return nil, err
	}
	s.invalidateCatalog(ctx)
	return m, nil
}

// StockAlerts lists the stock alerts of a product.
func (s *Storefront) StockAlerts(ctx context.Context, sid string, productID int64) ([]model.StockAlert, error) {
	return s.Shopper(ctx, sid).stock.ProductAlerts(ctx, productID)
}

// Users pages through the user directory.
func (s *Storefront) Users(ctx context.Context, sid string, q model.UserQuery) (*model.UserPage, error) {
	return s.Shopper(ctx, sid).users.List(ctx, q)
}

// User fetches one account.
func (s *Storefront) User(ctx context.Context, sid string, id int64) (*model.User, error) {
	return s.Shopper(ctx, sid).users.Get(ctx, id)
}

// SetUserActive activates or deactivates an account.
func (s *Storefront) SetUserActive(ctx context.Context, sid string, id int64, active bool) error {
	if err := s.Shopper(ctx, sid).users.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.logger.Info("user activation changed", zap.Int64("user_id", id), zap.Bool("active", active))
	return nil
}

// UserStatistics returns the directory counters.
func (s *Storefront) UserStatistics(ctx context.Context, sid string) (map[string]interface{}, error) {
	return s.Shopper(ctx, sid).users.Statistics(ctx)
}

func (s *Storefront) invalidateCatalog(ctx context.Context) {
	if err := s.cache.Delete(ctx, catalogKey); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}
