package handler

import (
	"context"

	"smartmedishop-storefront/internal/cart"
	"smartmedishop-storefront/internal/checkout"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/internal/service"
)

// Storefront is the per-session API the handlers drive.
type Storefront interface {
	CurrentUser(ctx context.Context, sid string) *model.User
	Login(ctx context.Context, sid string, creds model.Credentials) (*model.User, error)
	Register(ctx context.Context, sid string, reg model.Registration) (*model.User, error)
	Logout(ctx context.Context, sid string)

	Catalog(ctx context.Context, sid string) ([]model.Product, error)
	Product(ctx context.Context, sid string, id int64) (*model.Product, error)

	Cart(ctx context.Context, sid string) cart.Snapshot
	AddToCart(ctx context.Context, sid string, productID int64, quantity int) (cart.Snapshot, error)
	UpdateCartItem(ctx context.Context, sid string, productID int64, quantity int) (cart.Snapshot, error)
	RemoveCartItem(ctx context.Context, sid string, productID int64) cart.Snapshot
	ClearCart(ctx context.Context, sid string)
	ValidateCart(ctx context.Context, sid string) (*checkout.Validation, error)
	Checkout(ctx context.Context, sid string, opts checkout.Options) (*checkout.Outcome, error)

	Purchases(ctx context.Context, sid string) ([]model.Purchase, error)
	Transactions(ctx context.Context, sid string) ([]model.Transaction, error)
	FraudAlerts(ctx context.Context, sid string) ([]model.FraudAlert, error)
	Movements(ctx context.Context, sid string, productID int64) ([]model.StockMovement, error)
	TransactionStatistics(ctx context.Context, sid string) (*model.TransactionStatistics, error)
	TransactionOverview(ctx context.Context, sid string) (*model.TransactionOverview, error)

	FraudAlert(ctx context.Context, sid string, id int64) (*model.FraudAlert, error)
	ResolveFraudAlert(ctx context.Context, sid string, id int64, notes string) (*model.FraudAlertResolution, error)
	FraudStatistics(ctx context.Context, sid string) (*model.FraudStatistics, error)

	CreateProduct(ctx context.Context, sid string, p model.Product) (*model.Product, error)
	UpdateProduct(ctx context.Context, sid string, id int64, upd model.ProductUpdate) (*model.Product, error)
	Restock(ctx context.Context, sid string, productID int64, quantity int, reason string) (*model.StockMovement, error)
	StockAlerts(ctx context.Context, sid string, productID int64) ([]model.StockAlert, error)

	Users(ctx context.Context, sid string, q model.UserQuery) (*model.UserPage, error)
	User(ctx context.Context, sid string, id int64) (*model.User, error)
	SetUserActive(ctx context.Context, sid string, id int64, active bool) error
	UserStatistics(ctx context.Context, sid string) (map[string]interface{}, error)

	Checkouts(ctx context.Context, filter model.CheckoutFilter, limit, offset int) ([]model.CheckoutRecord, int64, error)
	CheckoutStats(ctx context.Context) (*model.CheckoutStats, error)
	ActiveShoppers() int
}

var _ Storefront = (*service.Storefront)(nil)
