// Package service holds the storefront: one shopper (identity and cart) per
// browser session, plus the catalog cache and the checkout journal.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"smartmedishop-storefront/internal/cache"
	"smartmedishop-storefront/internal/cart"
	"smartmedishop-storefront/internal/checkout"
	"smartmedishop-storefront/internal/gateway"
	"smartmedishop-storefront/internal/metrics"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/internal/repository"
	"smartmedishop-storefront/internal/session"

	"go.uber.org/zap"
)

const catalogKey = "catalog:products"

// ErrJournalDisabled is returned by journal queries when no journal is configured.
var ErrJournalDisabled = errors.New("checkout journal is disabled")

// Config holds storefront settings.
type Config struct {
	Checkout   checkout.Config
	SessionTTL time.Duration
	CatalogTTL time.Duration
}

// Shopper is the state of one browser session.
type Shopper struct {
	ID      string
	Session *session.Provider
	Cart    *cart.Store

	stock        *gateway.StockGateway
	transactions *gateway.TransactionGateway
	purchases    *gateway.PurchaseGateway
	fraud        *gateway.FraudGateway
	users        *gateway.UserGateway
	checkout     *checkout.Orchestrator

	// mu serializes cart mutations and checkout of this session.
	mu       sync.Mutex
	lastSeen atomic.Int64
}

func (s *Shopper) touch(now time.Time) { s.lastSeen.Store(now.UnixNano()) }

// LastSeen returns when the shopper was last used.
func (s *Shopper) LastSeen() time.Time { return time.Unix(0, s.lastSeen.Load()) }

// Storefront serves every browser session of the process.
type Storefront struct {
	client  *gateway.Client
	auth    *gateway.AuthGateway
	cache   cache.Cache
	journal repository.CheckoutJournal
	metrics *metrics.Metrics
	cfg     Config
	logger  *zap.Logger
	now     func() time.Time

	mu       sync.Mutex
	shoppers map[string]*Shopper
}

// Option configures a Storefront.
type Option func(*Storefront)

// WithJournal records every checkout attempt in j.
func WithJournal(j repository.CheckoutJournal) Option {
	return func(s *Storefront) { s.journal = j }
}

// WithMetrics reports checkout and session metrics to m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Storefront) { s.metrics = m }
}

// WithClock overrides the clock used by carts, sessions and checkouts.
func WithClock(now func() time.Time) Option {
	return func(s *Storefront) { s.now = now }
}

// New creates a storefront talking to the API through client.
func New(client *gateway.Client, c cache.Cache, cfg Config, logger *zap.Logger, opts ...Option) *Storefront {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Storefront{
		client:   client,
		auth:     gateway.NewAuthGateway(client),
		cache:    c,
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		shoppers: make(map[string]*Shopper),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Shopper returns the shopper of sid, restoring its persisted cart and
// credential on first use.
func (s *Storefront) Shopper(ctx context.Context, sid string) *Shopper {
	s.mu.Lock()
	sh, ok := s.shoppers[sid]
	s.mu.Unlock()
	if ok {
		sh.touch(s.now())
		return sh
	}

	created := s.newShopper(ctx, sid)

	s.mu.Lock()
	if sh, ok = s.shoppers[sid]; !ok {
		sh = created
		s.shoppers[sid] = sh
	}
	n := len(s.shoppers)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetActiveShoppers(n)
	}
	sh.touch(s.now())
	return sh
}

func (s *Storefront) newShopper(ctx context.Context, sid string) *Shopper {
	log := s.logger.With(zap.String("session_id", sid))

	sess := session.New(ctx, s.auth,
		&credentialStore{cache: s.cache, key: tokenKey(sid), ttl: s.cfg.SessionTTL},
		log, session.WithClock(s.now))

	store := cart.NewStore(&cartPersister{cache: s.cache, key: cartKey(sid), ttl: s.cfg.SessionTTL},
		log, cart.WithClock(s.now))
	if err := store.Restore(ctx); err != nil {
		log.Warn("failed to restore cart", zap.Error(err))
	}

	sh := &Shopper{
		ID:           sid,
		Session:      sess,
		Cart:         store,
		stock:        gateway.NewStockGateway(s.client, sess),
		transactions: gateway.NewTransactionGateway(s.client, sess),
		purchases:    gateway.NewPurchaseGateway(s.client, sess),
		fraud:        gateway.NewFraudGateway(s.client, sess),
		users:        gateway.NewUserGateway(s.client, sess),
	}

	opts := []checkout.Option{checkout.WithClock(s.now)}
	if s.metrics != nil {
		opts = append(opts, checkout.WithTransitionHook(s.metrics.TransitionHook()))
	}
	sh.checkout = checkout.New(checkout.Gateways{
		Products:     sh.stock,
		Transactions: sh.transactions,
		Movements:    sh.stock,
		Purchases:    sh.purchases,
	}, s.cfg.Checkout, log, opts...)

	return sh
}

// lock returns the shopper of sid with its mutex held.
func (s *Storefront) lock(ctx context.Context, sid string) (*Shopper, func()) {
	sh := s.Shopper(ctx, sid)
	return sh, s.hold(sh)
}

// hold locks sh. The returned func marks sh as seen before releasing it, so
// a long checkout is not judged idle by the time it ends.
func (s *Storefront) hold(sh *Shopper) func() {
	sh.mu.Lock()
	return func() {
		sh.touch(s.now())
		sh.mu.Unlock()
	}
}

// ActiveShoppers returns the number of sessions held in memory.
func (s *Storefront) ActiveShoppers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shoppers)
}

// EvictIdle drops shoppers unused for longer than idle. Their cart and
// credential stay in the cache and are restored on the next request.
// Shoppers busy with a cart mutation or a checkout are kept.
func (s *Storefront) EvictIdle(idle time.Duration) int {
	cutoff := s.now().Add(-idle)

	s.mu.Lock()
	evicted := 0
	for sid, sh := range s.shoppers {
		if !sh.LastSeen().Before(cutoff) || !sh.mu.TryLock() {
			continue
		}
		delete(s.shoppers, sid)
		sh.mu.Unlock()
		evicted++
	}
	n := len(s.shoppers)
	s.mu.Unlock()

	if s.metrics != nil {
		s.metrics.SetActiveShoppers(n)
	}
	return evicted
}

// CurrentUser returns the user logged in on sid, or nil. A session with no
// shopper in memory and no stored credential is answered without creating one.
func (s *Storefront) CurrentUser(ctx context.Context, sid string) *model.User {
	s.mu.Lock()
	sh, ok := s.shoppers[sid]
	s.mu.Unlock()
	if ok {
		sh.touch(s.now())
		return sh.Session.CurrentUser()
	}

	known, err := s.cache.Exists(ctx, tokenKey(sid))
	if err != nil {
		s.logger.Warn("failed to look up session credential", zap.String("session_id", sid), zap.Error(err))
		return nil
	}
	if !known {
		return nil
	}
	return s.Shopper(ctx, sid).Session.CurrentUser()
}

// Login authenticates sid.
func (s *Storefront) Login(ctx context.Context, sid string, creds model.Credentials) (*model.User, error) {
	return s.Shopper(ctx, sid).Session.Login(ctx, creds.Username, creds.Password)
}

// Register creates an account and logs sid into it.
func (s *Storefront) Register(ctx context.Context, sid string, reg model.Registration) (*model.User, error) {
	return s.Shopper(ctx, sid).Session.Register(ctx, reg)
}

// Logout ends the identity of sid and empties its cart.
func (s *Storefront) Logout(ctx context.Context, sid string) {
	sh, unlock := s.lock(ctx, sid)
	defer unlock()

	sh.Session.Logout(ctx)
	sh.Cart.Clear(ctx)
}

// Catalog lists products, served from the cache for CatalogTTL.
func (s *Storefront) Catalog(ctx context.Context, sid string) ([]model.Product, error) {
	sh := s.Shopper(ctx, sid)

	raw, err := s.cache.GetOrSet(ctx, catalogKey, s.cfg.CatalogTTL, func() ([]byte, error) {
		products, err := sh.stock.ListProducts(ctx)
		if err != nil {
			return nil, err
		}
		return json.Marshal(products)
	})
	if err != nil {
		return nil, err
	}

	var products []model.Product
	if err := json.Unmarshal(raw, &products); err != nil {
		return nil, err
	}
	return products, nil
}

// Product fetches one product, bypassing the catalog cache.
func (s *Storefront) Product(ctx context.Context, sid string, id int64) (*model.Product, error) {
	return s.Shopper(ctx, sid).stock.GetProduct(ctx, id)
}

// Cart returns the cart of sid.
func (s *Storefront) Cart(ctx context.Context, sid string) cart.Snapshot {
	return s.Shopper(ctx, sid).Cart.Snapshot()
}

// AddToCart fetches the product and adds quantity of it to the cart.
func (s *Storefront) AddToCart(ctx context.Context, sid string, productID int64, quantity int) (cart.Snapshot, error) {
	sh := s.Shopper(ctx, sid)
	product, err := sh.stock.GetProduct(ctx, productID)
	if err != nil {
		return cart.Snapshot{}, err
	}

	defer s.hold(sh)()
	if err := sh.Cart.AddItem(ctx, *product, quantity); err != nil {
		return cart.Snapshot{}, err
	}
	return sh.Cart.Snapshot(), nil
}

// UpdateCartItem sets the quantity of a line; zero or less removes it.
func (s *Storefront) UpdateCartItem(ctx context.Context, sid string, productID int64, quantity int) (cart.Snapshot, error) {
	sh, unlock := s.lock(ctx, sid)
	defer unlock()

	if err := sh.Cart.UpdateQuantity(ctx, productID, quantity); err != nil {
		return cart.Snapshot{}, err
	}
	return sh.Cart.Snapshot(), nil
}

// RemoveCartItem removes a line.
func (s *Storefront) RemoveCartItem(ctx context.Context, sid string, productID int64) cart.Snapshot {
	sh, unlock := s.lock(ctx, sid)
	defer unlock()

	sh.Cart.RemoveItem(ctx, productID)
	return sh.Cart.Snapshot()
}

// ClearCart empties the cart.
func (s *Storefront) ClearCart(ctx context.Context, sid string) {
	sh, unlock := s.lock(ctx, sid)
	defer unlock()

	sh.Cart.Clear(ctx)
}

// ValidateCart re-checks the cart against current stock.
func (s *Storefront) ValidateCart(ctx context.Context, sid string) (*checkout.Validation, error) {
	sh, unlock := s.lock(ctx, sid)
	defer unlock()

	return sh.checkout.Validate(ctx, sh.Cart)
}

// Checkout purchases the cart of sid and journals the attempt.
func (s *Storefront) Checkout(ctx context.Context, sid string, opts checkout.Options) (*checkout.Outcome, error) {
	sh, unlock := s.lock(ctx, sid)
	defer unlock()

	start := s.now()
	out, err := sh.checkout.Checkout(ctx, sh.Cart, opts)
	elapsed := s.now().Sub(start)

	if s.metrics != nil {
		s.metrics.CheckoutFinished(out.Result(), elapsed)
	}
	s.journalCheckout(ctx, sh, out, err, elapsed)
	return out, err
}

func (s *Storefront) journalCheckout(ctx context.Context, sh *Shopper, out *checkout.Outcome, err error, elapsed time.Duration) {
	if s.journal == nil {
		return
	}

	rec := &model.CheckoutRecord{
		SessionID:       sh.ID,
		State:           out.Result(),
		ItemCount:       out.ItemCount,
		HistoryRecorded: out.HistoryRecorded,
		DurationMs:      elapsed.Milliseconds(),
		CreatedAt:       s.now(),
	}
	if user := sh.Session.CurrentUser(); user != nil {
		rec.UserID = user.ID
		rec.Username = user.Username
	}
	if out.Draft != nil {
		rec.Amount = out.Draft.Amount
	}
	if tx := out.Transaction; tx != nil {
		rec.TransactionID = tx.TransactionID
		rec.IsFraud = tx.IsFraud
		rec.RiskLevel = tx.RiskLevel
		rec.FraudScore = tx.FraudScore
	}
	switch {
	case err != nil:
		rec.ErrorMessage = err.Error()
	case out.HistoryErr != nil:
		rec.ErrorMessage = out.HistoryErr.Error()
	}

	if jErr := s.journal.Record(context.WithoutCancel(ctx), rec); jErr != nil {
		s.logger.Warn("failed to journal checkout",
			zap.String("session_id", sh.ID),
			zap.String("state", rec.State),
			zap.Error(jErr),
		)
	}
}

// Purchases lists the purchase history of the logged-in user.
func (s *Storefront) Purchases(ctx context.Context, sid string) ([]model.Purchase, error) {
	return s.Shopper(ctx, sid).purchases.Mine(ctx)
}

// Transactions lists the transactions of the logged-in user.
func (s *Storefront) Transactions(ctx context.Context, sid string) ([]model.Transaction, error) {
	return s.Shopper(ctx, sid).transactions.Mine(ctx)
}

// FraudAlerts lists fraud alerts for analysts.
func (s *Storefront) FraudAlerts(ctx context.Context, sid string) ([]model.FraudAlert, error) {
	return s.Shopper(ctx, sid).fraud.Alerts(ctx)
}

// Movements lists the stock movements of a product.
func (s *Storefront) Movements(ctx context.Context, sid string, productID int64) ([]model.StockMovement, error) {
	return s.Shopper(ctx, sid).stock.ListMovements(ctx, productID)
}

// Checkouts lists journaled checkout attempts.
func (s *Storefront) Checkouts(ctx context.Context, filter model.CheckoutFilter, limit, offset int) ([]model.CheckoutRecord, int64, error) {
	if s.journal == nil {
		return nil, 0, ErrJournalDisabled
	}
	return s.journal.List(ctx, filter, limit, offset)
}

// CheckoutStats summarizes the journal.
func (s *Storefront) CheckoutStats(ctx context.Context) (*model.CheckoutStats, error) {
	if s.journal == nil {
		return nil, ErrJournalDisabled
	}
	return s.journal.Stats(ctx)
}
