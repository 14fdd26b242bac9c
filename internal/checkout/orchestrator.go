// Package checkout turns a validated cart into a remote transaction, decrements
// stock and records purchase history.
//
// A transaction that was created but whose stock movements failed is reported
// to the caller and left as is: there is no automatic retry and no
// compensating transaction.
package checkout

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"smartmedishop-storefront/internal/gateway"
	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/internal/notify"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// ProductSource reads authoritative product snapshots.
type ProductSource interface {
	GetProduct(ctx context.Context, id int64) (*model.Product, error)
}

// TransactionSubmitter creates transactions.
type TransactionSubmitter interface {
	Submit(ctx context.Context, draft model.TransactionDraft) (*model.TransactionResult, error)
}

// MovementRecorder reports stock movements.
type MovementRecorder interface {
	RecordMovement(ctx context.Context, m model.StockMovement) (*model.StockMovement, error)
}

// PurchaseRecorder writes purchase history.
type PurchaseRecorder interface {
	Record(ctx context.Context, record model.PurchaseRecord) error
}

// Cart is the part of the cart store the checkout drives.
type Cart interface {
	Items() []model.CartItem
	Total() float64
	Refresh(ctx context.Context, products map[int64]model.Product)
	Clear(ctx context.Context)
}

// Gateways groups the remote calls a checkout makes.
type Gateways struct {
	Products     ProductSource
	Transactions TransactionSubmitter
	Movements    MovementRecorder
	Purchases    PurchaseRecorder
}

// Config holds the checkout policy.
type Config struct {
	// TaxRate is added to the cart total when building the draft (0.2 = +20%).
	TaxRate         float64
	MerchantName    string
	PaymentMethod   string
	TransactionType string
	// MaxConcurrency bounds the concurrent calls of one join. Zero means unbounded.
	MaxConcurrency int
}

// Options are the per-attempt inputs from the shopper.
type Options struct {
	PaymentMethod   string `json:"paymentMethod"`
	DeviceType      string `json:"deviceType"`
	LocationCountry string `json:"locationCountry"`
}

// Validation is the structured result of re-checking a cart.
type Validation struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Outcome describes one checkout attempt.
type Outcome struct {
	State           State                    `json:"state"`
	Validation      *Validation              `json:"validation,omitempty"`
	Draft           *model.TransactionDraft  `json:"draft,omitempty"`
	Transaction     *model.TransactionResult `json:"transaction,omitempty"`
	HistoryRecorded bool                     `json:"historyRecorded"`
	HistoryErr      error                    `json:"-"`
	ItemCount       int                      `json:"itemCount"`
	Notifications   []notify.Notification    `json:"notifications"`
}

// Result classifies the outcome for the checkout journal.
func (o *Outcome) Result() string {
	switch o.State {
	case StateDone:
		return ResultCompleted
	case StateInvalid:
		return ResultInvalid
	case StateSubmittingTransaction:
		return ResultTransactionFailed
	case StateUpdatingStock:
		return ResultStockUpdateFailed
	default:
		return ResultValidationError
	}
}

// Orchestrator runs checkouts for one session.
type Orchestrator struct {
	gw           Gateways
	cfg          Config
	logger       *zap.Logger
	now          func() time.Time
	onTransition TransitionFunc
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithClock overrides the clock used for expiration checks.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// WithTransitionHook registers an observer of state changes.
func WithTransitionHook(fn TransitionFunc) Option {
	return func(o *Orchestrator) { o.onTransition = fn }
}

// New creates an orchestrator.
func New(gw Gateways, cfg Config, logger *zap.Logger, opts ...Option) *Orchestrator {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.MerchantName == "" {
		cfg.MerchantName = model.DefaultMerchantName
	}
	if cfg.PaymentMethod == "" {
		cfg.PaymentMethod = model.DefaultPaymentMethod
	}
	if cfg.TransactionType == "" {
		cfg.TransactionType = model.DefaultTransactionType
	}
	o := &Orchestrator{
		gw:     gw,
		cfg:    cfg,
		logger: logger.Named("checkout"),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Validate re-fetches every product of the cart and collects every violation.
// A cart that passes gets its snapshots refreshed. The returned error is a
// *gateway.StockQueryError when the fetch join itself failed.
func (o *Orchestrator) Validate(ctx context.Context, c Cart) (*Validation, error) {
	items := c.Items()
	if len(items) == 0 {
		return &Validation{Valid: false, Errors: []string{ErrEmptyCart.Error()}}, nil
	}

	fetched, err := o.fetchProducts(ctx, items)
	if err != nil {
		return nil, err
	}

	now := o.now()
	errs := []string{}
	fresh := make(map[int64]model.Product, len(items))
	for i, item := range items {
		p := fetched[i]
		if p == nil {
			errs = append(errs, fmt.Sprintf(msgProductGone, item.Product.Name))
			continue
		}
		if p.Quantity < item.Quantity {
			errs = append(errs, fmt.Sprintf(msgInsufficientStock, item.Product.Name, p.Quantity, item.Quantity))
		}
		if p.IsExpired(now) {
			errs = append(errs, fmt.Sprintf(msgProductExpired, item.Product.Name))
		}
		fresh[item.Product.ID] = *p
	}

	if len(errs) == 0 {
		c.Refresh(ctx, fresh)
	}
	return &Validation{Valid: len(errs) == 0, Errors: errs}, nil
}

// fetchProducts issues one concurrent read per line. Missing products come
// back as nil entries; any other failure fails the whole join.
func (o *Orchestrator) fetchProducts(ctx context.Context, items []model.CartItem) ([]*model.Product, error) {
	out := make([]*model.Product, len(items))

	g, gctx := errgroup.WithContext(ctx)
	if o.cfg.MaxConcurrency > 0 {
		g.SetLimit(o.cfg.MaxConcurrency)
	}
	for i, item := range items {
		g.Go(func() error {
			p, err := o.gw.Products.GetProduct(gctx, item.Product.ID)
			if err != nil {
				if errors.Is(err, gateway.ErrNotFound) {
					return nil
				}
				var qErr *gateway.StockQueryError
				if errors.As(err, &qErr) {
					return err
				}
				return &gateway.StockQueryError{ProductID: item.Product.ID, Err: err}
			}
			out[i] = p
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Checkout runs validate → submit transaction → update stock → record history.
//
// An invalid cart yields an Outcome in StateInvalid and a nil error. Network
// failures return the Outcome (State is the failing step) together with a
// *gateway.StockQueryError, *gateway.TransactionSubmissionError or
// *gateway.StockUpdateError. A purchase-history failure is not an error.
func (o *Orchestrator) Checkout(ctx context.Context, c Cart, opts Options) (*Outcome, error) {
	rec := &notify.Recorder{}
	out := &Outcome{State: StateIdle}
	defer func() { out.Notifications = rec.All() }()

	o.transition(out, StateValidating)
	v, err := o.Validate(ctx, c)
	if err != nil {
		o.logger.Warn("cart validation failed", zap.Error(err))
		rec.Notify(notify.Error(msgValidationFailed))
		return out, err
	}
	out.Validation = v
	if !v.Valid {
		o.transition(out, StateInvalid)
		for _, msg := range v.Errors {
			rec.Notify(notify.Error(msg))
		}
		return out, nil
	}

	items := c.Items()
	out.ItemCount = len(items)
	draft := o.draft(c.Total(), opts)
	out.Draft = &draft

	o.transition(out, StateSubmittingTransaction)
	tx, err := o.gw.Transactions.Submit(ctx, draft)
	if err != nil {
		var subErr *gateway.TransactionSubmissionError
		if !errors.As(err, &subErr) {
			err = &gateway.TransactionSubmissionError{Err: err}
		}
		o.logger.Warn("transaction submission failed", zap.Float64("amount", draft.Amount), zap.Error(err))
		rec.Notify(notify.Error(msgTransactionFailed))
		return out, err
	}
	out.Transaction = tx
	if tx.IsFraud {
		rec.Notify(notify.Warning(fmt.Sprintf(msgFraudDetected, tx.RiskLevel, tx.FraudScore)))
	} else {
		rec.Notify(notify.Info(fmt.Sprintf(msgTransactionCleared, tx.RiskLevel, tx.FraudScore)))
	}

	o.transition(out, StateUpdatingStock)
	if err := o.updateStock(ctx, items); err != nil {
		var upErr *gateway.StockUpdateError
		if !errors.As(err, &upErr) {
			upErr = &gateway.StockUpdateError{Err: err}
			err = upErr
		}
		upErr.TransactionID = tx.TransactionID
		o.logger.Error("stock update failed after transaction was created",
			zap.Int64("transaction_id", tx.TransactionID),
			zap.Int64("product_id", upErr.ProductID),
			zap.Error(err),
		)
		rec.Notify(notify.Error(fmt.Sprintf(msgStockUpdateFailed, tx.TransactionID)))
		return out, err
	}

	o.transition(out, StateRecordingHistory)
	record := purchaseRecord(tx.TransactionID, items, draft.LocationCountry)
	if err := o.gw.Purchases.Record(ctx, record); err != nil {
		out.HistoryErr = err
		o.logger.Warn("purchase history not recorded",
			zap.Int64("transaction_id", tx.TransactionID),
			zap.Error(err),
		)
	} else {
		out.HistoryRecorded = true
	}

	c.Clear(ctx)
	o.transition(out, StateDone)
	rec.Notify(notify.Success(fmt.Sprintf(msgPurchaseSucceeded, tx.TransactionID)))
	return out, nil
}

// updateStock reports one OUT movement per line. Every movement is attempted
// and the join fails if any of them failed.
func (o *Orchestrator) updateStock(ctx context.Context, items []model.CartItem) error {
	var g errgroup.Group
	if o.cfg.MaxConcurrency > 0 {
		g.SetLimit(o.cfg.MaxConcurrency)
	}
	for _, item := range items {
		g.Go(func() error {
			_, err := o.gw.Movements.RecordMovement(ctx, model.StockMovement{
				ProductID:    item.Product.ID,
				MovementType: model.MovementOut,
				Quantity:     item.Quantity,
				Reason:       model.ReasonSale,
			})
			return err
		})
	}
	return g.Wait()
}

func (o *Orchestrator) draft(total float64, opts Options) model.TransactionDraft {
	method := opts.PaymentMethod
	if method == "" {
		method = o.cfg.PaymentMethod
	}
	return model.TransactionDraft{
		Amount:          Amount(total, o.cfg.TaxRate),
		PaymentMethod:   method,
		MerchantName:    o.cfg.MerchantName,
		TransactionType: o.cfg.TransactionType,
		DeviceType:      opts.DeviceType,
		LocationCountry: opts.LocationCountry,
	}
}

func (o *Orchestrator) transition(out *Outcome, to State) {
	from := out.State
	out.State = to
	o.logger.Debug("checkout state", zap.String("from", string(from)), zap.String("to", string(to)))
	if o.onTransition != nil {
		o.onTransition(from, to)
	}
}

// Amount applies the tax rate to a cart total, rounded to cents.
func Amount(total, taxRate float64) float64 {
	return math.Round(total*(1+taxRate)*100) / 100
}

func purchaseRecord(transactionID int64, items []model.CartItem, location string) model.PurchaseRecord {
	if location == "" {
		location = model.UnknownLocation
	}
	lines := make([]model.PurchaseItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, model.PurchaseItem{ProductID: item.Product.ID, Quantity: item.Quantity})
	}
	return model.PurchaseRecord{
		TransactionID: transactionID,
		Items:         lines,
		Location:      location,
	}
}
