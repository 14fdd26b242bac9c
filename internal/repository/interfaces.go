package repository

import (
	"context"
	"time"

	"smartmedishop-storefront/internal/model"
)

// CheckoutJournal stores one row per checkout attempt.
type CheckoutJournal interface {
	// Record inserts rec, assigning ID and CreatedAt when they are empty.
	Record(ctx context.Context, rec *model.CheckoutRecord) error

	// List returns matching rows newest first, plus the total match count.
	List(ctx context.Context, filter model.CheckoutFilter, limit, offset int) ([]model.CheckoutRecord, int64, error)

	// DeleteOlderThan removes rows created more than age ago.
	DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error)

	Stats(ctx context.Context) (*model.CheckoutStats, error)

	Close() error
}

var (
	_ CheckoutJournal = (*SQLCheckoutJournal)(nil)
	_ CheckoutJournal = (*MongoCheckoutJournal)(nil)
)
