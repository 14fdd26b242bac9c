package repository

import (
	"context"
	"errors"
	"time"

	"smartmedishop-storefront/internal/model"
	"smartmedishop-storefront/pkg/uid"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoCheckoutJournal implements CheckoutJournal on a MongoDB collection.
type MongoCheckoutJournal struct {
	client     *mongo.Client
	collection *mongo.Collection
	logger     *zap.Logger
	now        func() time.Time
}

// NewMongoCheckoutJournal connects and ensures the collection indexes.
func NewMongoCheckoutJournal(ctx context.Context, uri, dbName, collectionName string, logger *zap.Logger) (*MongoCheckoutJournal, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	collection := client.Database(dbName).Collection(collectionName)
	_, err = collection.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
		{Keys: bson.D{{Key: "state", Value: 1}}},
	})
	if err != nil {
		_ = client.Disconnect(context.Background())
		return nil, err
	}

	return newMongoCheckoutJournal(client, collection, logger), nil
}

func newMongoCheckoutJournal(client *mongo.Client, collection *mongo.Collection, logger *zap.Logger) *MongoCheckoutJournal {
	return &MongoCheckoutJournal{
		client:     client,
		collection: collection,
		logger:     logger.Named("checkout_journal"),
		now:        time.Now,
	}
}

func (r *MongoCheckoutJournal) Record(ctx context.Context, rec *model.CheckoutRecord) error {
	if rec.ID == "" {
		rec.ID = uid.New()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = r.now()
	}
	_, err := r.collection.InsertOne(ctx, rec)
	return err
}

func mongoFilter(filter model.CheckoutFilter) bson.M {
	f := bson.M{}
	if filter.State != "" {
		f["state"] = filter.State
	}
	if filter.UserID != 0 {
		f["user_id"] = filter.UserID
	}
	return f
}

func (r *MongoCheckoutJournal) List(ctx context.Context, filter model.CheckoutFilter, limit, offset int) ([]model.CheckoutRecord, int64, error) {
	f := mongoFilter(filter)

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "created_at", Value: -1}})
	findOptions.SetLimit(int64(limit))
	findOptions.SetSkip(int64(offset))

	cursor, err := r.collection.Find(ctx, f, findOptions)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	records := []model.CheckoutRecord{}
	if err := cursor.All(ctx, &records); err != nil {
		return nil, 0, err
	}

	count, err := r.collection.CountDocuments(ctx, f)
	if err != nil {
		return nil, 0, err
	}
	return records, count, nil
}

func (r *MongoCheckoutJournal) DeleteOlderThan(ctx context.Context, age time.Duration) (int64, error) {
	cutoff := r.now().Add(-age)
	res, err := r.collection.DeleteMany(ctx, bson.M{"created_at": bson.M{"$lt": cutoff}})
	if err != nil {
		return 0, err
	}
	if res.DeletedCount > 0 {
		r.logger.Info("purged checkout journal", zap.Int64("deleted", res.DeletedCount), zap.Duration("retention", age))
	}
	return res.DeletedCount, nil
}

func (r *MongoCheckoutJournal) Stats(ctx context.Context) (*model.CheckoutStats, error) {
	stats := &model.CheckoutStats{ByState: map[string]int64{}}

	cursor, err := r.collection.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$state"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	})
	if err != nil {
		return nil, err
	}
	var groups []struct {
		State string `bson:"_id"`
		Count int64  `bson:"count"`
	}
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	for _, g := range groups {
		stats.ByState[g.State] = g.Count
		stats.Total += g.Count
	}

	stats.FraudFlagged, err = r.collection.CountDocuments(ctx, bson.M{"is_fraud": true})
	if err != nil {
		return nil, err
	}

	var last model.CheckoutRecord
	err = r.collection.FindOne(ctx, bson.M{}, options.FindOne().SetSort(bson.D{{Key: "created_at", Value: -1}})).Decode(&last)
	switch {
	case errors.Is(err, mongo.ErrNoDocuments):
	case err != nil:
		return nil, err
	default:
		at := last.CreatedAt.UTC()
		stats.LastCheckoutAt = &at
	}
	return stats, nil
}

// Ping checks the connection for readiness checks.
func (r *MongoCheckoutJournal) Ping(ctx context.Context) error {
	return r.client.Ping(ctx, nil)
}

func (r *MongoCheckoutJournal) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return r.client.Disconnect(ctx)
}
