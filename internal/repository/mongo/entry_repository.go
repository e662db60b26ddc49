package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"pythia/internal/domain/entry"
	"pythia/internal/metrics"
	"pythia/pkg/errors"
)

// Compile-time check
var _ entry.Repository = (*EntryRepository)(nil)

// EntryRepository implements entry.Repository on MongoDB. Field names in the
// stored documents match the original deployment's collections so existing
// data and downstream consumers keep working.
type EntryRepository struct {
	entries    *mongo.Collection
	aggregates *mongo.Collection
}

// NewEntryRepository creates a repository over the entry and aggregate collections
func NewEntryRepository(db *mongo.Database, entryCollection, aggregateCollection string) *EntryRepository {
	return &EntryRepository{
		entries:    db.Collection(entryCollection),
		aggregates: db.Collection(aggregateCollection),
	}
}

// InsertEntry stores a scored entry and returns its hex identifier
func (r *EntryRepository) InsertEntry(ctx context.Context, e *entry.ScoredEntry) (string, error) {
	doc := bson.M{
		"user":               e.User,
		"text":               e.Text,
		"date":               e.Date,
		"textblob_sentiment": e.LexiconSentiment,
		"vader_sentiment":    e.RuleSentiment,
	}
	if e.Title != "" {
		doc["title"] = e.Title
	}
	if e.Price != nil {
		doc["price"] = *e.Price
	}

	res, err := r.entries.InsertOne(ctx, doc)
	if err != nil {
		metrics.StorageWrites.WithLabelValues("insert_entry", "error").Inc()
		return "", errors.Wrap(err, "insert entry")
	}
	metrics.StorageWrites.WithLabelValues("insert_entry", "success").Inc()

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Newf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// InsertAggregate stores a batch aggregate and returns its hex identifier.
// Absent averages are stored as explicit nulls, matching the original schema.
func (r *EntryRepository) InsertAggregate(ctx context.Context, a *entry.AggregateRecord) (string, error) {
	doc := bson.M{
		"source":             a.Source,
		"keyword":            a.Keyword,
		"timestamp":          a.Timestamp,
		"textblob_sentiment": a.LexiconSentiment,
		"vader_sentiment":    a.RuleSentiment,
		"price":              a.Price,
	}

	res, err := r.aggregates.InsertOne(ctx, doc)
	if err != nil {
		metrics.StorageWrites.WithLabelValues("insert_aggregate", "error").Inc()
		return "", errors.Wrap(err, "insert aggregate")
	}
	metrics.StorageWrites.WithLabelValues("insert_aggregate", "success").Inc()

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", errors.Newf("unexpected inserted id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

// SetEntryAggregate patches a stored entry with its aggregate identifier
func (r *EntryRepository) SetEntryAggregate(ctx context.Context, entryID, aggregateID string) error {
	entryOID, err := primitive.ObjectIDFromHex(entryID)
	if err != nil {
		return errors.Wrapf(err, "entry id %q", entryID)
	}
	aggregateOID, err := primitive.ObjectIDFromHex(aggregateID)
	if err != nil {
		return errors.Wrapf(err, "aggregate id %q", aggregateID)
	}

	res, err := r.entries.UpdateOne(ctx,
		bson.M{"_id": entryOID},
		bson.M{"$set": bson.M{"average_id": aggregateOID}},
	)
	if err != nil {
		metrics.StorageWrites.WithLabelValues("link_entry", "error").Inc()
		return errors.Wrap(err, "set entry aggregate")
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(errors.ErrNotFound, "entry %s", entryID)
	}
	metrics.StorageWrites.WithLabelValues("link_entry", "success").Inc()
	return nil
}
