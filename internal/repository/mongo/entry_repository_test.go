package mongo

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"pythia/internal/domain/entry"
	"pythia/pkg/errors"
)

// setupTestRepo starts a MongoDB container and returns a connected repository.
// Returns a cleanup function that must be called after tests complete.
func setupTestRepo(t *testing.T) (*EntryRepository, *mongodriver.Database, func()) {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping container test in -short mode")
	}

	ctx := context.Background()

	container, err := mongodb.Run(ctx, "mongo:7")
	require.NoError(t, err, "failed to start mongodb container")

	uri, err := container.ConnectionString(ctx)
	require.NoError(t, err, "failed to get connection string")

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongodriver.Connect(connectCtx, options.Client().ApplyURI(uri))
	require.NoError(t, err, "failed to connect")

	db := client.Database("social_media_analysis_test")
	repo := NewEntryRepository(db, "sentiment_details", "sentiment_average")

	cleanup := func() {
		_ = client.Disconnect(ctx)
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	}

	return repo, db, cleanup
}

func floatPtr(v float64) *float64 { return &v }

func TestEntryRepository_InsertEntry(t *testing.T) {
	repo, db, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()
	date := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	id, err := repo.InsertEntry(ctx, &entry.ScoredEntry{
		User:             "alice",
		Title:            "BTC thread",
		Text:             "bitcoin is mooning",
		Date:             date,
		LexiconSentiment: 0.5,
		RuleSentiment:    0.8,
		Price:            floatPtr(61234.5),
	})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	oid, err := primitive.ObjectIDFromHex(id)
	require.NoError(t, err)

	var doc bson.M
	err = db.Collection("sentiment_details").FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	require.NoError(t, err)

	assert.Equal(t, "alice", doc["user"])
	assert.Equal(t, "BTC thread", doc["title"])
	assert.Equal(t, "bitcoin is mooning", doc["text"])
	assert.Equal(t, 0.5, doc["textblob_sentiment"])
	assert.Equal(t, 0.8, doc["vader_sentiment"])
	assert.Equal(t, 61234.5, doc["price"])
	assert.NotContains(t, doc, "average_id", "back-reference only set after aggregation")
}

func TestEntryRepository_InsertEntry_OmitsOptionalFields(t *testing.T) {
	repo, db, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()

	id, err := repo.InsertEntry(ctx, &entry.ScoredEntry{
		User:             "bob",
		Text:             "eth looks weak",
		Date:             time.Now().UTC(),
		LexiconSentiment: -0.3,
		RuleSentiment:    -0.1,
	})
	require.NoError(t, err)

	oid, _ := primitive.ObjectIDFromHex(id)
	var doc bson.M
	require.NoError(t, db.Collection("sentiment_details").FindOne(ctx, bson.M{"_id": oid}).Decode(&doc))

	assert.NotContains(t, doc, "title")
	assert.NotContains(t, doc, "price")
}

func TestEntryRepository_InsertAggregate_NullAverages(t *testing.T) {
	repo, db, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()

	id, err := repo.InsertAggregate(ctx, &entry.AggregateRecord{
		Source:    "twitter",
		Keyword:   "bitcoin",
		Timestamp: time.Now().UTC(),
		// no entry contributed anything
	})
	require.NoError(t, err)

	oid, _ := primitive.ObjectIDFromHex(id)
	var doc bson.M
	require.NoError(t, db.Collection("sentiment_average").FindOne(ctx, bson.M{"_id": oid}).Decode(&doc))

	// Absent averages are stored as explicit nulls, distinct from zero
	assert.Contains(t, doc, "textblob_sentiment")
	assert.Nil(t, doc["textblob_sentiment"])
	assert.Nil(t, doc["vader_sentiment"])
	assert.Nil(t, doc["price"])
}

func TestEntryRepository_SetEntryAggregate(t *testing.T) {
	repo, db, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()

	entryID, err := repo.InsertEntry(ctx, &entry.ScoredEntry{
		User:             "alice",
		Text:             "bullish",
		Date:             time.Now().UTC(),
		LexiconSentiment: 0.7,
		RuleSentiment:    0.2,
	})
	require.NoError(t, err)

	aggregateID, err := repo.InsertAggregate(ctx, &entry.AggregateRecord{
		Source:           "twitter",
		Keyword:          "bitcoin",
		Timestamp:        time.Now().UTC(),
		LexiconSentiment: floatPtr(0.7),
		RuleSentiment:    floatPtr(0.2),
	})
	require.NoError(t, err)

	require.NoError(t, repo.SetEntryAggregate(ctx, entryID, aggregateID))

	entryOID, _ := primitive.ObjectIDFromHex(entryID)
	aggregateOID, _ := primitive.ObjectIDFromHex(aggregateID)

	var doc bson.M
	require.NoError(t, db.Collection("sentiment_details").FindOne(ctx, bson.M{"_id": entryOID}).Decode(&doc))
	assert.Equal(t, aggregateOID, doc["average_id"])
}

func TestEntryRepository_SetEntryAggregate_MissingEntry(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	ctx := context.Background()

	aggregateID, err := repo.InsertAggregate(ctx, &entry.AggregateRecord{
		Source:    "twitter",
		Keyword:   "bitcoin",
		Timestamp: time.Now().UTC(),
	})
	require.NoError(t, err)

	err = repo.SetEntryAggregate(ctx, primitive.NewObjectID().Hex(), aggregateID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrNotFound))
}

func TestEntryRepository_SetEntryAggregate_BadIDs(t *testing.T) {
	repo, _, cleanup := setupTestRepo(t)
	defer cleanup()

	err := repo.SetEntryAggregate(context.Background(), "not-a-hex-id", primitive.NewObjectID().Hex())
	assert.Error(t, err)
}
