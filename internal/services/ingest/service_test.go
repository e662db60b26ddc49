package ingest

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pythia/internal/domain/asset"
	"pythia/internal/domain/entry"
	"pythia/pkg/errors"
)

// MockRepository records pipeline writes in memory
type MockRepository struct {
	entries        []*entry.ScoredEntry
	aggregates     []*entry.AggregateRecord
	links          map[string]string
	insertEntryErr error
}

func NewMockRepository() *MockRepository {
	return &MockRepository{links: make(map[string]string)}
}

func (m *MockRepository) InsertEntry(ctx context.Context, e *entry.ScoredEntry) (string, error) {
	if m.insertEntryErr != nil {
		return "", m.insertEntryErr
	}
	id := fmt.Sprintf("entry-%d", len(m.entries)+1)
	e.ID = id
	m.entries = append(m.entries, e)
	return id, nil
}

func (m *MockRepository) InsertAggregate(ctx context.Context, a *entry.AggregateRecord) (string, error) {
	id := fmt.Sprintf("aggregate-%d", len(m.aggregates)+1)
	a.ID = id
	m.aggregates = append(m.aggregates, a)
	return id, nil
}

func (m *MockRepository) SetEntryAggregate(ctx context.Context, entryID, aggregateID string) error {
	// Back-references must never precede the aggregate insert
	if len(m.aggregates) == 0 {
		return errors.New("aggregate not stored yet")
	}
	m.links[entryID] = aggregateID
	return nil
}

// MockLanguageGate treats texts in its reject set as non-English
type MockLanguageGate struct {
	reject map[string]bool
}

func (m *MockLanguageGate) IsEnglish(text string) bool {
	return !m.reject[text]
}

// MockRelevance treats texts in its reject set as irrelevant
type MockRelevance struct {
	reject map[string]bool
}

func (m *MockRelevance) IsFinanciallyRelevant(text string) bool {
	return !m.reject[text]
}

// MockScorer returns fixed scores per text, zero pairs otherwise
type MockScorer struct {
	scores map[string][2]float64
}

func (m *MockScorer) Score(text string) (float64, float64) {
	s := m.scores[text]
	return s[0], s[1]
}

// MockResolver returns a fixed price or error for every lookup
type MockResolver struct {
	price float64
	err   error
	calls int
}

func (m *MockResolver) Resolve(ctx context.Context, a asset.Asset, at time.Time) (float64, error) {
	m.calls++
	if m.err != nil {
		return 0, m.err
	}
	return m.price, nil
}

type fixture struct {
	repo      *MockRepository
	language  *MockLanguageGate
	relevance *MockRelevance
	scorer    *MockScorer
	resolver  *MockResolver
}

func newFixture() *fixture {
	return &fixture{
		repo:      NewMockRepository(),
		language:  &MockLanguageGate{reject: map[string]bool{}},
		relevance: &MockRelevance{reject: map[string]bool{}},
		scorer:    &MockScorer{scores: map[string][2]float64{}},
		resolver:  &MockResolver{price: 50000},
	}
}

func (f *fixture) service(cfg Config) *Service {
	return NewService(f.repo, f.language, f.relevance, f.scorer, f.resolver, nil, cfg)
}

func rawEntry(text string) entry.RawEntry {
	return entry.RawEntry{User: "alice", Text: text, Date: "2024-03-01T12:00:00"}
}

func TestProcess_StoresScoredEntries(t *testing.T) {
	f := newFixture()
	f.scorer.scores["bitcoin is mooning"] = [2]float64{0.5, 0.8}
	f.scorer.scores["eth looks weak"] = [2]float64{-0.3, -0.2}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{
			rawEntry("bitcoin is mooning"),
			rawEntry("eth looks weak"),
		},
	})

	require.NoError(t, err)
	assert.Len(t, result.StoredIDs, 2)
	assert.NotEmpty(t, result.AggregateID)
	assert.Equal(t, "Texts stored", result.Message)

	require.Len(t, f.repo.entries, 2)
	assert.Equal(t, 0.5, f.repo.entries[0].LexiconSentiment)
	assert.Equal(t, 0.8, f.repo.entries[0].RuleSentiment)
	require.NotNil(t, f.repo.entries[0].Price)
	assert.Equal(t, 50000.0, *f.repo.entries[0].Price)
}

func TestProcess_BothScoresZeroNeverPersisted(t *testing.T) {
	f := newFixture()
	f.scorer.scores["flat text"] = [2]float64{0, 0}
	f.scorer.scores["signal text"] = [2]float64{0.4, 0}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "reddit",
		Keyword: "Ethereum",
		Entries: []entry.RawEntry{rawEntry("flat text"), rawEntry("signal text")},
	})

	require.NoError(t, err)
	assert.Len(t, result.StoredIDs, 1)
	require.Len(t, f.repo.entries, 1)
	assert.Equal(t, "signal text", f.repo.entries[0].Text)
}

func TestProcess_SingleZeroScoreStillContributesOther(t *testing.T) {
	f := newFixture()
	// Lexicon silent, rule model has signal
	f.scorer.scores["rule only"] = [2]float64{0, 0.6}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	_, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{rawEntry("rule only")},
	})

	require.NoError(t, err)
	require.Len(t, f.repo.aggregates, 1)
	agg := f.repo.aggregates[0]
	assert.Nil(t, agg.LexiconSentiment, "no entry contributed a lexicon score")
	require.NotNil(t, agg.RuleSentiment)
	assert.InDelta(t, 0.6, *agg.RuleSentiment, 1e-9)
}

func TestProcess_LanguageGateSkips(t *testing.T) {
	f := newFixture()
	f.language.reject["no hablo"] = true
	f.scorer.scores["no hablo"] = [2]float64{0.9, 0.9}
	f.scorer.scores["english text"] = [2]float64{0.2, 0.2}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{rawEntry("no hablo"), rawEntry("english text")},
	})

	require.NoError(t, err)
	assert.Len(t, result.StoredIDs, 1)
	require.Len(t, f.repo.aggregates, 1)
	require.NotNil(t, f.repo.aggregates[0].LexiconSentiment)
	assert.InDelta(t, 0.2, *f.repo.aggregates[0].LexiconSentiment, 1e-9,
		"filtered entry must not influence the average")
}

func TestProcess_RelevanceSkipAveragesRemaining(t *testing.T) {
	f := newFixture()
	f.scorer.scores["entry a"] = [2]float64{0.5, 0.1}
	f.scorer.scores["entry b"] = [2]float64{0.9, 0.9}
	f.scorer.scores["entry c"] = [2]float64{-0.5, -0.1}
	f.relevance.reject["entry b"] = true

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{rawEntry("entry a"), rawEntry("entry b"), rawEntry("entry c")},
	})

	require.NoError(t, err)
	assert.Len(t, result.StoredIDs, 2)
	require.Len(t, f.repo.aggregates, 1)
	require.NotNil(t, f.repo.aggregates[0].LexiconSentiment)
	assert.InDelta(t, 0.0, *f.repo.aggregates[0].LexiconSentiment, 1e-9)
}

func TestProcess_UnresolvablePriceSkipsEntry(t *testing.T) {
	f := newFixture()
	f.resolver.err = errors.ErrPriceUnavailable
	f.scorer.scores["good text"] = [2]float64{0.5, 0.5}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{rawEntry("good text")},
	})

	require.NoError(t, err)
	assert.Empty(t, result.StoredIDs)
	assert.Empty(t, f.repo.entries)
	require.Len(t, f.repo.aggregates, 1)
	assert.Nil(t, f.repo.aggregates[0].LexiconSentiment,
		"excluded entry feeds no sentiment average either")
}

func TestProcess_UnsupportedKeywordRejectsBeforeProcessing(t *testing.T) {
	f := newFixture()
	f.scorer.scores["text"] = [2]float64{0.5, 0.5}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	_, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "NotACoin",
		Entries: []entry.RawEntry{rawEntry("text")},
	})

	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnsupportedAsset))
	assert.Empty(t, f.repo.entries, "nothing stored before rejection")
	assert.Empty(t, f.repo.aggregates)
	assert.Zero(t, f.resolver.calls)
}

func TestProcess_UnparseableDateSkipsEntry(t *testing.T) {
	f := newFixture()
	f.scorer.scores["dated text"] = [2]float64{0.5, 0.5}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{
			{User: "bob", Text: "dated text", Date: "yesterday-ish"},
		},
	})

	require.NoError(t, err)
	assert.Empty(t, result.StoredIDs)
}

func TestProcess_EmptyBatchStillValid(t *testing.T) {
	f := newFixture()

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: nil,
	})

	require.NoError(t, err)
	assert.Empty(t, result.StoredIDs)
	assert.NotEmpty(t, result.AggregateID)
	require.Len(t, f.repo.aggregates, 1)
	assert.Nil(t, f.repo.aggregates[0].LexiconSentiment)
	assert.Nil(t, f.repo.aggregates[0].RuleSentiment)
}

func TestProcess_EmptyBatchSkipsAggregateWhenConfigured(t *testing.T) {
	f := newFixture()

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: false})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: nil,
	})

	require.NoError(t, err)
	assert.Empty(t, result.StoredIDs)
	assert.Empty(t, result.AggregateID)
	assert.Contains(t, result.Message, "no average stored")
	assert.Empty(t, f.repo.aggregates)
}

func TestProcess_CancelledToZeroStillStoresAggregate(t *testing.T) {
	f := newFixture()
	f.scorer.scores["up"] = [2]float64{0.5, 0.4}
	f.scorer.scores["down"] = [2]float64{-0.5, -0.4}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: false})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{rawEntry("up"), rawEntry("down")},
	})

	require.NoError(t, err)
	assert.NotEmpty(t, result.AggregateID)

	// An exact 0.0 average is real data, only absent averages skip the record
	require.Len(t, f.repo.aggregates, 1)
	agg := f.repo.aggregates[0]
	require.NotNil(t, agg.LexiconSentiment)
	require.NotNil(t, agg.RuleSentiment)
	assert.InDelta(t, 0.0, *agg.LexiconSentiment, 1e-9)
	assert.InDelta(t, 0.0, *agg.RuleSentiment, 1e-9)
}

func TestProcess_BackReferencesSetAfterAggregate(t *testing.T) {
	f := newFixture()
	f.scorer.scores["one"] = [2]float64{0.1, 0.1}
	f.scorer.scores["two"] = [2]float64{0.2, 0.2}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{rawEntry("one"), rawEntry("two")},
	})

	require.NoError(t, err)
	require.Len(t, f.repo.links, 2)
	for _, id := range result.StoredIDs {
		assert.Equal(t, result.AggregateID, f.repo.links[id])
	}
}

func TestProcess_ConstantScoresAverageToThemselves(t *testing.T) {
	f := newFixture()
	texts := []string{"t1", "t2", "t3", "t4"}
	var batch []entry.RawEntry
	for _, text := range texts {
		f.scorer.scores[text] = [2]float64{0.25, -0.75}
		batch = append(batch, rawEntry(text))
	}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	_, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: batch,
	})

	require.NoError(t, err)
	require.Len(t, f.repo.aggregates, 1)
	agg := f.repo.aggregates[0]
	require.NotNil(t, agg.LexiconSentiment)
	require.NotNil(t, agg.RuleSentiment)
	assert.InDelta(t, 0.25, *agg.LexiconSentiment, 1e-9)
	assert.InDelta(t, -0.75, *agg.RuleSentiment, 1e-9)
}

func TestProcess_PriceDisabledStoresNoEntryPrice(t *testing.T) {
	f := newFixture()
	f.scorer.scores["plain"] = [2]float64{0.3, 0.3}

	svc := f.service(Config{PriceEnabled: false, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{rawEntry("plain")},
	})

	require.NoError(t, err)
	assert.Len(t, result.StoredIDs, 1)
	assert.Nil(t, f.repo.entries[0].Price)

	// Mapped keyword still gets one current quote on the aggregate
	require.Len(t, f.repo.aggregates, 1)
	require.NotNil(t, f.repo.aggregates[0].Price)
	assert.Equal(t, 50000.0, *f.repo.aggregates[0].Price)
}

func TestProcess_PriceDisabledUnmappedKeywordAccepted(t *testing.T) {
	f := newFixture()
	f.scorer.scores["plain"] = [2]float64{0.3, 0.3}

	svc := f.service(Config{PriceEnabled: false, StoreEmptyAggregate: true})
	result, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "forum",
		Keyword: "Undefined",
		Entries: []entry.RawEntry{rawEntry("plain")},
	})

	require.NoError(t, err)
	assert.Len(t, result.StoredIDs, 1)
	require.Len(t, f.repo.aggregates, 1)
	assert.Nil(t, f.repo.aggregates[0].Price)
	assert.Zero(t, f.resolver.calls)
}

func TestProcess_StorageFailureAbortsBatch(t *testing.T) {
	f := newFixture()
	f.repo.insertEntryErr = errors.New("mongo down")
	f.scorer.scores["text"] = [2]float64{0.5, 0.5}

	svc := f.service(Config{PriceEnabled: true, StoreEmptyAggregate: true})
	_, err := svc.Process(context.Background(), &entry.BatchRequest{
		Source:  "twitter",
		Keyword: "Bitcoin",
		Entries: []entry.RawEntry{rawEntry("text")},
	})

	require.Error(t, err)
	assert.Empty(t, f.repo.aggregates)
}

func TestParseDate(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{"rfc3339", "2024-03-01T12:00:00Z", false},
		{"rfc3339 with offset", "2024-03-01T12:00:00+02:00", false},
		{"iso without zone", "2024-03-01T12:00:00", false},
		{"iso with micros", "2024-03-01T12:00:00.123456", false},
		{"space separated", "2024-03-01 12:00:00", false},
		{"date only", "2024-03-01", false},
		{"garbage", "last tuesday", true},
		{"empty", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseDate(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 2024, got.Year())
			assert.Equal(t, time.March, got.Month())
		})
	}
}
