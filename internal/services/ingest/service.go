package ingest

import (
	"context"
	"time"

	"github.com/google/uuid"

	"pythia/internal/domain/asset"
	"pythia/internal/domain/entry"
	"pythia/internal/events"
	"pythia/internal/metrics"
	"pythia/pkg/errors"
	"pythia/pkg/logger"
)

// LanguageGate filters out non-English text
type LanguageGate interface {
	IsEnglish(text string) bool
}

// RelevanceClassifier filters out text with no financial signal
type RelevanceClassifier interface {
	IsFinanciallyRelevant(text string) bool
}

// SentimentScorer produces the two independent polarity scores
type SentimentScorer interface {
	Score(text string) (lexicon, rule float64)
}

// PriceResolver resolves an asset's price at an instant
type PriceResolver interface {
	Resolve(ctx context.Context, a asset.Asset, at time.Time) (float64, error)
}

// EventPublisher emits post-processing events. Optional collaborator.
type EventPublisher interface {
	PublishBatchProcessed(ctx context.Context, event *events.BatchProcessedEvent) error
	PublishEntryStored(ctx context.Context, event *events.EntryStoredEvent) error
}

// Config controls the pipeline's revision-dependent behavior
type Config struct {
	// PriceEnabled turns on per-entry price resolution. Entries whose price
	// cannot be resolved are dropped, and the batch keyword must map to a
	// known asset before any entry is processed.
	PriceEnabled bool

	// StoreEmptyAggregate controls what happens when no entry contributed a
	// sentiment score: store an aggregate with absent averages, or skip the
	// aggregate and report "no average stored".
	StoreEmptyAggregate bool
}

// Service is the batch ingestion pipeline. It runs every entry of a batch
// through the admission gates in submission order, persists the survivors,
// stores one aggregate of their averaged scores, and back-links the stored
// entries to that aggregate.
//
// Persistence is not transactional: entry inserts, the aggregate insert, and
// the back-reference updates are separate writes, so a crash mid-batch can
// leave entries without an aggregate reference. Collectors resubmit batches,
// so duplicates are possible and consumers must dedupe on (user, date, text).
type Service struct {
	repo      entry.Repository
	language  LanguageGate
	relevance RelevanceClassifier
	sentiment SentimentScorer
	prices    PriceResolver
	publisher EventPublisher
	cfg       Config
	log       *logger.Logger
}

// NewService creates the ingestion pipeline. publisher may be nil.
func NewService(
	repo entry.Repository,
	language LanguageGate,
	relevance RelevanceClassifier,
	sentiment SentimentScorer,
	prices PriceResolver,
	publisher EventPublisher,
	cfg Config,
) *Service {
	return &Service{
		repo:      repo,
		language:  language,
		relevance: relevance,
		sentiment: sentiment,
		prices:    prices,
		publisher: publisher,
		cfg:       cfg,
		log:       logger.Get().With("component", "ingest"),
	}
}

// accumulator tracks one quantity's running sum over the entries that
// actually carried it. Zero scores never enter, so count==0 means "no entry
// contributed", which maps to an absent average rather than an average of 0.
type accumulator struct {
	sum   float64
	count int
}

func (a *accumulator) add(v float64) {
	a.sum += v
	a.count++
}

func (a *accumulator) average() *float64 {
	if a.count == 0 {
		return nil
	}
	avg := a.sum / float64(a.count)
	return &avg
}

// Process runs one batch through the pipeline and returns the stored entry
// identifiers, the aggregate identifier, and a status message.
//
// Gate failures drop the one entry and continue; only an unmapped keyword in
// price mode or a storage failure aborts the batch.
func (s *Service) Process(ctx context.Context, req *entry.BatchRequest) (*entry.BatchResult, error) {
	batchID := uuid.NewString()
	start := time.Now()
	defer func() {
		metrics.BatchDuration.Observe(time.Since(start).Seconds())
	}()

	log := s.log.With("batch_id", batchID, "source", req.Source, "keyword", req.Keyword)
	log.Infow("Processing batch", "entries", len(req.Entries))

	// In price mode the keyword must map to a known asset before any entry
	// is touched; nothing gets scored or stored for an unsupported one.
	batchAsset, err := asset.FromKeyword(req.Keyword)
	if s.cfg.PriceEnabled && err != nil {
		metrics.BatchesProcessed.WithLabelValues("rejected").Inc()
		log.Warnw("Rejecting batch", "error", err)
		return nil, err
	}

	var (
		lexicon   accumulator
		rule      accumulator
		price     accumulator
		storedIDs []string
	)

	for i, raw := range req.Entries {
		text := raw.CombinedText()

		if !s.language.IsEnglish(text) {
			metrics.EntriesProcessed.WithLabelValues("skipped_language").Inc()
			continue
		}

		if !s.relevance.IsFinanciallyRelevant(text) {
			metrics.EntriesProcessed.WithLabelValues("skipped_relevance").Inc()
			continue
		}

		lex, rul := s.sentiment.Score(text)
		if lex == 0 && rul == 0 {
			// Both models silent means no signal, not neutral sentiment.
			metrics.EntriesProcessed.WithLabelValues("skipped_sentiment").Inc()
			continue
		}

		date, err := parseDate(raw.Date)
		if err != nil {
			metrics.EntriesProcessed.WithLabelValues("skipped_date").Inc()
			log.Debugw("Dropping entry with unparseable date", "index", i, "date", raw.Date)
			continue
		}

		var entryPrice *float64
		if s.cfg.PriceEnabled {
			p, err := s.prices.Resolve(ctx, batchAsset, date)
			if err != nil {
				metrics.EntriesProcessed.WithLabelValues("skipped_price").Inc()
				log.Debugw("Dropping entry without resolvable price", "index", i, "error", err)
				continue
			}
			entryPrice = &p
		}

		scored := &entry.ScoredEntry{
			User:             raw.User,
			Title:            raw.Title,
			Text:             raw.Text,
			Date:             date,
			LexiconSentiment: lex,
			RuleSentiment:    rul,
			Price:            entryPrice,
		}

		id, err := s.repo.InsertEntry(ctx, scored)
		if err != nil {
			metrics.BatchesProcessed.WithLabelValues("error").Inc()
			return nil, errors.Wrapf(err, "store entry %d", i)
		}
		storedIDs = append(storedIDs, id)
		metrics.EntriesProcessed.WithLabelValues("stored").Inc()
		s.publishStored(ctx, batchID, req, id)

		if lex != 0 {
			lexicon.add(lex)
		}
		if rul != 0 {
			rule.add(rul)
		}
		if entryPrice != nil {
			price.add(*entryPrice)
		}
	}

	lexAvg := lexicon.average()
	ruleAvg := rule.average()

	if lexAvg == nil && ruleAvg == nil && !s.cfg.StoreEmptyAggregate {
		metrics.BatchesProcessed.WithLabelValues("success").Inc()
		log.Infow("Batch complete without aggregate", "stored", len(storedIDs))
		return &entry.BatchResult{
			StoredIDs: storedIDs,
			Message:   "Texts stored, no average stored",
		}, nil
	}

	aggregate := &entry.AggregateRecord{
		Source:           req.Source,
		Keyword:          req.Keyword,
		Timestamp:        time.Now().UTC(),
		LexiconSentiment: lexAvg,
		RuleSentiment:    ruleAvg,
		Price:            s.aggregatePrice(ctx, batchAsset, &price),
	}

	aggregateID, err := s.repo.InsertAggregate(ctx, aggregate)
	if err != nil {
		metrics.BatchesProcessed.WithLabelValues("error").Inc()
		return nil, errors.Wrap(err, "store aggregate")
	}

	// Second pass: back-reference only after the aggregate exists, so a
	// linked entry always points at a real record.
	for _, id := range storedIDs {
		if err := s.repo.SetEntryAggregate(ctx, id, aggregateID); err != nil {
			metrics.BatchesProcessed.WithLabelValues("error").Inc()
			return nil, errors.Wrapf(err, "link entry %s", id)
		}
	}

	metrics.BatchesProcessed.WithLabelValues("success").Inc()
	log.Infow("Batch complete", "stored", len(storedIDs), "aggregate_id", aggregateID)

	s.publishProcessed(ctx, batchID, req, storedIDs, aggregateID)

	return &entry.BatchResult{
		StoredIDs:   storedIDs,
		AggregateID: aggregateID,
		Message:     "Texts stored",
	}, nil
}

// aggregatePrice decides the price recorded on the aggregate. In price mode
// it is the average of the per-entry prices. Outside price mode the pipeline
// still records one current spot quote when the keyword maps to an asset,
// and nil otherwise.
func (s *Service) aggregatePrice(ctx context.Context, a asset.Asset, acc *accumulator) *float64 {
	if s.cfg.PriceEnabled {
		return acc.average()
	}
	if !a.Supported() || s.prices == nil {
		return nil
	}
	p, err := s.prices.Resolve(ctx, a, time.Now().UTC())
	if err != nil {
		s.log.Debugw("Aggregate price unavailable", "asset", a.String(), "error", err)
		return nil
	}
	return &p
}

func (s *Service) publishStored(ctx context.Context, batchID string, req *entry.BatchRequest, entryID string) {
	if s.publisher == nil {
		return
	}
	event := &events.EntryStoredEvent{
		EntryID:  entryID,
		BatchID:  batchID,
		Source:   req.Source,
		Keyword:  req.Keyword,
		StoredAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishEntryStored(ctx, event); err != nil {
		s.log.Warnw("Failed to publish entry event", "entry_id", entryID, "error", err)
	}
}

func (s *Service) publishProcessed(ctx context.Context, batchID string, req *entry.BatchRequest, storedIDs []string, aggregateID string) {
	if s.publisher == nil {
		return
	}
	event := &events.BatchProcessedEvent{
		BatchID:     batchID,
		Source:      req.Source,
		Keyword:     req.Keyword,
		EntriesIn:   len(req.Entries),
		EntriesKept: len(storedIDs),
		AggregateID: aggregateID,
		ProcessedAt: time.Now().UTC(),
	}
	if err := s.publisher.PublishBatchProcessed(ctx, event); err != nil {
		// Events are best effort; the batch already succeeded.
		s.log.Warnw("Failed to publish batch event", "error", err)
	}
}

// dateLayouts are tried in order. Collectors send ISO 8601 timestamps with
// and without offsets and with varying precision.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseDate(value string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Newf("unsupported date format: %q", value)
}
