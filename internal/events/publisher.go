package events

import (
	"context"
	"time"

	"pythia/internal/adapters/kafka"
	"pythia/pkg/errors"
	"pythia/pkg/logger"
)

// BatchProcessedEvent is emitted after a batch has been aggregated and stored.
type BatchProcessedEvent struct {
	BatchID     string    `json:"batch_id"`
	Source      string    `json:"source"`
	Keyword     string    `json:"keyword"`
	EntriesIn   int       `json:"entries_in"`
	EntriesKept int       `json:"entries_kept"`
	AggregateID string    `json:"aggregate_id,omitempty"`
	ProcessedAt time.Time `json:"processed_at"`
}

// EntryStoredEvent is emitted for each entry persisted to the document store.
type EntryStoredEvent struct {
	EntryID  string    `json:"entry_id"`
	BatchID  string    `json:"batch_id"`
	Source   string    `json:"source"`
	Keyword  string    `json:"keyword"`
	StoredAt time.Time `json:"stored_at"`
}

// Publisher publishes ingestion events to Kafka
type Publisher struct {
	producer *kafka.Producer
	log      *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(producer *kafka.Producer) *Publisher {
	return &Publisher{
		producer: producer,
		log:      logger.Get().With("component", "event_publisher"),
	}
}

// PublishBatchProcessed publishes a batch processed event
func (p *Publisher) PublishBatchProcessed(ctx context.Context, event *BatchProcessedEvent) error {
	if err := p.producer.Publish(ctx, kafka.TopicBatchProcessed, event.BatchID, event); err != nil {
		return errors.Wrap(err, "send to kafka")
	}
	return nil
}

// PublishEntryStored publishes an entry stored event
func (p *Publisher) PublishEntryStored(ctx context.Context, event *EntryStoredEvent) error {
	if err := p.producer.Publish(ctx, kafka.TopicEntryStored, event.EntryID, event); err != nil {
		return errors.Wrap(err, "send to kafka")
	}
	return nil
}
