package kafka

// Topic definitions for Kafka event streaming
const (
	// Ingestion events
	TopicBatchProcessed = "ingest.batch_processed"
	TopicEntryStored    = "ingest.entry_stored"
)
