package entry

import "time"

// RawEntry is one social-media or news text blob as submitted by a collector.
// Immutable input; Date is the collector-supplied timestamp string.
type RawEntry struct {
	User  string `json:"user"`
	Title string `json:"title,omitempty"`
	Text  string `json:"text"`
	Date  string `json:"date"`
}

// CombinedText joins title and body with a single space.
// Entries without a title score on the body alone.
func (e RawEntry) CombinedText() string {
	if e.Title == "" {
		return e.Text
	}
	return e.Title + " " + e.Text
}

// ScoredEntry is a RawEntry that passed every admission gate.
// It is persisted standalone and later patched exactly once with the
// identifier of its batch aggregate.
type ScoredEntry struct {
	ID               string
	User             string
	Title            string
	Text             string
	Date             time.Time
	LexiconSentiment float64  // general-purpose lexicon model, [-1, 1]
	RuleSentiment    float64  // social-text-tuned rule model, [-1, 1]
	Price            *float64 // resolved asset price, nil outside price mode
	AverageID        string   // back-reference, set after aggregation
}

// BatchRequest is one ingestion submission. Transient, never persisted.
type BatchRequest struct {
	Source  string
	Keyword string
	Entries []RawEntry
}

// AggregateRecord is the per-batch summary. Averages are computed only over
// entries that contributed a non-zero value of that kind; nil means no entry
// contributed, which is distinct from an average of zero.
type AggregateRecord struct {
	ID               string
	Source           string
	Keyword          string
	Timestamp        time.Time
	LexiconSentiment *float64
	RuleSentiment    *float64
	Price            *float64
}

// BatchResult is what the pipeline reports back to the transport layer.
type BatchResult struct {
	StoredIDs   []string
	AggregateID string
	Message     string
}
