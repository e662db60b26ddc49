package relevance

import (
	"strings"

	"pythia/pkg/logger"
)

// Entity is one named entity found in a text blob
type Entity struct {
	Text  string
	Label string
}

// EntityRecognizer is the named-entity collaborator contract
type EntityRecognizer interface {
	Entities(text string) ([]Entity, error)
}

// Classifier decides whether a text blob is financially relevant. It is a pure
// boolean gate: a cheap vocabulary screen catches explicit mentions, and the
// entity recognizer catches paraphrased financial content without keywords.
// There is no weighting and no learned state.
type Classifier struct {
	ner EntityRecognizer
	log *logger.Logger
}

// NewClassifier creates a classifier over the given entity recognizer
func NewClassifier(ner EntityRecognizer) *Classifier {
	return &Classifier{
		ner: ner,
		log: logger.Get().With("component", "relevance"),
	}
}

// IsFinanciallyRelevant reports whether text concerns markets, assets, or
// trading. Recognizer failures degrade to the vocabulary screen alone.
func (c *Classifier) IsFinanciallyRelevant(text string) bool {
	lower := strings.ToLower(text)
	for _, term := range financialTerms {
		if strings.Contains(lower, term) {
			return true
		}
	}

	entities, err := c.ner.Entities(text)
	if err != nil {
		c.log.Debugf("entity recognition failed: %v", err)
		return false
	}

	for _, ent := range entities {
		if financialEntityLabels[ent.Label] {
			return true
		}
	}

	return false
}
