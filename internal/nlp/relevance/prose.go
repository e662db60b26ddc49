package relevance

import (
	"github.com/jdkato/prose/v2"
)

// ProseRecognizer extracts named entities with the prose NLP library.
// prose's stock model labels a narrower set of categories than the full
// financialEntityLabels table (notably PERSON and GPE); labels outside the
// table simply never match, and the vocabulary screen carries the rest.
type ProseRecognizer struct{}

// NewProseRecognizer creates a prose-backed entity recognizer
func NewProseRecognizer() *ProseRecognizer {
	return &ProseRecognizer{}
}

// Entities runs entity extraction over text
func (r *ProseRecognizer) Entities(text string) ([]Entity, error) {
	doc, err := prose.NewDocument(text, prose.WithExtraction(true))
	if err != nil {
		return nil, err
	}

	ents := doc.Entities()
	out := make([]Entity, 0, len(ents))
	for _, e := range ents {
		out = append(out, Entity{Text: e.Text, Label: e.Label})
	}
	return out, nil
}
