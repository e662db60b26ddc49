package sentiment

// Model scores a text blob's polarity in [-1, 1]. Implementations must be
// deterministic and side-effect free; a score of exactly 0 means "no signal",
// not neutral sentiment, and downstream code relies on that convention.
type Model interface {
	Polarity(text string) float64
}

// Scorer combines the two independent sentiment models the pipeline uses: a
// general-purpose lexicon/pattern model and a social-media-tuned rule model.
type Scorer struct {
	lexicon Model
	rule    Model
}

// NewScorer creates a scorer from the two models
func NewScorer(lexicon, rule Model) *Scorer {
	return &Scorer{lexicon: lexicon, rule: rule}
}

// Score returns the lexicon and rule polarities for text
func (s *Scorer) Score(text string) (lexicon, rule float64) {
	return s.lexicon.Polarity(text), s.rule.Polarity(text)
}
