package sentiment

import (
	"github.com/jonreiter/govader"
)

// VADER scores text with the VADER rule-based model, which is tuned for
// social-media language (slang, emphasis, emoticons). The compound score is
// already normalized to [-1, 1].
type VADER struct {
	analyzer *govader.SentimentIntensityAnalyzer
}

// NewVADER creates a VADER model. The analyzer carries only read-only lexicon
// state and is safe for concurrent use.
func NewVADER() *VADER {
	return &VADER{analyzer: govader.NewSentimentIntensityAnalyzer()}
}

// Polarity returns the VADER compound score for text
func (v *VADER) Polarity(text string) float64 {
	return v.analyzer.PolarityScores(text).Compound
}
