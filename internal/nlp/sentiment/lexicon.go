package sentiment

import (
	"strings"
	"unicode"
)

// Lexicon is a pattern-based polarity model in the TextBlob tradition: every
// token is looked up in a fixed word-polarity table, preceding negators flip
// and dampen the score, preceding intensifiers amplify it, and the final
// polarity is the mean over matched tokens. No matches yields exactly 0,
// which the pipeline reads as "no signal".
type Lexicon struct{}

// NewLexicon creates the lexicon model. All state is package-level read-only
// tables, so the zero value is equally usable.
func NewLexicon() *Lexicon {
	return &Lexicon{}
}

const (
	negationFactor    = -0.5
	intensifierFactor = 1.3
)

// Polarity scores text in [-1, 1]
func (l *Lexicon) Polarity(text string) float64 {
	tokens := tokenize(text)

	var sum float64
	var matched int

	for i, tok := range tokens {
		polarity, ok := wordPolarity[tok]
		if !ok {
			continue
		}

		// Look back two tokens for modifiers: "not very good",
		// "is not good", "really bad".
		for j := i - 1; j >= 0 && j >= i-2; j-- {
			if negators[tokens[j]] {
				polarity *= negationFactor
				break
			}
			if intensifiers[tokens[j]] {
				polarity *= intensifierFactor
			}
		}

		sum += polarity
		matched++
	}

	if matched == 0 {
		return 0
	}

	return clamp(sum/float64(matched), -1, 1)
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r) && r != '\''
	})
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

var negators = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true,
	"nobody": true, "nothing": true, "cannot": true, "can't": true,
	"isn't": true, "wasn't": true, "won't": true, "don't": true,
	"doesn't": true, "didn't": true, "without": true,
}

var intensifiers = map[string]bool{
	"very": true, "really": true, "extremely": true, "incredibly": true,
	"absolutely": true, "totally": true, "so": true, "super": true,
	"highly": true, "hugely": true, "massively": true,
}

// wordPolarity blends a general English polarity core with the market and
// crypto slang that dominates this service's input.
var wordPolarity = map[string]float64{
	// general positive
	"good": 0.7, "great": 0.8, "excellent": 1.0, "amazing": 0.8,
	"awesome": 1.0, "fantastic": 0.9, "wonderful": 1.0, "best": 1.0,
	"better": 0.5, "nice": 0.6, "love": 0.6, "loved": 0.7,
	"happy": 0.8, "glad": 0.5, "perfect": 1.0, "strong": 0.6,
	"solid": 0.6, "impressive": 0.9, "promising": 0.6, "beautiful": 0.85,
	"brilliant": 0.9, "superb": 0.9, "win": 0.8, "winning": 0.8,
	"winner": 0.8, "success": 0.75, "successful": 0.75, "healthy": 0.5,
	"safe": 0.5, "confident": 0.6, "optimistic": 0.7, "excited": 0.7,
	"exciting": 0.7, "opportunity": 0.4, "easy": 0.4, "free": 0.4,
	"rich": 0.6, "huge": 0.4, "massive": 0.4, "top": 0.5,

	// general negative
	"bad": -0.7, "terrible": -1.0, "horrible": -1.0, "awful": -1.0,
	"worst": -1.0, "worse": -0.5, "poor": -0.6, "hate": -0.8,
	"hated": -0.9, "sad": -0.5, "angry": -0.5, "scared": -0.6,
	"afraid": -0.6, "fear": -0.6, "ugly": -0.7, "weak": -0.5,
	"fail": -0.7, "failed": -0.7, "failure": -0.75, "lose": -0.6,
	"losing": -0.6, "loser": -0.8, "lost": -0.6, "broken": -0.6,
	"wrong": -0.5, "risky": -0.5, "danger": -0.7, "dangerous": -0.7,
	"dead": -0.8, "disaster": -0.9, "panic": -0.7, "worried": -0.5,
	"worry": -0.5, "doubt": -0.4, "fraud": -0.9, "scam": -0.9,
	"fake": -0.6, "stupid": -0.7, "useless": -0.8, "worthless": -0.9,
	"nervous": -0.5, "pessimistic": -0.7,

	// market direction
	"bullish": 0.7, "bull": 0.5, "bearish": -0.7, "bear": -0.5,
	"rally": 0.6, "surge": 0.6, "soar": 0.7, "soaring": 0.7,
	"gain": 0.5, "gains": 0.5, "profit": 0.6, "profits": 0.6,
	"profitable": 0.7, "growth": 0.5, "grow": 0.4, "growing": 0.4,
	"recovery": 0.5, "rebound": 0.5, "breakout": 0.5, "boom": 0.6,
	"upside": 0.5, "undervalued": 0.4, "accumulate": 0.3,
	"crash": -0.8, "crashed": -0.8, "crashing": -0.8, "dump": -0.6,
	"dumped": -0.6, "dumping": -0.6, "plunge": -0.7, "plummet": -0.8,
	"tank": -0.6, "tanked": -0.7, "collapse": -0.8, "collapsed": -0.8,
	"slump": -0.6, "selloff": -0.6, "correction": -0.3, "bubble": -0.4,
	"overvalued": -0.4, "bust": -0.7, "recession": -0.6, "inflation": -0.3,
	"liquidation": -0.6, "liquidated": -0.7, "bankrupt": -0.9,
	"bankruptcy": -0.9, "default": -0.6, "downturn": -0.5, "loss": -0.6,
	"losses": -0.6, "drop": -0.4, "dropped": -0.4, "falling": -0.4,
	"decline": -0.4, "declining": -0.4, "volatile": -0.3,

	// crypto slang
	"moon": 0.7, "mooning": 0.8, "hodl": 0.4, "lambo": 0.6,
	"gem": 0.6, "pump": 0.4, "ath": 0.6, "adoption": 0.5,
	"halving": 0.3, "staking": 0.2, "rekt": -0.8, "fud": -0.5,
	"rug": -0.8, "rugpull": -0.9, "shitcoin": -0.7, "ponzi": -0.9,
	"hack": -0.7, "hacked": -0.8, "exploit": -0.6, "stolen": -0.8,
}
