package language

import (
	"strings"

	"github.com/pemistahl/lingua-go"
)

// Detector reports whether a text blob is English. Implementations must treat
// any internal failure as "not English" rather than returning an error: the
// gate is a hard filter and a blob it cannot classify is dropped.
type Detector interface {
	IsEnglish(text string) bool
}

// LinguaDetector identifies languages with the lingua statistical models.
// The candidate set is restricted to languages that actually show up in
// social-media crypto chatter; a smaller set keeps detection sharp on the
// short blobs this service sees.
type LinguaDetector struct {
	detector lingua.LanguageDetector
}

// NewLinguaDetector builds a detector. Model loading is lazy inside lingua,
// so construction is cheap and the instance is safe for concurrent use.
func NewLinguaDetector() *LinguaDetector {
	languages := []lingua.Language{
		lingua.English,
		lingua.Spanish,
		lingua.Portuguese,
		lingua.French,
		lingua.German,
		lingua.Italian,
		lingua.Dutch,
		lingua.Russian,
		lingua.Turkish,
		lingua.Arabic,
		lingua.Chinese,
		lingua.Japanese,
		lingua.Korean,
	}

	return &LinguaDetector{
		detector: lingua.NewLanguageDetectorBuilder().
			FromLanguages(languages...).
			Build(),
	}
}

// IsEnglish reports whether text is English. Empty or undetectable input
// counts as not English.
func (d *LinguaDetector) IsEnglish(text string) bool {
	if strings.TrimSpace(text) == "" {
		return false
	}

	lang, ok := d.detector.DetectLanguageOf(text)
	return ok && lang == lingua.English
}
