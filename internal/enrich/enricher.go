package enrich

import (
	"math"
	"strings"

	"github.com/stockpulse/newswire/pkg/models"
)

// Thresholds for the label partition of the normalized score
const (
	positiveThreshold = 0.35
	negativeThreshold = -0.35
)

// Enricher annotates raw news text with ticker symbols and a
// lexicon-based sentiment. It is deterministic and total: any input,
// including the empty string, yields a valid result.
type Enricher struct {
	positiveWords map[string]float64
	negativeWords map[string]float64
}

// NewEnricher creates new enricher
func NewEnricher() *Enricher {
	return &Enricher{
		positiveWords: buildPositiveWords(),
		negativeWords: buildNegativeWords(),
	}
}

// Enrich returns the tickers mentioned in text plus its sentiment
func (e *Enricher) Enrich(text string) ([]string, models.Sentiment) {
	return ExtractTickers(text), e.Analyze(text)
}

// Analyze scores text against the lexicon. The raw score is the sum of
// word valences; the normalized score squashes it through tanh(raw/5)
// so it stays inside (-1, 1).
func (e *Enricher) Analyze(text string) models.Sentiment {
	raw := e.rawScore(text)
	score := math.Tanh(raw / 5)

	label := models.LabelNeutral
	switch {
	case score > positiveThreshold:
		label = models.LabelPositive
	case score < negativeThreshold:
		label = models.LabelNegative
	}

	return models.Sentiment{
		Score:    score,
		Label:    label,
		RawScore: raw,
	}
}

// rawScore sums lexicon valences over the words of text
func (e *Enricher) rawScore(text string) float64 {
	if text == "" {
		return 0
	}

	var raw float64
	for _, word := range strings.Fields(strings.ToLower(text)) {
		word = strings.Trim(word, ".,!?;:'\"()")

		if weight, ok := e.positiveWords[word]; ok {
			raw += weight
		}
		if weight, ok := e.negativeWords[word]; ok {
			raw -= weight
		}
	}

	return raw
}
