package enrich

// Word valences for the raw sentiment score. The raw score is the sum
// of matched valences over the whole text, before tanh normalization.

// buildPositiveWords returns positive keywords for equity news
func buildPositiveWords() map[string]float64 {
	return map[string]float64{
		// General positive
		"jump":       2,
		"jumps":      2,
		"surge":      3,
		"surges":     3,
		"soar":       3,
		"soars":      3,
		"rally":      3,
		"rallies":    3,
		"gain":       2,
		"gains":      2,
		"strong":     2,
		"boost":      2,
		"boosts":     2,
		"profit":     2,
		"profits":    2,
		"growth":     2,
		"beat":       2,
		"beats":      2,
		"win":        4,
		"wins":       4,
		"record":     1,
		"rise":       2,
		"rises":      2,
		"bullish":    3,
		"optimistic": 2,
		"upbeat":     2,

		// Corporate actions
		"upgrade":     2,
		"upgraded":    2,
		"approval":    2,
		"approved":    2,
		"dividend":    1,
		"buyback":     2,
		"partnership": 2,
		"expansion":   2,
	}
}

// buildNegativeWords returns negative keywords for equity news
func buildNegativeWords() map[string]float64 {
	return map[string]float64{
		// General negative
		"plunge":    2,
		"plunges":   2,
		"crash":     3,
		"crashes":   3,
		"slump":     2,
		"slumps":    2,
		"fall":      2,
		"falls":     2,
		"drop":      2,
		"drops":     2,
		"loss":      2,
		"losses":    2,
		"decline":   2,
		"declines":  2,
		"weak":      2,
		"bearish":   3,
		"fear":      2,
		"panic":     3,
		"selloff":   3,
		"miss":      2,
		"misses":    2,
		"downgrade": 2,
		"warning":   2,

		// Regulatory and legal
		"lawsuit":       2,
		"fraud":         4,
		"scam":          4,
		"probe":         2,
		"investigation": 2,
		"penalty":       2,
		"fine":          2,
		"ban":           3,
		"default":       3,
		"bankruptcy":    4,
	}
}
