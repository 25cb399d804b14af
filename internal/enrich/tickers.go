package enrich

import (
	"sort"
	"strings"
)

// aliasTickers maps lowercase company-name aliases to canonical NSE
// ticker symbols. Matching is plain substring search, so an alias
// embedded in a larger word still matches. That over-matching is a
// known limitation of the alias approach and is left as-is.
var aliasTickers = map[string]string{
	"reliance":         "RELIANCE.NS",
	"tcs":              "TCS.NS",
	"hdfc":             "HDFC.NS",
	"infy":             "INFY.NS",
	"infosys":          "INFY.NS",
	"bharat petroleum": "BPCL.NS",
	"icici":            "ICICIBANK.NS",
	"sbi":              "SBIN.NS",
}

// ExtractTickers returns the deduplicated set of canonical tickers
// whose alias appears in text, sorted for stable output. Empty text
// yields an empty (non-nil) slice.
func ExtractTickers(text string) []string {
	lower := strings.ToLower(text)

	seen := make(map[string]struct{})
	for alias, ticker := range aliasTickers {
		if strings.Contains(lower, alias) {
			seen[ticker] = struct{}{}
		}
	}

	tickers := make([]string, 0, len(seen))
	for ticker := range seen {
		tickers = append(tickers, ticker)
	}
	sort.Strings(tickers)

	return tickers
}
