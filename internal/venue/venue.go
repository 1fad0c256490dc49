package venue

import (
	"sort"
	"strings"
)

// Venue identifies where an instrument trades.
type Venue struct {
	Exchange string // Human label (e.g., "SIX")
	MIC      string // ISO 10383 market identifier code (e.g., "XSWX")
}

// DefaultUS is the home-market placeholder used when no rule matches.
var DefaultUS = Venue{Exchange: "USA", MIC: "US__"}

// symbolOverrides resolves symbols whose shape defeats suffix logic,
// notably continuous-futures style tickers.
var symbolOverrides = map[string]Venue{
	"ES=F": {Exchange: "CME", MIC: "XCME"},
	"NQ=F": {Exchange: "CME", MIC: "XCME"},
	"CL=F": {Exchange: "NYMEX", MIC: "XNYM"},
	"GC=F": {Exchange: "COMEX", MIC: "XCEC"},
}

// suffixRule maps a known symbol suffix to a venue.
type suffixRule struct {
	suffix string
	venue  Venue
}

// suffixRules is evaluated in order; longer suffixes come first so the
// longest match wins.
var suffixRules = buildSuffixRules(map[string]Venue{
	".SW": {Exchange: "SIX", MIC: "XSWX"},          // SIX Swiss Exchange
	".DE": {Exchange: "XETRA", MIC: "XETR"},        // Deutsche Boerse XETRA
	".AS": {Exchange: "EURONEXT_AMS", MIC: "XAMS"}, // Euronext Amsterdam
	".PA": {Exchange: "EURONEXT_PAR", MIC: "XPAR"}, // Euronext Paris
	".L":  {Exchange: "LSE", MIC: "XLON"},          // London Stock Exchange
	".T":  {Exchange: "TSE", MIC: "XTKS"},          // Tokyo Stock Exchange
})

func buildSuffixRules(m map[string]Venue) []suffixRule {
	rules := make([]suffixRule, 0, len(m))
	for s, v := range m {
		rules = append(rules, suffixRule{suffix: s, venue: v})
	}
	sort.Slice(rules, func(i, j int) bool {
		if len(rules[i].suffix) != len(rules[j].suffix) {
			return len(rules[i].suffix) > len(rules[j].suffix)
		}
		return rules[i].suffix < rules[j].suffix
	})
	return rules
}

// Resolve maps a raw symbol to its venue using override, suffix, and
// default rules in that order.
func Resolve(symbol string) Venue {
	s := strings.ToUpper(strings.TrimSpace(symbol))

	if v, ok := symbolOverrides[s]; ok {
		return v
	}

	for _, r := range suffixRules {
		if strings.HasSuffix(s, r.suffix) {
			return r.venue
		}
	}

	return DefaultUS
}

// FromProviderExchange refines a resolved venue using the exchange code the
// provider reports alongside quote metadata. Unknown or empty codes keep the
// symbol-derived venue.
func FromProviderExchange(def Venue, code string) Venue {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case "NMS", "NAS":
		return Venue{Exchange: "NASDAQ", MIC: "XNAS"}
	case "NYQ", "NYS":
		return Venue{Exchange: "NYSE", MIC: "XNYS"}
	case "PNK", "OTC":
		return Venue{Exchange: "OTC", MIC: "OTCM"}
	}
	return def
}
