package flightenv

import (
	"sort"
	"strings"
)

// zoneRule maps country-name terms to an ISO-style country code. A rule
// fires only when the article also carries an alert term.
type zoneRule struct {
	countryTerms []string
	code         string
}

// alertTerms is the vocabulary signalling a potential airspace restriction.
var alertTerms = []string{"airspace", "closed", "restricted", "military", "conflict"}

// zoneRules are evaluated independently per article, so one article can
// flag several zones.
var zoneRules = []zoneRule{
	{countryTerms: []string{"Iran", "Iranian"}, code: "IR"},
	{countryTerms: []string{"Russia", "Russian"}, code: "RU"},
	{countryTerms: []string{"North Korea", "DPRK"}, code: "KP"},
}

// ExtractNoFlyZones scans each article's title and description for alert
// vocabulary and, when present, flags country codes mentioned alongside.
// This is a keyword heuristic, not NLP: false positives and negatives are
// expected, and the result marks candidate restricted airspace for later
// verification, never an authoritative closure.
//
// The result is a set: deduplicated, sorted, and invariant under any
// permutation of the input corpus.
func ExtractNoFlyZones(corpus NewsCorpus) []string {
	seen := make(map[string]bool)

	for _, article := range corpus {
		text := article.Title + " " + article.Description
		if !containsAny(text, alertTerms) {
			continue
		}
		for _, rule := range zoneRules {
			if containsAny(text, rule.countryTerms) {
				seen[rule.code] = true
			}
		}
	}

	zones := make([]string, 0, len(seen))
	for code := range seen {
		zones = append(zones, code)
	}
	sort.Strings(zones)
	return zones
}

// containsAny reports whether s contains any of the substrings.
func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
