// Package matcher reconciles canonical Markets from different venues that
// describe the same real-world event, using category compatibility,
// outcome-shape compatibility, and a fuzzy event-name similarity score.
package matcher

import (
	"sort"
	"strings"

	"github.com/arb-intel/engine/internal/model"
)

// DefaultThreshold is the minimum combined similarity score for two markets
// to be considered the same event.
const DefaultThreshold = 0.45

// normalizeCategory buckets a raw, venue-supplied category string into one
// of the fixed Category values.
func normalizeCategory(raw string) Category {
	n := strings.ToLower(raw)
	n = strings.ReplaceAll(n, "_", "-")
	n = strings.ReplaceAll(n, " ", "-")

	for _, cat := range []Category{CategoryPolitics, CategorySports, CategoryCrypto, CategoryTech, CategoryEconomics, CategoryEntertainment, CategoryWorld} {
		for _, kw := range categoryKeywords[cat] {
			if strings.Contains(n, kw) {
				return cat
			}
		}
	}
	return CategoryOther
}

// categoriesCompatible reports whether two normalized categories may refer
// to the same event. Two categories match outright when equal; tech is also
// treated as compatible with politics, world, and economics, since some
// sources tag political content under a generic "prediction"/"tech" label.
func categoriesCompatible(a, b Category) bool {
	if a == b {
		return true
	}
	relaxedSet := map[Category]bool{CategoryTech: true, CategoryPolitics: true, CategoryWorld: true, CategoryEconomics: true}
	if (a == CategoryTech && relaxedSet[b]) || (b == CategoryTech && relaxedSet[a]) {
		return true
	}
	return false
}

// isBinaryOutcomeSet reports whether a lowercased outcome-name set is a
// non-empty subset of {yes, no}.
func isBinaryOutcomeSet(names map[string]struct{}) bool {
	if len(names) == 0 {
		return false
	}
	for n := range names {
		if n != "yes" && n != "no" {
			return false
		}
	}
	return true
}

func outcomeNameSet(m model.Market) map[string]struct{} {
	names := make(map[string]struct{}, len(m.Outcomes))
	for _, o := range m.Outcomes {
		names[strings.ToLower(o.Name)] = struct{}{}
	}
	return names
}

// outcomesCompatible reports whether two markets' outcome shapes could
// plausibly describe the same event: both binary (Yes/No), or neither
// binary and sharing at least one pair of names with substring containment.
func outcomesCompatible(m1, m2 model.Market) bool {
	names1 := outcomeNameSet(m1)
	names2 := outcomeNameSet(m2)

	bin1 := isBinaryOutcomeSet(names1)
	bin2 := isBinaryOutcomeSet(names2)
	if bin1 && bin2 {
		return true
	}
	if bin1 || bin2 {
		return false
	}

	for n1 := range names1 {
		for n2 := range names2 {
			if strings.Contains(n1, n2) || strings.Contains(n2, n1) {
				return true
			}
		}
	}
	return false
}

func venuesDisjoint(m1, m2 model.Market) bool {
	v1 := m1.Venues()
	for v := range m2.Venues() {
		if _, ok := v1[v]; ok {
			return false
		}
	}
	return true
}

// Matches reports whether two markets describe the same event: disjoint
// venues, compatible categories, compatible outcome shapes, and a combined
// similarity score at or above threshold. The predicate is symmetric.
func Matches(m1, m2 model.Market, threshold float64) bool {
	if !venuesDisjoint(m1, m2) {
		return false
	}
	if !categoriesCompatible(normalizeCategory(m1.Category), normalizeCategory(m2.Category)) {
		return false
	}
	if !outcomesCompatible(m1, m2) {
		return false
	}
	return similarity(m1.EventName, m2.EventName) >= threshold
}

// Group is a set of markets the matcher believes describe the same event,
// published under a stable canonical key.
type Group struct {
	Key     string
	Markets []model.Market
}

// Groups reconciles a flat list of markets into event groups. Groups of two
// or more markets spanning at least two distinct venues are published under
// a canonical key derived from the longest event name in the group;
// singleton or single-venue markets are emitted under their original
// event_id.
//
// The algorithm is O(n^2): each unclaimed market seeds a new group, and
// every later unclaimed market joins it if it matches any current member.
// Input order fully determines the result, including which group wins a key
// collision (first occurrence wins).
func Groups(markets []model.Market, threshold float64) []Group {
	claimed := make([]bool, len(markets))
	var groups []Group

	for i := range markets {
		if claimed[i] {
			continue
		}
		group := []model.Market{markets[i]}
		claimed[i] = true

		for j := i + 1; j < len(markets); j++ {
			if claimed[j] {
				continue
			}
			if matchesAny(markets[j], group, threshold) {
				group = append(group, markets[j])
				claimed[j] = true
			}
		}

		groups = append(groups, Group{Markets: group})
	}

	seenKeys := make(map[string]bool)
	var result []Group
	for _, g := range groups {
		key := canonicalKey(g.Markets)
		if seenKeys[key] {
			continue
		}
		seenKeys[key] = true
		g.Key = key
		result = append(result, g)
	}
	return result
}

func matchesAny(candidate model.Market, group []model.Market, threshold float64) bool {
	for _, m := range group {
		if Matches(candidate, m, threshold) {
			return true
		}
	}
	return false
}

func distinctVenueCount(markets []model.Market) int {
	venues := make(map[string]struct{})
	for _, m := range markets {
		for v := range m.Venues() {
			venues[v] = struct{}{}
		}
	}
	return len(venues)
}

// canonicalKey picks the group's publication key: a matched_ key derived
// from the longest event name when the group spans multiple markets and
// multiple venues, otherwise the group's sole market's own event_id.
func canonicalKey(markets []model.Market) string {
	if len(markets) < 2 || distinctVenueCount(markets) < 2 {
		return markets[0].EventID
	}
	return "matched_" + firstFiveWords(longestEventName(markets))
}

// longestEventName returns the longest event_name in the group, breaking
// ties by the alphabetically-first venue.
func longestEventName(markets []model.Market) string {
	return Representative(markets).EventName
}

// Representative returns the group member with the longest event_name,
// breaking ties by the alphabetically-first venue. Detectors use it to pick
// a single event_name/market_type for an Opportunity built from a group that
// may span multiple markets.
func Representative(markets []model.Market) model.Market {
	best := markets[0]
	bestVenue := firstVenue(best)
	for _, m := range markets[1:] {
		v := firstVenue(m)
		switch {
		case len(m.EventName) > len(best.EventName):
			best, bestVenue = m, v
		case len(m.EventName) == len(best.EventName) && v < bestVenue:
			best, bestVenue = m, v
		}
	}
	return best
}

func firstVenue(m model.Market) string {
	venues := make([]string, 0, len(m.Outcomes))
	for v := range m.Venues() {
		venues = append(venues, v)
	}
	sort.Strings(venues)
	if len(venues) == 0 {
		return ""
	}
	return venues[0]
}

func firstFiveWords(name string) string {
	words := strings.Fields(normalizeEventName(name))
	if len(words) > 5 {
		words = words[:5]
	}
	return strings.Join(words, "_")
}
