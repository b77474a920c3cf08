package matcher

import (
	"regexp"
	"strings"
)

var (
	leadingPhraseRe = regexp.MustCompile(`^(will |who will |what will |which )`)
	nonWordRe       = regexp.MustCompile(`[^\w\s\d-]`)
	whitespaceRe    = regexp.MustCompile(`\s+`)
	yearRe          = regexp.MustCompile(`20\d{2}`)
)

// normalizeEventName lowercases name, strips a leading question phrase,
// drops punctuation outside word/space/digit/hyphen, and collapses
// whitespace.
func normalizeEventName(name string) string {
	n := strings.ToLower(name)
	n = leadingPhraseRe.ReplaceAllString(n, "")
	n = nonWordRe.ReplaceAllString(n, " ")
	n = whitespaceRe.ReplaceAllString(n, " ")
	return strings.TrimSpace(n)
}

// sequenceRatio computes a Ratcliff/Obershelp-style similarity ratio: twice
// the total length of matching blocks found by recursively taking the
// longest common substring, divided by the combined length of both strings.
func sequenceRatio(a, b string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 1.0
	}
	matches := matchingBlockLength(a, b)
	return 2.0 * float64(matches) / float64(len(a)+len(b))
}

// matchingBlockLength sums the lengths of successive longest common
// substrings between a and b, recursing into the remainders on either side
// of each match — the same recursive decomposition used by Python's
// difflib.SequenceMatcher.ratio().
func matchingBlockLength(a, b string) int {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	start1, start2, length := longestCommonSubstring(a, b)
	if length == 0 {
		return 0
	}
	total := length
	total += matchingBlockLength(a[:start1], b[:start2])
	total += matchingBlockLength(a[start1+length:], b[start2+length:])
	return total
}

// longestCommonSubstring finds the longest common contiguous substring
// between a and b, returning its start offsets in each and its length.
func longestCommonSubstring(a, b string) (startA, startB, length int) {
	if len(a) == 0 || len(b) == 0 {
		return 0, 0, 0
	}
	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	best := 0
	bestEndA := 0
	bestEndB := 0

	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
					bestEndA = i
					bestEndB = j
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
		for j := range curr {
			curr[j] = 0
		}
	}

	return bestEndA - best, bestEndB - best, best
}

// jaccard computes the Jaccard index of two string sets. An empty set on
// either side yields 0, never the degenerate 1.0 for two empty sets.
func jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	intersection := 0
	for k := range a {
		if _, ok := b[k]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

// extractEntities scans the original (non-normalized) text for lexicon
// matches and 4-digit years beginning with "20".
func extractEntities(original string) map[string]struct{} {
	lower := strings.ToLower(original)
	entities := make(map[string]struct{})

	scan := func(terms []string) {
		for _, term := range terms {
			if strings.Contains(lower, term) {
				entities[term] = struct{}{}
			}
		}
	}
	scan(politicians)
	scan(politicalTerms)
	scan(economicTerms)
	scan(notableEvents)

	for _, year := range yearRe.FindAllString(lower, -1) {
		entities[year] = struct{}{}
	}

	return entities
}

// wordSet splits normalized text on whitespace into a set of words.
func wordSet(normalized string) map[string]struct{} {
	words := make(map[string]struct{})
	for _, w := range strings.Fields(normalized) {
		words[w] = struct{}{}
	}
	return words
}

// similarity combines entity, word, and string similarity into a single
// score in [0, 1], weighted 0.5/0.3/0.2.
func similarity(a, b string) float64 {
	normA := normalizeEventName(a)
	normB := normalizeEventName(b)

	sStr := sequenceRatio(normA, normB)
	sEnt := jaccard(extractEntities(a), extractEntities(b))
	sWord := jaccard(wordSet(normA), wordSet(normB))

	return 0.5*sEnt + 0.3*sWord + 0.2*sStr
}
