// Package similarity provides normalized string-distance metrics used to
// rank fuzzy suggestions for unresolved references.
package similarity

import "strings"

// BigramJaccard returns the Jaccard similarity of the character-bigram
// sets of a and b, in [0,1]. Identical strings score 1.0.
func BigramJaccard(a, b string) float64 {
	if a == b {
		return 1.0
	}
	if a == "" || b == "" {
		return 0.0
	}

	ba := bigrams(a)
	bb := bigrams(b)
	if len(ba) == 0 && len(bb) == 0 {
		// Both single-rune strings with no bigrams.
		return 0.0
	}

	intersection := 0
	for g := range ba {
		if bb[g] {
			intersection++
		}
	}
	union := len(ba) + len(bb) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// bigrams returns the set of adjacent rune pairs in s.
func bigrams(s string) map[string]bool {
	runes := []rune(s)
	set := make(map[string]bool, len(runes))
	for i := 0; i+1 < len(runes); i++ {
		set[string(runes[i:i+2])] = true
	}
	return set
}

// Levenshtein returns the normalized edit-distance similarity of a and b
// in [0,1], where 1.0 means identical.
func Levenshtein(a, b string) float64 {
	if a == b {
		return 1.0
	}
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0.0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(ra); i++ {
		curr[0] = i
		for j := 1; j <= len(rb); j++ {
			cost := 1
			if ra[i-1] == rb[j-1] {
				cost = 0
			}
			curr[j] = min3(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	dist := prev[len(rb)]
	longer := len(ra)
	if len(rb) > longer {
		longer = len(rb)
	}
	return 1.0 - float64(dist)/float64(longer)
}

// Score blends the bigram and edit-distance metrics into the similarity
// used for suggestion ranking. Case is folded first since path lookups
// are case-insensitive in practice.
func Score(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	return 0.5*BigramJaccard(a, b) + 0.5*Levenshtein(a, b)
}

func min3(a, b, c int) int {
	if b < a {
		a = b
	}
	if c < a {
		a = c
	}
	return a
}
