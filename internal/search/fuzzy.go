// Package search implements typo-tolerant matching and ranking of menu text.
//
// Matching is case-insensitive and works on whitespace-separated words. A
// query word matches a target word by prefix, by substring or, for words of
// three or more runes, by Levenshtein similarity of at least 0.7.
package search

import (
	"strings"
	"unicode/utf8"
)

const (
	// minSimilarity is 1 - the tolerated normalized edit distance.
	minSimilarity = 0.7

	// Words this short never match fuzzily.
	maxExactOnlyLen = 2

	scoreExact        = 100
	scorePrefix       = 90
	scoreContains     = 80
	scoreWordExact    = 70
	scoreWordPrefix   = 60
	scoreWordContains = 50
	scoreFuzzyMax     = 40
)

// Match reports whether query matches target.
func Match(query, target string) bool {
	if query == "" || target == "" {
		return false
	}

	ql := strings.ToLower(query)
	tl := strings.ToLower(target)
	if strings.Contains(tl, ql) {
		return true
	}
	if utf8.RuneCountInString(query) <= maxExactOnlyLen {
		return false
	}

	qt := strings.TrimSpace(ql)
	if qt != "" && strings.Contains(tl, qt) {
		return true
	}

	queryWords := strings.Fields(qt)
	if len(queryWords) == 0 {
		return false
	}
	targetWords := strings.Fields(tl)

	for _, qw := range queryWords {
		if !wordMatches(qw, targetWords) {
			return false
		}
	}
	return true
}

func wordMatches(qw string, targetWords []string) bool {
	for _, tw := range targetWords {
		if strings.HasPrefix(tw, qw) || strings.Contains(tw, qw) {
			return true
		}
	}
	if utf8.RuneCountInString(qw) <= maxExactOnlyLen {
		return false
	}
	for _, tw := range targetWords {
		if similarity(qw, tw) >= minSimilarity {
			return true
		}
	}
	return false
}

// Score rates how well query matches target on a 0-100 scale. Whole-string
// matches score 100 (equal), 90 (prefix) or 80 (substring). Otherwise each
// query word takes its best word score (70 equal, 60 prefix, 50 substring, up
// to 40 scaled by similarity) and the average is weighted by the fraction of
// query words that matched anything.
func Score(query, target string) float64 {
	if query == "" || target == "" {
		return 0
	}

	ql := strings.ToLower(query)
	tl := strings.ToLower(target)
	qt := strings.TrimSpace(ql)

	switch {
	case tl == ql || tl == qt:
		return scoreExact
	case qt == "":
		return 0
	case strings.HasPrefix(tl, qt):
		return scorePrefix
	case strings.Contains(tl, qt):
		return scoreContains
	}

	queryWords := strings.Fields(qt)
	targetWords := strings.Fields(tl)

	var total float64
	matched := 0
	for _, qw := range queryWords {
		best := bestWordScore(qw, targetWords)
		if best > 0 {
			matched++
			total += best
		}
	}
	if matched == 0 {
		return 0
	}
	n := float64(len(queryWords))
	return (total / n) * (float64(matched) / n)
}

func bestWordScore(qw string, targetWords []string) float64 {
	fuzzy := utf8.RuneCountInString(qw) > maxExactOnlyLen

	var best float64
	for _, tw := range targetWords {
		var s float64
		switch {
		case tw == qw:
			s = scoreWordExact
		case strings.HasPrefix(tw, qw):
			s = scoreWordPrefix
		case strings.Contains(tw, qw):
			s = scoreWordContains
		case fuzzy:
			if sim := similarity(qw, tw); sim >= minSimilarity {
				s = sim * scoreFuzzyMax
			}
		}
		if s > best {
			best = s
		}
	}
	return best
}

// similarity is 1 - levenshtein(a, b) / max(len(a), len(b)), in runes.
func similarity(a, b string) float64 {
	ra, rb := []rune(a), []rune(b)
	longest := max(len(ra), len(rb))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein(ra, rb))/float64(longest)
}

// levenshtein returns the edit distance between a and b using two rows.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				curr[j] = prev[j-1]
				continue
			}
			curr[j] = 1 + min(prev[j-1], curr[j-1], prev[j])
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}
