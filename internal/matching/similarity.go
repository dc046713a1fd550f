// Package matching scores how alike two short labels are and resolves
// free-text references to graph nodes.
package matching

import (
	"slices"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Scorer computes label similarity in [0,1].
// Synonyms maps a token onto a canonical token before comparison,
// so "exhausted" and "drained" can compare as equal.
type Scorer struct {
	Synonyms map[string]string
}

// Normalize lowercases s, turns punctuation into spaces and collapses whitespace
func Normalize(s string) string {
	return strings.Join(Tokens(s), " ")
}

// Tokens splits s into lowercase alphanumeric words
func Tokens(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// Ratio is one minus the edit distance divided by the longer length
func Ratio(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := max(utf8.RuneCountInString(a), utf8.RuneCountInString(b))
	if longest == 0 {
		return 1
	}
	return 1 - float64(levenshtein.ComputeDistance(a, b))/float64(longest)
}

// TokenSortRatio compares the sorted token sequences, ignoring word order
func TokenSortRatio(a, b []string) float64 {
	sa, sb := slices.Clone(a), slices.Clone(b)
	slices.Sort(sa)
	slices.Sort(sb)
	return Ratio(strings.Join(sa, " "), strings.Join(sb, " "))
}

// Jaccard is the overlap of the two token sets
func Jaccard(a, b []string) float64 {
	if len(a) == 0 && len(b) == 0 {
		return 0
	}
	set := make(map[string]bool, len(a))
	for _, t := range a {
		set[t] = true
	}
	union := len(set)
	inter := 0
	seen := make(map[string]bool, len(b))
	for _, t := range b {
		if seen[t] {
			continue
		}
		seen[t] = true
		if set[t] {
			inter++
		} else {
			union++
		}
	}
	return float64(inter) / float64(union)
}

func (s Scorer) canonical(label string) []string {
	tokens := Tokens(label)
	for i, t := range tokens {
		if c, ok := s.Synonyms[t]; ok {
			tokens[i] = c
		}
	}
	return tokens
}

// Similarity returns the best of character, token-order-insensitive and token-set similarity.
// Empty labels never match anything.
func (s Scorer) Similarity(a, b string) float64 {
	ta, tb := s.canonical(a), s.canonical(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0
	}
	ja, jb := strings.Join(ta, " "), strings.Join(tb, " ")
	if ja == jb {
		return 1
	}
	return max(Ratio(ja, jb), TokenSortRatio(ta, tb), Jaccard(ta, tb))
}

// Similarity scores two labels with no synonym table
func Similarity(a, b string) float64 {
	return Scorer{}.Similarity(a, b)
}
