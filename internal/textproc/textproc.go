// Package textproc implements the tokenization, stop-word filtering, and
// term-set similarity primitives shared by the inverted index, the
// relatedness graph, and the search engine. Every function here is pure and
// total: none of them fail, and none of them retain references to their
// arguments.
package textproc

import (
	"regexp"
	"strings"
)

// wordBoundary matches runs of characters that are not Unicode letters,
// digits, or underscore — i.e. everything tokenize splits on.
var wordBoundary = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// stopWords is the fixed English stop-word set consulted by RemoveStopWords.
// It is a spec constant: articles, auxiliaries, prepositions, and
// conjunctions that carry no discriminating power for full-text matching.
// It is a single package-level set and is not configurable.
var stopWords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {},
	"but": {}, "by": {}, "for": {}, "from": {}, "has": {}, "have": {},
	"he": {}, "her": {}, "hers": {}, "him": {}, "his": {}, "i": {}, "if": {},
	"in": {}, "into": {}, "is": {}, "it": {}, "its": {}, "me": {}, "my": {},
	"nor": {}, "not": {}, "of": {}, "on": {}, "or": {}, "our": {}, "she": {},
	"so": {}, "that": {}, "the": {}, "their": {}, "them": {}, "then": {},
	"there": {}, "these": {}, "they": {}, "this": {}, "to": {}, "was": {},
	"we": {}, "were": {}, "what": {}, "when": {}, "which": {}, "who": {},
	"will": {}, "with": {}, "you": {}, "your": {},
}

// Tokenize splits text on any non-word-character boundary (Unicode letters,
// digits, and underscore count as word characters) and lower-cases the
// result. Duplicates are preserved and order matches the input. An empty
// string yields a nil slice.
func Tokenize(text string) []string {
	if text == "" {
		return nil
	}
	lower := strings.ToLower(text)
	fields := wordBoundary.Split(lower, -1)
	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			tokens = append(tokens, f)
		}
	}
	return tokens
}

// RemoveStopWords filters tokens against the fixed stop-word set, preserving
// order and duplicates of the surviving tokens.
func RemoveStopWords(tokens []string) []string {
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if _, stop := stopWords[t]; !stop {
			out = append(out, t)
		}
	}
	return out
}

// ExtractTerms tokenizes then removes stop words — the composition used
// everywhere a document or query needs to be reduced to index terms.
func ExtractTerms(text string) []string {
	return RemoveStopWords(Tokenize(text))
}

// TermSet builds a set (as a map with empty struct values) from a term
// slice, collapsing duplicates. Useful for Jaccard and index membership
// checks.
func TermSet(terms []string) map[string]struct{} {
	set := make(map[string]struct{}, len(terms))
	for _, t := range terms {
		set[t] = struct{}{}
	}
	return set
}

// Jaccard returns |A ∩ B| / |A ∪ B| for two term sets. Returns 0 when either
// side is empty; never fails.
func Jaccard(a, b map[string]struct{}) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	small, large := a, b
	if len(b) < len(a) {
		small, large = b, a
	}
	intersection := 0
	for t := range small {
		if _, ok := large[t]; ok {
			intersection++
		}
	}
	union := len(a) + len(b) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}
