package textproc

import (
	"regexp"
	"sort"
	"strings"
)

var nonWordPattern = regexp.MustCompile(`[^\p{L}\p{N}\s]+`)

var stopWords = buildStopWords()

func buildStopWords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else", "for",
		"to", "of", "in", "on", "at", "by", "with", "as", "is", "are",
		"was", "were", "be", "been", "being", "it", "this", "that", "these",
		"those", "from", "have", "has", "had", "will", "would", "could",
		"should", "can", "not", "what", "when", "where", "which", "while",
		"who", "whom", "why", "how", "all", "any", "both", "each", "more",
		"most", "other", "some", "such", "than", "too", "very", "just",
		"about", "into", "over", "under", "again", "there", "here", "they",
		"them", "their", "your", "yours", "ours", "you're",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}

// Keywords returns the max most frequent content words of text in
// descending-frequency order. Tokens of length <= 3 and stop words are
// dropped; ties break by first occurrence so the output is deterministic.
func Keywords(text string, max int) []string {
	if max <= 0 {
		return nil
	}

	cleaned := nonWordPattern.ReplaceAllString(strings.ToLower(text), " ")

	type entry struct {
		word  string
		count int
		first int
	}
	counts := make(map[string]*entry)
	var order []*entry
	for i, tok := range strings.Fields(cleaned) {
		if len(tok) <= 3 {
			continue
		}
		if _, stop := stopWords[tok]; stop {
			continue
		}
		e, ok := counts[tok]
		if !ok {
			e = &entry{word: tok, first: i}
			counts[tok] = e
			order = append(order, e)
		}
		e.count++
	}

	sort.SliceStable(order, func(i, j int) bool {
		if order[i].count != order[j].count {
			return order[i].count > order[j].count
		}
		return order[i].first < order[j].first
	})

	if max > len(order) {
		max = len(order)
	}
	out := make([]string, max)
	for i := 0; i < max; i++ {
		out[i] = order[i].word
	}
	return out
}
