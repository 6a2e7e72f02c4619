package aggregate

import (
	"fmt"
	"sort"
	"strings"
)

const (
	// SuggestionThreshold is the minimum (strict) similarity for a link
	// suggestion. Distinct from the graph edge threshold on purpose.
	SuggestionThreshold = 0.3

	// SemanticBand splits surviving candidates into "semantic" and
	// "contextual" purely by score; no extra model call is involved.
	SemanticBand = 0.6

	// MaxSuggestions caps the suggestion list. The knowledge graph keeps
	// every edge above threshold instead.
	MaxSuggestions = 5

	previewLength = 150
)

// Suggestion is one cross-document link proposal.
type Suggestion struct {
	ID         string  `json:"id"`
	TargetPage string  `json:"targetPage"`
	Confidence float64 `json:"confidence"`
	Reason     string  `json:"reason"`
	Preview    string  `json:"preview"`
	Type       string  `json:"type"`
}

// LinkCandidate is one page scored against the query, in workspace
// iteration order. Fallback marks a keyword-overlap score so consumers
// can tell it apart from genuine semantic similarity.
type LinkCandidate struct {
	ID       string
	Title    string
	Content  string
	Score    float64
	Fallback bool
	Matched  int
}

// RankSuggestions keeps candidates strictly above the relevance
// threshold, bands them by score, sorts by descending confidence (stable,
// so ties keep iteration order) and truncates to the top results.
func RankSuggestions(cands []LinkCandidate) []Suggestion {
	suggestions := make([]Suggestion, 0, len(cands))
	for _, cand := range cands {
		if cand.Score <= SuggestionThreshold {
			continue
		}
		reason := fmt.Sprintf("Semantic similarity: %.2f", cand.Score)
		if cand.Fallback {
			reason = fmt.Sprintf("Found %d relevant keywords", cand.Matched)
		}
		kind := "contextual"
		if cand.Score > SemanticBand {
			kind = "semantic"
		}
		suggestions = append(suggestions, Suggestion{
			ID:         cand.ID,
			TargetPage: cand.Title,
			Confidence: cand.Score,
			Reason:     reason,
			Preview:    Preview(cand.Content),
			Type:       kind,
		})
	}

	sort.SliceStable(suggestions, func(i, j int) bool {
		return suggestions[i].Confidence > suggestions[j].Confidence
	})

	if len(suggestions) > MaxSuggestions {
		suggestions = suggestions[:MaxSuggestions]
	}
	return suggestions
}

// KeywordOverlap is the degraded similarity signal used when no embedding
// is available: the fraction of lowercase query tokens found as substrings
// of the candidate content, clamped to 1.0. The matched count is reported
// for the suggestion reason.
func KeywordOverlap(query, content string) (score float64, matched int) {
	tokens := strings.Fields(strings.ToLower(query))
	if len(tokens) == 0 {
		return 0, 0
	}
	lower := strings.ToLower(content)
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			matched++
		}
	}
	score = float64(matched) / float64(len(tokens))
	if score > 1.0 {
		score = 1.0
	}
	return score, matched
}

// Preview truncates content for display to 150 characters plus an
// ellipsis.
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLength {
		return content
	}
	return string(runes[:previewLength]) + "..."
}
