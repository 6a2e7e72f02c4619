package aggregate

import (
	"context"
	"log"
	"math"
	"sort"

	"github.com/Nandinikorlakanti/know-ai-space/internal/ai"
	"github.com/Nandinikorlakanti/know-ai-space/internal/textproc"
)

const (
	// chunkLabelThreshold filters per-chunk label scores before they
	// enter the accumulator; meanLabelThreshold filters the final
	// per-label means. Both strict.
	chunkLabelThreshold = 0.3
	meanLabelThreshold  = 0.4

	// MaxTagChunks bounds tagging latency: at most this many chunks are
	// classified, the rest are ignored rather than sampled.
	MaxTagChunks = 5

	// MaxTags caps the returned label set.
	MaxTags = 10

	minModelTags         = 5
	maxKeywordTags       = 3
	keywordTagConfidence = 0.25
	rawKeywordCount      = 5
)

// CandidateLabels is the closed tag vocabulary classified against.
var CandidateLabels = []string{
	"meeting", "strategy", "research", "todo", "idea", "project", "documentation",
	"notes", "planning", "brainstorming", "analysis", "report", "presentation",
	"technical", "business", "creative", "personal", "urgent", "completed",
	"in-progress", "review", "collaboration", "learning", "reference",
}

// Tag is one generated tag. Type distinguishes frequency-derived keyword
// tags from model-derived ones, which carry no type.
type Tag struct {
	Name          string  `json:"name"`
	Confidence    float64 `json:"confidence"`
	AutoGenerated bool    `json:"auto_generated"`
	Type          string  `json:"type,omitempty"`
}

// TagResult is the full auto-tagging output, including the raw keyword
// list and processing stats for observability.
type TagResult struct {
	Tags               []Tag    `json:"tags"`
	Keywords           []string `json:"keywords"`
	TotalContentLength int      `json:"total_content_length"`
	ChunksAnalyzed     int      `json:"chunks_analyzed"`
}

// GenerateTags chunks the content, classifies up to MaxTagChunks chunks
// against the candidate vocabulary, and keeps the labels whose mean
// retained score clears the final threshold. A thin model result is
// backfilled with keyword pseudo-tags so the caller always has something
// to show. Per-chunk classification failures are logged and skipped.
func GenerateTags(ctx context.Context, classifier ai.Classifier, content string) TagResult {
	result := TagResult{
		Tags:               []Tag{},
		Keywords:           textproc.Keywords(content, rawKeywordCount),
		TotalContentLength: len(content),
	}

	chunks, err := textproc.Chunk(content, textproc.DefaultMaxWords, textproc.DefaultOverlapWords)
	if err != nil {
		log.Printf("chunk tag content failed: %v", err)
		return result
	}

	type accum struct {
		scores []float64
		first  int
	}
	byLabel := make(map[string]*accum)
	var labelOrder []string

	attempts := 0
	for i, chunk := range chunks {
		if attempts >= MaxTagChunks {
			break
		}
		if textproc.WordCount(chunk) < textproc.MinClassifyWords {
			continue
		}
		attempts++

		scores, err := classifier.Classify(ctx, chunk, CandidateLabels)
		if err != nil {
			log.Printf("classify chunk %d failed: %v", i+1, err)
			continue
		}
		result.ChunksAnalyzed++

		for _, ls := range scores {
			if ls.Score <= chunkLabelThreshold {
				continue
			}
			a, ok := byLabel[ls.Label]
			if !ok {
				a = &accum{first: len(labelOrder)}
				byLabel[ls.Label] = a
				labelOrder = append(labelOrder, ls.Label)
			}
			a.scores = append(a.scores, ls.Score)
		}
	}

	for _, label := range labelOrder {
		a := byLabel[label]
		var sum float64
		for _, s := range a.scores {
			sum += s
		}
		mean := sum / float64(len(a.scores))
		if mean <= meanLabelThreshold {
			continue
		}
		result.Tags = append(result.Tags, Tag{
			Name:          label,
			Confidence:    math.Round(mean*1000) / 1000,
			AutoGenerated: true,
		})
	}

	sort.SliceStable(result.Tags, func(i, j int) bool {
		return result.Tags[i].Confidence > result.Tags[j].Confidence
	})
	if len(result.Tags) > MaxTags {
		result.Tags = result.Tags[:MaxTags]
	}

	if len(result.Tags) < minModelTags {
		result.Tags = backfillKeywordTags(result.Tags, content)
	}
	return result
}

// backfillKeywordTags appends up to three frequency-derived tags that do
// not duplicate an existing tag name.
func backfillKeywordTags(tags []Tag, content string) []Tag {
	existing := make(map[string]struct{}, len(tags))
	for _, t := range tags {
		existing[t.Name] = struct{}{}
	}

	added := 0
	for _, kw := range textproc.Keywords(content, rawKeywordCount+maxKeywordTags) {
		if added >= maxKeywordTags {
			break
		}
		if _, dup := existing[kw]; dup {
			continue
		}
		tags = append(tags, Tag{
			Name:          kw,
			Confidence:    keywordTagConfidence,
			AutoGenerated: true,
			Type:          "keyword",
		})
		added++
	}
	return tags
}
