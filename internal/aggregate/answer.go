// Package aggregate reduces per-chunk and per-page model scores into a
// single workspace-level result: one best answer, a ranked suggestion
// list, or an averaged label set. All thresholds are strict.
package aggregate

import (
	"context"
	"log"
	"sync"

	"github.com/Nandinikorlakanti/know-ai-space/internal/ai"
	"github.com/Nandinikorlakanti/know-ai-space/internal/textproc"
)

// AnswerConfidenceThreshold is the minimum (strict) score for the best
// chunk answer to be returned instead of the fallback message.
const AnswerConfidenceThreshold = 0.1

const answerWorkers = 4

// The two terminal answer messages. They are textually distinct so
// callers can branch on outcome.
const (
	AnswerNotFound     = "I couldn't find a relevant answer in the provided documents."
	AnswerNotConfident = "I couldn't find a confident answer to your question in the uploaded documents. Please try rephrasing your question or upload more relevant content."
)

// BestAnswer scores every chunk with the answer capability and returns
// the highest-scoring answer text, or AnswerNotConfident when nothing
// beats the confidence threshold. Chunks under the minimum-context floor
// are skipped before scoring; a failed chunk is logged and skipped without
// aborting the batch. Chunks are scored concurrently, but the winner is
// picked by ascending chunk index after all scores are in, so ties keep
// the leftmost chunk exactly as a sequential scan would.
func BestAnswer(ctx context.Context, qa ai.Answerer, question string, chunks []string) string {
	type scored struct {
		text  string
		score float64
		ok    bool
	}
	results := make([]scored, len(chunks))

	sem := make(chan struct{}, answerWorkers)
	var wg sync.WaitGroup
	for i, chunk := range chunks {
		if textproc.WordCount(chunk) < textproc.MinAnswerWords {
			continue
		}
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, chunk string) {
			defer wg.Done()
			defer func() { <-sem }()

			res, err := qa.Answer(ctx, question, chunk)
			if err != nil {
				log.Printf("answer chunk %d failed: %v", i+1, err)
				return
			}
			results[i] = scored{text: res.Text, score: res.Score, ok: true}
		}(i, chunk)
	}
	wg.Wait()

	best := scored{text: AnswerNotFound}
	for i := range results {
		if results[i].ok && results[i].score > best.score {
			best = results[i]
		}
	}

	if best.score > AnswerConfidenceThreshold {
		return best.text
	}
	return AnswerNotConfident
}
