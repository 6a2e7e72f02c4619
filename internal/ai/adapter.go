package ai

import "context"

// Answer is one extractive question-answering result.
type Answer struct {
	Text  string  `json:"text"`
	Score float64 `json:"score"`
}

// LabelScore is one zero-shot classification result.
type LabelScore struct {
	Label string  `json:"label"`
	Score float64 `json:"score"`
}

// Answerer extracts the best answer span for a question from a context
// chunk. Failures are per-call; callers skip the chunk and continue.
type Answerer interface {
	Answer(ctx context.Context, question, passage string) (Answer, error)
}

// Embedder maps text to a fixed-length vector, deterministic for
// identical input.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Classifier scores text against every candidate label exactly once,
// returned in descending score order.
type Classifier interface {
	Classify(ctx context.Context, text string, labels []string) ([]LabelScore, error)
}
