package textproc

import (
	"errors"
	"strings"
)

const (
	// DefaultMaxWords and DefaultOverlapWords match the window the QA
	// capability was sized for.
	DefaultMaxWords     = 400
	DefaultOverlapWords = 50

	// MinAnswerWords and MinClassifyWords are the minimum-context floors;
	// fragments below them score unreliably and are skipped before any
	// model call.
	MinAnswerWords   = 5
	MinClassifyWords = 10
)

var ErrInvalidChunkParams = errors.New("chunk window must be larger than overlap")

// Chunk splits text into overlapping word windows of at most maxWords words.
// Consecutive windows overlap by overlapWords; overlap must be smaller
// than the window so the loop always advances. Text that fits a single
// window is returned whitespace-normalized as one chunk. The result is
// deterministic for identical input.
func Chunk(text string, maxWords, overlapWords int) ([]string, error) {
	if maxWords < 1 || overlapWords < 0 || overlapWords >= maxWords {
		return nil, ErrInvalidChunkParams
	}

	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}
	if len(words) <= maxWords {
		return []string{strings.Join(words, " ")}, nil
	}

	step := maxWords - overlapWords

	var chunks []string
	for start := 0; start < len(words); {
		end := start + maxWords
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end >= len(words) {
			break
		}
		start += step
	}
	return chunks, nil
}

// WordCount reports the number of whitespace-separated words in s.
func WordCount(s string) int {
	return len(strings.Fields(s))
}
