// Package index keeps one embedding vector per page, scoped by workspace,
// and answers similarity queries over them by direct pairwise comparison.
// Corpora are small per workspace, so the O(n²) all-pairs sweep is fine.
package index

import (
	"math"
	"sync"
)

// Entry is one indexed page vector.
type Entry struct {
	ID     string
	Vector []float32
}

// Similarity is the cosine score of one indexed page against a query.
type Similarity struct {
	ID    string
	Score float64
}

// Pair is the cosine score of one unordered page pair.
type Pair struct {
	Source string
	Target string
	Score  float64
}

type bucket struct {
	order   []string
	vectors map[string][]float32
}

// Index is an in-memory flat vector index. Insert-or-replace keeps the
// original insertion position so query results iterate pages in a stable
// order, which downstream tie-breaking depends on.
type Index struct {
	mu      sync.RWMutex
	buckets map[string]*bucket
}

func New() *Index {
	return &Index{buckets: make(map[string]*bucket)}
}

// Upsert inserts or replaces the vector for a page.
func (x *Index) Upsert(workspace, id string, vec []float32) {
	x.mu.Lock()
	defer x.mu.Unlock()

	b, ok := x.buckets[workspace]
	if !ok {
		b = &bucket{vectors: make(map[string][]float32)}
		x.buckets[workspace] = b
	}
	if _, exists := b.vectors[id]; !exists {
		b.order = append(b.order, id)
	}
	b.vectors[id] = vec
}

// Remove drops a page from the index; unknown ids are a no-op.
func (x *Index) Remove(workspace, id string) {
	x.mu.Lock()
	defer x.mu.Unlock()

	b, ok := x.buckets[workspace]
	if !ok {
		return
	}
	if _, exists := b.vectors[id]; !exists {
		return
	}
	delete(b.vectors, id)
	for i, other := range b.order {
		if other == id {
			b.order = append(b.order[:i], b.order[i+1:]...)
			break
		}
	}
}

// Query scores every indexed page in the workspace against the query
// vector, in insertion order. exclude skips one page id (self-comparison).
func (x *Index) Query(workspace string, query []float32, exclude string) []Similarity {
	x.mu.RLock()
	defer x.mu.RUnlock()

	b, ok := x.buckets[workspace]
	if !ok {
		return nil
	}
	out := make([]Similarity, 0, len(b.order))
	for _, id := range b.order {
		if id == exclude {
			continue
		}
		out = append(out, Similarity{ID: id, Score: Cosine(query, b.vectors[id])})
	}
	return out
}

// Pairs runs the all-pairs similarity sweep over a workspace, one entry
// per unordered pair, in insertion order.
func (x *Index) Pairs(workspace string) []Pair {
	x.mu.RLock()
	defer x.mu.RUnlock()

	b, ok := x.buckets[workspace]
	if !ok {
		return nil
	}
	var out []Pair
	for i := 0; i < len(b.order); i++ {
		for j := i + 1; j < len(b.order); j++ {
			src, dst := b.order[i], b.order[j]
			out = append(out, Pair{
				Source: src,
				Target: dst,
				Score:  Cosine(b.vectors[src], b.vectors[dst]),
			})
		}
	}
	return out
}

// Cosine returns the cosine similarity of two vectors; zero when either
// is empty, zero-length mismatched, or degenerate.
func Cosine(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
