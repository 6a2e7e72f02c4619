package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/Nandinikorlakanti/know-ai-space/internal/aggregate"
	"github.com/Nandinikorlakanti/know-ai-space/internal/ai"
	"github.com/Nandinikorlakanti/know-ai-space/internal/cache"
	"github.com/Nandinikorlakanti/know-ai-space/internal/index"
	"github.com/Nandinikorlakanti/know-ai-space/internal/repository"
	"github.com/Nandinikorlakanti/know-ai-space/internal/textproc"
)

// Fixed short-circuit messages for the ask endpoint. Each outcome is
// textually distinct so callers can branch on it.
const (
	MsgEmptyQuestion = "Please provide a valid question."
	MsgNoContent     = "No content found in the workspace to search through. Please upload some documents first."
	MsgQAUnavailable = "Question answering model not available. Please check backend logs and try again."
)

// KnowledgeService answers questions, suggests links, generates tags and
// derives the knowledge graph for a workspace. Model capabilities may be
// nil; each operation degrades to its fixed unavailable behavior.
type KnowledgeService struct {
	store      repository.PageStore
	qa         ai.Answerer
	embedder   ai.Embedder
	classifier ai.Classifier
	simIndex   *index.Index
	answers    *cache.AnswerCache // nil when redis is not configured
}

func NewKnowledgeService(
	store repository.PageStore,
	qa ai.Answerer,
	embedder ai.Embedder,
	classifier ai.Classifier,
	simIndex *index.Index,
	answers *cache.AnswerCache,
) *KnowledgeService {
	return &KnowledgeService{
		store:      store,
		qa:         qa,
		embedder:   embedder,
		classifier: classifier,
		simIndex:   simIndex,
		answers:    answers,
	}
}

// Ask returns the single best answer over all workspace content. The
// invalid-question, empty-workspace and model-unavailable outcomes all
// short-circuit to fixed messages before any model call.
func (s *KnowledgeService) Ask(ctx context.Context, workspace, question string) (string, error) {
	safe, err := SanitizeWorkspaceName(workspace)
	if err != nil {
		return "", err
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return MsgEmptyQuestion, nil
	}

	corpus, err := s.workspaceCorpus(ctx, safe)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(corpus) == "" {
		return MsgNoContent, nil
	}
	if s.qa == nil {
		return MsgQAUnavailable, nil
	}

	if s.answers != nil {
		if cached, found, err := s.answers.GetAnswer(ctx, safe, question); err != nil {
			log.Printf("answer cache lookup failed: %v", err)
		} else if found {
			return cached, nil
		}
	}

	chunks, err := textproc.Chunk(corpus, textproc.DefaultMaxWords, textproc.DefaultOverlapWords)
	if err != nil {
		return "", err
	}
	answer := aggregate.BestAnswer(ctx, s.qa, question, chunks)

	if s.answers != nil {
		if err := s.answers.SetAnswer(ctx, safe, question, answer); err != nil {
			log.Printf("answer cache store failed: %v", err)
		}
	}
	return answer, nil
}

// SuggestLinksInput is the input for link suggestion. SourcePageID, when
// set, excludes that page from the candidates (no self-links).
type SuggestLinksInput struct {
	Workspace    string
	Text         string
	SourcePageID string
}

// SuggestLinks ranks workspace pages against the query text. Pages with a
// stored embedding are scored by cosine similarity; pages without one, or
// every page when the embedding capability is down, fall back to the
// keyword-overlap signal, flagged as such in the suggestion reason.
func (s *KnowledgeService) SuggestLinks(ctx context.Context, input SuggestLinksInput) ([]aggregate.Suggestion, error) {
	safe, err := SanitizeWorkspaceName(input.Workspace)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(input.Text)
	if text == "" {
		return nil, fmt.Errorf("%w: link text is empty", ErrInvalidInput)
	}

	pages, err := s.store.ListPages(ctx, safe)
	if err != nil {
		return nil, err
	}

	semantic := make(map[string]float64)
	if s.embedder != nil {
		queryVec, err := s.embedder.Embed(ctx, text)
		if err != nil {
			log.Printf("embed link query failed, falling back to keywords: %v", err)
		} else {
			for _, sim := range s.simIndex.Query(safe, queryVec, input.SourcePageID) {
				semantic[sim.ID] = sim.Score
			}
		}
	}

	candidates := make([]aggregate.LinkCandidate, 0, len(pages))
	for _, p := range pages {
		if p.ID == input.SourcePageID {
			continue
		}
		cand := aggregate.LinkCandidate{ID: p.ID, Title: p.Title, Content: p.Content}
		if score, ok := semantic[p.ID]; ok {
			cand.Score = score
		} else {
			cand.Fallback = true
			cand.Score, cand.Matched = aggregate.KeywordOverlap(text, p.Content)
		}
		candidates = append(candidates, cand)
	}
	return aggregate.RankSuggestions(candidates), nil
}

// GenerateTags runs zero-shot tagging over the workspace content, or over
// the explicit content override when given.
func (s *KnowledgeService) GenerateTags(ctx context.Context, workspace, contentOverride string) (aggregate.TagResult, error) {
	safe, err := SanitizeWorkspaceName(workspace)
	if err != nil {
		return aggregate.TagResult{}, err
	}
	if s.classifier == nil {
		return aggregate.TagResult{}, ErrTaggingUnavailable
	}

	content := contentOverride
	if strings.TrimSpace(content) == "" {
		pages, err := s.store.ListPages(ctx, safe)
		if err != nil {
			return aggregate.TagResult{}, err
		}
		parts := make([]string, 0, len(pages))
		for _, p := range pages {
			parts = append(parts, p.Content)
		}
		content = strings.Join(parts, "\n")
	}
	if strings.TrimSpace(content) == "" {
		return aggregate.TagResult{}, ErrNoContent
	}

	return aggregate.GenerateTags(ctx, s.classifier, content), nil
}

// Graph derives the knowledge graph from current page state. It is
// recomputed on every call and never cached.
func (s *KnowledgeService) Graph(ctx context.Context, workspace string) (index.Graph, error) {
	safe, err := SanitizeWorkspaceName(workspace)
	if err != nil {
		return index.Graph{}, err
	}
	if s.embedder == nil {
		return index.Graph{Nodes: []index.Node{}, Edges: []index.Edge{}}, ErrGraphUnavailable
	}

	pages, err := s.store.ListPages(ctx, safe)
	if err != nil {
		return index.Graph{}, err
	}

	inputs := make([]index.NodeInput, 0, len(pages))
	for _, p := range pages {
		inputs = append(inputs, index.NodeInput{
			ID:            p.ID,
			Title:         p.Title,
			ContentLength: len(p.Content),
			Tags:          p.TagList(),
		})
	}
	return index.BuildGraph(inputs, s.simIndex.Pairs(safe)), nil
}

// workspaceCorpus concatenates every page as a titled section.
func (s *KnowledgeService) workspaceCorpus(ctx context.Context, workspace string) (string, error) {
	pages, err := s.store.ListPages(ctx, workspace)
	if err != nil {
		return "", err
	}
	sections := make([]string, 0, len(pages))
	for _, p := range pages {
		sections = append(sections, fmt.Sprintf("Title: %s\nContent: %s", p.Title, p.Content))
	}
	return strings.Join(sections, "\n\n"), nil
}
