package app

import (
	"context"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/Nandinikorlakanti/know-ai-space/internal/ai"
	"github.com/Nandinikorlakanti/know-ai-space/internal/cache"
	"github.com/Nandinikorlakanti/know-ai-space/internal/index"
	"github.com/Nandinikorlakanti/know-ai-space/internal/model"
	"github.com/Nandinikorlakanti/know-ai-space/internal/pkg/pdfextract"
	"github.com/Nandinikorlakanti/know-ai-space/internal/repository"
)

// EventPublisher emits activity events for page mutations. Failures are
// logged and swallowed; the activity trail is observational.
type EventPublisher interface {
	Publish(ctx context.Context, event model.ActivityEvent) error
}

// WorkspaceService owns workspace and page lifecycle: create, list,
// mutate, upload. Every content mutation recomputes the page embedding
// before persisting so a reader never sees an embedding computed from
// older content, keeps the similarity index in step, and invalidates the
// answer cache.
type WorkspaceService struct {
	store     repository.PageStore
	embedder  ai.Embedder // nil when the capability is unavailable
	simIndex  *index.Index
	answers   *cache.AnswerCache // nil when redis is not configured
	publisher EventPublisher     // nil when the queue is not configured
}

func NewWorkspaceService(
	store repository.PageStore,
	embedder ai.Embedder,
	simIndex *index.Index,
	answers *cache.AnswerCache,
	publisher EventPublisher,
) *WorkspaceService {
	return &WorkspaceService{
		store:     store,
		embedder:  embedder,
		simIndex:  simIndex,
		answers:   answers,
		publisher: publisher,
	}
}

// CreateWorkspace ensures the workspace exists and returns its sanitized
// name. Creation is idempotent.
func (s *WorkspaceService) CreateWorkspace(ctx context.Context, name string) (string, error) {
	safe, err := SanitizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	if err := s.store.EnsureWorkspace(ctx, safe); err != nil {
		return "", err
	}
	return safe, nil
}

func (s *WorkspaceService) ListWorkspaces(ctx context.Context) ([]string, error) {
	return s.store.Workspaces(ctx)
}

// PageSummary is the listing shape for pages.
type PageSummary struct {
	PageID string   `json:"page_id"`
	Title  string   `json:"title"`
	Tags   []string `json:"tags"`
}

func (s *WorkspaceService) ListPages(ctx context.Context, workspace string) ([]PageSummary, error) {
	safe, err := SanitizeWorkspaceName(workspace)
	if err != nil {
		return nil, err
	}
	pages, err := s.store.ListPages(ctx, safe)
	if err != nil {
		return nil, err
	}
	out := make([]PageSummary, 0, len(pages))
	for _, p := range pages {
		out = append(out, PageSummary{PageID: p.ID, Title: p.Title, Tags: p.TagList()})
	}
	return out, nil
}

// DocumentRef is the picker shape for link-target dropdowns.
type DocumentRef struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Title string `json:"title"`
}

func (s *WorkspaceService) ListDocuments(ctx context.Context, workspace string) ([]DocumentRef, error) {
	safe, err := SanitizeWorkspaceName(workspace)
	if err != nil {
		return nil, err
	}
	pages, err := s.store.ListPages(ctx, safe)
	if err != nil {
		return nil, err
	}
	out := make([]DocumentRef, 0, len(pages))
	for _, p := range pages {
		out = append(out, DocumentRef{ID: p.ID, Name: p.Title, Title: p.Title})
	}
	return out, nil
}

// AddPageInput is the input for creating a page.
type AddPageInput struct {
	Workspace string
	Title     string
	Content   string
	Tags      []string
}

func (s *WorkspaceService) AddPage(ctx context.Context, input AddPageInput) (*model.Page, error) {
	safe, err := SanitizeWorkspaceName(input.Workspace)
	if err != nil {
		return nil, err
	}
	content := strings.TrimSpace(input.Content)
	if content == "" {
		return nil, ErrInvalidInput
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = "Untitled"
	}

	if err := s.store.EnsureWorkspace(ctx, safe); err != nil {
		return nil, err
	}

	page := &model.Page{
		ID:        uuid.NewString(),
		Workspace: safe,
		Title:     title,
		Content:   content,
	}
	page.SetTags(input.Tags)
	s.recomputeEmbedding(ctx, page)

	if err := s.store.PutPage(ctx, page); err != nil {
		return nil, err
	}
	s.syncIndex(page)
	s.afterMutation(ctx, safe, page.ID, model.ActionPageCreated)
	return page, nil
}

// UpdatePageInput carries a partial page update; nil fields are left
// unchanged.
type UpdatePageInput struct {
	Workspace string
	PageID    string
	Title     *string
	Content   *string
	Tags      []string
}

// UpdatePage applies a partial update. A content change recomputes the
// embedding before the page is persisted, within this call.
func (s *WorkspaceService) UpdatePage(ctx context.Context, input UpdatePageInput) (*model.Page, error) {
	safe, err := SanitizeWorkspaceName(input.Workspace)
	if err != nil {
		return nil, err
	}
	page, err := s.store.GetPage(ctx, safe, input.PageID)
	if err != nil {
		return nil, err
	}
	if page == nil {
		return nil, ErrPageNotFound
	}

	if input.Title != nil && strings.TrimSpace(*input.Title) != "" {
		page.Title = strings.TrimSpace(*input.Title)
	}
	contentChanged := false
	if input.Content != nil && strings.TrimSpace(*input.Content) != "" {
		page.Content = strings.TrimSpace(*input.Content)
		contentChanged = true
	}
	if input.Tags != nil {
		page.SetTags(input.Tags)
	}

	if contentChanged {
		s.recomputeEmbedding(ctx, page)
	}
	if err := s.store.PutPage(ctx, page); err != nil {
		return nil, err
	}
	if contentChanged {
		s.syncIndex(page)
	}
	s.afterMutation(ctx, safe, page.ID, model.ActionPageUpdated)
	return page, nil
}

func (s *WorkspaceService) DeletePage(ctx context.Context, workspace, pageID string) error {
	safe, err := SanitizeWorkspaceName(workspace)
	if err != nil {
		return err
	}
	page, err := s.store.GetPage(ctx, safe, pageID)
	if err != nil {
		return err
	}
	if page == nil {
		return ErrPageNotFound
	}
	if err := s.store.DeletePage(ctx, safe, pageID); err != nil {
		return err
	}
	s.simIndex.Remove(safe, pageID)
	s.afterMutation(ctx, safe, pageID, model.ActionPageDeleted)
	return nil
}

// UploadFile ingests an uploaded file as a page. Plain text and markdown
// are taken verbatim; PDFs go through text extraction. Anything else is
// rejected before any processing.
func (s *WorkspaceService) UploadFile(ctx context.Context, workspace, filename string, r io.Reader) (*model.Page, error) {
	safe, err := SanitizeWorkspaceName(workspace)
	if err != nil {
		return nil, err
	}

	var content string
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".txt", ".md":
		raw, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		content = string(raw)
	case ".pdf":
		text, err := pdfextract.ExtractText(r)
		if err != nil {
			return nil, err
		}
		content = text
	default:
		return nil, ErrUnsupportedFileType
	}
	if strings.TrimSpace(content) == "" {
		return nil, ErrInvalidInput
	}

	title := strings.TrimSuffix(filename, filepath.Ext(filename))
	page, err := s.AddPage(ctx, AddPageInput{
		Workspace: safe,
		Title:     title,
		Content:   content,
		Tags:      []string{"uploaded"},
	})
	if err != nil {
		return nil, err
	}
	s.afterMutation(ctx, safe, page.ID, model.ActionFileUploaded)
	return page, nil
}

// RebuildIndex reloads every stored page vector into the similarity
// index; called once at startup for persistent stores.
func (s *WorkspaceService) RebuildIndex(ctx context.Context) error {
	names, err := s.store.Workspaces(ctx)
	if err != nil {
		return err
	}
	for _, name := range names {
		pages, err := s.store.ListPages(ctx, name)
		if err != nil {
			return err
		}
		for _, p := range pages {
			if vec := p.EmbeddingVector(); len(vec) > 0 {
				s.simIndex.Upsert(name, p.ID, vec)
			}
		}
	}
	return nil
}

// recomputeEmbedding refreshes page.Embedding from page.Content. When the
// capability is unavailable or the call fails, the stale vector is cleared
// rather than kept, so similarity operations fall back to the keyword
// signal instead of ranking against outdated content.
func (s *WorkspaceService) recomputeEmbedding(ctx context.Context, page *model.Page) {
	page.SetEmbedding(nil)
	if s.embedder == nil {
		return
	}
	vec, err := s.embedder.Embed(ctx, page.Content)
	if err != nil {
		log.Printf("embed page %s failed: %v", page.ID, err)
		return
	}
	page.SetEmbedding(vec)
}

func (s *WorkspaceService) syncIndex(page *model.Page) {
	if vec := page.EmbeddingVector(); len(vec) > 0 {
		s.simIndex.Upsert(page.Workspace, page.ID, vec)
	} else {
		s.simIndex.Remove(page.Workspace, page.ID)
	}
}

func (s *WorkspaceService) afterMutation(ctx context.Context, workspace, pageID, action string) {
	if s.answers != nil {
		if err := s.answers.MarkDirty(ctx, workspace); err != nil {
			log.Printf("mark workspace %s dirty failed: %v", workspace, err)
		}
	}
	if s.publisher != nil {
		event := model.ActivityEvent{Workspace: workspace, PageID: pageID, Action: action}
		if err := s.publisher.Publish(ctx, event); err != nil {
			log.Printf("publish activity event failed: %v", err)
		}
	}
}
