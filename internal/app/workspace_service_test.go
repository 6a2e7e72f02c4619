package app

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nandinikorlakanti/know-ai-space/internal/index"
	"github.com/Nandinikorlakanti/know-ai-space/internal/model"
	"github.com/Nandinikorlakanti/know-ai-space/internal/repository"
)

type recordingPublisher struct {
	events []model.ActivityEvent
}

func (p *recordingPublisher) Publish(_ context.Context, event model.ActivityEvent) error {
	p.events = append(p.events, event)
	return nil
}

func newWorkspaceFixture(emb *stubEmbedder) (*WorkspaceService, *repository.MemoryStore, *index.Index, *recordingPublisher) {
	store := repository.NewMemoryStore()
	idx := index.New()
	pub := &recordingPublisher{}
	var svc *WorkspaceService
	if emb != nil {
		svc = NewWorkspaceService(store, emb, idx, nil, pub)
	} else {
		svc = NewWorkspaceService(store, nil, idx, nil, pub)
	}
	return svc, store, idx, pub
}

func TestSanitizeWorkspaceName(t *testing.T) {
	got, err := SanitizeWorkspaceName("My Team/Notes (2024)!")
	require.NoError(t, err)
	assert.Equal(t, "MyTeamNotes2024", got)

	got, err = SanitizeWorkspaceName("eng-platform_v2")
	require.NoError(t, err)
	assert.Equal(t, "eng-platform_v2", got)

	_, err = SanitizeWorkspaceName("///")
	assert.ErrorIs(t, err, ErrInvalidWorkspaceName)
	_, err = SanitizeWorkspaceName("")
	assert.ErrorIs(t, err, ErrInvalidWorkspaceName)
}

func TestCreateWorkspaceIdempotent(t *testing.T) {
	svc, store, _, _ := newWorkspaceFixture(nil)

	name, err := svc.CreateWorkspace(context.Background(), "My Team!")
	require.NoError(t, err)
	assert.Equal(t, "MyTeam", name)

	_, err = svc.CreateWorkspace(context.Background(), "My Team!")
	require.NoError(t, err)

	names, err := store.Workspaces(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"MyTeam"}, names)
}

func TestAddPageEmbedsAndIndexes(t *testing.T) {
	emb := &stubEmbedder{fallback: []float32{1, 0}}
	svc, store, idx, pub := newWorkspaceFixture(emb)

	page, err := svc.AddPage(context.Background(), AddPageInput{
		Workspace: "team",
		Title:     "  Design doc  ",
		Content:   "the service exposes a small http api",
		Tags:      []string{"technical"},
	})
	require.NoError(t, err)
	assert.NotEmpty(t, page.ID)
	assert.Equal(t, "Design doc", page.Title)
	assert.Equal(t, []string{"technical"}, page.TagList())
	assert.Equal(t, 1, emb.calls)

	stored, err := store.GetPage(context.Background(), "team", page.ID)
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, []float32{1, 0}, stored.EmbeddingVector())

	require.Len(t, idx.Query("team", []float32{1, 0}, ""), 1)

	require.Len(t, pub.events, 1)
	assert.Equal(t, model.ActionPageCreated, pub.events[0].Action)
	assert.Equal(t, page.ID, pub.events[0].PageID)
}

func TestAddPageDefaultsTitle(t *testing.T) {
	svc, _, _, _ := newWorkspaceFixture(nil)
	page, err := svc.AddPage(context.Background(), AddPageInput{
		Workspace: "team",
		Content:   "untitled content",
	})
	require.NoError(t, err)
	assert.Equal(t, "Untitled", page.Title)
}

func TestAddPageRejectsEmptyContent(t *testing.T) {
	svc, _, _, _ := newWorkspaceFixture(nil)
	_, err := svc.AddPage(context.Background(), AddPageInput{
		Workspace: "team",
		Title:     "Empty",
		Content:   "   ",
	})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestUpdatePageContentRecomputesEmbedding(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"original content": {1, 0},
		"revised content":  {0, 1},
	}}
	svc, store, idx, _ := newWorkspaceFixture(emb)

	page, err := svc.AddPage(context.Background(), AddPageInput{
		Workspace: "team",
		Title:     "Doc",
		Content:   "original content",
	})
	require.NoError(t, err)

	revised := "revised content"
	updated, err := svc.UpdatePage(context.Background(), UpdatePageInput{
		Workspace: "team",
		PageID:    page.ID,
		Content:   &revised,
	})
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, updated.EmbeddingVector())
	assert.Equal(t, 2, emb.calls)

	stored, err := store.GetPage(context.Background(), "team", page.ID)
	require.NoError(t, err)
	assert.Equal(t, []float32{0, 1}, stored.EmbeddingVector())

	sims := idx.Query("team", []float32{0, 1}, "")
	require.Len(t, sims, 1)
	assert.InDelta(t, 1.0, sims[0].Score, 1e-9)
}

func TestUpdatePageTitleOnlyKeepsEmbedding(t *testing.T) {
	emb := &stubEmbedder{fallback: []float32{1, 0}}
	svc, store, _, _ := newWorkspaceFixture(emb)

	page, err := svc.AddPage(context.Background(), AddPageInput{
		Workspace: "team",
		Title:     "Old title",
		Content:   "stable content",
	})
	require.NoError(t, err)
	require.Equal(t, 1, emb.calls)

	newTitle := "New title"
	updated, err := svc.UpdatePage(context.Background(), UpdatePageInput{
		Workspace: "team",
		PageID:    page.ID,
		Title:     &newTitle,
	})
	require.NoError(t, err)
	assert.Equal(t, "New title", updated.Title)
	assert.Equal(t, 1, emb.calls) // no re-embed without a content change

	stored, err := store.GetPage(context.Background(), "team", page.ID)
	require.NoError(t, err)
	assert.Equal(t, []float32{1, 0}, stored.EmbeddingVector())
}

func TestUpdatePageNotFound(t *testing.T) {
	svc, _, _, _ := newWorkspaceFixture(nil)
	title := "x"
	_, err := svc.UpdatePage(context.Background(), UpdatePageInput{
		Workspace: "team",
		PageID:    "missing",
		Title:     &title,
	})
	assert.ErrorIs(t, err, ErrPageNotFound)
}

func TestDeletePageRemovesFromIndex(t *testing.T) {
	emb := &stubEmbedder{fallback: []float32{1, 0}}
	svc, store, idx, pub := newWorkspaceFixture(emb)

	page, err := svc.AddPage(context.Background(), AddPageInput{
		Workspace: "team",
		Title:     "Doc",
		Content:   "some content",
	})
	require.NoError(t, err)

	require.NoError(t, svc.DeletePage(context.Background(), "team", page.ID))

	stored, err := store.GetPage(context.Background(), "team", page.ID)
	require.NoError(t, err)
	assert.Nil(t, stored)
	assert.Empty(t, idx.Query("team", []float32{1, 0}, ""))
	assert.Equal(t, model.ActionPageDeleted, pub.events[len(pub.events)-1].Action)

	assert.ErrorIs(t, svc.DeletePage(context.Background(), "team", page.ID), ErrPageNotFound)
}

func TestUploadTextFile(t *testing.T) {
	svc, _, _, pub := newWorkspaceFixture(nil)

	page, err := svc.UploadFile(context.Background(), "team", "meeting-notes.txt",
		strings.NewReader("notes from the weekly sync"))
	require.NoError(t, err)
	assert.Equal(t, "meeting-notes", page.Title)
	assert.Equal(t, "notes from the weekly sync", page.Content)
	assert.Equal(t, []string{"uploaded"}, page.TagList())

	actions := make([]string, 0, len(pub.events))
	for _, e := range pub.events {
		actions = append(actions, e.Action)
	}
	assert.Contains(t, actions, model.ActionFileUploaded)
}

func TestUploadRejectsUnsupportedType(t *testing.T) {
	svc, _, _, _ := newWorkspaceFixture(nil)
	_, err := svc.UploadFile(context.Background(), "team", "binary.exe", strings.NewReader("xx"))
	assert.ErrorIs(t, err, ErrUnsupportedFileType)
}

func TestUploadRejectsEmptyFile(t *testing.T) {
	svc, _, _, _ := newWorkspaceFixture(nil)
	_, err := svc.UploadFile(context.Background(), "team", "empty.md", strings.NewReader("  \n"))
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestRebuildIndex(t *testing.T) {
	store := repository.NewMemoryStore()
	idx := index.New()
	page := &model.Page{ID: "p1", Workspace: "team", Title: "Doc", Content: "content"}
	page.SetEmbedding([]float32{1, 0})
	require.NoError(t, store.EnsureWorkspace(context.Background(), "team"))
	require.NoError(t, store.PutPage(context.Background(), page))

	svc := NewWorkspaceService(store, nil, idx, nil, nil)
	require.NoError(t, svc.RebuildIndex(context.Background()))

	sims := idx.Query("team", []float32{1, 0}, "")
	require.Len(t, sims, 1)
	assert.Equal(t, "p1", sims[0].ID)
}
