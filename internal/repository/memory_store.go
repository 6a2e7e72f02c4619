package repository

import (
	"context"
	"sync"
	"time"

	"github.com/Nandinikorlakanti/know-ai-space/internal/model"
)

// MemoryStore is the reference PageStore: everything lives in process
// memory. Insertion order is preserved per workspace so listings and the
// rank tie-breaks built on them stay deterministic.
type MemoryStore struct {
	mu             sync.RWMutex
	workspaceOrder []string
	pages          map[string]*workspacePages
}

type workspacePages struct {
	order []string
	byID  map[string]*model.Page
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{pages: make(map[string]*workspacePages)}
}

func (s *MemoryStore) EnsureWorkspace(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLocked(name)
	return nil
}

func (s *MemoryStore) ensureLocked(name string) *workspacePages {
	ws, ok := s.pages[name]
	if !ok {
		ws = &workspacePages{byID: make(map[string]*model.Page)}
		s.pages[name] = ws
		s.workspaceOrder = append(s.workspaceOrder, name)
	}
	return ws
}

func (s *MemoryStore) Workspaces(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, len(s.workspaceOrder))
	copy(out, s.workspaceOrder)
	return out, nil
}

func (s *MemoryStore) ListPages(_ context.Context, workspace string) ([]model.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.pages[workspace]
	if !ok {
		return nil, nil
	}
	out := make([]model.Page, 0, len(ws.order))
	for _, id := range ws.order {
		out = append(out, *ws.byID[id])
	}
	return out, nil
}

func (s *MemoryStore) GetPage(_ context.Context, workspace, id string) (*model.Page, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ws, ok := s.pages[workspace]
	if !ok {
		return nil, nil
	}
	page, ok := ws.byID[id]
	if !ok {
		return nil, nil
	}
	copied := *page
	return &copied, nil
}

func (s *MemoryStore) PutPage(_ context.Context, page *model.Page) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws := s.ensureLocked(page.Workspace)
	if _, exists := ws.byID[page.ID]; !exists {
		ws.order = append(ws.order, page.ID)
		if page.CreatedAt.IsZero() {
			page.CreatedAt = time.Now()
		}
	}
	page.UpdatedAt = time.Now()
	copied := *page
	ws.byID[page.ID] = &copied
	return nil
}

func (s *MemoryStore) DeletePage(_ context.Context, workspace, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ws, ok := s.pages[workspace]
	if !ok {
		return nil
	}
	if _, exists := ws.byID[id]; !exists {
		return nil
	}
	delete(ws.byID, id)
	for i, other := range ws.order {
		if other == id {
			ws.order = append(ws.order[:i], ws.order[i+1:]...)
			break
		}
	}
	return nil
}

// MemoryActivityLog keeps activity events in memory when no database is
// configured.
type MemoryActivityLog struct {
	mu     sync.Mutex
	events []model.ActivityEvent
}

func NewMemoryActivityLog() *MemoryActivityLog {
	return &MemoryActivityLog{}
}

func (l *MemoryActivityLog) Record(_ context.Context, event *model.ActivityEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	event.ID = uint(len(l.events) + 1)
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}
	l.events = append(l.events, *event)
	return nil
}

// Events returns a snapshot of the recorded events.
func (l *MemoryActivityLog) Events() []model.ActivityEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]model.ActivityEvent, len(l.events))
	copy(out, l.events)
	return out
}
