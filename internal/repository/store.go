package repository

import (
	"context"

	"github.com/Nandinikorlakanti/know-ai-space/internal/model"
)

// PageStore is the workspace document store the core depends on. Both
// backends guarantee: EnsureWorkspace is idempotent and safe under
// concurrent calls with the same name; ListPages iterates pages in a
// stable creation order; GetPage returns (nil, nil) for a missing page.
type PageStore interface {
	EnsureWorkspace(ctx context.Context, name string) error
	Workspaces(ctx context.Context) ([]string, error)
	ListPages(ctx context.Context, workspace string) ([]model.Page, error)
	GetPage(ctx context.Context, workspace, id string) (*model.Page, error)
	PutPage(ctx context.Context, page *model.Page) error
	DeletePage(ctx context.Context, workspace, id string) error
}

// ActivityRecorder persists page lifecycle events consumed from the
// activity queue.
type ActivityRecorder interface {
	Record(ctx context.Context, event *model.ActivityEvent) error
}
