package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Nandinikorlakanti/know-ai-space/internal/model"
)

// GormStore is the MySQL-backed PageStore.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) EnsureWorkspace(ctx context.Context, name string) error {
	ws := model.Workspace{Name: name}
	// DoNothing keeps concurrent ensure calls with the same name idempotent.
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&ws).Error
	if err != nil && !errors.Is(err, gorm.ErrDuplicatedKey) {
		return fmt.Errorf("ensure workspace failed: %w", err)
	}
	return nil
}

func (s *GormStore) Workspaces(ctx context.Context) ([]string, error) {
	var names []string
	if err := s.db.WithContext(ctx).
		Model(&model.Workspace{}).
		Order("created_at ASC").
		Pluck("name", &names).Error; err != nil {
		return nil, fmt.Errorf("list workspaces failed: %w", err)
	}
	return names, nil
}

func (s *GormStore) ListPages(ctx context.Context, workspace string) ([]model.Page, error) {
	var pages []model.Page
	if err := s.db.WithContext(ctx).
		Where("workspace = ?", workspace).
		Order("created_at ASC, id ASC").
		Find(&pages).Error; err != nil {
		return nil, fmt.Errorf("list pages failed: %w", err)
	}
	return pages, nil
}

func (s *GormStore) GetPage(ctx context.Context, workspace, id string) (*model.Page, error) {
	var page model.Page
	err := s.db.WithContext(ctx).
		Where("workspace = ? AND id = ?", workspace, id).
		First(&page).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get page failed: %w", err)
	}
	return &page, nil
}

func (s *GormStore) PutPage(ctx context.Context, page *model.Page) error {
	if err := s.db.WithContext(ctx).Save(page).Error; err != nil {
		return fmt.Errorf("save page failed: %w", err)
	}
	return nil
}

func (s *GormStore) DeletePage(ctx context.Context, workspace, id string) error {
	if err := s.db.WithContext(ctx).
		Where("workspace = ? AND id = ?", workspace, id).
		Delete(&model.Page{}).Error; err != nil {
		return fmt.Errorf("delete page failed: %w", err)
	}
	return nil
}

// ActivityRepository persists activity events to MySQL.
type ActivityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

func (r *ActivityRepository) Record(ctx context.Context, event *model.ActivityEvent) error {
	if err := r.db.WithContext(ctx).Create(event).Error; err != nil {
		return fmt.Errorf("record activity event failed: %w", err)
	}
	return nil
}
