package model

import "time"

// Workspace is a named, isolated collection of pages. Workspaces are
// created lazily on first reference and never implicitly destroyed.
type Workspace struct {
	Name      string    `gorm:"primaryKey;size:128" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
