package model

import "time"

// Page lifecycle actions recorded by the activity log.
const (
	ActionPageCreated  = "page_created"
	ActionPageUpdated  = "page_updated"
	ActionPageDeleted  = "page_deleted"
	ActionFileUploaded = "file_uploaded"
)

// ActivityEvent is an observational record of a page mutation, published
// to the event queue and persisted asynchronously.
type ActivityEvent struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Workspace string    `gorm:"size:128;not null;index" json:"workspace"`
	PageID    string    `gorm:"size:36;not null" json:"page_id"`
	Action    string    `gorm:"size:32;not null" json:"action"`
	CreatedAt time.Time `json:"created_at"`
}
