package model

import (
	"encoding/json"
	"time"
)

// Page is one document inside a workspace. Tags and the embedding are
// stored as JSON text for portability across store backends. The embedding
// always corresponds to the current content; mutation paths recompute it
// before persisting.
type Page struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Workspace string    `gorm:"size:128;not null;index" json:"workspace"`
	Title     string    `gorm:"size:256;not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Tags      string    `gorm:"type:text" json:"-"`
	Embedding string    `gorm:"type:text" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// EmbeddingVector returns the parsed embedding; nil when absent or invalid.
func (p *Page) EmbeddingVector() []float32 {
	if p.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(p.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON. An empty vector clears it.
func (p *Page) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		p.Embedding = ""
		return
	}
	b, _ := json.Marshal(vec)
	p.Embedding = string(b)
}

// TagList returns the ordered tags; never nil.
func (p *Page) TagList() []string {
	if p.Tags == "" {
		return []string{}
	}
	var tags []string
	if err := json.Unmarshal([]byte(p.Tags), &tags); err != nil || tags == nil {
		return []string{}
	}
	return tags
}

// SetTags stores the ordered tag list as JSON.
func (p *Page) SetTags(tags []string) {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	p.Tags = string(b)
}
