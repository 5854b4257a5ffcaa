package models

import "time"

// ContentView is an append-only log row written every time a user opens a
// work or chapter. Bucket/FilePath are captured as seen at view time, which
// is why stored representations drift across writers.
type ContentView struct {
	ID          int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID      string    `gorm:"type:uuid;not null;index:idx_content_views_user" json:"user_id"`
	ContentType string    `gorm:"size:20;not null" json:"content_type"` // "work" | "chapter"
	ContentSlug string    `gorm:"size:200;not null" json:"content_slug"`
	Bucket      *string   `json:"bucket,omitempty"`
	FilePath    *string   `json:"file_path,omitempty"`
	CreatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP;index" json:"created_at"`
}

func (ContentView) TableName() string {
	return "content_views"
}

// PageProgress tracks the furthest page a user reached in a document.
// One row per (user, content_type, content_slug), upserted by the reader.
type PageProgress struct {
	UserID      string    `gorm:"type:uuid;not null;primaryKey" json:"user_id"`
	ContentType string    `gorm:"size:20;not null;primaryKey" json:"content_type"`
	ContentSlug string    `gorm:"size:200;not null;primaryKey" json:"content_slug"`
	Bucket      *string   `json:"bucket,omitempty"`
	FilePath    *string   `json:"file_path,omitempty"`
	LastPage    int       `gorm:"default:0" json:"last_page"`
	NumPages    *int      `json:"num_pages,omitempty"` // may stay null forever, total length is not always known
	UpdatedAt   time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (PageProgress) TableName() string {
	return "page_progress"
}
