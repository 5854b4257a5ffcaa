package models

import "time"

// SavedWork is an explicit "add to my readings" entry for a work.
type SavedWork struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index:idx_saved_works_user" json:"user_id"`
	WorkSlug  string    `gorm:"size:200;not null;index:idx_saved_works_user" json:"work_slug"`
	CreatedAt time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (SavedWork) TableName() string {
	return "saved_works"
}

// SavedChapter is an explicit save of a single chapter. ParentWorkSlug is a
// hint captured at save time; live foreign-key linkage takes precedence over
// it when the chapter row is still resolvable.
type SavedChapter struct {
	ID             int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         string    `gorm:"type:uuid;not null;index:idx_saved_chapters_user" json:"user_id"`
	ChapterSlug    string    `gorm:"size:200;not null;index:idx_saved_chapters_user" json:"chapter_slug"`
	ParentWorkSlug *string   `gorm:"size:200" json:"parent_work_slug,omitempty"`
	CreatedAt      time.Time `gorm:"default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (SavedChapter) TableName() string {
	return "saved_chapters"
}
