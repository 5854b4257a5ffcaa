package models

import "time"

type Work struct {
	ID       int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug     *string `json:"slug,omitempty" gorm:"uniqueIndex;size:200"` // nullable: rows created before slug generation existed
	Title    string  `json:"title" gorm:"not null"`
	AuthorID *string `json:"author_id,omitempty" gorm:"type:uuid;index"`
	Status   string  `json:"status" gorm:"default:'draft';not null"`

	// File pointer into object storage. Both null for serialized works
	// that are published chapter by chapter.
	Bucket   *string `json:"bucket,omitempty"`
	FilePath *string `json:"file_path,omitempty"`

	CoverURL  *string    `json:"cover_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// associations
	Author   *User     `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Chapters []Chapter `json:"chapters,omitempty" gorm:"foreignKey:WorkID"`
}

func (Work) TableName() string {
	return "works"
}
