package models

import "time"

type Chapter struct {
	ID     int64   `json:"id" gorm:"primaryKey;autoIncrement"`
	Slug   string  `json:"slug" gorm:"uniqueIndex;size:200;not null"`
	Title  string  `json:"title" gorm:"not null"`
	WorkID *int64  `json:"work_id,omitempty" gorm:"index"` // null for independently published pieces
	Status string  `json:"status" gorm:"default:'draft';not null"`

	// IsIndependent is nullable: NULL on legacy rows means "belongs to its work".
	IsIndependent *bool `json:"is_independent,omitempty"`

	Bucket   *string `json:"bucket,omitempty"`
	FilePath *string `json:"file_path,omitempty"`
	NumPages *int    `json:"num_pages,omitempty"`

	CoverURL  *string    `json:"cover_url,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" gorm:"autoCreateTime"`
	UpdatedAt time.Time  `json:"updated_at" gorm:"autoUpdateTime"`

	// associations
	Work *Work `json:"work,omitempty" gorm:"foreignKey:WorkID"`
}

func (Chapter) TableName() string {
	return "chapters"
}
