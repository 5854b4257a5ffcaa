package dto

import "time"

// Content type discriminators for reading items and activity logs.
const (
	ContentTypeWork    = "work"
	ContentTypeChapter = "chapter"
)

// ReadingItem is the unified representation of "something the user has been
// reading": explicit saves and passive view/progress activity merged into one
// deduplicated record per (type, slug).
type ReadingItem struct {
	Type     string  `json:"type"` // ContentTypeWork | ContentTypeChapter
	Slug     string  `json:"slug"`
	Title    string  `json:"title"`
	Bucket   *string `json:"bucket"`
	FilePath *string `json:"filePath"`

	LastPage *int `json:"lastPage"`
	NumPages *int `json:"numPages"`
	// ProgressRatio is lastPage/numPages clamped to [0,1], null whenever
	// numPages is unknown.
	ProgressRatio *float64 `json:"progressRatio"`

	UpdatedAt time.Time `json:"updatedAt"`

	CoverURL   *string `json:"coverUrl"`
	AuthorName string  `json:"authorName"`

	// ParentWorkSlug is set only on chapters that belong to a serialized work.
	ParentWorkSlug *string `json:"parentWorkSlug,omitempty"`
	// HasSerializedChapters is set on works published chapter by chapter.
	// Such works never carry a file pointer or progress of their own.
	HasSerializedChapters bool `json:"hasSerializedChapters"`
	// HasPDF reports whether a chapter has a viewable file.
	HasPDF bool `json:"hasPdf"`
}

// ReadingListResponse: payload of GET /api/mis-lecturas
type ReadingListResponse struct {
	Data []ReadingItem `json:"data"`
}

// SaveReadingRequest: payload to save a work or chapter to the reading list.
// Exactly one of the two slugs must be set.
type SaveReadingRequest struct {
	WorkSlug    string `json:"workSlug,omitempty"`
	ChapterSlug string `json:"chapterSlug,omitempty"`
}

// SavedCheckResponse: response of GET /api/reading-list existence checks
type SavedCheckResponse struct {
	Saved bool `json:"saved"`
}

// ViewLogRequest: payload of POST /api/view-log
type ViewLogRequest struct {
	ContentType string  `json:"contentType" binding:"required,oneof=work chapter"`
	ContentSlug string  `json:"contentSlug" binding:"required"`
	Bucket      *string `json:"bucket,omitempty"`
	FilePath    *string `json:"filePath,omitempty"`
}

// PageProgressRequest: payload of POST /api/page-progress
type PageProgressRequest struct {
	ContentType string  `json:"contentType" binding:"required,oneof=work chapter"`
	ContentSlug string  `json:"contentSlug" binding:"required"`
	LastPage    int     `json:"lastPage" binding:"required,min=1"`
	NumPages    *int    `json:"numPages,omitempty"`
	Bucket      *string `json:"bucket,omitempty"`
	FilePath    *string `json:"filePath,omitempty"`
}

// SignedFileResponse: response of GET /api/chapters/:slug/file
type SignedFileResponse struct {
	URL       string `json:"url"`
	ExpiresIn int64  `json:"expires_in"` // seconds
}
