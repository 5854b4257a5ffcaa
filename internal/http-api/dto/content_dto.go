package dto

import (
	"time"

	"letrario/internal/http-api/models"
)

// WorkResponse: public metadata for a work
type WorkResponse struct {
	ID         int64     `json:"id"`
	Slug       *string   `json:"slug,omitempty"`
	Title      string    `json:"title"`
	AuthorName string    `json:"author_name"`
	Status     string    `json:"status"`
	CoverURL   *string   `json:"cover_url,omitempty"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// ChapterResponse: public metadata for a chapter
type ChapterResponse struct {
	ID             int64     `json:"id"`
	Slug           string    `json:"slug"`
	Title          string    `json:"title"`
	ParentWorkSlug *string   `json:"parent_work_slug,omitempty"`
	Status         string    `json:"status"`
	HasPDF         bool      `json:"has_pdf"`
	NumPages       *int      `json:"num_pages,omitempty"`
	CoverURL       *string   `json:"cover_url,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func WorkToResponse(w models.Work, authorName string) WorkResponse {
	return WorkResponse{
		ID:         w.ID,
		Slug:       w.Slug,
		Title:      w.Title,
		AuthorName: authorName,
		Status:     w.Status,
		CoverURL:   w.CoverURL,
		UpdatedAt:  w.UpdatedAt,
	}
}

func ChapterToResponse(c models.Chapter, parentWorkSlug *string) ChapterResponse {
	return ChapterResponse{
		ID:             c.ID,
		Slug:           c.Slug,
		Title:          c.Title,
		ParentWorkSlug: parentWorkSlug,
		Status:         c.Status,
		HasPDF:         c.FilePath != nil,
		NumPages:       c.NumPages,
		CoverURL:       c.CoverURL,
		UpdatedAt:      c.UpdatedAt,
	}
}
