package repository

import (
	"context"
	"fmt"

	"letrario/internal/http-api/models"

	"gorm.io/gorm"
)

// Each source read is bounded so a heavy reader can never pull unbounded
// history into a single aggregation. The final list is capped to the same
// number, so explicit saves cannot be pushed out by log volume.
const SourceLimit = 50

// SourceRepository exposes the four reading-activity sources consumed by the
// mis-lecturas aggregation. All reads are per-user and read-only.
type SourceRepository interface {
	SavedWorks(ctx context.Context, userID string) ([]models.SavedWork, error)
	SavedChapters(ctx context.Context, userID string) ([]models.SavedChapter, error)
	RecentViews(ctx context.Context, userID string) ([]models.ContentView, error)
	RecentProgress(ctx context.Context, userID string) ([]models.PageProgress, error)
}

type sourceRepository struct {
	db *gorm.DB
}

func NewSourceRepository(db *gorm.DB) SourceRepository {
	return &sourceRepository{db: db}
}

func (r *sourceRepository) SavedWorks(ctx context.Context, userID string) ([]models.SavedWork, error) {
	var list []models.SavedWork
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(SourceLimit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list saved works: %w", err)
	}
	return list, nil
}

func (r *sourceRepository) SavedChapters(ctx context.Context, userID string) ([]models.SavedChapter, error) {
	var list []models.SavedChapter
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(SourceLimit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list saved chapters: %w", err)
	}
	return list, nil
}

func (r *sourceRepository) RecentViews(ctx context.Context, userID string) ([]models.ContentView, error) {
	var list []models.ContentView
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(SourceLimit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list recent views: %w", err)
	}
	return list, nil
}

func (r *sourceRepository) RecentProgress(ctx context.Context, userID string) ([]models.PageProgress, error) {
	var list []models.PageProgress
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(SourceLimit).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("list recent progress: %w", err)
	}
	return list, nil
}
