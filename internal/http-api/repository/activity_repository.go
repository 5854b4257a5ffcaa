package repository

import (
	"context"
	"fmt"
	"time"

	"letrario/internal/http-api/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ActivityRepository owns the passive activity logs: the append-only view log
// and the per-document page progress. These are the write paths feeding the
// mis-lecturas sources.
type ActivityRepository interface {
	LogView(ctx context.Context, view *models.ContentView) error
	UpsertProgress(ctx context.Context, progress *models.PageProgress) error
	// DeleteActivity removes all view and progress rows a user holds for the
	// given slugs of one content type. Used by the unsave cascade.
	DeleteActivity(ctx context.Context, userID, contentType string, slugs []string) error
}

type activityRepository struct {
	db *gorm.DB
}

func NewActivityRepository(db *gorm.DB) ActivityRepository {
	return &activityRepository{db: db}
}

func (r *activityRepository) LogView(ctx context.Context, view *models.ContentView) error {
	if err := r.db.WithContext(ctx).Create(view).Error; err != nil {
		return fmt.Errorf("log view: %w", err)
	}
	return nil
}

// UpsertProgress keeps one row per (user, type, slug). The reader only ever
// reports forward movement, so a plain overwrite is enough.
func (r *activityRepository) UpsertProgress(ctx context.Context, progress *models.PageProgress) error {
	progress.UpdatedAt = time.Now()
	if err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "user_id"}, {Name: "content_type"}, {Name: "content_slug"},
			},
			DoUpdates: clause.AssignmentColumns([]string{
				"bucket", "file_path", "last_page", "num_pages", "updated_at",
			}),
		}).
		Create(progress).Error; err != nil {
		return fmt.Errorf("upsert progress: %w", err)
	}
	return nil
}

func (r *activityRepository) DeleteActivity(ctx context.Context, userID, contentType string, slugs []string) error {
	if len(slugs) == 0 {
		return nil
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_type = ? AND content_slug IN ?", userID, contentType, slugs).
		Delete(&models.ContentView{}).Error; err != nil {
		return fmt.Errorf("delete views: %w", err)
	}

	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND content_type = ? AND content_slug IN ?", userID, contentType, slugs).
		Delete(&models.PageProgress{}).Error; err != nil {
		return fmt.Errorf("delete progress: %w", err)
	}

	return nil
}
