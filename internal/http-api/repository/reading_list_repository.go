package repository

import (
	"context"
	"fmt"

	"letrario/internal/http-api/models"

	"gorm.io/gorm"
)

// ReadingListRepository handles the explicit save/unsave entries behind
// POST/DELETE/GET /api/reading-list.
type ReadingListRepository interface {
	SaveWork(ctx context.Context, userID, workSlug string) error
	SaveChapter(ctx context.Context, userID, chapterSlug string, parentWorkSlug *string) error
	RemoveWork(ctx context.Context, userID, workSlug string) (bool, error)
	RemoveChapter(ctx context.Context, userID, chapterSlug string) (bool, error)
	WorkSaved(ctx context.Context, userID, workSlug string) (bool, error)
	ChapterSaved(ctx context.Context, userID, chapterSlug string) (bool, error)
}

type readingListRepository struct {
	db *gorm.DB
}

func NewReadingListRepository(db *gorm.DB) ReadingListRepository {
	return &readingListRepository{db: db}
}

func (r *readingListRepository) SaveWork(ctx context.Context, userID, workSlug string) error {
	entry := &models.SavedWork{
		UserID:   userID,
		WorkSlug: workSlug,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("save work: %w", err)
	}
	return nil
}

func (r *readingListRepository) SaveChapter(ctx context.Context, userID, chapterSlug string, parentWorkSlug *string) error {
	entry := &models.SavedChapter{
		UserID:         userID,
		ChapterSlug:    chapterSlug,
		ParentWorkSlug: parentWorkSlug,
	}
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("save chapter: %w", err)
	}
	return nil
}

func (r *readingListRepository) RemoveWork(ctx context.Context, userID, workSlug string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND work_slug = ?", userID, workSlug).
		Delete(&models.SavedWork{})
	if result.Error != nil {
		return false, fmt.Errorf("remove saved work: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *readingListRepository) RemoveChapter(ctx context.Context, userID, chapterSlug string) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND chapter_slug = ?", userID, chapterSlug).
		Delete(&models.SavedChapter{})
	if result.Error != nil {
		return false, fmt.Errorf("remove saved chapter: %w", result.Error)
	}
	return result.RowsAffected > 0, nil
}

func (r *readingListRepository) WorkSaved(ctx context.Context, userID, workSlug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SavedWork{}).
		Where("user_id = ? AND work_slug = ?", userID, workSlug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *readingListRepository) ChapterSaved(ctx context.Context, userID, chapterSlug string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SavedChapter{}).
		Where("user_id = ? AND chapter_slug = ?", userID, chapterSlug).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
