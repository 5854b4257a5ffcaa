package repository

import (
	"context"
	"fmt"

	"letrario/internal/http-api/models"

	"gorm.io/gorm"
)

type ChapterRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Chapter, error)
	// GetBySlugs batch-fetches chapters with their work and the work's
	// author joined.
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Chapter, error)
	// SlugsByWorkSlug lists the chapter slugs of a work, used when a work
	// removal has to cascade over its chapters' activity logs.
	SlugsByWorkSlug(ctx context.Context, workSlug string) ([]string, error)
}

type chapterRepository struct {
	db *gorm.DB
}

func NewChapterRepository(db *gorm.DB) ChapterRepository {
	return &chapterRepository{db: db}
}

func (r *chapterRepository) GetBySlug(ctx context.Context, slug string) (*models.Chapter, error) {
	var c models.Chapter
	if err := r.db.WithContext(ctx).
		Preload("Work").
		Preload("Work.Author").
		Where("slug = ?", slug).
		First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *chapterRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Chapter, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var list []models.Chapter
	if err := r.db.WithContext(ctx).
		Preload("Work").
		Preload("Work.Author").
		Where("slug IN ?", slugs).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get chapters by slugs: %w", err)
	}
	return list, nil
}

func (r *chapterRepository) SlugsByWorkSlug(ctx context.Context, workSlug string) ([]string, error) {
	var slugs []string
	if err := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Joins("JOIN works ON works.id = chapters.work_id").
		Where("works.slug = ?", workSlug).
		Pluck("chapters.slug", &slugs).Error; err != nil {
		return nil, fmt.Errorf("list chapter slugs of work: %w", err)
	}
	return slugs, nil
}
