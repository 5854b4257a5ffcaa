package repository

import (
	"context"
	"fmt"

	"letrario/internal/http-api/models"

	"gorm.io/gorm"
)

type WorkRepository interface {
	GetBySlug(ctx context.Context, slug string) (*models.Work, error)
	// GetBySlugs batch-fetches metadata with the author joined, avoiding a
	// per-item lookup during aggregation.
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Work, error)
	GetByIDs(ctx context.Context, ids []int64) ([]models.Work, error)
	// SerializedByID reports which of the given works have at least one
	// published, non-independent chapter attached by foreign key.
	SerializedByID(ctx context.Context, workIDs []int64) (map[int64]bool, error)
	// SerializedBySlug is the fallback probe joining chapters to works on
	// slug, for rows whose ID linkage cannot be trusted.
	SerializedBySlug(ctx context.Context, workSlugs []string) (map[string]bool, error)
}

type workRepository struct {
	db *gorm.DB
}

func NewWorkRepository(db *gorm.DB) WorkRepository {
	return &workRepository{db: db}
}

func (r *workRepository) GetBySlug(ctx context.Context, slug string) (*models.Work, error) {
	var w models.Work
	if err := r.db.WithContext(ctx).Preload("Author").Where("slug = ?", slug).First(&w).Error; err != nil {
		return nil, err
	}
	return &w, nil
}

func (r *workRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Work, error) {
	if len(slugs) == 0 {
		return nil, nil
	}
	var list []models.Work
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("slug IN ?", slugs).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get works by slugs: %w", err)
	}
	return list, nil
}

func (r *workRepository) GetByIDs(ctx context.Context, ids []int64) ([]models.Work, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var list []models.Work
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("id IN ?", ids).
		Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get works by ids: %w", err)
	}
	return list, nil
}

func (r *workRepository) SerializedByID(ctx context.Context, workIDs []int64) (map[int64]bool, error) {
	result := make(map[int64]bool)
	if len(workIDs) == 0 {
		return result, nil
	}

	var ids []int64
	if err := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Distinct("work_id").
		Where("work_id IN ?", workIDs).
		Where("status = ?", "published").
		Where("is_independent = ? OR is_independent IS NULL", false).
		Pluck("work_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("probe serialized works by id: %w", err)
	}

	for _, id := range ids {
		result[id] = true
	}
	return result, nil
}

func (r *workRepository) SerializedBySlug(ctx context.Context, workSlugs []string) (map[string]bool, error) {
	result := make(map[string]bool)
	if len(workSlugs) == 0 {
		return result, nil
	}

	var slugs []string
	if err := r.db.WithContext(ctx).
		Model(&models.Chapter{}).
		Distinct("works.slug").
		Joins("JOIN works ON works.id = chapters.work_id").
		Where("works.slug IN ?", workSlugs).
		Where("chapters.status = ?", "published").
		Where("chapters.is_independent = ? OR chapters.is_independent IS NULL", false).
		Pluck("works.slug", &slugs).Error; err != nil {
		return nil, fmt.Errorf("probe serialized works by slug: %w", err)
	}

	for _, slug := range slugs {
		result[slug] = true
	}
	return result, nil
}
