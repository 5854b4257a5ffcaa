package service

import (
	"context"

	"letrario/internal/http-api/dto"
	"letrario/internal/http-api/models"
	"letrario/internal/http-api/repository"
)

// ActivityService records passive reading activity. These writes feed the
// aggregation sources but deliberately do not invalidate the reading cache:
// a view or page turn does not need sub-TTL freshness.
type ActivityService interface {
	LogView(ctx context.Context, userID string, req dto.ViewLogRequest) error
	SaveProgress(ctx context.Context, userID string, req dto.PageProgressRequest) error
}

type activityService struct {
	repo repository.ActivityRepository
}

func NewActivityService(repo repository.ActivityRepository) ActivityService {
	return &activityService{repo: repo}
}

func (s *activityService) LogView(ctx context.Context, userID string, req dto.ViewLogRequest) error {
	return s.repo.LogView(ctx, &models.ContentView{
		UserID:      userID,
		ContentType: req.ContentType,
		ContentSlug: req.ContentSlug,
		Bucket:      req.Bucket,
		FilePath:    req.FilePath,
	})
}

func (s *activityService) SaveProgress(ctx context.Context, userID string, req dto.PageProgressRequest) error {
	return s.repo.UpsertProgress(ctx, &models.PageProgress{
		UserID:      userID,
		ContentType: req.ContentType,
		ContentSlug: req.ContentSlug,
		Bucket:      req.Bucket,
		FilePath:    req.FilePath,
		LastPage:    req.LastPage,
		NumPages:    req.NumPages,
	})
}
