package service

import (
	"context"
	"errors"
	"log/slog"

	"letrario/internal/http-api/dto"
	"letrario/internal/http-api/repository"
)

var (
	ErrAlreadySaved    = errors.New("already in reading list")
	ErrContentNotFound = errors.New("content not found")
)

// ReadingListService handles the explicit save/unsave surface. Every
// successful mutation invalidates the user's aggregation cache so the change
// is visible immediately, not after the TTL.
type ReadingListService interface {
	SaveWork(ctx context.Context, userID, workSlug string) error
	SaveChapter(ctx context.Context, userID, chapterSlug string) error
	RemoveWork(ctx context.Context, userID, workSlug string) error
	RemoveChapter(ctx context.Context, userID, chapterSlug string) error
	WorkSaved(ctx context.Context, userID, workSlug string) (bool, error)
	ChapterSaved(ctx context.Context, userID, chapterSlug string) (bool, error)
}

type readingListService struct {
	repo     repository.ReadingListRepository
	activity repository.ActivityRepository
	works    repository.WorkRepository
	chapters repository.ChapterRepository
	lecturas LecturasService
	logger   *slog.Logger
}

func NewReadingListService(
	repo repository.ReadingListRepository,
	activity repository.ActivityRepository,
	works repository.WorkRepository,
	chapters repository.ChapterRepository,
	lecturas LecturasService,
	logger *slog.Logger,
) ReadingListService {
	return &readingListService{
		repo:     repo,
		activity: activity,
		works:    works,
		chapters: chapters,
		lecturas: lecturas,
		logger:   logger,
	}
}

func (s *readingListService) SaveWork(ctx context.Context, userID, workSlug string) error {
	if _, err := s.works.GetBySlug(ctx, workSlug); err != nil {
		return ErrContentNotFound
	}

	saved, err := s.repo.WorkSaved(ctx, userID, workSlug)
	if err != nil {
		return err
	}
	if saved {
		return ErrAlreadySaved
	}

	if err := s.repo.SaveWork(ctx, userID, workSlug); err != nil {
		return err
	}
	s.lecturas.InvalidateCache(ctx, userID)
	return nil
}

func (s *readingListService) SaveChapter(ctx context.Context, userID, chapterSlug string) error {
	chapter, err := s.chapters.GetBySlug(ctx, chapterSlug)
	if err != nil {
		return ErrContentNotFound
	}

	saved, err := s.repo.ChapterSaved(ctx, userID, chapterSlug)
	if err != nil {
		return err
	}
	if saved {
		return ErrAlreadySaved
	}

	// Capture the parent slug as a hint. Aggregation still prefers the live
	// foreign key; the hint only matters once the chapter row is gone.
	var parentHint *string
	if chapterBelongsToWork(*chapter) {
		parentHint = ResolveParentSlug(*chapter, nil, nil)
	}

	if err := s.repo.SaveChapter(ctx, userID, chapterSlug, parentHint); err != nil {
		return err
	}
	s.lecturas.InvalidateCache(ctx, userID)
	return nil
}

// RemoveWork unsaves the work and scrubs every activity row the user holds
// for it, including the view/progress logs of its chapters. It is idempotent:
// removing something never saved still scrubs the logs.
func (s *readingListService) RemoveWork(ctx context.Context, userID, workSlug string) error {
	if _, err := s.repo.RemoveWork(ctx, userID, workSlug); err != nil {
		return err
	}

	if err := s.activity.DeleteActivity(ctx, userID, dto.ContentTypeWork, []string{workSlug}); err != nil {
		return err
	}

	chapterSlugs, err := s.chapters.SlugsByWorkSlug(ctx, workSlug)
	if err != nil {
		// The work may already be deleted; the work-level scrub above is the
		// part that matters, so log and keep going.
		s.logger.Warn("cascade_chapter_lookup_failed", "work_slug", workSlug, "error", err)
	} else if err := s.activity.DeleteActivity(ctx, userID, dto.ContentTypeChapter, chapterSlugs); err != nil {
		return err
	}

	s.lecturas.InvalidateCache(ctx, userID)
	return nil
}

func (s *readingListService) RemoveChapter(ctx context.Context, userID, chapterSlug string) error {
	if _, err := s.repo.RemoveChapter(ctx, userID, chapterSlug); err != nil {
		return err
	}

	if err := s.activity.DeleteActivity(ctx, userID, dto.ContentTypeChapter, []string{chapterSlug}); err != nil {
		return err
	}

	s.lecturas.InvalidateCache(ctx, userID)
	return nil
}

func (s *readingListService) WorkSaved(ctx context.Context, userID, workSlug string) (bool, error) {
	return s.repo.WorkSaved(ctx, userID, workSlug)
}

func (s *readingListService) ChapterSaved(ctx context.Context, userID, chapterSlug string) (bool, error) {
	return s.repo.ChapterSaved(ctx, userID, chapterSlug)
}
