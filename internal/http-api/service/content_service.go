package service

import (
	"context"
	"errors"
	"time"

	"letrario/internal/http-api/dto"
	"letrario/internal/http-api/repository"
)

var ErrNoFile = errors.New("no file attached")

const signedURLExpiry = 15 * time.Minute

// FilePresigner issues short-lived download URLs for stored objects.
type FilePresigner interface {
	PresignURL(ctx context.Context, bucket, objectKey string, expiry time.Duration) (string, error)
	ChaptersBucket() string
}

// ContentService serves public work/chapter metadata and signed file URLs.
// Only published content is visible on this surface.
type ContentService interface {
	GetWork(ctx context.Context, slug string) (*dto.WorkResponse, error)
	GetChapter(ctx context.Context, slug string) (*dto.ChapterResponse, error)
	SignChapterFile(ctx context.Context, slug string) (*dto.SignedFileResponse, error)
}

type contentService struct {
	works     repository.WorkRepository
	chapters  repository.ChapterRepository
	presigner FilePresigner
}

func NewContentService(
	works repository.WorkRepository,
	chapters repository.ChapterRepository,
	presigner FilePresigner,
) ContentService {
	return &contentService{
		works:     works,
		chapters:  chapters,
		presigner: presigner,
	}
}

func (s *contentService) GetWork(ctx context.Context, slug string) (*dto.WorkResponse, error) {
	work, err := s.works.GetBySlug(ctx, slug)
	if err != nil || work.Status != "published" {
		return nil, ErrContentNotFound
	}
	resp := dto.WorkToResponse(*work, authorNameOf(work.Author))
	return &resp, nil
}

func (s *contentService) GetChapter(ctx context.Context, slug string) (*dto.ChapterResponse, error) {
	chapter, err := s.chapters.GetBySlug(ctx, slug)
	if err != nil || chapter.Status != "published" {
		return nil, ErrContentNotFound
	}

	var parentSlug *string
	if chapterBelongsToWork(*chapter) {
		parentSlug = ResolveParentSlug(*chapter, nil, nil)
	}
	resp := dto.ChapterToResponse(*chapter, parentSlug)
	return &resp, nil
}

func (s *contentService) SignChapterFile(ctx context.Context, slug string) (*dto.SignedFileResponse, error) {
	chapter, err := s.chapters.GetBySlug(ctx, slug)
	if err != nil || chapter.Status != "published" {
		return nil, ErrContentNotFound
	}
	if chapter.FilePath == nil || *chapter.FilePath == "" {
		return nil, ErrNoFile
	}

	bucket := s.presigner.ChaptersBucket()
	if chapter.Bucket != nil && *chapter.Bucket != "" {
		bucket = *chapter.Bucket
	}

	url, err := s.presigner.PresignURL(ctx, bucket, NormalizePath(*chapter.FilePath), signedURLExpiry)
	if err != nil {
		return nil, err
	}

	return &dto.SignedFileResponse{
		URL:       url,
		ExpiresIn: int64(signedURLExpiry.Seconds()),
	}, nil
}
