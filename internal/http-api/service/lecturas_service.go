package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"letrario/internal/cache"
	"letrario/internal/http-api/dto"
	"letrario/internal/http-api/models"
	"letrario/internal/http-api/repository"
)

// LecturasService assembles a user's deduplicated reading list out of four
// weakly-consistent sources: explicit saves (works and chapters), the content
// view log and the page progress log. The assembly is best-effort: a failing
// source degrades to an empty contribution, never to an error.
type LecturasService interface {
	MisLecturas(ctx context.Context, userID string) ([]dto.ReadingItem, error)
	// InvalidateCache drops the user's memoized list. Mutation endpoints call
	// it so the user's own writes are visible before the TTL expires.
	InvalidateCache(ctx context.Context, userID string)
}

type lecturasService struct {
	sources  repository.SourceRepository
	works    repository.WorkRepository
	chapters repository.ChapterRepository
	cache    cache.ReadingCache
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewLecturasService(
	sources repository.SourceRepository,
	works repository.WorkRepository,
	chapters repository.ChapterRepository,
	readingCache cache.ReadingCache,
	cacheTTL time.Duration,
	logger *slog.Logger,
) LecturasService {
	return &lecturasService{
		sources:  sources,
		works:    works,
		chapters: chapters,
		cache:    readingCache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

// candidate is one raw record gathered from any source, before metadata
// resolution and dedup.
type candidate struct {
	typ        string
	slug       string
	bucket     *string
	filePath   *string
	lastPage   *int
	numPages   *int
	parentHint *string
	updatedAt  time.Time
}

type sourceSet struct {
	savedWorks    []models.SavedWork
	savedChapters []models.SavedChapter
	views         []models.ContentView
	progress      []models.PageProgress
}

func (s *lecturasService) MisLecturas(ctx context.Context, userID string) ([]dto.ReadingItem, error) {
	if userID == "" {
		return []dto.ReadingItem{}, nil
	}

	if items, ok := s.cache.Get(ctx, userID); ok {
		return items, nil
	}

	srcs := s.collectSources(ctx, userID)
	candidates := buildCandidates(srcs)

	items := s.resolveAndAssemble(ctx, candidates)

	s.cache.Set(ctx, userID, items, s.cacheTTL)
	return items, nil
}

func (s *lecturasService) InvalidateCache(ctx context.Context, userID string) {
	s.cache.Invalidate(ctx, userID)
}

// collectSources runs the four source reads concurrently. A failed read is
// logged and contributes nothing.
func (s *lecturasService) collectSources(ctx context.Context, userID string) sourceSet {
	var (
		srcs sourceSet
		wg   sync.WaitGroup
	)

	wg.Add(4)
	go func() {
		defer wg.Done()
		list, err := s.sources.SavedWorks(ctx, userID)
		if err != nil {
			s.logger.Warn("reading_source_failed", "source", "saved_works", "error", err)
			return
		}
		srcs.savedWorks = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.sources.SavedChapters(ctx, userID)
		if err != nil {
			s.logger.Warn("reading_source_failed", "source", "saved_chapters", "error", err)
			return
		}
		srcs.savedChapters = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.sources.RecentViews(ctx, userID)
		if err != nil {
			s.logger.Warn("reading_source_failed", "source", "content_views", "error", err)
			return
		}
		srcs.views = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.sources.RecentProgress(ctx, userID)
		if err != nil {
			s.logger.Warn("reading_source_failed", "source", "page_progress", "error", err)
			return
		}
		srcs.progress = list
	}()
	wg.Wait()

	return srcs
}

func buildCandidates(srcs sourceSet) []candidate {
	candidates := make([]candidate, 0,
		len(srcs.savedWorks)+len(srcs.savedChapters)+len(srcs.views)+len(srcs.progress))

	for _, sw := range srcs.savedWorks {
		candidates = append(candidates, candidate{
			typ:       dto.ContentTypeWork,
			slug:      sw.WorkSlug,
			updatedAt: sw.CreatedAt,
		})
	}
	for _, sc := range srcs.savedChapters {
		candidates = append(candidates, candidate{
			typ:        dto.ContentTypeChapter,
			slug:       sc.ChapterSlug,
			parentHint: sc.ParentWorkSlug,
			updatedAt:  sc.CreatedAt,
		})
	}
	for _, v := range srcs.views {
		candidates = append(candidates, candidate{
			typ:       v.ContentType,
			slug:      v.ContentSlug,
			bucket:    v.Bucket,
			filePath:  v.FilePath,
			updatedAt: v.CreatedAt,
		})
	}
	for _, p := range srcs.progress {
		lastPage := p.LastPage
		candidates = append(candidates, candidate{
			typ:       p.ContentType,
			slug:      p.ContentSlug,
			bucket:    p.Bucket,
			filePath:  p.FilePath,
			lastPage:  &lastPage,
			numPages:  p.NumPages,
			updatedAt: p.UpdatedAt,
		})
	}

	return candidates
}

// resolveAndAssemble is the Resolver + Merger/Ranker half of the pipeline:
// batch metadata fetch, parent-work resolution, serialized-work detection,
// dedup, orphan synthesis and final ordering.
func (s *lecturasService) resolveAndAssemble(ctx context.Context, candidates []candidate) []dto.ReadingItem {
	workSlugs, chapterSlugs := distinctSlugs(candidates)

	worksBySlug, chaptersBySlug := s.fetchMetadata(ctx, workSlugs, chapterSlugs)
	worksByID := s.fetchWorksByID(ctx, chaptersBySlug)
	serialized := s.detectSerialized(ctx, worksBySlug, chaptersBySlug)

	items := make([]dto.ReadingItem, 0, len(candidates))
	// parentMeta remembers the joined work row behind each resolved parent
	// slug so orphan synthesis can render real titles.
	parentMeta := make(map[string]*models.Work)

	for _, cand := range candidates {
		switch cand.typ {
		case dto.ContentTypeWork:
			meta, ok := worksBySlug[cand.slug]
			if !ok {
				continue // deleted or never-published work, drop silently
			}
			items = append(items, buildWorkItem(cand, meta, serialized[cand.slug]))
		case dto.ContentTypeChapter:
			meta, ok := chaptersBySlug[cand.slug]
			if !ok {
				continue
			}
			item := buildChapterItem(cand, meta, worksByID)
			if item.ParentWorkSlug != nil {
				rememberParentMeta(parentMeta, *item.ParentWorkSlug, meta, worksByID)
			}
			items = append(items, item)
		}
	}

	merged := mergeItems(items)
	synthesizeParents(merged, parentMeta)
	enforceSerializedInvariant(merged)

	return rankAndTruncate(merged)
}

func distinctSlugs(candidates []candidate) (workSlugs, chapterSlugs []string) {
	seenWorks := make(map[string]bool)
	seenChapters := make(map[string]bool)
	for _, cand := range candidates {
		switch cand.typ {
		case dto.ContentTypeWork:
			if !seenWorks[cand.slug] {
				seenWorks[cand.slug] = true
				workSlugs = append(workSlugs, cand.slug)
			}
		case dto.ContentTypeChapter:
			if !seenChapters[cand.slug] {
				seenChapters[cand.slug] = true
				chapterSlugs = append(chapterSlugs, cand.slug)
			}
		}
	}
	return workSlugs, chapterSlugs
}

// fetchMetadata issues the two batch queries concurrently; they only depend
// on the slug sets, not on each other.
func (s *lecturasService) fetchMetadata(ctx context.Context, workSlugs, chapterSlugs []string) (map[string]models.Work, map[string]models.Chapter) {
	var (
		works    []models.Work
		chapters []models.Chapter
		wg       sync.WaitGroup
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		list, err := s.works.GetBySlugs(ctx, workSlugs)
		if err != nil {
			s.logger.Warn("reading_metadata_failed", "kind", "works", "error", err)
			return
		}
		works = list
	}()
	go func() {
		defer wg.Done()
		list, err := s.chapters.GetBySlugs(ctx, chapterSlugs)
		if err != nil {
			s.logger.Warn("reading_metadata_failed", "kind", "chapters", "error", err)
			return
		}
		chapters = list
	}()
	wg.Wait()

	worksBySlug := make(map[string]models.Work, len(works))
	for _, w := range works {
		if w.Slug != nil {
			worksBySlug[*w.Slug] = w
		}
	}
	chaptersBySlug := make(map[string]models.Chapter, len(chapters))
	for _, c := range chapters {
		chaptersBySlug[c.Slug] = c
	}
	return worksBySlug, chaptersBySlug
}

// fetchWorksByID covers chapters whose work row was not joined (RLS edge
// cases, schema drift). It feeds the second tier of parent resolution.
func (s *lecturasService) fetchWorksByID(ctx context.Context, chaptersBySlug map[string]models.Chapter) map[int64]models.Work {
	var missing []int64
	seen := make(map[int64]bool)
	for _, ch := range chaptersBySlug {
		if ch.WorkID != nil && ch.Work == nil && !seen[*ch.WorkID] {
			seen[*ch.WorkID] = true
			missing = append(missing, *ch.WorkID)
		}
	}

	worksByID := make(map[int64]models.Work)
	if len(missing) == 0 {
		return worksByID
	}

	list, err := s.works.GetByIDs(ctx, missing)
	if err != nil {
		s.logger.Warn("reading_metadata_failed", "kind", "works_by_id", "error", err)
		return worksByID
	}
	for _, w := range list {
		worksByID[w.ID] = w
	}
	return worksByID
}

// detectSerialized marks the works that are published chapter by chapter.
// The ID probe is authoritative; works it cannot vouch for are retried with
// the slug-join fallback.
func (s *lecturasService) detectSerialized(ctx context.Context, worksBySlug map[string]models.Work, chaptersBySlug map[string]models.Chapter) map[string]bool {
	serialized := make(map[string]bool)
	if len(worksBySlug) == 0 && len(chaptersBySlug) == 0 {
		return serialized
	}

	slugByID := make(map[int64]string)
	var ids []int64
	for slug, w := range worksBySlug {
		slugByID[w.ID] = slug
		ids = append(ids, w.ID)
	}
	for _, ch := range chaptersBySlug {
		if ch.Work != nil && ch.Work.Slug != nil {
			if _, dup := slugByID[ch.Work.ID]; !dup {
				slugByID[ch.Work.ID] = *ch.Work.Slug
				ids = append(ids, ch.Work.ID)
			}
		}
	}

	byID, err := s.works.SerializedByID(ctx, ids)
	if err != nil {
		s.logger.Warn("serialized_probe_failed", "probe", "by_id", "error", err)
		byID = map[int64]bool{}
	}
	var unmatched []string
	for id, slug := range slugByID {
		if byID[id] {
			serialized[slug] = true
		} else {
			unmatched = append(unmatched, slug)
		}
	}

	if len(unmatched) == 0 {
		return serialized
	}
	bySlug, err := s.works.SerializedBySlug(ctx, unmatched)
	if err != nil {
		s.logger.Warn("serialized_probe_failed", "probe", "by_slug", "error", err)
		return serialized
	}
	for slug, ok := range bySlug {
		if ok {
			serialized[slug] = true
		}
	}
	return serialized
}

func buildWorkItem(cand candidate, meta models.Work, isSerialized bool) dto.ReadingItem {
	item := dto.ReadingItem{
		Type:                  dto.ContentTypeWork,
		Slug:                  cand.slug,
		Title:                 meta.Title,
		CoverURL:              meta.CoverURL,
		AuthorName:            authorNameOf(meta.Author),
		UpdatedAt:             cand.updatedAt,
		HasSerializedChapters: isSerialized,
	}
	if isSerialized {
		// serialized works are never directly readable single files
		return item
	}

	item.Bucket, item.FilePath = resolveFilePointer(cand.bucket, cand.filePath, meta.Bucket, meta.FilePath)
	item.LastPage = cand.lastPage
	item.NumPages = cand.numPages
	item.ProgressRatio = clampRatio(item.LastPage, item.NumPages)
	return item
}

func buildChapterItem(cand candidate, meta models.Chapter, worksByID map[int64]models.Work) dto.ReadingItem {
	item := dto.ReadingItem{
		Type:       dto.ContentTypeChapter,
		Slug:       cand.slug,
		Title:      meta.Title,
		CoverURL:   meta.CoverURL,
		AuthorName: UnknownAuthor,
		UpdatedAt:  cand.updatedAt,
	}
	if meta.Work != nil {
		item.AuthorName = authorNameOf(meta.Work.Author)
		if item.CoverURL == nil {
			item.CoverURL = meta.Work.CoverURL
		}
	}

	item.Bucket, item.FilePath = resolveFilePointer(cand.bucket, cand.filePath, meta.Bucket, meta.FilePath)
	item.HasPDF = item.FilePath != nil

	item.LastPage = cand.lastPage
	item.NumPages = cand.numPages
	if item.NumPages == nil {
		item.NumPages = meta.NumPages
	}
	item.ProgressRatio = clampRatio(item.LastPage, item.NumPages)

	if chapterBelongsToWork(meta) {
		item.ParentWorkSlug = ResolveParentSlug(meta, worksByID, cand.parentHint)
	}
	return item
}

// resolveFilePointer prefers what the activity source recorded over the
// current metadata row, normalizing either to the canonical form.
func resolveFilePointer(candBucket, candPath, metaBucket, metaPath *string) (*string, *string) {
	if candPath != nil && *candPath != "" {
		normalized := NormalizePath(*candPath)
		return candBucket, &normalized
	}
	if metaPath != nil && *metaPath != "" {
		normalized := NormalizePath(*metaPath)
		return metaBucket, &normalized
	}
	return nil, nil
}

func rememberParentMeta(parentMeta map[string]*models.Work, parentSlug string, ch models.Chapter, worksByID map[int64]models.Work) {
	if _, ok := parentMeta[parentSlug]; ok {
		return
	}
	if ch.Work != nil {
		parentMeta[parentSlug] = ch.Work
		return
	}
	if ch.WorkID != nil {
		if w, ok := worksByID[*ch.WorkID]; ok {
			parentMeta[parentSlug] = &w
			return
		}
	}
	parentMeta[parentSlug] = nil
}

// synthesizeParents adds a work item for every chapter whose parent is known
// but absent from the collected set (the user engaged with the chapter only).
// The synthesized item inherits the most recent activity of its children.
func synthesizeParents(merged map[itemKey]dto.ReadingItem, parentMeta map[string]*models.Work) {
	type parentAgg struct {
		latest time.Time
	}
	pending := make(map[string]parentAgg)

	for key, item := range merged {
		if key.typ != dto.ContentTypeChapter || item.ParentWorkSlug == nil {
			continue
		}
		parentKey := itemKey{typ: dto.ContentTypeWork, slug: *item.ParentWorkSlug}
		if _, exists := merged[parentKey]; exists {
			continue
		}
		agg := pending[*item.ParentWorkSlug]
		if item.UpdatedAt.After(agg.latest) {
			agg.latest = item.UpdatedAt
		}
		pending[*item.ParentWorkSlug] = agg
	}

	for slug, agg := range pending {
		item := dto.ReadingItem{
			Type:                  dto.ContentTypeWork,
			Slug:                  slug,
			Title:                 slug, // degraded display when the work row is gone
			AuthorName:            UnknownAuthor,
			UpdatedAt:             agg.latest,
			HasSerializedChapters: true,
		}
		if meta := parentMeta[slug]; meta != nil {
			item.Title = meta.Title
			item.CoverURL = meta.CoverURL
			item.AuthorName = authorNameOf(meta.Author)
		}
		merged[itemKey{typ: dto.ContentTypeWork, slug: slug}] = item
	}
}

// enforceSerializedInvariant strips file pointers and progress off serialized
// works: stray progress logs against the work slug must not make a serialized
// work look directly readable.
func enforceSerializedInvariant(merged map[itemKey]dto.ReadingItem) {
	for key, item := range merged {
		if key.typ != dto.ContentTypeWork || !item.HasSerializedChapters {
			continue
		}
		item.Bucket = nil
		item.FilePath = nil
		item.LastPage = nil
		item.NumPages = nil
		item.ProgressRatio = nil
		merged[key] = item
	}
}
