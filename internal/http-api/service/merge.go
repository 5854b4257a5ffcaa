package service

import (
	"sort"

	"letrario/internal/http-api/dto"
)

// MaxReadingItems caps the final list. It matches the per-source fetch bound
// so a flood of view/progress rows cannot silently crowd out explicit saves.
const MaxReadingItems = 50

// ratioRank maps a nullable progress ratio to a comparable value. A missing
// ratio ranks strictly below any real one, including 0.
func ratioRank(item dto.ReadingItem) float64 {
	if item.ProgressRatio == nil {
		return -1
	}
	return *item.ProgressRatio
}

// pageRank is the secondary signal for items without a computable ratio:
// a raw last page read, never mixed into the ratio itself.
func pageRank(item dto.ReadingItem) int {
	if item.LastPage == nil {
		return -1
	}
	return *item.LastPage
}

// pickBetter selects the surviving record when two sources describe the same
// (type, slug): more complete progress first, then raw page position when
// neither has a ratio, then recency.
func pickBetter(a, b dto.ReadingItem) dto.ReadingItem {
	ra, rb := ratioRank(a), ratioRank(b)
	if ra != rb {
		if ra > rb {
			return a
		}
		return b
	}
	if ra == -1 {
		if pa, pb := pageRank(a), pageRank(b); pa != pb {
			if pa > pb {
				return a
			}
			return b
		}
	}
	if a.UpdatedAt.After(b.UpdatedAt) {
		return a
	}
	return b
}

// itemLess orders the final list: highest completion first, then the page
// signal among ratio-less items, then most recent activity.
func itemLess(a, b dto.ReadingItem) bool {
	ra, rb := ratioRank(a), ratioRank(b)
	if ra != rb {
		return ra > rb
	}
	if ra == -1 {
		if pa, pb := pageRank(a), pageRank(b); pa != pb {
			return pa > pb
		}
	}
	return a.UpdatedAt.After(b.UpdatedAt)
}

type itemKey struct {
	typ  string
	slug string
}

// mergeItems deduplicates candidates by (type, slug), keeping one survivor
// per key via pickBetter.
func mergeItems(candidates []dto.ReadingItem) map[itemKey]dto.ReadingItem {
	merged := make(map[itemKey]dto.ReadingItem, len(candidates))
	for _, item := range candidates {
		key := itemKey{typ: item.Type, slug: item.Slug}
		if existing, ok := merged[key]; ok {
			merged[key] = pickBetter(existing, item)
		} else {
			merged[key] = item
		}
	}
	return merged
}

// rankAndTruncate flattens the merged set into the response order and caps it.
func rankAndTruncate(merged map[itemKey]dto.ReadingItem) []dto.ReadingItem {
	items := make([]dto.ReadingItem, 0, len(merged))
	for _, item := range merged {
		items = append(items, item)
	}
	sort.Slice(items, func(i, j int) bool {
		return itemLess(items[i], items[j])
	})
	if len(items) > MaxReadingItems {
		items = items[:MaxReadingItems]
	}
	return items
}

// clampRatio computes lastPage/numPages clamped to [0,1], or nil when the
// total length is unknown. A bare lastPage never becomes a pseudo-ratio.
func clampRatio(lastPage, numPages *int) *float64 {
	if lastPage == nil || numPages == nil || *numPages <= 0 {
		return nil
	}
	ratio := float64(*lastPage) / float64(*numPages)
	if ratio < 0 {
		ratio = 0
	}
	if ratio > 1 {
		ratio = 1
	}
	return &ratio
}
