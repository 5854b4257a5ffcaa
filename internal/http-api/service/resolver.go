package service

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"letrario/internal/http-api/models"
)

// UnknownAuthor is the placeholder shown when no author can be resolved.
const UnknownAuthor = "Autor Desconocido"

// NormalizePath reduces the historical file-path representations to one
// canonical, bucket-relative form. Writers have stored bare relative paths,
// paths prefixed with their bucket name, and paths nested under a generic
// "public/" segment; stripping each known prefix once makes all of them
// comparable.
func NormalizePath(raw string) string {
	path := strings.TrimPrefix(raw, "public/")
	if trimmed := strings.TrimPrefix(path, "works/"); trimmed != path {
		return trimmed
	}
	return strings.TrimPrefix(path, "chapters/")
}

var slugTransformer = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Slugify derives a URL-safe slug from a title using the same rule the write
// path applies: lowercase, accents stripped, punctuation dropped, whitespace
// runs collapsed to single hyphens. It is the last resort for legacy work
// rows whose slug column was never populated.
func Slugify(title string) string {
	plain, _, err := transform.String(slugTransformer, title)
	if err != nil {
		plain = title
	}

	var b strings.Builder
	lastHyphen := true // swallow leading separators
	for _, r := range strings.ToLower(plain) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case !lastHyphen:
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

// authorNameOf collapses the nullable author join to a display string. Every
// fetch passes through here so the pipeline never branches on row shape.
func authorNameOf(author *models.User) string {
	if author == nil {
		return UnknownAuthor
	}
	if author.DisplayName != nil && *author.DisplayName != "" {
		return *author.DisplayName
	}
	if author.Username != "" {
		return author.Username
	}
	return UnknownAuthor
}

// parentSlugResolver is one tier of the chapter→work resolution chain.
// It returns nil when this tier cannot determine the parent slug.
type parentSlugResolver func(ch models.Chapter, worksByID map[int64]models.Work, savedHint *string) *string

// parentSlugChain is ordered by trust: the live foreign-key join first, then
// the works-by-id map, then a slug derived from the work's title (legacy rows
// predate slug generation), and only then the hint captured at save time.
var parentSlugChain = []parentSlugResolver{
	parentFromJoinedWork,
	parentFromWorksByID,
	parentFromTitle,
	parentFromSavedHint,
}

// ResolveParentSlug runs the chain until a tier yields a slug.
func ResolveParentSlug(ch models.Chapter, worksByID map[int64]models.Work, savedHint *string) *string {
	for _, resolve := range parentSlugChain {
		if slug := resolve(ch, worksByID, savedHint); slug != nil {
			return slug
		}
	}
	return nil
}

func parentFromJoinedWork(ch models.Chapter, _ map[int64]models.Work, _ *string) *string {
	if ch.Work != nil && ch.Work.Slug != nil && *ch.Work.Slug != "" {
		return ch.Work.Slug
	}
	return nil
}

func parentFromWorksByID(ch models.Chapter, worksByID map[int64]models.Work, _ *string) *string {
	if ch.WorkID == nil {
		return nil
	}
	if w, ok := worksByID[*ch.WorkID]; ok && w.Slug != nil && *w.Slug != "" {
		return w.Slug
	}
	return nil
}

func parentFromTitle(ch models.Chapter, worksByID map[int64]models.Work, _ *string) *string {
	var title string
	if ch.Work != nil {
		title = ch.Work.Title
	} else if ch.WorkID != nil {
		if w, ok := worksByID[*ch.WorkID]; ok {
			title = w.Title
		}
	}
	if title == "" {
		return nil
	}
	if slug := Slugify(title); slug != "" {
		return &slug
	}
	return nil
}

func parentFromSavedHint(_ models.Chapter, _ map[int64]models.Work, savedHint *string) *string {
	if savedHint != nil && *savedHint != "" {
		return savedHint
	}
	return nil
}

// chapterBelongsToWork reports whether a chapter is part of a serialized work
// rather than an independently published piece. NULL is_independent on legacy
// rows means "belongs to its work".
func chapterBelongsToWork(ch models.Chapter) bool {
	if ch.WorkID == nil && ch.Work == nil {
		return false
	}
	return ch.IsIndependent == nil || !*ch.IsIndependent
}
