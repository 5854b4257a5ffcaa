package service

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"letrario/internal/http-api/models"
)

func TestNormalizePath(t *testing.T) {
	// the three historical representations must collapse to one form
	cases := []struct {
		in   string
		want string
	}{
		{"works/abc/def.pdf", "abc/def.pdf"},
		{"abc/def.pdf", "abc/def.pdf"},
		{"public/works/abc/def.pdf", "abc/def.pdf"},
		{"chapters/xyz/cap1.pdf", "xyz/cap1.pdf"},
		{"public/chapters/xyz/cap1.pdf", "xyz/cap1.pdf"},
		{"public/cover.png", "cover.png"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NormalizePath(tc.in), "input %q", tc.in)
	}
}

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"La Sombra del Viento", "la-sombra-del-viento"},
		{"Cien años de soledad", "cien-anos-de-soledad"},
		{"  ¡Corazón!  ", "corazon"},
		{"Vol. 2: El Regreso", "vol-2-el-regreso"},
		{"", ""},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, Slugify(tc.in), "input %q", tc.in)
	}
}

func TestResolveParentSlug(t *testing.T) {
	workID := int64(7)

	t.Run("JoinedWorkSlugWins", func(t *testing.T) {
		ch := models.Chapter{
			WorkID: &workID,
			Work:   &models.Work{ID: workID, Slug: strPtr("obra-real"), Title: "Algo Distinto"},
		}
		hint := strPtr("hint-viejo")

		got := ResolveParentSlug(ch, nil, hint)
		assert.Equal(t, "obra-real", *got)
	})

	t.Run("WorksByIDWhenJoinMissing", func(t *testing.T) {
		ch := models.Chapter{WorkID: &workID}
		byID := map[int64]models.Work{
			workID: {ID: workID, Slug: strPtr("obra-por-id")},
		}

		got := ResolveParentSlug(ch, byID, nil)
		assert.Equal(t, "obra-por-id", *got)
	})

	t.Run("TitleFallbackForLegacyRows", func(t *testing.T) {
		// slug column never populated: derive from the title
		ch := models.Chapter{
			WorkID: &workID,
			Work:   &models.Work{ID: workID, Slug: nil, Title: "El Último Día"},
		}

		got := ResolveParentSlug(ch, nil, nil)
		assert.Equal(t, "el-ultimo-dia", *got)
	})

	t.Run("SavedHintAsLastResort", func(t *testing.T) {
		ch := models.Chapter{}
		got := ResolveParentSlug(ch, nil, strPtr("obra-guardada"))
		assert.Equal(t, "obra-guardada", *got)
	})

	t.Run("NilWhenNothingResolves", func(t *testing.T) {
		assert.Nil(t, ResolveParentSlug(models.Chapter{}, nil, nil))
	})
}

func TestChapterBelongsToWork(t *testing.T) {
	workID := int64(3)
	indep := true
	notIndep := false

	assert.False(t, chapterBelongsToWork(models.Chapter{}))
	assert.True(t, chapterBelongsToWork(models.Chapter{WorkID: &workID}))
	// NULL is_independent on legacy rows means "belongs to its work"
	assert.True(t, chapterBelongsToWork(models.Chapter{WorkID: &workID, IsIndependent: nil}))
	assert.True(t, chapterBelongsToWork(models.Chapter{WorkID: &workID, IsIndependent: &notIndep}))
	assert.False(t, chapterBelongsToWork(models.Chapter{WorkID: &workID, IsIndependent: &indep}))
}

func TestAuthorNameOf(t *testing.T) {
	assert.Equal(t, UnknownAuthor, authorNameOf(nil))
	assert.Equal(t, "ana", authorNameOf(&models.User{Username: "ana"}))
	assert.Equal(t, "Ana María", authorNameOf(&models.User{Username: "ana", DisplayName: strPtr("Ana María")}))
	assert.Equal(t, "ana", authorNameOf(&models.User{Username: "ana", DisplayName: strPtr("")}))
}
