package content

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"bizgen/internal/models"
)

func TestTruncate_DoesNotSplitRunes(t *testing.T) {
	s := strings.Repeat("ü", 40)
	for max := 1; max < len(s); max++ {
		out := truncate(s, max)
		assert.True(t, utf8.ValidString(out), "max %d", max)
		assert.LessOrEqual(t, len(out), max)
	}
}

func TestDefaults_SEOTitleStaysValidForNonASCIINames(t *testing.T) {
	biz := models.NormalizedBusiness{
		ID:       "87654321",
		Name:     "Müügiühistu Ööbiku Köök ja Pagariäri Hommikusöögikohvik",
		Category: "restaurant",
		City:     "Tartu",
	}

	bundle := Defaults(biz)

	assert.True(t, utf8.ValidString(bundle.SEO.Title))
	assert.LessOrEqual(t, len(bundle.SEO.Title), 60)
	assert.Contains(t, bundle.SEO.Title, "Müügiühistu")
}

func TestDefaults_TitleCasesCategory(t *testing.T) {
	bundle := Defaults(models.NormalizedBusiness{ID: "1", Name: "Acme", Category: "general"})

	assert.Contains(t, bundle.SEO.Title, "General")
}

func TestApplyDefaults_LeavesPopulatedFieldsAlone(t *testing.T) {
	biz := models.NormalizedBusiness{ID: "1", Name: "Acme", Category: "retail"}
	bundle := &Bundle{
		HeroTitle: "Acme: Everything for the Workshop",
		Palette:   &Palette{Primary: "000000", Secondary: "111111", Accent: "222222"},
	}

	ApplyDefaults(bundle, biz)

	assert.Equal(t, "Acme: Everything for the Workshop", bundle.HeroTitle)
	assert.Equal(t, "000000", bundle.Palette.Primary)
	assert.NotEmpty(t, bundle.HeroSubtitle)
	assert.NotEmpty(t, bundle.About)
	assert.NotEmpty(t, bundle.Offerings)
	assert.NotEmpty(t, bundle.SEO.Keywords)
}
