package content

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"bizgen/internal/models"
)

// Every optional bundle field has exactly one canonical default, defined
// here and applied uniformly whenever a stage's output is missing or
// malformed. Downstream stages and the validator therefore always receive a
// structurally-complete, well-typed bundle.

var defaultPalette = Palette{
	Primary:   "1f2937",
	Secondary: "6b7280",
	Accent:    "2563eb",
}

var defaultTypography = Typography{
	HeadingFont: "Inter",
	BodyFont:    "Source Sans Pro",
}

var titleCaser = cases.Title(language.English)

// Defaults builds a structurally-complete fallback bundle for a business.
func Defaults(biz models.NormalizedBusiness) *Bundle {
	about := fmt.Sprintf(
		"%s serves %s customers with a focus on dependable, personal service.\n\n"+
			"Based in %s, the team behind %s has built its reputation on consistency and attention to detail. "+
			"Get in touch to learn how they can help you.",
		biz.Name, biz.Category, locationOrFallback(biz), biz.Name,
	)

	return &Bundle{
		HeroTitle:    fmt.Sprintf("%s: %s done right", biz.Name, biz.Category),
		HeroSubtitle: fmt.Sprintf("Serving %s with dependable %s services", locationOrFallback(biz), biz.Category),
		About:        about,
		Offerings: []Offering{
			{Name: "Consultation", Description: "An introductory conversation about your needs and goals."},
			{Name: "Core Service", Description: fmt.Sprintf("The essential %s offering from %s.", biz.Category, biz.Name)},
			{Name: "Ongoing Support", Description: "Continued assistance after the initial engagement."},
		},
		SEO: SEOMeta{
			Title:       truncate(fmt.Sprintf("%s | %s", biz.Name, titleCaser.String(biz.Category)), 60),
			Description: truncate(fmt.Sprintf("%s offers %s services in %s. Contact the team today to learn more about what they can do for you.", biz.Name, biz.Category, locationOrFallback(biz)), 160),
			Keywords:    defaultKeywords(biz),
		},
		Palette:      paletteCopy(defaultPalette),
		Typography:   typographyCopy(defaultTypography),
		TemplateType: "professional",
	}
}

// ApplyDefaults fills any empty primary field of b from the canonical
// defaults for biz. Populated fields are left untouched.
func ApplyDefaults(b *Bundle, biz models.NormalizedBusiness) {
	d := Defaults(biz)

	if strings.TrimSpace(b.HeroTitle) == "" {
		b.HeroTitle = d.HeroTitle
	}
	if strings.TrimSpace(b.HeroSubtitle) == "" {
		b.HeroSubtitle = d.HeroSubtitle
	}
	if strings.TrimSpace(b.About) == "" {
		b.About = d.About
	}
	if len(b.Offerings) == 0 {
		b.Offerings = d.Offerings
	}
	if strings.TrimSpace(b.SEO.Title) == "" {
		b.SEO.Title = d.SEO.Title
	}
	if strings.TrimSpace(b.SEO.Description) == "" {
		b.SEO.Description = d.SEO.Description
	}
	if len(b.SEO.Keywords) == 0 {
		b.SEO.Keywords = d.SEO.Keywords
	}
	if b.Palette == nil {
		b.Palette = d.Palette
	}
	if b.Typography == nil {
		b.Typography = d.Typography
	}
	if strings.TrimSpace(b.TemplateType) == "" {
		b.TemplateType = d.TemplateType
	}
}

func defaultKeywords(biz models.NormalizedBusiness) []string {
	kws := []string{
		strings.ToLower(biz.Name),
		strings.ToLower(biz.Category),
		strings.ToLower(biz.Category) + " services",
	}
	if biz.City != "" {
		kws = append(kws,
			strings.ToLower(biz.Category)+" "+strings.ToLower(biz.City),
			strings.ToLower(biz.City),
		)
	} else {
		kws = append(kws, "local "+strings.ToLower(biz.Category), "trusted provider")
	}
	return kws
}

func locationOrFallback(biz models.NormalizedBusiness) string {
	if biz.City != "" {
		return biz.City
	}
	return "the local area"
}

// truncate cuts s to at most max bytes without splitting a rune.
func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return strings.TrimSpace(s[:max])
}

func paletteCopy(p Palette) *Palette {
	return &p
}

func typographyCopy(t Typography) *Typography {
	return &t
}
