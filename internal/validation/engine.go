package validation

import (
	"fmt"
	"regexp"
	"strings"

	"bizgen/internal/content"
)

// Phrases that mark generic filler copy in a hero title.
var boilerplatePhrases = []string{
	"welcome to our website",
	"best in town",
	"quality you can trust",
	"your one stop shop",
	"lorem ipsum",
}

// Tokens that must never appear in published copy. Matched on word
// boundaries, case-insensitive.
var offensiveTokens = []string{
	"damn",
	"hell",
	"crap",
	"stupid",
	"sucks",
}

var hexColorPattern = regexp.MustCompile(`^[0-9a-fA-F]{6}$`)

// Engine applies the rubric. It holds no state beyond configuration, so a
// single instance is safe for concurrent use.
type Engine struct{}

// NewEngine returns a rubric engine.
func NewEngine() *Engine {
	return &Engine{}
}

type collector struct {
	penalty  int
	errors   []Issue
	warnings []Issue
}

func (c *collector) add(sev Severity, field, message string, penalty int) {
	issue := Issue{Field: field, Message: message, Severity: sev}
	if sev == SeverityLow {
		c.warnings = append(c.warnings, issue)
	} else {
		c.errors = append(c.errors, issue)
	}
	c.penalty += penalty
}

// blocksPublication reports whether any issue is severe enough to fail the
// bundle. Medium errors lower the score but do not block.
func blocksPublication(issues []Issue) bool {
	for _, issue := range issues {
		if issue.Severity == SeverityCritical || issue.Severity == SeverityHigh {
			return true
		}
	}
	return false
}

// Validate scores the bundle against every rubric section and returns the
// verdict.
func (e *Engine) Validate(bundle *content.Bundle, businessName string) *Result {
	c := &collector{}

	e.checkHeroTitle(c, bundle, businessName)
	e.checkHeroSubtitle(c, bundle)
	e.checkAbout(c, bundle)
	e.checkOfferings(c, bundle)
	e.checkSEO(c, bundle)
	e.checkDesign(c, bundle)
	e.checkOverall(c, bundle, businessName)

	score := 100 - c.penalty
	if score < 0 {
		score = 0
	}

	result := &Result{
		IsValid:  !blocksPublication(c.errors),
		Score:    score,
		Errors:   c.errors,
		Warnings: c.warnings,
	}
	result.Suggestions = []string{summaryLine(result)}
	return result
}

// ==========================================================================
// Rubric sections
// ==========================================================================

func (e *Engine) checkHeroTitle(c *collector, bundle *content.Bundle, businessName string) {
	title := strings.TrimSpace(bundle.HeroTitle)
	if title == "" {
		c.add(SeverityCritical, "heroTitle", "hero title is missing", 30)
		return
	}

	if len(title) > 80 {
		c.add(SeverityLow, "heroTitle", "hero title is longer than 80 characters", 5)
	}
	if len(title) < 20 {
		c.add(SeverityLow, "heroTitle", "hero title is shorter than 20 characters", 3)
	}
	if strings.EqualFold(title, strings.TrimSpace(businessName)) {
		c.add(SeverityMedium, "heroTitle", "hero title merely repeats the business name", 10)
	}

	lower := strings.ToLower(title)
	for _, phrase := range boilerplatePhrases {
		if strings.Contains(lower, phrase) {
			c.add(SeverityLow, "heroTitle", fmt.Sprintf("hero title contains boilerplate phrase %q", phrase), 5)
			break
		}
	}
}

func (e *Engine) checkHeroSubtitle(c *collector, bundle *content.Bundle) {
	subtitle := strings.TrimSpace(bundle.HeroSubtitle)
	if subtitle == "" {
		c.add(SeverityHigh, "heroSubtitle", "hero subtitle is missing", 20)
		return
	}

	if len(subtitle) > 150 {
		c.add(SeverityLow, "heroSubtitle", "hero subtitle is longer than 150 characters", 5)
	}
	if len(subtitle) < 30 {
		c.add(SeverityLow, "heroSubtitle", "hero subtitle is shorter than 30 characters", 3)
	}
}

func (e *Engine) checkAbout(c *collector, bundle *content.Bundle) {
	about := strings.TrimSpace(bundle.About)
	if about == "" {
		c.add(SeverityCritical, "about", "about narrative is missing", 30)
		return
	}

	words := len(strings.Fields(about))
	if words < 100 {
		c.add(SeverityMedium, "about", "about narrative is shorter than 100 words", 10)
	}
	if words > 500 {
		c.add(SeverityLow, "about", "about narrative is longer than 500 words", 5)
	}
	if len(paragraphs(about)) < 2 {
		c.add(SeverityLow, "about", "about narrative has fewer than two paragraphs", 5)
	}
}

func (e *Engine) checkOfferings(c *collector, bundle *content.Bundle) {
	if len(bundle.Offerings) == 0 {
		c.add(SeverityCritical, "services", "no offerings were generated", 30)
		return
	}

	if len(bundle.Offerings) < 3 {
		c.add(SeverityMedium, "services", "fewer than three offerings", 10)
	}
	if len(bundle.Offerings) > 12 {
		c.add(SeverityLow, "services", "more than twelve offerings", 5)
	}

	for i, offering := range bundle.Offerings {
		field := fmt.Sprintf("services[%d]", i)
		if strings.TrimSpace(offering.Name) == "" {
			c.add(SeverityHigh, field, "offering has no name", 5)
		}
		if len(strings.TrimSpace(offering.Description)) < 20 {
			c.add(SeverityLow, field, "offering description is shorter than 20 characters", 3)
		}
		if strings.TrimSpace(offering.Price) == "" {
			c.add(SeverityLow, field, "offering has no price indication", 2)
		}
	}
}

func (e *Engine) checkSEO(c *collector, bundle *content.Bundle) {
	title := strings.TrimSpace(bundle.SEO.Title)
	if title == "" {
		c.add(SeverityCritical, "seo", "SEO title is missing", 20)
	} else {
		if len(title) > 60 {
			c.add(SeverityMedium, "seo", "SEO title is longer than 60 characters", 10)
		}
		if len(title) < 30 {
			c.add(SeverityLow, "seo", "SEO title is shorter than 30 characters", 5)
		}
	}

	desc := strings.TrimSpace(bundle.SEO.Description)
	if desc == "" {
		c.add(SeverityHigh, "seo", "SEO description is missing", 15)
	} else {
		if len(desc) > 160 {
			c.add(SeverityMedium, "seo", "SEO description is longer than 160 characters", 10)
		}
		if len(desc) < 100 {
			c.add(SeverityLow, "seo", "SEO description is shorter than 100 characters", 5)
		}
	}

	switch {
	case len(bundle.SEO.Keywords) == 0:
		c.add(SeverityMedium, "seo", "no SEO keywords", 10)
	case len(bundle.SEO.Keywords) < 5:
		c.add(SeverityLow, "seo", "fewer than five SEO keywords", 5)
	}
}

func (e *Engine) checkDesign(c *collector, bundle *content.Bundle) {
	if bundle.Palette == nil {
		c.add(SeverityHigh, "design", "no color palette", 15)
	} else {
		for _, color := range []struct {
			name  string
			value string
		}{
			{"primary", bundle.Palette.Primary},
			{"secondary", bundle.Palette.Secondary},
			{"accent", bundle.Palette.Accent},
		} {
			name, value := color.name, color.value
			if !hexColorPattern.MatchString(value) {
				c.add(SeverityMedium, "design", fmt.Sprintf("%s color %q is not a 6-digit hex value", name, value), 10)
			}
		}
	}

	if bundle.Typography == nil {
		c.add(SeverityMedium, "design", "no typography pairing", 10)
	} else {
		if strings.TrimSpace(bundle.Typography.HeadingFont) == "" {
			c.add(SeverityMedium, "design", "typography is missing a heading font", 5)
		}
		if strings.TrimSpace(bundle.Typography.BodyFont) == "" {
			c.add(SeverityMedium, "design", "typography is missing a body font", 5)
		}
	}
}

func (e *Engine) checkOverall(c *collector, bundle *content.Bundle, businessName string) {
	combined := strings.ToLower(strings.Join([]string{
		bundle.HeroTitle, bundle.HeroSubtitle, bundle.About,
	}, " "))

	for _, token := range offensiveTokens {
		if containsWord(combined, token) {
			c.add(SeverityHigh, "overall", fmt.Sprintf("content contains inappropriate token %q", token), 20)
		}
	}

	if name := strings.ToLower(strings.TrimSpace(businessName)); name != "" && !strings.Contains(combined, name) {
		c.add(SeverityLow, "overall", "business name does not appear in the content", 5)
	}

	if strings.TrimSpace(bundle.TemplateType) == "" {
		c.add(SeverityLow, "overall", "no template classifier", 5)
	}
}

// ==========================================================================
// Helpers
// ==========================================================================

func paragraphs(text string) []string {
	var out []string
	for _, p := range strings.Split(text, "\n\n") {
		if strings.TrimSpace(p) != "" {
			out = append(out, p)
		}
	}
	return out
}

func containsWord(text, word string) bool {
	pattern := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b`)
	return pattern.MatchString(text)
}

func summaryLine(r *Result) string {
	var verdict string
	switch {
	case r.Score >= 90:
		verdict = "excellent"
	case r.Score >= 75:
		verdict = "good"
	case r.Score >= 60:
		verdict = "acceptable"
	default:
		verdict = "needs improvement"
	}
	return fmt.Sprintf("%d warning(s) found; overall quality is %s (score %d)", len(r.Warnings), verdict, r.Score)
}
