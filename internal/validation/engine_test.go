package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"bizgen/internal/content"
)

// ==========================================================================
// Test helpers
// ==========================================================================

const testBusinessName = "Tartu Grill House"

func wellFormedBundle() *content.Bundle {
	paragraph := strings.TrimSpace(strings.Repeat(
		"The team at Tartu Grill House delivers dependable service with genuine attention to every customer detail. ", 8))

	return &content.Bundle{
		HeroTitle:    "Tartu Grill House: Modern Estonian Dining",
		HeroSubtitle: "Seasonal Estonian cooking served in the heart of Tartu since 2011",
		About:        paragraph + "\n\n" + paragraph,
		Offerings: []content.Offering{
			{Name: "Dinner Service", Description: "Full evening menu of seasonal Estonian dishes.", Price: "from 18 EUR"},
			{Name: "Private Events", Description: "Dedicated dining room for groups of up to forty guests.", Price: "on request"},
			{Name: "Weekend Brunch", Description: "Brunch classics with a local twist, served until two.", Price: "from 12 EUR"},
		},
		SEO: content.SEOMeta{
			Title:       "Tartu Grill House | Estonian Restaurant in Tartu",
			Description: "Tartu Grill House serves modern Estonian food in central Tartu. Book a table or browse the seasonal menu and weekend specials online today.",
			Keywords:    []string{"tartu grill house", "restaurant", "estonian food", "tartu dining", "grill"},
		},
		Palette:      &content.Palette{Primary: "1f2937", Secondary: "6b7280", Accent: "2563eb"},
		Typography:   &content.Typography{HeadingFont: "Inter", BodyFont: "Source Sans Pro"},
		TemplateType: "restaurant",
	}
}

func issuesBySeverity(issues []Issue, sev Severity) []Issue {
	var out []Issue
	for _, issue := range issues {
		if issue.Severity == sev {
			out = append(out, issue)
		}
	}
	return out
}

// ==========================================================================
// Tests
// ==========================================================================

func TestValidate_WellFormedBundlePasses(t *testing.T) {
	result := NewEngine().Validate(wellFormedBundle(), testBusinessName)

	assert.True(t, result.IsValid)
	assert.Equal(t, 100, result.Score)
	assert.Empty(t, result.Errors)
	assert.Empty(t, result.Warnings)
	assert.Len(t, result.Suggestions, 1)
	assert.Contains(t, result.Suggestions[0], "excellent")
}

func TestValidate_IsDeterministic(t *testing.T) {
	engine := NewEngine()
	bundle := wellFormedBundle()
	bundle.HeroTitle = "Hi"
	bundle.SEO.Keywords = nil

	first := engine.Validate(bundle, testBusinessName)
	second := engine.Validate(bundle, testBusinessName)

	assert.Equal(t, first, second)
}

func TestValidate_EmptyOfferingsIsCritical(t *testing.T) {
	bundle := wellFormedBundle()
	bundle.Offerings = nil

	result := NewEngine().Validate(bundle, testBusinessName)

	assert.False(t, result.IsValid)
	assert.LessOrEqual(t, result.Score, 70)

	criticals := issuesBySeverity(result.Errors, SeverityCritical)
	assert.Len(t, criticals, 1)
	assert.Equal(t, "services", criticals[0].Field)
}

func TestValidate_TitleEqualToBusinessNameCostsTen(t *testing.T) {
	baseline := wellFormedBundle()
	repeated := wellFormedBundle()
	repeated.HeroTitle = strings.ToUpper(testBusinessName)

	engine := NewEngine()
	baselineResult := engine.Validate(baseline, testBusinessName)
	repeatedResult := engine.Validate(repeated, testBusinessName)

	// The uppercase name is also below the 20-char minimum, so the delta is
	// the name-repetition penalty plus the short-title penalty.
	assert.Equal(t, baselineResult.Score-13, repeatedResult.Score)
	assert.True(t, repeatedResult.IsValid)
}

func TestValidate_EmptyBundleFloorsAtZero(t *testing.T) {
	result := NewEngine().Validate(&content.Bundle{}, testBusinessName)

	assert.False(t, result.IsValid)
	assert.Equal(t, 0, result.Score)
	assert.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Suggestions[0], "needs improvement")
}

func TestValidate_OffensiveTokenBlocksPublication(t *testing.T) {
	bundle := wellFormedBundle()
	bundle.About = bundle.About + "\n\nOur competitors are stupid."

	result := NewEngine().Validate(bundle, testBusinessName)

	assert.False(t, result.IsValid)
	highs := issuesBySeverity(result.Errors, SeverityHigh)
	assert.NotEmpty(t, highs)
	assert.Equal(t, "overall", highs[0].Field)
}

func TestValidate_ShellTokenDoesNotMatchInsideWords(t *testing.T) {
	bundle := wellFormedBundle()
	bundle.HeroSubtitle = "Shellfish platters and hearty grills in central Tartu"

	result := NewEngine().Validate(bundle, testBusinessName)

	assert.True(t, result.IsValid)
}

func TestValidate_MalformedPaletteColors(t *testing.T) {
	bundle := wellFormedBundle()
	bundle.Palette = &content.Palette{Primary: "#1f2937", Secondary: "blue", Accent: "2563eb"}

	result := NewEngine().Validate(bundle, testBusinessName)

	mediums := issuesBySeverity(result.Errors, SeverityMedium)
	assert.Len(t, mediums, 2)
	assert.Equal(t, 80, result.Score)
	assert.True(t, result.IsValid)
}

func TestValidate_MediumIssuesAreErrorsButDoNotBlock(t *testing.T) {
	bundle := wellFormedBundle()
	bundle.Typography = nil

	result := NewEngine().Validate(bundle, testBusinessName)

	assert.True(t, result.IsValid)
	assert.Empty(t, result.Warnings)
	mediums := issuesBySeverity(result.Errors, SeverityMedium)
	assert.Len(t, mediums, 1)
	assert.Equal(t, "design", mediums[0].Field)
	assert.Equal(t, 90, result.Score)
}

func TestValidate_ScoreStaysWithinBounds(t *testing.T) {
	bundles := []*content.Bundle{
		{},
		wellFormedBundle(),
		{HeroTitle: "Something short", Offerings: []content.Offering{{}}},
	}

	for _, bundle := range bundles {
		result := NewEngine().Validate(bundle, testBusinessName)
		assert.GreaterOrEqual(t, result.Score, 0)
		assert.LessOrEqual(t, result.Score, 100)
	}
}
