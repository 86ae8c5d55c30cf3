package generation

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"bizgen/internal/common/config"
	"bizgen/internal/common/logger"
	"bizgen/internal/common/observability"
	"bizgen/internal/content"
	"bizgen/internal/models"
	"bizgen/internal/notify"
	"bizgen/internal/storage"
	"bizgen/internal/validation"
)

// ==========================================================================
// Fakes
// ==========================================================================

type fakeFetcher struct {
	rec   models.ExternalBusinessRecord
	err   error
	calls int
}

func (f *fakeFetcher) GetByID(ctx context.Context, id string) (models.ExternalBusinessRecord, error) {
	f.calls++
	return f.rec, f.err
}

type fakeVerifier struct {
	result *models.VerificationResult
	panics bool
}

func (f *fakeVerifier) Verify(ctx context.Context, biz models.NormalizedBusiness) *models.VerificationResult {
	if f.panics {
		panic("verifier exploded")
	}
	return f.result
}

type fakeCompleter struct {
	calls   int
	handler func(system, user, schema string, out interface{}) error
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string) (string, error) {
	return "", nil
}

func (f *fakeCompleter) CompleteJSON(ctx context.Context, system, user, schema string, out interface{}) error {
	f.calls++
	return f.handler(system, user, schema, out)
}

type fakeStore struct {
	saves       int
	err         error
	savedBundle *content.Bundle
}

func (f *fakeStore) Save(ctx context.Context, biz models.NormalizedBusiness, bundle *content.Bundle,
	verification *models.VerificationResult, validationResult *validation.Result) (*storage.PublishedContent, error) {
	f.saves++
	f.savedBundle = bundle
	if f.err != nil {
		return nil, f.err
	}
	return &storage.PublishedContent{
		ContentID: "content-1",
		URL:       "https://sites.example.com/tartu-grill-house",
	}, nil
}

func (f *fakeStore) CanonicalURL(ctx context.Context, biz models.NormalizedBusiness) string {
	return "https://sites.example.com/tartu-grill-house"
}

type fakeNotifier struct {
	sent []notify.Message
	err  error
}

func (f *fakeNotifier) Send(ctx context.Context, msg notify.Message) error {
	f.sent = append(f.sent, msg)
	return f.err
}

// ==========================================================================
// Canned generation responses
// ==========================================================================

const primaryJSON = `{
  "hero_title": "Tartu Grill House: Modern Estonian Dining",
  "hero_subtitle": "Seasonal Estonian cooking served in the heart of Tartu since 2011",
  "about": "First paragraph about the restaurant and its story, long enough to read naturally.\n\nSecond paragraph about the kitchen, the team and what guests can expect on a visit.",
  "offerings": [
    {"name": "Dinner Service", "description": "Full evening menu of seasonal dishes.", "price": "from 18 EUR"},
    {"name": "Private Events", "description": "Dedicated room for groups of up to forty.", "price": "on request"},
    {"name": "Weekend Brunch", "description": "Brunch classics with a local twist.", "price": "from 12 EUR"}
  ],
  "palette": {"primary": "1f2937", "secondary": "6b7280", "accent": "2563eb"},
  "typography": {"heading_font": "Inter", "body_font": "Source Sans Pro"},
  "brand_prompt": "Minimal flat logo with a grill flame motif"
}`

const seoJSON = `{
  "title": "Tartu Grill House | Estonian Restaurant in Tartu",
  "description": "Tartu Grill House serves modern Estonian food in central Tartu. Book a table or browse the seasonal menu and weekend specials online today.",
  "keywords": ["tartu grill house", "restaurant", "estonian food", "tartu dining", "grill"]
}`

const menuJSON = `{"items": [
  {"name": "Grilled Pike-Perch", "description": "With new potatoes and dill butter.", "price": "19 EUR"},
  {"name": "Smoked Pork Ribs", "description": "Slow-cooked with a juniper glaze.", "price": "17 EUR"}
]}`

const testimonialsJSON = `{"items": [
  {"author": "Maarja K.", "quote": "Wonderful food and a warm welcome.", "rating": 5},
  {"author": "Andres T.", "quote": "Our go-to place for family dinners.", "rating": 5},
  {"author": "Liis P.", "quote": "The weekend brunch is worth the queue.", "rating": 4}
]}`

const intelligenceJSON = `{
  "competitor_estimate": "Roughly a dozen comparable restaurants in central Tartu",
  "market_position": "Mid-range dining with a local-ingredient angle",
  "opportunities": ["Lunch offers for nearby offices"],
  "recommendations": ["Publish the seasonal menu monthly"],
  "audience_segments": ["Families", "Tourists"],
  "differentiators": ["Open-fire kitchen"]
}`

const distributionJSON = `{"posts": [
  {"platform": "facebook", "text": "Tartu Grill House is now online at https://sites.example.com/tartu-grill-house"},
  {"platform": "instagram", "text": "New site, same fire: https://sites.example.com/tartu-grill-house"},
  {"platform": "linkedin", "text": "Tartu Grill House launched its website: https://sites.example.com/tartu-grill-house"}
]}`

const welcomeJSON = `{"message": "Hello,\n\nYour new website is live. Have a look and tell us what to adjust."}`

func cannedHandler(t *testing.T) func(system, user, schema string, out interface{}) error {
	t.Helper()
	return func(system, user, schema string, out interface{}) error {
		var payload string
		switch schema {
		case primaryBundleSchema:
			payload = primaryJSON
		case seoSchema:
			payload = seoJSON
		case menuSchema:
			payload = menuJSON
		case testimonialsSchema:
			payload = testimonialsJSON
		case intelligenceSchema:
			payload = intelligenceJSON
		case distributionSchema:
			payload = distributionJSON
		case welcomeSchema:
			payload = welcomeJSON
		default:
			payload = `{"items": []}`
		}
		return json.Unmarshal([]byte(payload), out)
	}
}

// ==========================================================================
// Test wiring
// ==========================================================================

type fixture struct {
	fetcher   *fakeFetcher
	verifier  *fakeVerifier
	completer *fakeCompleter
	store     *fakeStore
	notifier  *fakeNotifier
	orch      *Orchestrator
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		fetcher: &fakeFetcher{rec: models.ExternalBusinessRecord{
			"name":     "Tartu Grill House",
			"category": "restaurant",
			"city":     "Tartu",
			"address":  "Raekoja plats 1",
			"email":    "owner@tartugrill.ee",
			"status":   "active",
		}},
		verifier: &fakeVerifier{result: &models.VerificationResult{
			Verified:   true,
			TrustScore: 100,
			Sources:    []models.SourceCheck{{SourceID: "primary_registry"}},
		}},
		completer: &fakeCompleter{},
		store:     &fakeStore{},
		notifier:  &fakeNotifier{},
	}
	f.completer.handler = cannedHandler(t)

	f.orch = NewOrchestrator(
		f.fetcher, f.verifier, f.completer, validation.NewEngine(), f.store, f.notifier,
		config.PipelineConfig{ValidateContent: true, GenerationAttempts: 2, GenerationRetryDelay: 1},
		config.GenAIConfig{CostPerCall: 0.03},
		logger.NewNoOpLogger(), nil, nil,
	)
	return f
}

// ==========================================================================
// Tests
// ==========================================================================

func TestGenerate_HappyPath(t *testing.T) {
	f := newFixture(t)

	result := f.orch.Generate(context.Background(), "12345678", Options{})

	require.True(t, result.Success)
	assert.Empty(t, result.Errors)
	assert.Equal(t, "content-1", result.ContentID)
	assert.Equal(t, "https://sites.example.com/tartu-grill-house", result.URL)

	require.NotNil(t, result.Bundle)
	assert.Equal(t, TemplateRestaurant, result.Bundle.TemplateType)
	assert.NotEmpty(t, result.Bundle.Menu)
	assert.Len(t, result.Bundle.Testimonials, 3)
	assert.Len(t, result.Bundle.Distribution, 3)
	assert.NotNil(t, result.Bundle.BrandPlaceholder)

	require.NotNil(t, result.Validation)
	assert.True(t, result.Validation.IsValid)

	// primary, seo, menu, testimonials, distribution
	assert.Equal(t, 5, result.StageCallsUsed)
	assert.InDelta(t, 5*0.03, result.EstimatedCost, 1e-9)
	assert.Equal(t, 1, f.store.saves)
}

func TestGenerate_FetchFailureIsFatalButReturnsResult(t *testing.T) {
	f := newFixture(t)
	f.fetcher.err = errors.New("registry unreachable")

	result := f.orch.Generate(context.Background(), "12345678", Options{})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, 2, f.fetcher.calls) // retried per config
	assert.Equal(t, 0, f.store.saves)
	assert.Nil(t, result.Bundle)
}

func TestGenerate_PrimaryFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	base := f.completer.handler
	f.completer.handler = func(system, user, schema string, out interface{}) error {
		if schema == primaryBundleSchema {
			return errors.New("malformed response")
		}
		return base(system, user, schema, out)
	}

	result := f.orch.Generate(context.Background(), "12345678", Options{})

	assert.False(t, result.Success)
	assert.NotEmpty(t, result.Errors)
	assert.Equal(t, 0, f.store.saves)
	assert.Equal(t, 2, f.completer.calls) // both primary attempts, nothing after
}

func TestGenerate_SupplementaryFailureDegradesToWarning(t *testing.T) {
	f := newFixture(t)
	base := f.completer.handler
	f.completer.handler = func(system, user, schema string, out interface{}) error {
		if schema == menuSchema {
			return errors.New("malformed response")
		}
		return base(system, user, schema, out)
	}

	result := f.orch.Generate(context.Background(), "12345678", Options{})

	require.True(t, result.Success)
	assert.Empty(t, result.Bundle.Menu)
	assert.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "menu")
	assert.Equal(t, 1, f.store.saves)
}

func TestGenerate_UnverifiedBusinessStillPublishes(t *testing.T) {
	f := newFixture(t)
	f.verifier.result = &models.VerificationResult{TrustScore: 40}

	result := f.orch.Generate(context.Background(), "12345678", Options{})

	require.True(t, result.Success)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "trust score 40")
}

func TestGenerate_SkipValidation(t *testing.T) {
	f := newFixture(t)

	result := f.orch.Generate(context.Background(), "12345678", Options{SkipValidation: true})

	require.True(t, result.Success)
	assert.Nil(t, result.Validation)
}

func TestGenerate_IntelligenceIsOptIn(t *testing.T) {
	f := newFixture(t)

	without := f.orch.Generate(context.Background(), "12345678", Options{})
	assert.Nil(t, without.Bundle.Intelligence)

	with := f.orch.Generate(context.Background(), "12345678", Options{IncludeIntelligence: true})
	require.NotNil(t, with.Bundle.Intelligence)
	assert.NotEmpty(t, with.Bundle.Intelligence.MarketPosition)
}

func TestGenerate_WelcomeEmailDelivered(t *testing.T) {
	f := newFixture(t)

	result := f.orch.Generate(context.Background(), "12345678", Options{SendWelcome: true})

	require.True(t, result.Success)
	assert.NotEmpty(t, result.Bundle.WelcomeMessage)
	require.Len(t, f.notifier.sent, 1)
	assert.Equal(t, "owner@tartugrill.ee", f.notifier.sent[0].Email)
	assert.Contains(t, f.notifier.sent[0].Channels, notify.ChannelEmail)
}

func TestGenerate_PanicIsRecovered(t *testing.T) {
	f := newFixture(t)
	f.verifier.panics = true

	result := f.orch.Generate(context.Background(), "12345678", Options{})

	assert.False(t, result.Success)
	require.NotEmpty(t, result.Errors)
	assert.Contains(t, result.Errors[0], "internal failure")
}

func TestGenerate_StoreFailureIsFatal(t *testing.T) {
	f := newFixture(t)
	f.store.err = errors.New("connection reset")

	result := f.orch.Generate(context.Background(), "12345678", Options{})

	assert.False(t, result.Success)
	assert.Empty(t, result.ContentID)
}

func TestGenerate_EmitsRunAndStageSpans(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	prev := otel.GetTracerProvider()
	otel.SetTracerProvider(sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder)))
	t.Cleanup(func() { otel.SetTracerProvider(prev) })

	tracing, err := observability.NewTracing("orchestrator-test", "")
	require.NoError(t, err)

	f := newFixture(t)
	f.orch.tracing = tracing

	result := f.orch.Generate(context.Background(), "12345678", Options{})
	require.True(t, result.Success)

	names := make(map[string]bool)
	for _, span := range recorder.Ended() {
		names[span.Name()] = true
	}
	assert.True(t, names["pipeline.run"])
	assert.True(t, names["stage.primary"])
	assert.True(t, names["stage.seo"])
	assert.True(t, names["stage.menu"])
	assert.True(t, names["stage.testimonials"])
	assert.True(t, names["stage.distribution"])
}

func TestTemplateForCategory(t *testing.T) {
	cases := map[string]string{
		"Restaurants and catering": TemplateRestaurant,
		"Retail trade":             TemplateRetail,
		"Fitness club":             TemplateFitness,
		"Legal services":           TemplateProfessional,
		"Something unmapped":       TemplateProfessional,
		"":                         TemplateProfessional,
	}
	for category, want := range cases {
		assert.Equal(t, want, TemplateForCategory(category), "category %q", category)
	}
}
