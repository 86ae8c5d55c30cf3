package verification

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"bizgen/internal/common/logger"
	"bizgen/internal/models"
)

// ==========================================================================
// Test helpers
// ==========================================================================

type stubSource struct {
	id     string
	weight int
	check  *models.SourceCheck
	err    error
	calls  int
}

func (s *stubSource) ID() string  { return s.id }
func (s *stubSource) Weight() int { return s.weight }

func (s *stubSource) Check(ctx context.Context, biz models.NormalizedBusiness) (*models.SourceCheck, error) {
	s.calls++
	return s.check, s.err
}

func passingSource(id string, weight int) *stubSource {
	return &stubSource{
		id:     id,
		weight: weight,
		check: &models.SourceCheck{
			SourceID:        id,
			Status:          "active",
			VerificationURL: "https://registry.example/" + id,
			CheckedAt:       time.Now().UTC(),
		},
	}
}

type stubCache struct {
	stored map[string]*models.VerificationResult
}

func newStubCache() *stubCache {
	return &stubCache{stored: map[string]*models.VerificationResult{}}
}

func (c *stubCache) Get(ctx context.Context, businessID string) (*models.VerificationResult, bool) {
	r, ok := c.stored[businessID]
	return r, ok
}

func (c *stubCache) Put(ctx context.Context, businessID string, result *models.VerificationResult) {
	c.stored[businessID] = result
}

func testBusiness() models.NormalizedBusiness {
	return models.NormalizedBusiness{
		ID:       "12345678",
		Name:     "Tartu Grill House",
		Category: "restaurant",
		Address:  "Raekoja plats 1",
		City:     "Tartu",
	}
}

// ==========================================================================
// Tests
// ==========================================================================

func TestVerify_AllSourcesPass(t *testing.T) {
	engine := NewEngine(logger.NewNoOpLogger(),
		passingSource("primary_registry", models.PrimaryRegistryWeight),
		passingSource("legal_registry", models.LegalRegistryWeight),
		passingSource("location", models.LocationWeight),
	)

	result := engine.Verify(context.Background(), testBusiness())

	assert.True(t, result.Verified)
	assert.Equal(t, models.MaxTrustScore, result.TrustScore)
	assert.Len(t, result.Sources, 3)
	assert.False(t, result.VerifiedAt.IsZero())
}

func TestVerify_PrimaryAloneIsNotEnough(t *testing.T) {
	engine := NewEngine(logger.NewNoOpLogger(),
		passingSource("primary_registry", models.PrimaryRegistryWeight),
		&stubSource{id: "legal_registry", weight: models.LegalRegistryWeight},
		&stubSource{id: "location", weight: models.LocationWeight},
	)

	result := engine.Verify(context.Background(), testBusiness())

	assert.False(t, result.Verified)
	assert.Equal(t, models.PrimaryRegistryWeight, result.TrustScore)
	assert.Len(t, result.Sources, 1)
}

func TestVerify_ThresholdBoundary(t *testing.T) {
	engine := NewEngine(logger.NewNoOpLogger(),
		passingSource("primary_registry", models.PrimaryRegistryWeight),
		passingSource("legal_registry", models.LegalRegistryWeight),
		&stubSource{id: "location", weight: models.LocationWeight},
	)

	result := engine.Verify(context.Background(), testBusiness())

	assert.Equal(t, models.VerifiedThreshold, result.TrustScore)
	assert.True(t, result.Verified)
}

func TestVerify_AllSourcesUnreachable(t *testing.T) {
	engine := NewEngine(logger.NewNoOpLogger(),
		&stubSource{id: "primary_registry", weight: models.PrimaryRegistryWeight, err: errors.New("connection refused")},
		&stubSource{id: "legal_registry", weight: models.LegalRegistryWeight, err: errors.New("timeout")},
		&stubSource{id: "location", weight: models.LocationWeight, err: errors.New("dns failure")},
	)

	result := engine.Verify(context.Background(), testBusiness())

	assert.False(t, result.Verified)
	assert.Equal(t, 0, result.TrustScore)
	assert.Empty(t, result.Sources)
}

func TestVerify_FailedSourceIsOmittedNotRecorded(t *testing.T) {
	engine := NewEngine(logger.NewNoOpLogger(),
		passingSource("primary_registry", models.PrimaryRegistryWeight),
		&stubSource{id: "legal_registry", weight: models.LegalRegistryWeight, err: errors.New("unavailable")},
	)

	result := engine.Verify(context.Background(), testBusiness())

	assert.Len(t, result.Sources, 1)
	assert.Equal(t, "primary_registry", result.Sources[0].SourceID)
}

func TestVerify_ScoreIsMonotonicInPassingSources(t *testing.T) {
	one := NewEngine(logger.NewNoOpLogger(),
		passingSource("primary_registry", models.PrimaryRegistryWeight),
	).Verify(context.Background(), testBusiness())

	two := NewEngine(logger.NewNoOpLogger(),
		passingSource("primary_registry", models.PrimaryRegistryWeight),
		passingSource("legal_registry", models.LegalRegistryWeight),
	).Verify(context.Background(), testBusiness())

	assert.Greater(t, two.TrustScore, one.TrustScore)
}

func TestVerify_CacheHitSkipsSources(t *testing.T) {
	source := passingSource("primary_registry", models.PrimaryRegistryWeight)
	cache := newStubCache()
	engine := NewEngine(logger.NewNoOpLogger(), source).WithCache(cache)

	first := engine.Verify(context.Background(), testBusiness())
	second := engine.Verify(context.Background(), testBusiness())

	assert.Equal(t, 1, source.calls)
	assert.Equal(t, first, second)
}
