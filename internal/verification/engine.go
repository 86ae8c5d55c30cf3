package verification

import (
	"context"
	"time"

	"bizgen/internal/common/logger"
	"bizgen/internal/common/metrics"
	"bizgen/internal/models"
)

// ResultCache lets the engine reuse recent verification results. A cache
// miss or cache failure is never fatal; the engine just re-checks.
type ResultCache interface {
	Get(ctx context.Context, businessID string) (*models.VerificationResult, bool)
	Put(ctx context.Context, businessID string, result *models.VerificationResult)
}

// Engine runs every configured source and folds the outcomes into one
// trust-scored result. Verify never fails: an unreachable source simply
// contributes no weight, and a business with zero confirmable sources comes
// back with an empty source list and a zero score.
type Engine struct {
	sources []Source
	cache   ResultCache
	log     logger.Logger
}

// NewEngine builds a verification engine over the given sources.
func NewEngine(log logger.Logger, sources ...Source) *Engine {
	return &Engine{
		sources: sources,
		log:     log.WithFields(map[string]interface{}{"component": "verification"}),
	}
}

// WithCache attaches a result cache to the engine.
func (e *Engine) WithCache(cache ResultCache) *Engine {
	e.cache = cache
	return e
}

// Verify checks the business against every source and returns the
// aggregated result.
func (e *Engine) Verify(ctx context.Context, biz models.NormalizedBusiness) *models.VerificationResult {
	if e.cache != nil {
		if cached, ok := e.cache.Get(ctx, biz.ID); ok {
			e.log.Debug("verification cache hit", map[string]interface{}{
				"business_id": biz.ID,
				"trust_score": cached.TrustScore,
			})
			return cached
		}
	}

	result := &models.VerificationResult{
		Sources:    []models.SourceCheck{},
		VerifiedAt: time.Now().UTC(),
	}

	for _, source := range e.sources {
		check, err := source.Check(ctx, biz)
		if err != nil {
			e.log.WithError(err).Warn("verification source unreachable", map[string]interface{}{
				"business_id": biz.ID,
				"source_id":   source.ID(),
			})
			continue
		}
		if check == nil {
			e.log.Debug("verification source did not confirm", map[string]interface{}{
				"business_id": biz.ID,
				"source_id":   source.ID(),
			})
			continue
		}

		result.Sources = append(result.Sources, *check)
		result.TrustScore += source.Weight()
	}

	if result.TrustScore > models.MaxTrustScore {
		result.TrustScore = models.MaxTrustScore
	}
	result.Verified = result.TrustScore >= models.VerifiedThreshold

	metrics.VerificationTrustScore.Observe(float64(result.TrustScore))

	e.log.Info("verification completed", map[string]interface{}{
		"business_id": biz.ID,
		"trust_score": result.TrustScore,
		"verified":    result.Verified,
		"sources":     len(result.Sources),
	})

	if e.cache != nil {
		e.cache.Put(ctx, biz.ID, result)
	}
	return result
}
