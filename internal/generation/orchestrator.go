// Package generation orchestrates a full content-generation run: fetch,
// normalize, verify, generate, validate, publish.
package generation

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"bizgen/internal/common/config"
	pipelineerrors "bizgen/internal/common/errors"
	"bizgen/internal/common/genai"
	"bizgen/internal/common/logger"
	"bizgen/internal/common/metrics"
	"bizgen/internal/common/observability"
	"bizgen/internal/content"
	"bizgen/internal/models"
	"bizgen/internal/notify"
	"bizgen/internal/storage"
	"bizgen/internal/validation"
)

// RecordFetcher resolves a registry identifier to a raw business record.
type RecordFetcher interface {
	GetByID(ctx context.Context, id string) (models.ExternalBusinessRecord, error)
}

// Verifier produces a trust-scored verification result. It never fails.
type Verifier interface {
	Verify(ctx context.Context, biz models.NormalizedBusiness) *models.VerificationResult
}

// Validator scores a finished bundle against the publication rubric.
type Validator interface {
	Validate(bundle *content.Bundle, businessName string) *validation.Result
}

// ContentStore persists the finished bundle and knows the canonical URL.
type ContentStore interface {
	Save(ctx context.Context, biz models.NormalizedBusiness, bundle *content.Bundle,
		verification *models.VerificationResult, validationResult *validation.Result) (*storage.PublishedContent, error)
	CanonicalURL(ctx context.Context, biz models.NormalizedBusiness) string
}

// Options tunes one generation run.
type Options struct {
	SkipValidation      bool
	IncludeIntelligence bool
	SendWelcome         bool
}

// OptionsFromConfig derives run options from the pipeline config section.
func OptionsFromConfig(cfg config.PipelineConfig) Options {
	return Options{
		SkipValidation:      !cfg.ValidateContent,
		IncludeIntelligence: cfg.IncludeIntelligence,
		SendWelcome:         cfg.SendWelcome,
	}
}

// Result is the complete outcome of one run. A run either succeeds with a
// published bundle or fails with Success=false and the fatal error recorded
// in Errors; Generate itself never returns an error.
type Result struct {
	BusinessID string `json:"business_id"`
	ContentID  string `json:"content_id,omitempty"`
	URL        string `json:"url,omitempty"`
	Success    bool   `json:"success"`

	Bundle       *content.Bundle            `json:"bundle,omitempty"`
	Verification *models.VerificationResult `json:"verification,omitempty"`
	Validation   *validation.Result         `json:"validation,omitempty"`

	StageCallsUsed int     `json:"stage_calls_used"`
	ElapsedMS      int64   `json:"elapsed_ms"`
	EstimatedCost  float64 `json:"estimated_cost"`

	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

func (r *Result) warn(stage, message string) {
	r.Warnings = append(r.Warnings, fmt.Sprintf("%s: %s", stage, message))
}

// Orchestrator drives the staged pipeline for one business at a time.
// Stages after the primary bundle are individually fallible: their failures
// degrade the output and surface as warnings, never as run failures.
type Orchestrator struct {
	fetcher   RecordFetcher
	verifier  Verifier
	completer genai.Completer
	validator Validator
	store     ContentStore
	notifier  notify.Notifier

	log     logger.Logger
	obs     *observability.Observability
	tracing *observability.Tracing

	attempts    int
	retryDelay  time.Duration
	costPerCall float64
}

// NewOrchestrator wires an orchestrator from its collaborators. obs and
// tracing may be nil.
func NewOrchestrator(
	fetcher RecordFetcher,
	verifier Verifier,
	completer genai.Completer,
	validator Validator,
	store ContentStore,
	notifier notify.Notifier,
	pipelineCfg config.PipelineConfig,
	genaiCfg config.GenAIConfig,
	log logger.Logger,
	obs *observability.Observability,
	tracing *observability.Tracing,
) *Orchestrator {
	return &Orchestrator{
		fetcher:     fetcher,
		verifier:    verifier,
		completer:   completer,
		validator:   validator,
		store:       store,
		notifier:    notifier,
		log:         log.WithFields(map[string]interface{}{"component": "orchestrator"}),
		obs:         obs,
		tracing:     tracing,
		attempts:    pipelineCfg.GenerationAttempts,
		retryDelay:  time.Duration(pipelineCfg.GenerationRetryDelay) * time.Millisecond,
		costPerCall: genaiCfg.CostPerCall,
	}
}

// Generate runs the full pipeline for one business. It always returns a
// Result: fatal stage errors, panics included, come back as Success=false.
func (o *Orchestrator) Generate(ctx context.Context, businessID string, opts Options) (result *Result) {
	started := time.Now()
	result = &Result{BusinessID: businessID}

	ctx, span := o.tracing.StartSpan(ctx, "pipeline.run")
	span.SetAttributes(attribute.String("business_id", businessID))

	defer func() {
		if r := recover(); r != nil {
			o.log.Error("generation run panicked", map[string]interface{}{
				"business_id": businessID,
				"panic":       fmt.Sprintf("%v", r),
			})
			result.Success = false
			result.Errors = append(result.Errors, fmt.Sprintf("internal failure: %v", r))
		}

		result.ElapsedMS = time.Since(started).Milliseconds()

		status := "success"
		if !result.Success {
			status = "failure"
		}
		metrics.PipelineRunsTotal.WithLabelValues(status).Inc()
		if o.obs != nil {
			o.obs.RecordRunProcessed(ctx, status)
		}
		span.SetAttributes(attribute.Bool("success", result.Success))
		span.End()

		o.log.Info("generation run finished", map[string]interface{}{
			"business_id": businessID,
			"success":     result.Success,
			"calls":       result.StageCallsUsed,
			"elapsed_ms":  result.ElapsedMS,
			"warnings":    len(result.Warnings),
		})
	}()

	if err := o.run(ctx, result, opts); err != nil {
		result.Success = false
		result.Errors = append(result.Errors, err.Error())
		if stdErr, ok := pipelineerrors.AsStandard(err); ok {
			o.log.WithError(err).Error("generation run failed", map[string]interface{}{
				"business_id": businessID,
				"code":        string(stdErr.Code),
			})
		} else {
			o.log.WithError(err).Error("generation run failed", map[string]interface{}{
				"business_id": businessID,
			})
		}
		return result
	}

	result.Success = true
	return result
}

// run executes the stages in order. Only fetch, normalization and the
// primary bundle stage can return an error; everything downstream degrades
// in place.
func (o *Orchestrator) run(ctx context.Context, result *Result, opts Options) error {
	biz, err := o.stageFetch(ctx, result)
	if err != nil {
		return err
	}

	result.Verification = o.stageVerify(ctx, result, biz)

	template := o.stageClassify(result, biz)

	bundle, err := o.stagePrimary(ctx, result, biz, template)
	if err != nil {
		return err
	}
	result.Bundle = bundle

	o.stageSEO(ctx, result, biz, bundle)
	o.stageSupplementary(ctx, result, biz, bundle, template)
	o.stageTestimonials(ctx, result, biz, bundle)
	if opts.IncludeIntelligence {
		o.stageIntelligence(ctx, result, biz, bundle)
	}
	o.stageBranding(result, biz, bundle)

	canonicalURL := o.store.CanonicalURL(ctx, biz)
	o.stageDistribution(ctx, result, biz, bundle, canonicalURL)
	if opts.SendWelcome {
		o.stageWelcome(ctx, result, biz, bundle, canonicalURL)
	}

	if !opts.SkipValidation {
		result.Validation = o.validator.Validate(bundle, biz.Name)
		if !result.Validation.IsValid {
			result.warn("validation", fmt.Sprintf(
				"content failed validation with score %d; publishing anyway for manual review",
				result.Validation.Score))
		}
	}

	published, err := o.store.Save(ctx, biz, bundle, result.Verification, result.Validation)
	if err != nil {
		return err
	}
	result.ContentID = published.ContentID
	result.URL = published.URL

	if opts.SendWelcome && bundle.WelcomeMessage != "" {
		o.deliverWelcome(ctx, result, biz, bundle)
	}
	return nil
}

// completeJSON is the accounting wrapper around every generation call.
func (o *Orchestrator) completeJSON(ctx context.Context, result *Result, stage, system, user, schema string, out interface{}) error {
	ctx, span := o.tracing.StartSpan(ctx, "stage."+stage)
	defer span.End()

	started := time.Now()
	err := o.completer.CompleteJSON(ctx, system, user, schema, out)

	result.StageCallsUsed++
	result.EstimatedCost += o.costPerCall
	metrics.GenerationCallsTotal.Inc()
	metrics.GenerationCostTotal.Add(o.costPerCall)
	if o.obs != nil {
		o.obs.RecordStageDuration(ctx, stage, float64(time.Since(started).Milliseconds()))
	}
	if err != nil {
		span.RecordError(err)
		metrics.StageFailuresTotal.WithLabelValues(stage).Inc()
	}
	return err
}
