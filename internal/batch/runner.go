// Package batch runs the generation pipeline over a list of businesses and
// watches the aggregate success rate.
package batch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"bizgen/internal/common/config"
	"bizgen/internal/common/logger"
	"bizgen/internal/common/metrics"
	"bizgen/internal/generation"
	"bizgen/internal/notify"
)

// Generator is the single-business pipeline entry point.
type Generator interface {
	Generate(ctx context.Context, businessID string, opts generation.Options) *generation.Result
}

// Report is the aggregate outcome of one batch run. SuccessRate is computed
// over processed items only; skipped identifiers do not count against it.
type Report struct {
	RunID      string    `json:"run_id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Attempted   int     `json:"attempted"`
	Succeeded   int     `json:"succeeded"`
	Failed      int     `json:"failed"`
	Skipped     int     `json:"skipped"`
	SuccessRate float64 `json:"success_rate"`

	Results   []*generation.Result `json:"results"`
	Escalated bool                 `json:"escalated"`
}

// Runner processes identifiers strictly sequentially with a fixed delay
// between items, so a misbehaving generation service sees at most one
// in-flight request per batch.
type Runner struct {
	gen      Generator
	notifier notify.Notifier
	log      logger.Logger

	itemDelay           time.Duration
	minSampleSize       int
	escalationThreshold float64
}

// NewRunner wires a batch runner from its collaborators.
func NewRunner(gen Generator, notifier notify.Notifier, cfg config.BatchConfig, log logger.Logger) *Runner {
	return &Runner{
		gen:                 gen,
		notifier:            notifier,
		log:                 log.WithFields(map[string]interface{}{"component": "batch"}),
		itemDelay:           time.Duration(cfg.ItemDelay) * time.Millisecond,
		minSampleSize:       cfg.MinSampleSize,
		escalationThreshold: cfg.EscalationThreshold,
	}
}

// Run processes every identifier and returns the aggregate report. An empty
// list yields a trivial report without touching the generator. One item
// failing, or even panicking, never stops the rest of the batch.
func (r *Runner) Run(ctx context.Context, businessIDs []string, opts generation.Options) *Report {
	report := &Report{
		RunID:     uuid.New().String(),
		StartedAt: time.Now().UTC(),
		Results:   []*generation.Result{},
	}
	defer func() {
		report.FinishedAt = time.Now().UTC()
	}()

	if len(businessIDs) == 0 {
		r.log.Info("batch run with no identifiers", map[string]interface{}{"run_id": report.RunID})
		return report
	}

	r.log.Info("batch run started", map[string]interface{}{
		"run_id": report.RunID,
		"items":  len(businessIDs),
	})

	for i, rawID := range businessIDs {
		if ctx.Err() != nil {
			r.log.Warn("batch run interrupted", map[string]interface{}{
				"run_id":    report.RunID,
				"processed": report.Attempted,
				"remaining": len(businessIDs) - i,
			})
			break
		}

		id := strings.TrimSpace(rawID)
		if id == "" {
			report.Skipped++
			continue
		}

		if report.Attempted > 0 && r.itemDelay > 0 {
			select {
			case <-time.After(r.itemDelay):
			case <-ctx.Done():
				continue // top of loop notices the cancellation
			}
		}

		result := r.processOne(ctx, id, opts)
		report.Attempted++
		report.Results = append(report.Results, result)
		if result.Success {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}

	if report.Attempted > 0 {
		report.SuccessRate = float64(report.Succeeded) / float64(report.Attempted)
	}

	r.maybeEscalate(ctx, report)

	r.log.Info("batch run finished", map[string]interface{}{
		"run_id":       report.RunID,
		"attempted":    report.Attempted,
		"succeeded":    report.Succeeded,
		"failed":       report.Failed,
		"skipped":      report.Skipped,
		"success_rate": report.SuccessRate,
		"escalated":    report.Escalated,
	})
	return report
}

// processOne isolates a single item so a panicking run is recorded as a
// failure instead of killing the batch.
func (r *Runner) processOne(ctx context.Context, id string, opts generation.Options) (result *generation.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			r.log.Error("generation run panicked inside batch", map[string]interface{}{
				"business_id": id,
				"panic":       fmt.Sprintf("%v", rec),
			})
			result = &generation.Result{
				BusinessID: id,
				Success:    false,
				Errors:     []string{fmt.Sprintf("internal failure: %v", rec)},
			}
		}
	}()
	return r.gen.Generate(ctx, id, opts)
}

func (r *Runner) maybeEscalate(ctx context.Context, report *Report) {
	if report.Attempted < r.minSampleSize || report.SuccessRate >= r.escalationThreshold {
		return
	}

	report.Escalated = true
	metrics.BatchEscalationsTotal.Inc()

	body := fmt.Sprintf(
		"Batch %s degraded: %d/%d runs succeeded (%.0f%%, threshold %.0f%%). Manual review required.",
		report.RunID, report.Succeeded, report.Attempted,
		report.SuccessRate*100, r.escalationThreshold*100)

	err := r.notifier.Send(ctx, notify.Message{
		Subject:  "Content generation batch degraded",
		Body:     body,
		Priority: notify.PriorityCritical,
		Channels: []string{notify.ChannelAlert},
	})
	if err != nil {
		r.log.WithError(err).Error("batch escalation alert could not be delivered", map[string]interface{}{
			"run_id": report.RunID,
		})
	}
}
