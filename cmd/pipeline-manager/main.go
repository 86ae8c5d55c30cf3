// cmd/pipeline-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"bizgen/internal/batch"
	"bizgen/internal/common/config"
	"bizgen/internal/common/database"
	"bizgen/internal/common/genai"
	"bizgen/internal/common/logger"
	"bizgen/internal/common/observability"
	"bizgen/internal/common/registry"
	"bizgen/internal/common/retry"
	"bizgen/internal/generation"
	"bizgen/internal/notify"
	"bizgen/internal/storage"
	"bizgen/internal/validation"
	"bizgen/internal/verification"
)

func main() {
	var (
		idsFlag      = flag.String("ids", "", "comma-separated registry identifiers to process")
		idsFile      = flag.String("ids-file", "", "file with one registry identifier per line")
		skipValidate = flag.Bool("skip-validation", false, "publish without rubric validation")
		intelligence = flag.Bool("intelligence", false, "include the business-intelligence summary")
		welcome      = flag.Bool("welcome", false, "send the owner a welcome email after publishing")
		metricsAddr  = flag.String("metrics-addr", ":8080", "health and metrics listen address")
	)
	flag.Parse()

	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting pipeline manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog = logger.New(cfg.Logging.Level, cfg.Logging.Format)
	log = logger.NewZapAdapter(zapLog)

	obs := observability.New("pipeline-manager")
	defer obs.Shutdown()

	tracing, err := observability.NewTracing("pipeline-manager", os.Getenv("JAEGER_ENDPOINT"))
	if err != nil {
		zapLog.Warn("tracing disabled", zap.Error(err))
	} else {
		defer tracing.Shutdown(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	businessIDs, err := collectIDs(*idsFlag, *idsFile)
	if err != nil {
		zapLog.Fatal("could not read identifiers", zap.Error(err))
	}
	if len(businessIDs) == 0 {
		zapLog.Fatal("no identifiers given; use -ids or -ids-file")
	}

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retry.Err(ctx, func(ctx context.Context) error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, log)
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch (optional, indexing degrades without it) ---
	var esClient *database.ElasticsearchClient
	err = retry.Err(ctx, func(ctx context.Context) error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 5, 2*time.Second, log)
	if err != nil {
		zapLog.Warn("elasticsearch unavailable; published content will not be indexed", zap.Error(err))
		esClient = nil
	} else {
		zapLog.Info("Elasticsearch connected successfully")
	}

	// --- Init Redis (optional, verification just re-checks without it) ---
	var redisClient *database.RedisClient
	err = retry.Err(ctx, func(ctx context.Context) error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redisClient.Ping(ctx)
	}, 5, 2*time.Second, log)
	if err != nil {
		zapLog.Warn("redis unavailable; verification results will not be cached", zap.Error(err))
		redisClient = nil
	} else {
		defer redisClient.Close()
		zapLog.Info("Redis connected successfully")
	}

	// --- Init external service clients ---
	registryClient := registry.NewClient(
		cfg.Registry.BaseURL,
		cfg.Registry.APIKey,
		config.GetDuration(cfg.Registry.Timeout),
		log,
	)
	genaiClient := genai.NewClient(cfg.GenAI, log)

	var notifier notify.Notifier
	if cfg.Notifications.Email.Enabled || cfg.Notifications.Alerts.Enabled {
		notifier, err = notify.NewAWSNotifier(ctx, cfg.Notifications, log)
		if err != nil {
			zapLog.Fatal("aws notifier init failed", zap.Error(err))
		}
	} else {
		notifier = notify.LoggingNotifier{Log: log}
	}

	zapLog.Info("All external service clients initialized")

	// --- Wire the pipeline ---
	sources := []verification.Source{
		verification.NewRegistrySource(registryClient, cfg.Registry.PublicURL),
	}
	if cfg.Verification.LegalRegistry.APIKey != "" {
		sources = append(sources, verification.NewLegalSource(
			cfg.Verification.LegalRegistry.BaseURL, cfg.Verification.LegalRegistry.APIKey, log))
	}
	if cfg.Verification.Location.APIKey != "" {
		sources = append(sources, verification.NewLocationSource(
			cfg.Verification.Location.BaseURL, cfg.Verification.Location.APIKey, log))
	}

	verifier := verification.NewEngine(log, sources...)
	if redisClient != nil {
		verifier = verifier.WithCache(storage.NewVerificationCache(
			redisClient.Client,
			time.Duration(cfg.Verification.CacheTTLHours)*time.Hour,
			log,
		))
	}

	store := storage.NewContentStore(pg.DB, esClient,
		cfg.Storage.PublicBaseURL, cfg.Storage.ContentIndex, log)

	orchestrator := generation.NewOrchestrator(
		registryClient, verifier, genaiClient, validation.NewEngine(),
		store, notifier, cfg.Pipeline, cfg.GenAI, log, obs, tracing,
	)
	runner := batch.NewRunner(orchestrator, notifier, cfg.Batch, log)

	// --- Health / Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening", zap.String("addr", *metricsAddr))
		if err := http.ListenAndServe(*metricsAddr, nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Run the batch ---
	opts := generation.OptionsFromConfig(cfg.Pipeline)
	if *skipValidate {
		opts.SkipValidation = true
	}
	if *intelligence {
		opts.IncludeIntelligence = true
	}
	if *welcome {
		opts.SendWelcome = true
	}

	report := runner.Run(ctx, businessIDs, opts)

	output, _ := json.MarshalIndent(report, "", "  ")
	fmt.Println(string(output))

	if report.Escalated {
		zapLog.Error("batch escalated for low success rate",
			zap.String("runId", report.RunID),
			zap.Float64("successRate", report.SuccessRate),
		)
		os.Exit(1)
	}

	zapLog.Info("Pipeline manager finished",
		zap.Int("attempted", report.Attempted),
		zap.Int("succeeded", report.Succeeded),
	)
}

// collectIDs merges the -ids flag with the optional identifiers file.
func collectIDs(idsFlag, idsFile string) ([]string, error) {
	var ids []string
	for _, id := range strings.Split(idsFlag, ",") {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}

	if idsFile != "" {
		data, err := os.ReadFile(idsFile)
		if err != nil {
			return nil, err
		}
		for _, line := range strings.Split(string(data), "\n") {
			if line = strings.TrimSpace(line); line != "" && !strings.HasPrefix(line, "#") {
				ids = append(ids, line)
			}
		}
	}
	return ids, nil
}
