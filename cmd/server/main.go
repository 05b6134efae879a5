// Command server starts the RecruitIQ HTTP server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	ai "github.com/rakeshbhasyam/RecruitIQ/internal/adapter/ai"
	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/httpserver"
	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/observability"
	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/repo/postgres"
	localext "github.com/rakeshbhasyam/RecruitIQ/internal/adapter/textextractor/local"
	tikaext "github.com/rakeshbhasyam/RecruitIQ/internal/adapter/textextractor/tika"
	"github.com/rakeshbhasyam/RecruitIQ/internal/agent"
	"github.com/rakeshbhasyam/RecruitIQ/internal/app"
	"github.com/rakeshbhasyam/RecruitIQ/internal/config"
	"github.com/rakeshbhasyam/RecruitIQ/internal/domain"
	"github.com/rakeshbhasyam/RecruitIQ/internal/pipeline"
	"github.com/rakeshbhasyam/RecruitIQ/internal/usecase"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := observability.SetupLogger(cfg)
	slog.SetDefault(logger)

	// Register Prometheus collectors once per process so /metrics exposes
	// HTTP, model, and pipeline instrumentation.
	observability.InitMetrics()

	shutdownTracer, err := observability.SetupTracing(cfg)
	if err != nil {
		slog.Error("failed to setup tracing", slog.Any("error", err))
	}
	defer func() {
		if shutdownTracer != nil {
			_ = shutdownTracer(context.Background())
		}
	}()

	rubric, err := config.LoadRubric(cfg.RubricFile)
	if err != nil {
		slog.Error("rubric load failed", slog.Any("error", err))
		os.Exit(1)
	}

	// Infra: DB pool
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DBURL)
	if err != nil {
		slog.Error("db connect failed", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	// Repositories
	candRepo := postgres.NewCandidateRepo(pool)
	jobRepo := postgres.NewJobRepo(pool)
	scoreRepo := postgres.NewScoreRepo(pool)
	sessRepo := postgres.NewSessionRepo(pool)
	auditRepo := postgres.NewAuditRepo(pool)

	// Model gateway
	model := ai.New(cfg)

	// Resume text extraction: Tika when configured, local PDF/text otherwise.
	var extractor domain.TextExtractor
	if cfg.TikaURL != "" {
		extractor = tikaext.New(cfg.TikaURL)
		slog.Info("using tika extractor", slog.String("url", cfg.TikaURL))
	} else {
		extractor = localext.New()
		slog.Info("using local extractor")
	}

	// Agents
	ingestion := agent.NewIngestion(model, auditRepo, candRepo, extractor)
	parser := agent.NewParser(model, auditRepo, candRepo)
	matcher := agent.NewMatcher(model, auditRepo, candRepo, jobRepo, scoreRepo, rubric.MatcherWeights)
	interview := agent.NewInterview(model, auditRepo, candRepo, jobRepo, scoreRepo, rubric.FallbackQuestions)
	scoring := agent.NewScoring(auditRepo, jobRepo, scoreRepo, rubric.FinalWeights)

	runner := &pipeline.Runner{
		Ingestion:  ingestion,
		Parser:     parser,
		Matcher:    matcher,
		Interview:  interview,
		Scoring:    scoring,
		Candidates: candRepo,
		Jobs:       jobRepo,
		Audit:      auditRepo,
	}

	// Usecases
	candSvc := &usecase.CandidateService{Candidates: candRepo, Jobs: jobRepo, Scores: scoreRepo}
	jobSvc := &usecase.JobService{Jobs: jobRepo}
	scoreSvc := &usecase.ScoreService{Scores: scoreRepo}
	interviewSvc := &usecase.InterviewService{Interview: interview, Scoring: scoring, DefaultNumQuestions: cfg.DefaultMaxQuestions}
	sessionSvc := &usecase.SessionService{
		Sessions:            sessRepo,
		Candidates:          candRepo,
		Jobs:                jobRepo,
		Scores:              scoreRepo,
		Interview:           interview,
		Scoring:             scoring,
		DefaultMaxQuestions: cfg.DefaultMaxQuestions,
	}

	// HTTP server
	srv := httpserver.NewServer(cfg, candSvc, jobSvc, scoreSvc, interviewSvc, sessionSvc, runner)
	handler := app.BuildRouter(cfg, srv, pool)

	srvHTTP := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           handler,
		ReadTimeout:       cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server starting", slog.Int("port", cfg.Port))
		errCh <- srvHTTP.ListenAndServe()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		slog.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", slog.Any("error", err))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ServerShutdownTimeout)
	defer cancel()
	_ = srvHTTP.Shutdown(shutdownCtx)
}
