// Package app wires the HTTP surface: routes, middleware, health and
// readiness probes.
package app

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpserver "github.com/rakeshbhasyam/RecruitIQ/internal/adapter/httpserver"
	"github.com/rakeshbhasyam/RecruitIQ/internal/adapter/observability"
	"github.com/rakeshbhasyam/RecruitIQ/internal/config"
)

// ParseOrigins splits a comma-separated origin list into a slice, trimming
// spaces. An empty input allows all origins.
func ParseOrigins(s string) []string {
	s = strings.TrimSpace(s)
	if s == "" || s == "*" {
		return []string{"*"}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return []string{"*"}
	}
	return out
}

// Pinger reports storage connectivity. pgxpool.Pool satisfies it.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BuildRouter constructs the HTTP handler with all middleware and routes.
// Upload and interview endpoints run pipeline stages synchronously, so they
// carry a much longer timeout than the read-only surface.
func BuildRouter(cfg config.Config, srv *httpserver.Server, db Pinger) http.Handler {
	r := chi.NewRouter()
	r.Use(httpserver.Recoverer())
	r.Use(httpserver.RequestID())
	r.Use(httpserver.TraceMiddleware)
	r.Use(httpserver.AccessLog())
	r.Use(observability.HTTPMetricsMiddleware)

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   ParseOrigins(cfg.CORSAllowOrigins),
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-Request-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Mutating endpoints: rate limited per IP, generous timeout because a
	// request may span several model calls.
	r.Group(func(wr chi.Router) {
		wr.Use(httprate.LimitByIP(cfg.RateLimitPerMin, 1*time.Minute))
		wr.Use(httpserver.TimeoutMiddleware(cfg.HTTPWriteTimeout))
		wr.Post("/v1/jobs", srv.CreateJob)
		wr.Post("/v1/candidates/upload", srv.UploadCandidate)
		wr.Post("/v1/interviews/generate", srv.GenerateInterview)
		wr.Post("/v1/interviews/submit", srv.SubmitInterview)
		wr.Post("/v1/interviews/sessions", srv.StartSession)
		wr.Post("/v1/interviews/sessions/{id}/next", srv.NextQuestion)
	})

	// Read-only endpoints.
	r.Group(func(rr chi.Router) {
		rr.Use(httpserver.TimeoutMiddleware(30 * time.Second))
		rr.Get("/v1/jobs", srv.ListJobs)
		rr.Get("/v1/jobs/{id}", srv.GetJob)
		rr.Get("/v1/candidates/{id}", srv.GetCandidate)
		rr.Get("/v1/candidates/job/{jobID}", srv.ListCandidatesByJob)
		rr.Get("/v1/interviews/sessions/{id}", srv.GetSession)
		rr.Get("/v1/scores/candidate/{candidateID}", srv.GetScore)
		rr.Get("/v1/scores/job/{jobID}", srv.ListScoresByJob)
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", ReadyzHandler(db))
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) { promhttp.Handler().ServeHTTP(w, r) })

	return httpserver.SecurityHeaders(r)
}
