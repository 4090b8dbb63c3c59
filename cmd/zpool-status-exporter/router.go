package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"zpool-status-exporter/internal/config"
	"zpool-status-exporter/internal/health"
	"zpool-status-exporter/internal/system"
)

// newRouter configures HTTP routes
func newRouter(cfg *config.Config, gatherer prometheus.Gatherer, sysInfo *system.SystemInfo, healthService *health.Service, logger zerolog.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(logger))

	// Metrics endpoint
	r.Handle(cfg.MetricsPath, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	ver := fmt.Sprintf("v%s (%s)", version, commit)

	// Root endpoint with basic info
	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		fmt.Fprintf(w, `
		<html>
		<head><title>zpool Status Exporter</title></head>
		<body>
		<h1>zpool Status Prometheus Exporter</h1>
		<p><a href="%s">Metrics</a></p>
		<p><a href="/health">Health Check</a></p>
		<p><a href="/health/json">Health JSON</a></p>
		<p>Version: %s</p>
		<p>Collect Interval: %s</p>
		<h3>System Information</h3>
		<p>Platform: %s</p>
		<p>zpool: %s %s</p>
		</body>
		</html>
		`, cfg.MetricsPath, ver, cfg.CollectInterval, sysInfo.Platform, sysInfo.ZpoolPath, sysInfo.ZpoolVersion)
	})

	// Basic health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"zpool-status-exporter"}`)
	})

	// Detailed JSON health endpoint
	r.Get("/health/json", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")

		jsonData, err := json.MarshalIndent(healthService.GetHealthData(), "", "  ")
		if err != nil {
			http.Error(w, "Failed to generate JSON", http.StatusInternalServerError)
			return
		}

		w.Write(jsonData)
	})

	return r
}

// requestLogger logs one line per request
func requestLogger(logger zerolog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", ww.Status()).
				Dur("duration", time.Since(start)).
				Str("request_id", middleware.GetReqID(r.Context())).
				Msg("http")
		})
	}
}
