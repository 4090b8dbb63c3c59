package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"zpool-status-exporter/internal/collector"
	"zpool-status-exporter/internal/config"
	"zpool-status-exporter/internal/health"
	"zpool-status-exporter/internal/logging"
	"zpool-status-exporter/internal/metrics"
	"zpool-status-exporter/internal/system"
	"zpool-status-exporter/internal/tools"
)

// Build-time variables (set via -ldflags)
var (
	version   = "dev"
	commit    = "unknown"
	buildTime = "unknown"
)

func main() {
	if err := newRootCmd(config.New()).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd(cfg *config.Config) *cobra.Command {
	root := &cobra.Command{
		Use:   "zpool-status-exporter",
		Short: "Prometheus exporter for zpool status",
		Long: `zpool-status-exporter runs "zpool status", parses the report into pools,
redundancy groups and drives, and exposes health, scrub and resilver
progress as Prometheus metrics.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
	cfg.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newServeCmd(cfg),
		newExportCmd(cfg),
		newVersionCmd(),
	)
	return root
}

func newServeCmd(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve metrics over HTTP, collecting on an interval",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), cfg)
		},
	}
}

func newExportCmd(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Collect once and print the metrics in text format",
		RunE: func(cmd *cobra.Command, args []string) error {
			if cfg.OutputFile == "" || cfg.OutputFile == "-" {
				return runExport(cmd.Context(), cfg, cmd.OutOrStdout())
			}

			f, err := os.Create(cfg.OutputFile)
			if err != nil {
				return fmt.Errorf("create output file: %w", err)
			}
			if err := runExport(cmd.Context(), cfg, f); err != nil {
				f.Close()
				return err
			}
			return f.Close()
		},
	}
	cmd.Flags().StringVarP(&cfg.OutputFile, "output-file", "o", cfg.OutputFile, "file to write metrics to (default stdout)")
	return cmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "zpool-status-exporter %s (commit %s, built %s)\n", version, commit, buildTime)
		},
	}
}

// newZpoolTool builds the status source for serve and export; tests swap it
// for a tool with canned output.
var newZpoolTool = tools.NewZpoolTool

// exporter bundles the components shared by serve and export
type exporter struct {
	logger    zerolog.Logger
	registry  *prometheus.Registry
	metrics   *metrics.Metrics
	tool      *tools.ZpoolTool
	collector *collector.Collector
}

func newExporter(cfg *config.Config) (*exporter, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return nil, err
	}

	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	m.SetBuildInfo(version, commit)

	tool := newZpoolTool(cfg.ZpoolPath)
	c := collector.New(m, tool, collector.Options{
		Interval: cfg.CollectInterval,
		Timeout:  cfg.CommandTimeout,
		Location: loc,
		Logger:   logger,
	})

	return &exporter{
		logger:    logger,
		registry:  reg,
		metrics:   m,
		tool:      tool,
		collector: c,
	}, nil
}

func runServe(ctx context.Context, cfg *config.Config) error {
	e, err := newExporter(cfg)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	e.logger.Info().Str("version", version).Str("commit", commit).Msg("starting zpool status exporter")

	// Perform one-time system detection
	sysInfo := system.New(e.tool, e.logger).Detect(ctx)
	healthService := health.New(e.collector, sysInfo, version)

	go func() {
		if err := e.collector.Start(ctx); err != nil {
			e.logger.Error().Err(err).Msg("collector stopped")
			stop()
		}
	}()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, e.registry, sysInfo, healthService, e.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		e.logger.Info().Str("addr", srv.Addr).Str("metrics_path", cfg.MetricsPath).Msg("starting HTTP server")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	e.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// runExport collects once and writes the text exposition to w
func runExport(ctx context.Context, cfg *config.Config, w io.Writer) error {
	e, err := newExporter(cfg)
	if err != nil {
		return err
	}

	if err := e.collector.Collect(ctx); err != nil {
		return err
	}
	return metrics.Render(w, e.registry)
}
