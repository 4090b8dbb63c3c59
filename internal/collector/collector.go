package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"zpool-status-exporter/internal/metrics"
	"zpool-status-exporter/internal/tools"
	"zpool-status-exporter/internal/zpool"
)

// Options tunes a Collector
type Options struct {
	Interval time.Duration
	Timeout  time.Duration
	Location *time.Location
	Logger   zerolog.Logger
}

// Snapshot is the outcome of the most recent collection
type Snapshot struct {
	Pools       []*zpool.Pool
	Diagnostics []zpool.Diagnostic
	CollectedAt time.Time
	LastError   error
}

// Collector handles metric collection
type Collector struct {
	metrics *metrics.Metrics
	source  tools.StatusSource
	opts    Options
	logger  zerolog.Logger

	mu       sync.RWMutex
	snapshot Snapshot
}

// New creates a new collector
func New(m *metrics.Metrics, source tools.StatusSource, opts Options) *Collector {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	return &Collector{
		metrics: m,
		source:  source,
		opts:    opts,
		logger:  opts.Logger.With().Str("component", "collector").Logger(),
	}
}

// Start collects immediately and then on every interval until ctx is done
func (c *Collector) Start(ctx context.Context) error {
	_ = c.Collect(ctx)

	sched := cron.New(cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)))
	schedule := fmt.Sprintf("@every %s", c.opts.Interval)
	if _, err := sched.AddFunc(schedule, func() { _ = c.Collect(ctx) }); err != nil {
		return fmt.Errorf("schedule collection %q: %w", schedule, err)
	}

	sched.Start()
	c.logger.Info().Dur("interval", c.opts.Interval).Msg("collection scheduled")

	<-ctx.Done()
	<-sched.Stop().Done()
	return nil
}

// Collect runs zpool status once, parses it and updates the metrics. On
// failure the previous pools are kept and the exporter is marked down.
func (c *Collector) Collect(ctx context.Context) error {
	c.logger.Debug().Msg("collecting zpool status")

	if c.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
		defer cancel()
	}

	start := time.Now()
	out, err := c.source.Status(ctx)
	if err != nil {
		c.metrics.ExporterUp.Set(0)
		c.logger.Error().Err(err).Msg("zpool status failed")

		c.mu.Lock()
		c.snapshot.LastError = err
		c.mu.Unlock()
		return err
	}

	res := zpool.ParseOutput(out, zpool.WithLocation(c.opts.Location))
	for _, d := range res.Diagnostics {
		ev := c.logger.Warn()
		if d.Kind.Informational() {
			ev = c.logger.Debug()
		}
		ev.
			Str("kind", string(d.Kind)).
			Int("line", d.Line).
			Str("text", d.Text).
			Msg(d.Message)
	}

	c.metrics.Update(res)
	c.metrics.ExporterUp.Set(1)

	c.mu.Lock()
	c.snapshot = Snapshot{
		Pools:       res.Pools,
		Diagnostics: res.Diagnostics,
		CollectedAt: time.Now(),
	}
	c.mu.Unlock()

	c.logger.Info().
		Int("pools", len(res.Pools)).
		Int("anomalies", len(res.Diagnostics)).
		Dur("took", time.Since(start)).
		Msg("updated zpool metrics")
	return nil
}

// Snapshot returns the result of the most recent collection
func (c *Collector) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snapshot
}
