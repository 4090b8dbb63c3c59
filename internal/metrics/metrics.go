package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"zpool-status-exporter/internal/zpool"
)

// Metrics holds all Prometheus metrics. It is registered as a single
// collector so a scrape never observes an Update half way through.
type Metrics struct {
	mu sync.RWMutex

	PoolHealth            *prometheus.GaugeVec
	DriveHealth           *prometheus.GaugeVec
	SpareState            *prometheus.GaugeVec
	SubpoolHealth         *prometheus.GaugeVec
	ResilverStatus        *prometheus.GaugeVec
	ResilverTimeRemaining *prometheus.GaugeVec
	ResilverLastTime      *prometheus.GaugeVec
	ScrubStatus           *prometheus.GaugeVec
	ScrubTimeRemaining    *prometheus.GaugeVec
	ScrubLastTime         *prometheus.GaugeVec
	ParseAnomalies        *prometheus.GaugeVec
	BuildInfo             *prometheus.GaugeVec
	ExporterUp            prometheus.Gauge
}

func poolGauge(name, help string) *prometheus.GaugeVec {
	return prometheus.NewGaugeVec(prometheus.GaugeOpts{Name: name, Help: help}, []string{"pool"})
}

// New creates all metrics and registers them with reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		PoolHealth: poolGauge("ZFS_Pool_Health",
			"Pool health (0=online, 1=degraded, 2=unavail)"),
		DriveHealth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ZFS_Drive_Health",
				Help: "Drive health (0=online, 1=degraded, 2=unavail, 5=offline, 6=removed, 7=faulted)",
			},
			[]string{"pool", "name"},
		),
		SpareState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ZFS_Spare_State",
				Help: "Hot spare state (3=in use, 4=available, other values as ZFS_Drive_Health)",
			},
			[]string{"pool", "name"},
		),
		SubpoolHealth: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "ZFS_Subpool_Health",
				Help: "Redundancy group health (0=online, 1=degraded, 2=unavail)",
			},
			[]string{"pool", "subpool", "type"},
		),
		ResilverStatus: poolGauge("ZFS_Resilver_Status",
			"Resilver activity (0=not resilvering, 1=resilvering)"),
		ResilverTimeRemaining: poolGauge("ZFS_Resilver_Time_Remaining",
			"Estimated resilver time remaining in seconds"),
		ResilverLastTime: poolGauge("ZFS_Resilver_Last_Time",
			"Completion time of the last resilver in seconds since epoch"),
		ScrubStatus: poolGauge("ZFS_Scrub_Status",
			"Scrub activity (0=not scrubbing, 1=scrubbing)"),
		ScrubTimeRemaining: poolGauge("ZFS_Scrub_Time_Remaining",
			"Estimated scrub time remaining in seconds"),
		ScrubLastTime: poolGauge("ZFS_Scrub_Last_Time",
			"Completion time of the last scrub in seconds since epoch"),
		ParseAnomalies: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "zpool_status_parse_anomalies",
				Help: "Anomalies found while parsing the last zpool status report, by kind",
			},
			[]string{"kind"},
		),
		BuildInfo: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "zpool_status_exporter_build_info",
				Help: "Build information of the exporter",
			},
			[]string{"version", "commit"},
		),
		ExporterUp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "zpool_status_exporter_up",
				Help: "Whether the last zpool status collection succeeded",
			},
		),
	}

	reg.MustRegister(m)

	return m
}

func (m *Metrics) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.PoolHealth,
		m.DriveHealth,
		m.SpareState,
		m.SubpoolHealth,
		m.ResilverStatus,
		m.ResilverTimeRemaining,
		m.ResilverLastTime,
		m.ScrubStatus,
		m.ScrubTimeRemaining,
		m.ScrubLastTime,
		m.ParseAnomalies,
		m.BuildInfo,
		m.ExporterUp,
	}
}

// Describe implements prometheus.Collector
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, c := range m.collectors() {
		c.Describe(ch)
	}
}

// Collect implements prometheus.Collector
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, c := range m.collectors() {
		c.Collect(ch)
	}
}

// Reset clears all per-pool metrics
func (m *Metrics) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()
}

func (m *Metrics) reset() {
	m.PoolHealth.Reset()
	m.DriveHealth.Reset()
	m.SpareState.Reset()
	m.SubpoolHealth.Reset()
	m.ResilverStatus.Reset()
	m.ResilverTimeRemaining.Reset()
	m.ResilverLastTime.Reset()
	m.ScrubStatus.Reset()
	m.ScrubTimeRemaining.Reset()
	m.ScrubLastTime.Reset()
	m.ParseAnomalies.Reset()
}

// SetBuildInfo publishes the exporter version
func (m *Metrics) SetBuildInfo(version, commit string) {
	m.BuildInfo.WithLabelValues(version, commit).Set(1)
}

// Update replaces the per-pool metrics with the values of a parse result
func (m *Metrics) Update(res zpool.Result) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.reset()

	for _, pool := range res.Pools {
		m.PoolHealth.WithLabelValues(pool.Name).Set(float64(pool.State))

		m.ResilverStatus.WithLabelValues(pool.Name).Set(boolToFloat(pool.Resilvering))
		m.ResilverTimeRemaining.WithLabelValues(pool.Name).Set(float64(pool.ResilverRemaining))
		m.ResilverLastTime.WithLabelValues(pool.Name).Set(float64(pool.LastResilver))

		m.ScrubStatus.WithLabelValues(pool.Name).Set(boolToFloat(pool.Scrubbing))
		m.ScrubTimeRemaining.WithLabelValues(pool.Name).Set(float64(pool.ScrubRemaining))
		m.ScrubLastTime.WithLabelValues(pool.Name).Set(float64(pool.LastScrub))

		for _, sp := range pool.Subpools {
			m.SubpoolHealth.WithLabelValues(pool.Name, sp.Name, sp.Type.String()).Set(float64(sp.State))
			for _, d := range sp.Drives {
				m.DriveHealth.WithLabelValues(pool.Name, d.Name).Set(float64(d.State))
			}
		}

		for _, d := range pool.Spares {
			m.SpareState.WithLabelValues(pool.Name, d.Name).Set(float64(d.State))
		}
	}

	for _, d := range res.Diagnostics {
		m.ParseAnomalies.WithLabelValues(string(d.Kind)).Inc()
	}
}

// boolToFloat converts boolean to float64 for metrics
func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}
	return 0.0
}
