package metrics

import (
	"bytes"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"zpool-status-exporter/internal/zpool"
)

func sampleResult() zpool.Result {
	return zpool.Result{
		Pools: []*zpool.Pool{
			{
				Name:              "tank",
				State:             zpool.StateDegraded,
				Resilvering:       true,
				ResilverRemaining: 3723,
				LastScrub:         1672628645,
				Subpools: []zpool.Subpool{{
					Name:  "mirror-0",
					Type:  zpool.SubpoolMirror,
					State: zpool.StateDegraded,
					Drives: []zpool.Drive{
						{Name: "da0", State: zpool.StateOnline},
						{Name: "da1", State: zpool.StateUnavailable},
					},
				}},
				Spares: []zpool.Drive{{Name: "da2", Spare: true, State: zpool.StateSpareInUse}},
			},
			{Name: "backup", State: zpool.StateOnline},
		},
		Diagnostics: []zpool.Diagnostic{
			{Kind: zpool.UnknownState, Line: 3, Text: "BOGUS"},
		},
	}
}

func TestNew(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	if m == nil {
		t.Fatal("Metrics should not be nil")
	}

	// Registering twice on the same registry must fail loudly
	defer func() {
		if recover() == nil {
			t.Error("Expected panic on duplicate registration")
		}
	}()
	New(reg)
}

func TestUpdate(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Update(sampleResult())

	tests := []struct {
		name      string
		collector prometheus.Collector
		expected  float64
	}{
		{"pool health", m.PoolHealth.WithLabelValues("tank"), 1},
		{"healthy pool", m.PoolHealth.WithLabelValues("backup"), 0},
		{"drive online", m.DriveHealth.WithLabelValues("tank", "da0"), 0},
		{"drive unavail", m.DriveHealth.WithLabelValues("tank", "da1"), 2},
		{"spare in use", m.SpareState.WithLabelValues("tank", "da2"), 3},
		{"subpool", m.SubpoolHealth.WithLabelValues("tank", "mirror-0", "mirror"), 1},
		{"resilvering", m.ResilverStatus.WithLabelValues("tank"), 1},
		{"resilver remaining", m.ResilverTimeRemaining.WithLabelValues("tank"), 3723},
		{"not scrubbing", m.ScrubStatus.WithLabelValues("tank"), 0},
		{"last scrub", m.ScrubLastTime.WithLabelValues("tank"), 1672628645},
		{"anomalies", m.ParseAnomalies.WithLabelValues("unknown_state"), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := testutil.ToFloat64(tt.collector); got != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestUpdateDropsVanishedPools(t *testing.T) {
	m := New(prometheus.NewRegistry())
	m.Update(sampleResult())
	m.Update(zpool.Result{Pools: []*zpool.Pool{{Name: "backup"}}})

	if n := testutil.CollectAndCount(m.PoolHealth); n != 1 {
		t.Errorf("Expected 1 pool series, got %d", n)
	}
	if n := testutil.CollectAndCount(m.DriveHealth); n != 0 {
		t.Errorf("Expected drive series to be cleared, got %d", n)
	}
	if n := testutil.CollectAndCount(m.ParseAnomalies); n != 0 {
		t.Errorf("Expected anomaly series to be cleared, got %d", n)
	}
}

func TestScrapeDuringUpdateSeesWholeReport(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Update(sampleResult())

	var wg sync.WaitGroup
	stop := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-stop:
				return
			default:
				m.Update(sampleResult())
			}
		}
	}()

	for i := 0; i < 200; i++ {
		families, err := reg.Gather()
		if err != nil {
			t.Fatalf("Gather failed: %v", err)
		}
		series := 0
		for _, mf := range families {
			if mf.GetName() == "ZFS_Pool_Health" {
				series = len(mf.GetMetric())
			}
		}
		if series != 2 {
			t.Fatalf("scrape %d saw %d pool series, want 2", i, series)
		}
	}
	close(stop)
	wg.Wait()
}

func TestRender(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.Update(sampleResult())
	m.ExporterUp.Set(1)

	var buf bytes.Buffer
	if err := Render(&buf, reg); err != nil {
		t.Fatalf("Render failed: %v", err)
	}
	out := buf.String()

	for _, want := range []string{
		"# TYPE ZFS_Pool_Health gauge",
		`ZFS_Pool_Health{pool="tank"} 1`,
		`ZFS_Drive_Health{name="da1",pool="tank"} 2`,
		`ZFS_Resilver_Time_Remaining{pool="tank"} 3723`,
		`ZFS_Scrub_Last_Time{pool="tank"} 1.672628645e+09`,
		"zpool_status_exporter_up 1",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Rendered output missing %q\n%s", want, out)
		}
	}
}
