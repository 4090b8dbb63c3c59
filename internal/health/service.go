package health

import (
	"time"

	"zpool-status-exporter/internal/collector"
	"zpool-status-exporter/internal/system"
	"zpool-status-exporter/internal/zpool"
	"zpool-status-exporter/pkg/types"
)

const serviceName = "zpool-status-exporter"

// SnapshotSource provides the most recent collection
type SnapshotSource interface {
	Snapshot() collector.Snapshot
}

// Service provides health data collection functionality
type Service struct {
	source  SnapshotSource
	sysInfo *system.SystemInfo
	version string
	now     func() time.Time
}

// New creates a new health service
func New(source SnapshotSource, sysInfo *system.SystemInfo, version string) *Service {
	return &Service{
		source:  source,
		sysInfo: sysInfo,
		version: version,
		now:     time.Now,
	}
}

// GetHealthData builds the JSON health response from the last collection
func (s *Service) GetHealthData() *types.HealthResponse {
	snap := s.source.Snapshot()

	response := &types.HealthResponse{
		Status:    "ok",
		Service:   serviceName,
		Version:   s.version,
		Timestamp: s.now().Format(time.RFC3339),
		Pools:     make([]types.PoolHealth, 0, len(snap.Pools)),
	}

	if !snap.CollectedAt.IsZero() {
		response.CollectedAt = snap.CollectedAt.Format(time.RFC3339)
	}
	if snap.LastError != nil {
		response.Status = "error"
		response.LastError = snap.LastError.Error()
	}

	if s.sysInfo != nil {
		response.SystemInfo = types.SystemInfo{
			Platform:     string(s.sysInfo.Platform),
			OS:           s.sysInfo.OS,
			ZpoolPath:    s.sysInfo.ZpoolPath,
			ZpoolVersion: s.sysInfo.ZpoolVersion,
		}
	}

	for _, pool := range snap.Pools {
		response.Pools = append(response.Pools, poolHealth(pool, &response.PoolSummary))
	}

	for _, d := range snap.Diagnostics {
		response.Anomalies = append(response.Anomalies, d.String())
	}

	if response.Status == "ok" && response.PoolSummary.DegradedPools > 0 {
		response.Status = "degraded"
	}

	return response
}

// poolHealth converts one pool and adds it to the summary counters
func poolHealth(pool *zpool.Pool, summary *types.PoolSummary) types.PoolHealth {
	ph := types.PoolHealth{
		Name:      pool.Name,
		State:     pool.State.String(),
		StateCode: int(pool.State),
		Scrub: types.ScanHealth{
			Active:           pool.Scrubbing,
			SecondsRemaining: pool.ScrubRemaining,
			LastCompleted:    pool.LastScrub,
		},
		Resilver: types.ScanHealth{
			Active:           pool.Resilvering,
			SecondsRemaining: pool.ResilverRemaining,
			LastCompleted:    pool.LastResilver,
		},
		Subpools: make([]types.SubpoolInfo, 0, len(pool.Subpools)),
	}

	summary.TotalPools++
	if pool.State == zpool.StateOnline {
		summary.HealthyPools++
	} else {
		summary.DegradedPools++
	}

	for _, sp := range pool.Subpools {
		info := types.SubpoolInfo{
			Name:   sp.Name,
			Type:   sp.Type.String(),
			State:  sp.State.String(),
			Drives: make([]types.DriveHealth, 0, len(sp.Drives)),
		}
		for _, d := range sp.Drives {
			summary.TotalDrives++
			if d.State.Health() == zpool.StateOnline {
				summary.HealthyDrives++
			} else {
				summary.FailedDrives++
			}
			info.Drives = append(info.Drives, driveHealth(d))
		}
		ph.Subpools = append(ph.Subpools, info)
	}

	for _, d := range pool.Spares {
		if d.State == zpool.StateSpareAvailable {
			summary.AvailableSpare++
		}
		ph.Spares = append(ph.Spares, driveHealth(d))
	}

	return ph
}

func driveHealth(d zpool.Drive) types.DriveHealth {
	return types.DriveHealth{
		Name:      d.Name,
		State:     d.State.String(),
		StateCode: int(d.State),
		Spare:     d.Spare,
	}
}
