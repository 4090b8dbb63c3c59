package system

import (
	"context"
	"runtime"

	"github.com/rs/zerolog"

	"zpool-status-exporter/internal/tools"
	"zpool-status-exporter/internal/utils"
)

// SystemInfo holds detected system information
type SystemInfo struct {
	OS           string
	Platform     Platform
	HasZpool     bool
	ZpoolPath    string
	ZpoolVersion string
}

// Platform represents the detected platform type
type Platform string

const (
	PlatformLinux   Platform = "linux"
	PlatformFreeBSD Platform = "freebsd"
	PlatformMacOS   Platform = "macos"
	PlatformUnknown Platform = "unknown"
)

// Detector handles system detection
type Detector struct {
	tool   *tools.ZpoolTool
	logger zerolog.Logger
	info   *SystemInfo
}

// New creates a new system detector
func New(tool *tools.ZpoolTool, logger zerolog.Logger) *Detector {
	return &Detector{tool: tool, logger: logger}
}

// Detect performs one-time system detection
func (d *Detector) Detect(ctx context.Context) *SystemInfo {
	if d.info != nil {
		return d.info // Return cached info if already detected
	}

	info := &SystemInfo{
		OS:       runtime.GOOS,
		Platform: platformFor(runtime.GOOS),
	}

	info.HasZpool = d.tool.IsAvailable()
	if info.HasZpool {
		info.ZpoolPath = utils.LookupCommand(d.tool.Path())
		info.ZpoolVersion = d.tool.GetVersion(ctx)
		d.logger.Info().
			Str("path", info.ZpoolPath).
			Str("version", info.ZpoolVersion).
			Msg("zpool found")
	} else {
		d.logger.Warn().Str("path", d.tool.Path()).Msg("zpool not found, metrics will stay empty")
	}

	d.logger.Info().Str("os", info.OS).Str("platform", string(info.Platform)).Msg("system detection complete")

	// Cache the info
	d.info = info
	return info
}

func platformFor(goos string) Platform {
	switch goos {
	case "linux":
		return PlatformLinux
	case "freebsd":
		return PlatformFreeBSD
	case "darwin":
		return PlatformMacOS
	default:
		return PlatformUnknown
	}
}
