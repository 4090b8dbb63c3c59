package tools

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"zpool-status-exporter/internal/utils"
)

// ErrNotAvailable is returned when the zpool binary cannot be found
var ErrNotAvailable = errors.New("zpool command not available")

// Runner executes a command and returns its stdout
type Runner func(ctx context.Context, name string, args ...string) (string, error)

// ZpoolTool represents the zpool CLI tool for ZFS management
type ZpoolTool struct {
	path   string
	run    Runner
	lookup func(string) bool
}

// NewZpoolTool creates a new ZpoolTool instance. An empty path means
// "zpool" resolved through PATH.
func NewZpoolTool(path string) *ZpoolTool {
	if path == "" {
		path = "zpool"
	}
	return &ZpoolTool{
		path:   path,
		run:    utils.RunCommand,
		lookup: utils.CommandExists,
	}
}

// WithRunner replaces the command runner, used by tests to feed canned output
func (z *ZpoolTool) WithRunner(run Runner) *ZpoolTool {
	z.run = run
	z.lookup = func(string) bool { return true }
	return z
}

// IsAvailable checks if zpool is available on the system
func (z *ZpoolTool) IsAvailable() bool {
	return z.lookup(z.path)
}

// GetVersion returns the zpool version
func (z *ZpoolTool) GetVersion(ctx context.Context) string {
	if !z.IsAvailable() {
		return ""
	}

	out, err := z.run(ctx, z.path, "version")
	if err != nil {
		return "unknown"
	}
	return firstLine(out)
}

// GetName returns the tool name
func (z *ZpoolTool) GetName() string {
	return "zpool"
}

// Path returns the binary the tool invokes
func (z *ZpoolTool) Path() string {
	return z.path
}

// Status runs "zpool status" and returns its output
func (z *ZpoolTool) Status(ctx context.Context) (string, error) {
	if !z.IsAvailable() {
		return "", fmt.Errorf("%w: %s", ErrNotAvailable, z.path)
	}

	out, err := z.run(ctx, z.path, "status")
	if err != nil {
		return "", fmt.Errorf("zpool status: %w", err)
	}
	return out, nil
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return strings.TrimSpace(line)
}
