package system

import (
	"context"
	"runtime"
	"testing"

	"github.com/rs/zerolog"

	"zpool-status-exporter/internal/tools"
)

func TestDetect(t *testing.T) {
	tool := tools.NewZpoolTool("").WithRunner(func(ctx context.Context, name string, args ...string) (string, error) {
		return "zfs-2.2.2-1\n", nil
	})

	d := New(tool, zerolog.Nop())
	info := d.Detect(context.Background())

	if info.OS != runtime.GOOS {
		t.Errorf("Expected OS %s, got %s", runtime.GOOS, info.OS)
	}
	if !info.HasZpool || info.ZpoolVersion != "zfs-2.2.2-1" {
		t.Errorf("Unexpected zpool detection %+v", info)
	}

	// Second call returns the cached value
	if again := d.Detect(context.Background()); again != info {
		t.Error("Expected cached SystemInfo")
	}
}

func TestDetectWithoutZpool(t *testing.T) {
	d := New(tools.NewZpoolTool("definitely_does_not_exist_zpool_12345"), zerolog.Nop())
	info := d.Detect(context.Background())

	if info.HasZpool || info.ZpoolVersion != "" {
		t.Errorf("Expected no zpool, got %+v", info)
	}
}

func TestPlatformFor(t *testing.T) {
	tests := map[string]Platform{
		"linux":   PlatformLinux,
		"freebsd": PlatformFreeBSD,
		"darwin":  PlatformMacOS,
		"plan9":   PlatformUnknown,
	}
	for goos, want := range tests {
		if got := platformFor(goos); got != want {
			t.Errorf("platformFor(%s) = %s, want %s", goos, got, want)
		}
	}
}
