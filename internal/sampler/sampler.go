// Package sampler reads CPU, memory and disk usage from the host via gopsutil.
package sampler

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"hostpulse/internal/models"
)

// Sampler errors
var (
	ErrNoCPUData = errors.New("cpu sampler returned no data")
)

// Source produces a fresh snapshot of host usage. It may block for the
// CPU smoothing window.
type Source interface {
	Sample(ctx context.Context) (models.Snapshot, error)
}

// HostInfo describes the host for lifecycle and status messages.
type HostInfo interface {
	Facts(ctx context.Context) (models.HostFacts, error)
}

// Config holds sampler configuration
type Config struct {
	// CPUWindow is how long CPU usage is averaged over. Zero compares
	// against the previous call.
	CPUWindow time.Duration
	// DiskPath is the mount point whose usage is reported.
	DiskPath string
}

// Sampler implements Source and HostInfo on top of gopsutil.
type Sampler struct {
	cfg Config
	now func() time.Time

	// Overridable for testing.
	cpuPercent  func(ctx context.Context, window time.Duration) ([]float64, error)
	memPercent  func(ctx context.Context) (float64, error)
	diskPercent func(ctx context.Context, path string) (float64, error)
	hostInfo    func(ctx context.Context) (*host.InfoStat, error)
	hostname    func() (string, error)
}

// New creates a gopsutil-backed sampler
func New(cfg Config) *Sampler {
	if cfg.DiskPath == "" {
		cfg.DiskPath = "/"
	}
	if cfg.CPUWindow < 0 {
		cfg.CPUWindow = 0
	}

	return &Sampler{
		cfg: cfg,
		now: time.Now,
		cpuPercent: func(ctx context.Context, window time.Duration) ([]float64, error) {
			return cpu.PercentWithContext(ctx, window, false)
		},
		memPercent: func(ctx context.Context) (float64, error) {
			v, err := mem.VirtualMemoryWithContext(ctx)
			if err != nil {
				return 0, err
			}
			return v.UsedPercent, nil
		},
		diskPercent: func(ctx context.Context, path string) (float64, error) {
			u, err := disk.UsageWithContext(ctx, path)
			if err != nil {
				return 0, err
			}
			return u.UsedPercent, nil
		},
		hostInfo: host.InfoWithContext,
		hostname: os.Hostname,
	}
}

// Sample reads CPU, memory and disk usage. Any failure fails the whole
// sample so a partial snapshot is never evaluated against thresholds.
func (s *Sampler) Sample(ctx context.Context) (models.Snapshot, error) {
	cpuPcts, err := s.cpuPercent(ctx, s.cfg.CPUWindow)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("sample cpu: %w", err)
	}
	if len(cpuPcts) == 0 {
		return models.Snapshot{}, ErrNoCPUData
	}

	memPct, err := s.memPercent(ctx)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("sample memory: %w", err)
	}

	diskPct, err := s.diskPercent(ctx, s.cfg.DiskPath)
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("sample disk %s: %w", s.cfg.DiskPath, err)
	}

	return models.Snapshot{
		CPUPercent:  cpuPcts[0],
		MemPercent:  memPct,
		DiskPercent: diskPct,
		Timestamp:   s.now(),
	}, nil
}

// Facts returns hostname, OS description and uptime. When host info is
// unavailable the hostname still falls back to os.Hostname.
func (s *Sampler) Facts(ctx context.Context) (models.HostFacts, error) {
	info, err := s.hostInfo(ctx)
	if err != nil {
		name, herr := s.hostname()
		if herr != nil {
			name = "unknown"
		}
		return models.HostFacts{Hostname: name, OS: "unknown"}, fmt.Errorf("read host info: %w", err)
	}

	facts := models.HostFacts{
		Hostname: info.Hostname,
		OS:       describeOS(info),
		Uptime:   time.Duration(info.Uptime) * time.Second,
	}
	if facts.Hostname == "" {
		if name, err := s.hostname(); err == nil {
			facts.Hostname = name
		}
	}
	return facts, nil
}

// describeOS renders "linux 6.8.0 (ubuntu 24.04)" style descriptions.
func describeOS(info *host.InfoStat) string {
	desc := strings.TrimSpace(info.OS + " " + info.KernelVersion)
	if info.Platform != "" {
		platform := strings.TrimSpace(info.Platform + " " + info.PlatformVersion)
		if desc == "" {
			return platform
		}
		desc = fmt.Sprintf("%s (%s)", desc, platform)
	}
	if desc == "" {
		return "unknown"
	}
	return desc
}
