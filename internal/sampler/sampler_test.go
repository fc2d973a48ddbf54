package sampler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shirou/gopsutil/v4/host"
)

func newTestSampler() *Sampler {
	s := New(Config{CPUWindow: 10 * time.Millisecond, DiskPath: "/data"})
	s.now = func() time.Time { return time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC) }
	s.cpuPercent = func(ctx context.Context, window time.Duration) ([]float64, error) {
		return []float64{42.5}, nil
	}
	s.memPercent = func(ctx context.Context) (float64, error) { return 63.2, nil }
	s.diskPercent = func(ctx context.Context, path string) (float64, error) {
		if path != "/data" {
			return 0, errors.New("unexpected path " + path)
		}
		return 71, nil
	}
	s.hostInfo = func(ctx context.Context) (*host.InfoStat, error) {
		return &host.InfoStat{
			Hostname:        "node-7",
			Uptime:          3600,
			OS:              "linux",
			KernelVersion:   "6.8.0",
			Platform:        "ubuntu",
			PlatformVersion: "24.04",
		}, nil
	}
	s.hostname = func() (string, error) { return "fallback", nil }
	return s
}

func TestSample(t *testing.T) {
	s := newTestSampler()

	snap, err := s.Sample(context.Background())
	if err != nil {
		t.Fatalf("Sample() error: %v", err)
	}
	if snap.CPUPercent != 42.5 || snap.MemPercent != 63.2 || snap.DiskPercent != 71 {
		t.Errorf("unexpected snapshot: %+v", snap)
	}
	if !snap.Timestamp.Equal(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected timestamp: %v", snap.Timestamp)
	}
}

func TestSample_Errors(t *testing.T) {
	boom := errors.New("boom")

	tests := []struct {
		name    string
		modify  func(*Sampler)
		wantErr error
	}{
		{"cpu error", func(s *Sampler) {
			s.cpuPercent = func(context.Context, time.Duration) ([]float64, error) { return nil, boom }
		}, boom},
		{"cpu empty", func(s *Sampler) {
			s.cpuPercent = func(context.Context, time.Duration) ([]float64, error) { return nil, nil }
		}, ErrNoCPUData},
		{"mem error", func(s *Sampler) {
			s.memPercent = func(context.Context) (float64, error) { return 0, boom }
		}, boom},
		{"disk error", func(s *Sampler) {
			s.diskPercent = func(context.Context, string) (float64, error) { return 0, boom }
		}, boom},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestSampler()
			tt.modify(s)
			if _, err := s.Sample(context.Background()); !errors.Is(err, tt.wantErr) {
				t.Errorf("Sample() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestFacts(t *testing.T) {
	s := newTestSampler()

	facts, err := s.Facts(context.Background())
	if err != nil {
		t.Fatalf("Facts() error: %v", err)
	}
	if facts.Hostname != "node-7" {
		t.Errorf("Hostname = %q", facts.Hostname)
	}
	if facts.OS != "linux 6.8.0 (ubuntu 24.04)" {
		t.Errorf("OS = %q", facts.OS)
	}
	if facts.Uptime != time.Hour {
		t.Errorf("Uptime = %v", facts.Uptime)
	}
}

func TestFacts_FallsBackToHostname(t *testing.T) {
	s := newTestSampler()
	s.hostInfo = func(context.Context) (*host.InfoStat, error) { return nil, errors.New("no host info") }

	facts, err := s.Facts(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if facts.Hostname != "fallback" {
		t.Errorf("Hostname = %q, want fallback", facts.Hostname)
	}
}

func TestNew_Defaults(t *testing.T) {
	s := New(Config{CPUWindow: -time.Second})
	if s.cfg.DiskPath != "/" {
		t.Errorf("DiskPath = %q", s.cfg.DiskPath)
	}
	if s.cfg.CPUWindow != 0 {
		t.Errorf("CPUWindow = %v", s.cfg.CPUWindow)
	}
}

func TestSample_RealHost(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping host sampling in short mode")
	}

	snap, err := New(Config{}).Sample(context.Background())
	if err != nil {
		t.Skipf("host sampling unavailable: %v", err)
	}
	for name, v := range map[string]float64{"cpu": snap.CPUPercent, "mem": snap.MemPercent, "disk": snap.DiskPercent} {
		if v < 0 || v > 100 {
			t.Errorf("%s percent out of range: %v", name, v)
		}
	}
}
