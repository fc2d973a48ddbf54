package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"hostpulse/internal/config"
	"hostpulse/internal/models"
	"hostpulse/internal/sampler"
)

type stubSampler struct {
	snap models.Snapshot
}

func (s stubSampler) Sample(ctx context.Context) (models.Snapshot, error) { return s.snap, nil }

func (s stubSampler) Facts(ctx context.Context) (models.HostFacts, error) {
	return models.HostFacts{Hostname: "web-1", OS: "linux"}, nil
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	missing := filepath.Join(t.TempDir(), "missing.env")
	cmd.SetArgs(append(args, "--env-file", missing))
	err := cmd.Execute()
	return out.String(), err
}

func stubSamplerFor(t *testing.T, snap models.Snapshot) {
	t.Helper()
	orig := newSampler
	newSampler = func(cfg *config.Config) interface {
		sampler.Source
		sampler.HostInfo
	} {
		return stubSampler{snap: snap}
	}
	t.Cleanup(func() { newSampler = orig })
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version error: %v", err)
	}
	if !strings.Contains(out, "Version:  "+Version) {
		t.Errorf("unexpected output: %q", out)
	}
}

func TestConfigCommand_RedactsToken(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "123456:supersecret")
	t.Setenv("INTERVAL_SECONDS", "15")

	out, err := execute(t, "config")
	if err != nil {
		t.Fatalf("config error: %v", err)
	}
	if strings.Contains(out, "supersecret") {
		t.Error("bot token leaked in config output")
	}
	if !strings.Contains(out, "****cret") {
		t.Errorf("expected redacted token, got %q", out)
	}
	if !strings.Contains(out, "INTERVAL_SECONDS") || !strings.Contains(out, "15") {
		t.Errorf("expected interval in output, got %q", out)
	}
}

func TestConfigCommand_InvalidValue(t *testing.T) {
	t.Setenv("CPU_THRESHOLD", "lots")

	if _, err := execute(t, "config"); err == nil {
		t.Fatal("expected error for invalid threshold")
	}
}

func TestConfigCommand_EnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("DISK_PATH=/data\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { os.Unsetenv("DISK_PATH") })

	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"config", "--env-file", path})
	if err := cmd.Execute(); err != nil {
		t.Fatalf("config error: %v", err)
	}
	if !strings.Contains(out.String(), "/data") {
		t.Errorf("env file value not applied: %q", out.String())
	}
}

func TestCheckCommand(t *testing.T) {
	stubSamplerFor(t, models.Snapshot{
		CPUPercent:  91.2,
		MemPercent:  40,
		DiskPercent: 12.5,
		Timestamp:   time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
	})

	out, err := execute(t, "check", "--alerts")
	if err != nil {
		t.Fatalf("check error: %v", err)
	}
	if !strings.Contains(out, "CPU: 91.2%") || !strings.Contains(out, "DISK: 12.5%") {
		t.Errorf("unexpected sample line: %q", out)
	}
	if strings.Count(out, "System Monitor Alert") != 1 {
		t.Errorf("expected one alert for CPU, got %q", out)
	}
}

func TestCheckCommand_NotifyWithoutSink(t *testing.T) {
	stubSamplerFor(t, models.Snapshot{Timestamp: time.Now()})

	if _, err := execute(t, "check", "--notify"); err == nil {
		t.Fatal("expected error when no sink is enabled")
	}
}
