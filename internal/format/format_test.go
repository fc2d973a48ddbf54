package format

import (
	"strings"
	"testing"
	"time"

	"hostpulse/internal/models"
)

func TestAlert(t *testing.T) {
	got := Alert(models.MetricCPU, 92.3, 85.0)
	want := "⚠️ <b>System Monitor Alert</b>\nMetric: <b>CPU</b>\nValue: <b>92.3%</b> (threshold: 85.0%)"
	if got != want {
		t.Errorf("Alert() = %q, want %q", got, want)
	}

	// Deterministic for identical inputs.
	for i := 0; i < 10; i++ {
		if again := Alert(models.MetricCPU, 92.3, 85.0); again != got {
			t.Fatalf("Alert() not deterministic: %q != %q", again, got)
		}
	}

	for _, part := range []string{"CPU", "92.3", "85.0"} {
		if !strings.Contains(got, part) {
			t.Errorf("Alert() missing %q", part)
		}
	}
}

func TestBandFor(t *testing.T) {
	tests := []struct {
		value float64
		want  Band
	}{
		{0, BandLow},
		{50, BandLow},
		{50.01, BandMedium},
		{51, BandMedium},
		{75, BandMedium},
		{75.01, BandHigh},
		{76, BandHigh},
		{100, BandHigh},
		{-3, BandLow},
		{130, BandHigh},
	}

	for _, tt := range tests {
		if got := BandFor(tt.value); got != tt.want {
			t.Errorf("BandFor(%v) = %s, want %s", tt.value, got, tt.want)
		}
	}
}

func TestBandString(t *testing.T) {
	if BandLow.String() != "low" || BandMedium.String() != "medium" || BandHigh.String() != "high" {
		t.Errorf("unexpected band names: %s %s %s", BandLow, BandMedium, BandHigh)
	}
	if Band(42).String() != "unknown" {
		t.Errorf("Band(42).String() = %q", Band(42).String())
	}
}

func TestStatus(t *testing.T) {
	in := StatusInput{
		Snapshot: models.Snapshot{
			CPUPercent:  12,
			MemPercent:  60.4,
			DiskPercent: 80,
			Timestamp:   time.Date(2026, 3, 4, 5, 6, 7, 0, time.UTC),
		},
		Host: models.HostFacts{
			Hostname: "web-1",
			OS:       "linux 6.1.0",
			Uptime:   26*time.Hour + 5*time.Minute + 30*time.Second,
		},
	}

	want := "📊 <b>System Status</b>\n" +
		"Host: <b>web-1</b>\n" +
		"Time: 2026-03-04 05:06:07 UTC\n" +
		"Uptime: 1d 2h 5m\n" +
		"\n" +
		"🟢 CPU: <b>12.0%</b> (low)\n" +
		"🟡 RAM: <b>60.4%</b> (medium)\n" +
		"🔴 Disk: <b>80.0%</b> (high)"

	if got := Status(in); got != want {
		t.Errorf("Status() =\n%s\nwant\n%s", got, want)
	}
}

func TestStatusEscapesHostname(t *testing.T) {
	got := Status(StatusInput{Host: models.HostFacts{Hostname: "<evil>&co"}})
	if !strings.Contains(got, "&lt;evil&gt;&amp;co") {
		t.Errorf("hostname not escaped: %q", got)
	}
}

func TestStartupAndShutdown(t *testing.T) {
	got := Startup("db-2", "linux 6.8.0", 3*time.Minute, 10*time.Second)
	want := "🟢 <b>System Monitor started</b>\nHost: <b>db-2</b>\nOS: linux 6.8.0\nUptime: 3m\nInterval: 10s"
	if got != want {
		t.Errorf("Startup() = %q, want %q", got, want)
	}

	got = Shutdown("db-2")
	want = "🔴 <b>System Monitor stopped</b>\nHost: <b>db-2</b>"
	if got != want {
		t.Errorf("Shutdown() = %q, want %q", got, want)
	}
}

func TestUptime(t *testing.T) {
	tests := []struct {
		in   time.Duration
		want string
	}{
		{0, "0m"},
		{59 * time.Second, "0m"},
		{time.Minute, "1m"},
		{2 * time.Hour, "2h"},
		{49*time.Hour + 3*time.Minute, "2d 1h 3m"},
		{72 * time.Hour, "3d"},
		{-time.Hour, "0m"},
	}

	for _, tt := range tests {
		if got := Uptime(tt.in); got != tt.want {
			t.Errorf("Uptime(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMetricsLineAndPlain(t *testing.T) {
	s := models.Snapshot{
		CPUPercent:  1.24,
		MemPercent:  40,
		DiskPercent: 70.06,
		Timestamp:   time.Date(2026, 10, 19, 8, 0, 0, 0, time.UTC),
	}

	if got, want := MetricsLine(s), "CPU: 1.2% | RAM: 40.0% | Disk: 70.1%"; got != want {
		t.Errorf("MetricsLine() = %q, want %q", got, want)
	}
	if got, want := Plain(s), "[2026-10-19 08:00:00] CPU: 1.2% | RAM: 40.0% | DISK: 70.1%"; got != want {
		t.Errorf("Plain() = %q, want %q", got, want)
	}
}
