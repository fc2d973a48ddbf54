// Package format renders snapshots, alerts and lifecycle events as
// human-readable text. Messages use Telegram's HTML parse mode. Every
// function is pure: identical inputs always produce identical output.
package format

import (
	"fmt"
	"html"
	"strings"
	"time"

	"hostpulse/internal/models"
)

// TimeLayout is used for every timestamp rendered in a message.
const TimeLayout = "2006-01-02 15:04:05"

// Band is a coarse severity bucket for a usage percentage.
type Band int

const (
	BandLow Band = iota
	BandMedium
	BandHigh
)

func (b Band) String() string {
	switch b {
	case BandLow:
		return "low"
	case BandMedium:
		return "medium"
	case BandHigh:
		return "high"
	default:
		return "unknown"
	}
}

// Marker returns the emoji shown next to a metric in the status message.
func (b Band) Marker() string {
	switch b {
	case BandLow:
		return "🟢"
	case BandMedium:
		return "🟡"
	default:
		return "🔴"
	}
}

// BandFor buckets a percentage. 50 and 75 belong to the lower band.
func BandFor(value float64) Band {
	switch {
	case value <= 50:
		return BandLow
	case value <= 75:
		return BandMedium
	default:
		return BandHigh
	}
}

// Label returns the display name of a metric.
func Label(m models.Metric) string {
	switch m {
	case models.MetricCPU:
		return "CPU"
	case models.MetricMem:
		return "RAM"
	case models.MetricDisk:
		return "Disk"
	default:
		return string(m)
	}
}

// Alert formats a threshold breach.
func Alert(metric models.Metric, value, threshold float64) string {
	return fmt.Sprintf(
		"⚠️ <b>System Monitor Alert</b>\nMetric: <b>%s</b>\nValue: <b>%.1f%%</b> (threshold: %.1f%%)",
		html.EscapeString(string(metric)), value, threshold,
	)
}

// StatusInput carries everything the status message shows.
type StatusInput struct {
	Snapshot models.Snapshot
	Host     models.HostFacts
}

// Status formats a full system status message.
func Status(in StatusInput) string {
	var b strings.Builder
	b.WriteString("📊 <b>System Status</b>\n")
	fmt.Fprintf(&b, "Host: <b>%s</b>\n", html.EscapeString(in.Host.Hostname))
	fmt.Fprintf(&b, "Time: %s UTC\n", in.Snapshot.Timestamp.UTC().Format(TimeLayout))
	fmt.Fprintf(&b, "Uptime: %s\n", Uptime(in.Host.Uptime))
	b.WriteString("\n")

	for i, m := range models.Metrics {
		v := in.Snapshot.Value(m)
		band := BandFor(v)
		fmt.Fprintf(&b, "%s %s: <b>%.1f%%</b> (%s)", band.Marker(), Label(m), v, band)
		if i < len(models.Metrics)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// Startup formats the one-time message sent when the monitor starts.
func Startup(host, osName string, uptime, interval time.Duration) string {
	return fmt.Sprintf(
		"🟢 <b>System Monitor started</b>\nHost: <b>%s</b>\nOS: %s\nUptime: %s\nInterval: %ds",
		html.EscapeString(host), html.EscapeString(osName), Uptime(uptime), int64(interval/time.Second),
	)
}

// Shutdown formats the one-time message sent when the monitor stops.
func Shutdown(host string) string {
	return fmt.Sprintf("🔴 <b>System Monitor stopped</b>\nHost: <b>%s</b>", html.EscapeString(host))
}

// Uptime renders a duration as "3d 4h 5m", dropping zero parts.
// Anything under a minute renders as "0m".
func Uptime(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	days := int64(d / (24 * time.Hour))
	d -= time.Duration(days) * 24 * time.Hour
	hours := int64(d / time.Hour)
	d -= time.Duration(hours) * time.Hour
	minutes := int64(d / time.Minute)

	var parts []string
	if days > 0 {
		parts = append(parts, fmt.Sprintf("%dd", days))
	}
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}

// MetricsLine is the body of the periodic info log record.
func MetricsLine(s models.Snapshot) string {
	return fmt.Sprintf("CPU: %.1f%% | RAM: %.1f%% | Disk: %.1f%%", s.CPUPercent, s.MemPercent, s.DiskPercent)
}

// Plain renders a snapshot as a single console line.
func Plain(s models.Snapshot) string {
	return fmt.Sprintf("[%s] CPU: %.1f%% | RAM: %.1f%% | DISK: %.1f%%",
		s.Timestamp.Format(TimeLayout), s.CPUPercent, s.MemPercent, s.DiskPercent)
}
