package models

import (
	"errors"
	"math"
	"time"
)

// Metric identifies one of the sampled host resources
type Metric string

const (
	MetricCPU  Metric = "CPU"
	MetricMem  Metric = "MEM"
	MetricDisk Metric = "DISK"
)

// Metrics lists every metric in evaluation order
var Metrics = []Metric{MetricCPU, MetricMem, MetricDisk}

// IsValid checks if the metric is one of the known resources
func (m Metric) IsValid() bool {
	switch m {
	case MetricCPU, MetricMem, MetricDisk:
		return true
	default:
		return false
	}
}

// Resource returns the lower-case label used for metrics and log fields
func (m Metric) Resource() string {
	switch m {
	case MetricCPU:
		return "cpu"
	case MetricMem:
		return "mem"
	case MetricDisk:
		return "disk"
	default:
		return "unknown"
	}
}

// Snapshot is a single point-in-time sample of host resource usage.
// Values are percentages and are compared as given, even outside 0-100.
type Snapshot struct {
	CPUPercent  float64   `json:"cpu_percent"`
	MemPercent  float64   `json:"mem_percent"`
	DiskPercent float64   `json:"disk_percent"`
	Timestamp   time.Time `json:"timestamp"`
}

// Value returns the sampled value for the given metric
func (s Snapshot) Value(m Metric) float64 {
	switch m {
	case MetricCPU:
		return s.CPUPercent
	case MetricMem:
		return s.MemPercent
	case MetricDisk:
		return s.DiskPercent
	default:
		return 0
	}
}

// Threshold validation errors
var (
	ErrThresholdNotFinite = errors.New("threshold must be a finite number")
)

// ThresholdSet holds the per-metric alert thresholds loaded at startup
type ThresholdSet struct {
	CPU  float64 `json:"cpu"`
	Mem  float64 `json:"mem"`
	Disk float64 `json:"disk"`
}

// For returns the threshold configured for the given metric
func (t ThresholdSet) For(m Metric) float64 {
	switch m {
	case MetricCPU:
		return t.CPU
	case MetricMem:
		return t.Mem
	case MetricDisk:
		return t.Disk
	default:
		return math.Inf(1)
	}
}

// Validate rejects NaN and infinite thresholds
func (t ThresholdSet) Validate() error {
	for _, m := range Metrics {
		v := t.For(m)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return ErrThresholdNotFinite
		}
	}
	return nil
}
