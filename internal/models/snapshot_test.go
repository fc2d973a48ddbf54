package models_test

import (
	"math"
	"testing"
	"time"

	"hostpulse/internal/models"
)

func TestSnapshotValue(t *testing.T) {
	s := models.Snapshot{CPUPercent: 12.5, MemPercent: 40, DiskPercent: 99.9, Timestamp: time.Now()}

	tests := []struct {
		metric models.Metric
		want   float64
	}{
		{models.MetricCPU, 12.5},
		{models.MetricMem, 40},
		{models.MetricDisk, 99.9},
		{models.Metric("GPU"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.metric), func(t *testing.T) {
			if got := s.Value(tt.metric); got != tt.want {
				t.Errorf("Value(%s) = %v, want %v", tt.metric, got, tt.want)
			}
		})
	}
}

func TestMetricIsValid(t *testing.T) {
	for _, m := range models.Metrics {
		if !m.IsValid() {
			t.Errorf("expected %s to be valid", m)
		}
	}

	invalid := []models.Metric{"", "cpu", "RAM", "SWAP"}
	for _, m := range invalid {
		if m.IsValid() {
			t.Errorf("expected %q to be invalid", m)
		}
	}
}

func TestThresholdSetValidate(t *testing.T) {
	tests := []struct {
		name    string
		set     models.ThresholdSet
		wantErr error
	}{
		{"defaults", models.ThresholdSet{CPU: 85, Mem: 90, Disk: 90}, nil},
		{"out of range still allowed", models.ThresholdSet{CPU: -5, Mem: 150, Disk: 0}, nil},
		{"nan", models.ThresholdSet{CPU: math.NaN(), Mem: 90, Disk: 90}, models.ErrThresholdNotFinite},
		{"inf", models.ThresholdSet{CPU: 85, Mem: 90, Disk: math.Inf(1)}, models.ErrThresholdNotFinite},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.set.Validate(); err != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNewAlertEvent(t *testing.T) {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	a := models.NewAlertEvent(models.MetricCPU, 92.3, 85, now)
	b := models.NewAlertEvent(models.MetricCPU, 92.3, 85, now)

	if a.ID == "" || a.ID == b.ID {
		t.Errorf("expected unique non-empty IDs, got %q and %q", a.ID, b.ID)
	}
	if a.Metric != models.MetricCPU || a.Value != 92.3 || a.Threshold != 85 || !a.FiredAt.Equal(now) {
		t.Errorf("unexpected event: %+v", a)
	}
}
