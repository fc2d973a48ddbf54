package models

import (
	"time"

	"github.com/google/uuid"
)

// AlertEvent is emitted when a metric crosses its threshold outside of cooldown
type AlertEvent struct {
	ID        string    `json:"id"`
	Metric    Metric    `json:"metric"`
	Value     float64   `json:"value"`
	Threshold float64   `json:"threshold"`
	FiredAt   time.Time `json:"fired_at"`
}

// NewAlertEvent creates an alert event with a fresh ID
func NewAlertEvent(metric Metric, value, threshold float64, firedAt time.Time) AlertEvent {
	return AlertEvent{
		ID:        uuid.New().String(),
		Metric:    metric,
		Value:     value,
		Threshold: threshold,
		FiredAt:   firedAt,
	}
}
