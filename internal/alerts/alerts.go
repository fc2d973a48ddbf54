package alerts

import (
	"sync"
	"time"

	"hostpulse/internal/metrics"
	"hostpulse/internal/models"
)

// Rule defines a simple threshold-based alert rule.
type Rule struct {
	Name      models.Metric
	Threshold float64
}

// Breached reports whether value is strictly above the rule's threshold.
func (r Rule) Breached(value float64) bool {
	return value > r.Threshold
}

// Rules returns one rule per metric, in evaluation order.
func Rules(t models.ThresholdSet) []Rule {
	rules := make([]Rule, 0, len(models.Metrics))
	for _, m := range models.Metrics {
		rules = append(rules, Rule{Name: m, Threshold: t.For(m)})
	}
	return rules
}

// CooldownState maps a metric to the instant its last alert fired.
// A missing key means the metric has never alerted.
type CooldownState map[models.Metric]time.Time

// Evaluate checks every metric of the snapshot against its threshold and
// returns an event for each breach that is not in cooldown. The instant of
// every emitted event is recorded in state. A nil state behaves as an empty
// one and records nothing.
func Evaluate(snap models.Snapshot, thresholds models.ThresholdSet, state CooldownState, cooldown time.Duration, now time.Time) []models.AlertEvent {
	events, _ := evaluate(snap, thresholds, state, cooldown, now)
	return events
}

func evaluate(snap models.Snapshot, thresholds models.ThresholdSet, state CooldownState, cooldown time.Duration, now time.Time) (fired []models.AlertEvent, suppressed []models.Metric) {
	for _, rule := range Rules(thresholds) {
		value := snap.Value(rule.Name)
		if !rule.Breached(value) {
			continue
		}

		if last, ok := state[rule.Name]; ok && now.Sub(last) < cooldown {
			suppressed = append(suppressed, rule.Name)
			continue
		}

		if state != nil {
			state[rule.Name] = now
		}
		fired = append(fired, models.NewAlertEvent(rule.Name, value, rule.Threshold, now))
	}
	return fired, suppressed
}

// Engine owns the cooldown state for one monitor.
type Engine struct {
	thresholds models.ThresholdSet
	cooldown   time.Duration

	mu    sync.Mutex
	state CooldownState
}

// NewEngine creates an engine with an empty cooldown state.
func NewEngine(thresholds models.ThresholdSet, cooldown time.Duration) *Engine {
	if cooldown < 0 {
		cooldown = 0
	}
	for _, m := range models.Metrics {
		metrics.ThresholdPercent.WithLabelValues(m.Resource()).Set(thresholds.For(m))
	}
	return &Engine{
		thresholds: thresholds,
		cooldown:   cooldown,
		state:      make(CooldownState),
	}
}

// Evaluate runs the threshold check for snap at now, updating cooldowns.
func (e *Engine) Evaluate(snap models.Snapshot, now time.Time) []models.AlertEvent {
	e.mu.Lock()
	fired, suppressed := evaluate(snap, e.thresholds, e.state, e.cooldown, now)
	e.mu.Unlock()

	// Suppressed breaches are counted but never logged.
	for _, m := range suppressed {
		metrics.AlertsSuppressedTotal.WithLabelValues(m.Resource()).Inc()
	}
	for _, ev := range fired {
		metrics.AlertsFiredTotal.WithLabelValues(ev.Metric.Resource()).Inc()
	}
	return fired
}

// LastAlert returns when the metric last fired, if ever.
func (e *Engine) LastAlert(m models.Metric) (time.Time, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	t, ok := e.state[m]
	return t, ok
}

// Cooldowns returns a copy of the cooldown state.
func (e *Engine) Cooldowns() CooldownState {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(CooldownState, len(e.state))
	for k, v := range e.state {
		out[k] = v
	}
	return out
}

// Thresholds returns the configured threshold set.
func (e *Engine) Thresholds() models.ThresholdSet { return e.thresholds }

// Cooldown returns the configured cooldown period.
func (e *Engine) Cooldown() time.Duration { return e.cooldown }
