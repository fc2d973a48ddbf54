package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Host usage metrics
	HostUsagePercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hostpulse_host_usage_percent",
			Help: "Most recently sampled resource usage in percent",
		},
		[]string{"resource"}, // resource: cpu, mem, disk
	)

	ThresholdPercent = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "hostpulse_threshold_percent",
			Help: "Configured alert threshold in percent",
		},
		[]string{"resource"},
	)

	// Alert metrics
	AlertsFiredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_alerts_fired_total",
			Help: "Total number of threshold alerts emitted",
		},
		[]string{"metric"},
	)

	AlertsSuppressedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_alerts_suppressed_total",
			Help: "Total number of threshold breaches suppressed by cooldown",
		},
		[]string{"metric"},
	)

	// Scheduler metrics
	TicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_ticks_total",
			Help: "Total number of periodic task ticks",
		},
		[]string{"task", "status"}, // status: success, failed, panic
	)

	TickDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostpulse_tick_duration_seconds",
			Help:    "Time taken by a single periodic task tick",
			Buckets: []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"task"},
	)

	MonitorState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "hostpulse_monitor_state",
			Help: "Lifecycle state: 0 initializing, 1 running, 2 stopping, 3 stopped",
		},
	)

	// Notification metrics
	NotificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_notifications_total",
			Help: "Total number of notification attempts",
		},
		[]string{"kind", "status"}, // kind: startup, status, alert, shutdown
	)

	NotificationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostpulse_notification_duration_seconds",
			Help:    "Time taken to deliver a notification",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"backend"},
	)

	KafkaPublishRetries = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "hostpulse_kafka_publish_retries_total",
			Help: "Total number of Kafka publish retries",
		},
	)

	// HTTP metrics
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "hostpulse_http_request_duration_seconds",
			Help:    "HTTP request latency in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"method", "endpoint", "status"},
	)

	// Panic recovery
	PanicsRecovered = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hostpulse_panics_recovered_total",
			Help: "Total number of panics recovered",
		},
		[]string{"component"},
	)
)
