// Package monitor drives the sampling-and-alerting loop and the lifecycle
// notifications around it.
package monitor

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"hostpulse/internal/alerts"
	"hostpulse/internal/config"
	"hostpulse/internal/format"
	"hostpulse/internal/logger"
	"hostpulse/internal/metrics"
	"hostpulse/internal/models"
	"hostpulse/internal/notifier"
	"hostpulse/internal/sampler"
	"hostpulse/internal/worker"
)

// Task names
const (
	TaskMetrics = "metrics"
	TaskStatus  = "status"
)

// Monitor errors
var (
	ErrPanic      = errors.New("monitor panicked")
	ErrListen     = errors.New("failed to bind status listener")
	ErrServerDied = errors.New("status server stopped unexpectedly")
)

// Monitor is the high-level coordinator for sampling, alerting and notifying.
type Monitor struct {
	cfg      *config.Config
	source   sampler.Source
	hostInfo sampler.HostInfo
	notifier notifier.Notifier
	engine   *alerts.Engine
	pool     *worker.Pool
	now      func() time.Time

	state        atomic.Int32
	shutdownOnce sync.Once

	hostMu sync.RWMutex
	host   string

	httpServer *http.Server
	listener   net.Listener
	serverErr  chan error
	wg         sync.WaitGroup
}

// Option customizes a Monitor
type Option func(*Monitor)

// WithSource replaces the metrics source
func WithSource(s sampler.Source) Option {
	return func(m *Monitor) { m.source = s }
}

// WithHostInfo replaces the host facts provider
func WithHostInfo(h sampler.HostInfo) Option {
	return func(m *Monitor) { m.hostInfo = h }
}

// WithNotifier replaces the notification sink chosen from config
func WithNotifier(n notifier.Notifier) Option {
	return func(m *Monitor) { m.notifier = n }
}

// WithClock replaces the clock used for cooldown decisions
func WithClock(now func() time.Time) Option {
	return func(m *Monitor) { m.now = now }
}

// New constructs a Monitor with the given config.
func New(cfg *config.Config, opts ...Option) (*Monitor, error) {
	m := &Monitor{
		cfg:       cfg,
		now:       time.Now,
		serverErr: make(chan error, 1),
	}
	for _, opt := range opts {
		opt(m)
	}

	if m.source == nil || m.hostInfo == nil {
		s := sampler.New(sampler.Config{
			CPUWindow: cfg.Sampler.CPUWindow,
			DiskPath:  cfg.Sampler.DiskPath,
		})
		if m.source == nil {
			m.source = s
		}
		if m.hostInfo == nil {
			m.hostInfo = s
		}
	}

	if m.notifier == nil {
		n, err := notifier.New(cfg)
		if err != nil {
			return nil, err
		}
		m.notifier = n
	}

	m.engine = alerts.NewEngine(cfg.Thresholds, cfg.Monitor.AlertCooldown)

	tasks := []worker.Task{{
		Name:           TaskMetrics,
		Interval:       cfg.Monitor.Interval,
		RunImmediately: true,
		Run:            m.metricsTick,
	}}
	if m.notifying() {
		tasks = append(tasks, worker.Task{
			Name:     TaskStatus,
			Interval: cfg.Monitor.StatusPushInterval,
			Run:      m.statusTick,
		})
	}
	m.pool = worker.NewPool(worker.Config{
		Tasks:       tasks,
		TickTimeout: cfg.Monitor.TickTimeout,
	})

	m.setState(StateInitializing)
	return m, nil
}

// Run starts the periodic tasks and blocks until ctx is cancelled or a
// fatal error occurs. It returns nil after a graceful stop.
func (m *Monitor) Run(ctx context.Context) (err error) {
	log := logger.WithComponent("monitor")

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("monitor panic recovered")
			metrics.PanicsRecovered.WithLabelValues("monitor").Inc()
			err = fmt.Errorf("%w: %v", ErrPanic, r)
			m.shutdown()
		}
	}()

	log.Info().
		Dur("interval", m.cfg.Monitor.Interval).
		Str("notifier", m.notifier.Name()).
		Float64("cpu_threshold", m.cfg.Thresholds.CPU).
		Float64("mem_threshold", m.cfg.Thresholds.Mem).
		Float64("disk_threshold", m.cfg.Thresholds.Disk).
		Dur("alert_cooldown", m.engine.Cooldown()).
		Msg("monitor starting")

	if err := m.startHTTPServer(); err != nil {
		log.Error().Err(err).Msg("failed to start status server")
		m.closeNotifier()
		m.setState(StateStopped)
		return err
	}

	// Already stopped: skip the startup messages and go straight to shutdown.
	if ctx.Err() == nil {
		m.startup(ctx)
	}

	m.pool.Start(ctx)
	m.setState(StateRunning)

	select {
	case <-ctx.Done():
		log.Info().Msg("shutdown signal received")
	case serr := <-m.serverErr:
		log.Error().Err(serr).Msg("status server failed")
		err = serr
	}

	m.shutdown()
	return err
}

// State returns the current lifecycle state
func (m *Monitor) State() State {
	return State(m.state.Load())
}

func (m *Monitor) setState(s State) {
	m.state.Store(int32(s))
	metrics.MonitorState.Set(float64(s))
}

func (m *Monitor) notifying() bool {
	return !notifier.IsNop(m.notifier)
}

// startup sends the optional startup message and one immediate status push.
// Failures here are logged and never stop the monitor.
func (m *Monitor) startup(ctx context.Context) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.cfg.Monitor.TickTimeout)
	defer cancel()

	facts := m.facts(ctx)

	if m.cfg.Notify.Startup && m.notifying() {
		text := format.Startup(facts.Hostname, facts.OS, facts.Uptime, m.cfg.Monitor.Interval)
		notifier.Deliver(ctx, m.notifier, notifier.KindStartup, text)
	}

	if m.notifying() {
		if err := m.pushStatus(ctx); err != nil {
			log := logger.WithComponent("monitor")
			log.Warn().Err(err).Msg("initial status push failed")
		}
	}
}

// shutdown stops the tasks, sends the shutdown message once and releases
// the HTTP listener and notifier.
func (m *Monitor) shutdown() {
	m.shutdownOnce.Do(func() {
		log := logger.WithComponent("monitor")
		log.Info().Msg("initiating graceful shutdown")
		m.setState(StateStopping)

		m.pool.Stop()

		if m.cfg.Notify.Shutdown && m.notifying() {
			ctx, cancel := context.WithTimeout(context.Background(), m.cfg.Monitor.TickTimeout)
			notifier.Deliver(ctx, m.notifier, notifier.KindShutdown, format.Shutdown(m.hostname(ctx)))
			cancel()
		}

		m.stopHTTPServer()
		m.closeNotifier()
		m.wg.Wait()

		m.setState(StateStopped)
		log.Info().Msg("monitor stopped")
	})
}

func (m *Monitor) closeNotifier() {
	if c, ok := m.notifier.(io.Closer); ok {
		if err := c.Close(); err != nil {
			log := logger.WithComponent("monitor")
			log.Error().Err(err).Msg("notifier close error")
		}
	}
}

// metricsTick samples the host, logs and exports the values, and alerts
// on thresholds outside of cooldown.
func (m *Monitor) metricsTick(ctx context.Context) error {
	log := logger.WithComponent("monitor")

	snap, err := m.source.Sample(ctx)
	if err != nil {
		return err
	}

	log.Info().
		Float64("cpu", snap.CPUPercent).
		Float64("mem", snap.MemPercent).
		Float64("disk", snap.DiskPercent).
		Msg(format.MetricsLine(snap))

	for _, metric := range models.Metrics {
		metrics.HostUsagePercent.WithLabelValues(metric.Resource()).Set(snap.Value(metric))
	}

	for _, ev := range m.engine.Evaluate(snap, m.now()) {
		log.Warn().
			Str("alert_id", ev.ID).
			Str("metric", string(ev.Metric)).
			Float64("value", ev.Value).
			Float64("threshold", ev.Threshold).
			Msgf("ALERT: %s %.1f%% > %.1f%%", ev.Metric, ev.Value, ev.Threshold)

		if m.notifying() {
			notifier.Deliver(ctx, m.notifier, notifier.KindAlert, format.Alert(ev.Metric, ev.Value, ev.Threshold))
		}
	}
	return nil
}

// statusTick pushes a full status message
func (m *Monitor) statusTick(ctx context.Context) error {
	return m.pushStatus(ctx)
}

func (m *Monitor) pushStatus(ctx context.Context) error {
	snap, err := m.source.Sample(ctx)
	if err != nil {
		return fmt.Errorf("status sample: %w", err)
	}
	facts := m.facts(ctx)
	notifier.Deliver(ctx, m.notifier, notifier.KindStatus, format.Status(format.StatusInput{
		Snapshot: snap,
		Host:     facts,
	}))
	return nil
}

// facts reads host facts, logging failures and keeping whatever was read
func (m *Monitor) facts(ctx context.Context) models.HostFacts {
	facts, err := m.hostInfo.Facts(ctx)
	if err != nil {
		log := logger.WithComponent("monitor")
		log.Warn().Err(err).Msg("failed to read host facts")
	}
	if facts.Hostname == "" {
		facts.Hostname = "unknown"
	}
	if facts.OS == "" {
		facts.OS = "unknown"
	}

	m.hostMu.Lock()
	m.host = facts.Hostname
	m.hostMu.Unlock()
	return facts
}

// hostname returns the last known hostname, reading facts if none is cached
func (m *Monitor) hostname(ctx context.Context) string {
	m.hostMu.RLock()
	host := m.host
	m.hostMu.RUnlock()
	if host != "" {
		return host
	}
	return m.facts(ctx).Hostname
}
