package worker

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"

	"hostpulse/internal/logger"
	"hostpulse/internal/metrics"
)

// ErrPanic marks a tick that ended in a recovered panic
var ErrPanic = errors.New("task panicked")

// Task is a unit of periodic work with its own cadence
type Task struct {
	Name           string
	Interval       time.Duration
	RunImmediately bool
	Run            func(ctx context.Context) error
}

// Pool runs every registered task on its own goroutine and ticker
type Pool struct {
	tasks       []Task
	tickTimeout time.Duration

	wg      sync.WaitGroup
	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool

	counters map[string]*taskCounters
}

type taskCounters struct {
	ticks   atomic.Uint64
	failed  atomic.Uint64
	panics  atomic.Uint64
	lastRun atomic.Int64
}

// Config holds worker pool configuration
type Config struct {
	Tasks       []Task
	TickTimeout time.Duration
}

// NewPool creates a new worker pool
func NewPool(cfg Config) *Pool {
	if cfg.TickTimeout <= 0 {
		cfg.TickTimeout = 30 * time.Second
	}

	counters := make(map[string]*taskCounters, len(cfg.Tasks))
	for _, t := range cfg.Tasks {
		counters[t.Name] = &taskCounters{}
	}

	return &Pool{
		tasks:       cfg.Tasks,
		tickTimeout: cfg.TickTimeout,
		counters:    counters,
	}
}

// Start launches one goroutine per task. The pool stops when ctx is
// cancelled or Stop is called.
func (p *Pool) Start(ctx context.Context) {
	if !p.started.CompareAndSwap(false, true) {
		return
	}

	p.ctx, p.cancel = context.WithCancel(ctx)

	log := logger.WithComponent("worker_pool")
	log.Info().
		Int("tasks", len(p.tasks)).
		Dur("tick_timeout", p.tickTimeout).
		Msg("starting worker pool")

	for _, t := range p.tasks {
		if t.Interval <= 0 || t.Run == nil {
			log.Warn().Str("task", t.Name).Msg("skipping task without interval or run func")
			continue
		}
		p.wg.Add(1)
		go p.worker(t)
	}
}

// Stop signals every task and waits for in-flight ticks to finish
func (p *Pool) Stop() {
	if !p.started.Load() {
		return
	}
	log := logger.WithComponent("worker_pool")
	log.Info().Msg("stopping worker pool")
	p.cancel()
	p.wg.Wait()
	log.Info().Msg("worker pool stopped")
}

// worker drives a single task until the pool context is done
func (p *Pool) worker(t Task) {
	defer p.wg.Done()

	log := logger.WithComponent("worker").With().Str("task", t.Name).Logger()
	log.Info().Dur("interval", t.Interval).Msg("task started")
	defer log.Info().Msg("task stopped")

	if t.RunImmediately && p.ctx.Err() == nil {
		p.runTick(t)
	}

	ticker := time.NewTicker(t.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.ctx.Done():
			return
		case <-ticker.C:
			// Stop may race with the ticker; prefer stopping.
			if p.ctx.Err() != nil {
				return
			}
			p.runTick(t)
		}
	}
}

// runTick executes one iteration behind an error and panic boundary.
// The tick context is detached from the stop signal so an in-flight
// tick completes; it is bounded by the tick timeout instead.
func (p *Pool) runTick(t Task) (err error) {
	log := logger.WithComponent("worker").With().Str("task", t.Name).Logger()
	c := p.counters[t.Name]

	ctx, cancel := context.WithTimeout(context.WithoutCancel(p.ctx), p.tickTimeout)
	defer cancel()

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("task panic recovered")
			metrics.PanicsRecovered.WithLabelValues("worker").Inc()
			c.panics.Add(1)
			err = fmt.Errorf("%w: %v", ErrPanic, r)
		}

		duration := time.Since(start)
		metrics.TickDuration.WithLabelValues(t.Name).Observe(duration.Seconds())
		c.ticks.Add(1)
		c.lastRun.Store(start.UnixNano())

		status := "success"
		if err != nil {
			status = "failed"
			c.failed.Add(1)
			if !errors.Is(err, ErrPanic) {
				log.Error().
					Err(err).
					Dur("duration", duration).
					Msg("task tick failed")
			}
		}
		metrics.TicksTotal.WithLabelValues(t.Name, status).Inc()
	}()

	return t.Run(ctx)
}

// Stats returns per-task statistics keyed by task name
func (p *Pool) Stats() map[string]Stats {
	out := make(map[string]Stats, len(p.counters))
	for name, c := range p.counters {
		s := Stats{
			Ticks:  c.ticks.Load(),
			Failed: c.failed.Load(),
			Panics: c.panics.Load(),
		}
		if ns := c.lastRun.Load(); ns != 0 {
			s.LastRun = time.Unix(0, ns).UTC()
		}
		out[name] = s
	}
	return out
}

// Stats holds worker pool metrics for one task
type Stats struct {
	Ticks   uint64    `json:"ticks"`
	Failed  uint64    `json:"failed"`
	Panics  uint64    `json:"panics"`
	LastRun time.Time `json:"last_run,omitempty"`
}
