package monitor

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"hostpulse/internal/handlers"
	"hostpulse/internal/logger"
	"hostpulse/internal/middleware"
	"hostpulse/internal/models"
)

// startHTTPServer binds the optional status listener. A bind failure is fatal.
func (m *Monitor) startHTTPServer() error {
	addr := m.cfg.HTTP.Addr
	if addr == "" {
		return nil
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("%w %s: %v", ErrListen, addr, err)
	}
	m.listener = ln

	mux := http.NewServeMux()
	mux.Handle("/health", middleware.Chain(handlers.NewHealthHandler(m), middleware.Recovery, middleware.Logging))
	mux.Handle("/stats", middleware.Chain(handlers.NewStatsHandler(m), middleware.Recovery, middleware.Logging))
	mux.Handle("/metrics", promhttp.Handler())

	m.httpServer = &http.Server{
		Handler:      mux,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log := logger.WithComponent("monitor")
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		log.Info().Str("addr", ln.Addr().String()).Msg("starting HTTP server")
		if err := m.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			m.serverErr <- fmt.Errorf("%w: %v", ErrServerDied, err)
		}
	}()
	return nil
}

func (m *Monitor) stopHTTPServer() {
	if m.httpServer == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log := logger.WithComponent("monitor")
	log.Info().Msg("stopping HTTP server")
	if err := m.httpServer.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("HTTP server shutdown error")
	}
}

// Addr returns the bound status listener address, or "" when disabled
func (m *Monitor) Addr() string {
	if m.listener == nil {
		return ""
	}
	return m.listener.Addr().String()
}

// Health implements handlers.Reporter
func (m *Monitor) Health() handlers.HealthReport {
	state := m.State()
	status := "unhealthy"
	if state == StateRunning {
		status = "healthy"
	}
	m.hostMu.RLock()
	host := m.host
	m.hostMu.RUnlock()

	return handlers.HealthReport{
		Status:    status,
		State:     state.String(),
		Host:      host,
		Timestamp: m.now().UTC(),
	}
}

// Stats implements handlers.Reporter
func (m *Monitor) Stats() handlers.StatsReport {
	cooldowns := make(map[string]time.Time)
	for metric, at := range m.engine.Cooldowns() {
		cooldowns[string(metric)] = at.UTC()
	}

	thresholds := m.engine.Thresholds()
	limits := make(map[string]float64, len(models.Metrics))
	for _, metric := range models.Metrics {
		limits[string(metric)] = thresholds.For(metric)
	}

	return handlers.StatsReport{
		Tasks:      m.pool.Stats(),
		Cooldowns:  cooldowns,
		Thresholds: limits,
		Notifier:   m.notifier.Name(),
	}
}
