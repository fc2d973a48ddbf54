// Package notifier delivers formatted messages to the single configured
// notification sink. Delivery never returns an error to the caller: every
// failure is logged and reported as false.
package notifier

import (
	"context"
	"fmt"
	"runtime/debug"
	"time"

	"hostpulse/internal/config"
	"hostpulse/internal/kafka"
	"hostpulse/internal/logger"
	"hostpulse/internal/metrics"
)

// Notifier sends a formatted message to an external channel.
type Notifier interface {
	// Name identifies the backend in logs and metrics.
	Name() string
	// Send reports whether the remote endpoint accepted the message.
	Send(ctx context.Context, text string) bool
}

// Kind labels what a notification is about.
type Kind string

const (
	KindStartup  Kind = "startup"
	KindStatus   Kind = "status"
	KindAlert    Kind = "alert"
	KindShutdown Kind = "shutdown"
)

// Nop is used when no sink is enabled.
type Nop struct{}

func (Nop) Name() string                          { return "nop" }
func (Nop) Send(_ context.Context, _ string) bool { return false }

// IsNop reports whether n is the disabled sink.
func IsNop(n Notifier) bool {
	_, ok := n.(Nop)
	return n == nil || ok
}

// New selects the sink once, at configuration time.
func New(cfg *config.Config) (Notifier, error) {
	switch {
	case cfg.Telegram.Enabled:
		t := NewTelegram(cfg.Telegram)
		if cfg.Telegram.BotToken == "" || cfg.Telegram.ChatID == "" {
			log := logger.WithComponent("notifier")
			log.Warn().
				Msg("telegram is enabled but TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID is not set")
		}
		return t, nil
	case cfg.Kafka.Enabled:
		p, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, cfg.Kafka.Producer)
		if err != nil {
			return nil, fmt.Errorf("kafka notifier: %w", err)
		}
		return p, nil
	default:
		return Nop{}, nil
	}
}

// Deliver sends text through n, recording metrics. A panicking backend is
// recovered and counted as a failed delivery.
func Deliver(ctx context.Context, n Notifier, kind Kind, text string) (ok bool) {
	if IsNop(n) {
		return false
	}

	log := logger.WithComponent("notifier").With().
		Str("backend", n.Name()).
		Str("kind", string(kind)).
		Logger()

	defer func() {
		if r := recover(); r != nil {
			log.Error().
				Interface("panic", r).
				Bytes("stack", debug.Stack()).
				Msg("notifier panic recovered")
			metrics.PanicsRecovered.WithLabelValues("notifier").Inc()
			ok = false
		}
		status := "success"
		if !ok {
			status = "failed"
		}
		metrics.NotificationsTotal.WithLabelValues(string(kind), status).Inc()
	}()

	start := time.Now()
	ok = n.Send(ctx, text)
	duration := time.Since(start)
	metrics.NotificationDuration.WithLabelValues(n.Name()).Observe(duration.Seconds())

	if ok {
		log.Debug().Dur("duration", duration).Msg("notification delivered")
	} else {
		log.Warn().Dur("duration", duration).Msg("notification not delivered")
	}
	return ok
}
