package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"github.com/segmentio/kafka-go/compress"

	"hostpulse/internal/config"
	"hostpulse/internal/logger"
	"hostpulse/internal/metrics"
)

// Producer errors
var (
	ErrProducerClosed  = errors.New("producer is closed")
	ErrNoBrokers       = errors.New("at least one broker is required")
	ErrNoTopic         = errors.New("topic is required")
	ErrSerializeFailed = errors.New("failed to serialize message")
)

// messageWriter is the subset of *kafka.Writer the producer needs
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Notification is the JSON value written for every message
type Notification struct {
	ID     string    `json:"id"`
	Host   string    `json:"host"`
	Text   string    `json:"text"`
	SentAt time.Time `json:"sent_at"`
}

// Producer publishes formatted notifications to a Kafka topic with retry.
// It satisfies the notifier sink contract: Send never returns an error.
type Producer struct {
	cfg    config.ProducerConfig
	topic  string
	host   string
	writer messageWriter
	closed atomic.Bool

	// Metrics
	messagesSent   atomic.Uint64
	messagesFailed atomic.Uint64
	bytesWritten   atomic.Uint64
}

// ProducerOption is a functional option for configuring the producer
type ProducerOption func(*Producer)

// WithHost overrides the host name used as message key
func WithHost(host string) ProducerOption {
	return func(p *Producer) { p.host = host }
}

func withWriter(w messageWriter) ProducerOption {
	return func(p *Producer) { p.writer = w }
}

// NewProducer creates a new Kafka producer with the given configuration
func NewProducer(brokers []string, topic string, cfg config.ProducerConfig, opts ...ProducerOption) (*Producer, error) {
	if len(brokers) == 0 {
		return nil, ErrNoBrokers
	}

	if topic == "" {
		return nil, ErrNoTopic
	}

	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = 0
	}
	if cfg.RetryBackoff <= 0 {
		cfg.RetryBackoff = 100 * time.Millisecond
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = 10 * time.Second
	}

	host, _ := os.Hostname()
	if host == "" {
		host = "unknown"
	}

	p := &Producer{
		cfg:   cfg,
		topic: topic,
		host:  host,
	}

	// Apply options
	for _, opt := range opts {
		opt(p)
	}

	if p.writer == nil {
		p.writer = &kafka.Writer{
			Addr:         kafka.TCP(brokers...),
			Topic:        topic,
			Balancer:     &kafka.Hash{}, // Partition by host
			WriteTimeout: cfg.WriteTimeout,
			RequiredAcks: kafka.RequiredAcks(cfg.RequiredAcks),
			Compression:  getCompression(cfg.Compression),
			MaxAttempts:  1, // retries are handled by publishWithRetry
			Async:        false,
		}
	}

	return p, nil
}

// getCompression returns the kafka compression codec
func getCompression(name string) compress.Compression {
	switch name {
	case "gzip":
		return compress.Gzip
	case "snappy":
		return compress.Snappy
	case "lz4":
		return compress.Lz4
	case "zstd":
		return compress.Zstd
	default:
		return compress.None // no compression
	}
}

// Name identifies the sink
func (p *Producer) Name() string { return "kafka" }

// Send publishes text as a Notification. Failures are logged and reported as false.
func (p *Producer) Send(ctx context.Context, text string) bool {
	if err := p.Publish(ctx, text); err != nil {
		log := logger.WithComponent("kafka_producer")
		log.Error().
			Err(err).
			Str("topic", p.topic).
			Msg("failed to publish notification")
		return false
	}
	return true
}

// Publish sends one notification to Kafka
func (p *Producer) Publish(ctx context.Context, text string) error {
	if p.closed.Load() {
		return ErrProducerClosed
	}

	n := Notification{
		ID:     uuid.New().String(),
		Host:   p.host,
		Text:   text,
		SentAt: time.Now().UTC(),
	}

	data, err := json.Marshal(n)
	if err != nil {
		p.messagesFailed.Add(1)
		return fmt.Errorf("%w: %v", ErrSerializeFailed, err)
	}

	msg := kafka.Message{
		Key:   []byte(p.host),
		Value: data,
		Headers: []kafka.Header{
			{Key: "host", Value: []byte(p.host)},
			{Key: "notification_id", Value: []byte(n.ID)},
		},
		Time: n.SentAt,
	}

	if err := p.publishWithRetry(ctx, msg); err != nil {
		p.messagesFailed.Add(1)
		return err
	}

	p.messagesSent.Add(1)
	p.bytesWritten.Add(uint64(len(data)))
	return nil
}

// publishWithRetry publishes a single message with exponential backoff retry
func (p *Producer) publishWithRetry(ctx context.Context, msg kafka.Message) error {
	log := logger.WithComponent("kafka_producer")
	var lastErr error
	backoff := p.cfg.RetryBackoff

	for attempt := 0; attempt <= p.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			log.Warn().
				Int("attempt", attempt).
				Dur("backoff", backoff).
				Msg("retrying kafka publish")

			metrics.KafkaPublishRetries.Inc()

			select {
			case <-time.After(backoff):
				backoff *= 2 // Exponential backoff
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err := p.writer.WriteMessages(ctx, msg)
		if err == nil {
			return nil
		}

		lastErr = err
		log.Warn().
			Err(err).
			Int("attempt", attempt+1).
			Msg("kafka publish attempt failed")

		// Check for non-retryable errors
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return err
		}
	}

	return fmt.Errorf("failed after %d attempts: %w", p.cfg.MaxRetries+1, lastErr)
}

// Close closes the underlying writer
func (p *Producer) Close() error {
	if p.closed.Swap(true) {
		return nil // Already closed
	}
	return p.writer.Close()
}

// Stats returns producer statistics
func (p *Producer) Stats() ProducerStats {
	return ProducerStats{
		MessagesSent:   p.messagesSent.Load(),
		MessagesFailed: p.messagesFailed.Load(),
		BytesWritten:   p.bytesWritten.Load(),
	}
}

// ProducerStats holds producer metrics
type ProducerStats struct {
	MessagesSent   uint64
	MessagesFailed uint64
	BytesWritten   uint64
}
