package config

import (
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Configuration errors
var (
	ErrInvalidValue   = errors.New("invalid value")
	ErrMultipleSinks  = errors.New("TELEGRAM_ENABLED and KAFKA_ENABLED are mutually exclusive")
	ErrMustBePositive = errors.New("must be positive")
)

// LookupFunc reads a single environment variable.
type LookupFunc func(key string) (string, bool)

// Load reads an optional dotenv file and then the process environment.
// Variables already present in the environment win over the file.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv builds a Config from lookup, starting from Default.
// Every invalid variable is reported in the returned error.
func FromEnv(lookup LookupFunc) (*Config, error) {
	cfg := Default()
	e := &envReader{lookup: lookup}

	cfg.BaseDir = e.str("BASE_DIR", cfg.BaseDir)
	cfg.Log.Dir = e.str("LOG_DIR", filepath.Join(cfg.BaseDir, "logs"))
	cfg.Log.FileName = e.str("LOG_FILE_NAME", cfg.Log.FileName)
	cfg.Log.Level = strings.ToUpper(e.str("LOG_LEVEL", cfg.Log.Level))
	cfg.Log.Format = strings.ToLower(e.str("LOG_FORMAT", cfg.Log.Format))
	cfg.Log.MaxSizeMB = e.integer("LOG_MAX_SIZE_MB", cfg.Log.MaxSizeMB)
	cfg.Log.MaxBackups = e.integer("LOG_MAX_BACKUPS", cfg.Log.MaxBackups)

	cfg.Monitor.Interval = e.seconds("INTERVAL_SECONDS", cfg.Monitor.Interval)
	cfg.Monitor.StatusPushInterval = e.seconds("STATUS_PUSH_INTERVAL_SECONDS", cfg.Monitor.StatusPushInterval)
	cfg.Monitor.AlertCooldown = e.seconds("ALERT_COOLDOWN_SECONDS", cfg.Monitor.AlertCooldown)
	cfg.Monitor.TickTimeout = e.seconds("TICK_TIMEOUT_SECONDS", cfg.Monitor.TickTimeout)

	cfg.Thresholds.CPU = e.float("CPU_THRESHOLD", cfg.Thresholds.CPU)
	cfg.Thresholds.Mem = e.float("MEM_THRESHOLD", cfg.Thresholds.Mem)
	cfg.Thresholds.Disk = e.float("DISK_THRESHOLD", cfg.Thresholds.Disk)

	cfg.Sampler.CPUWindow = e.millis("CPU_SAMPLE_WINDOW_MS", cfg.Sampler.CPUWindow)
	cfg.Sampler.DiskPath = e.str("DISK_PATH", cfg.Sampler.DiskPath)

	cfg.Notify.Startup = e.boolean("STARTUP_NOTIFY_ENABLED", cfg.Notify.Startup)
	cfg.Notify.Shutdown = e.boolean("SHUTDOWN_NOTIFY_ENABLED", cfg.Notify.Shutdown)

	cfg.Telegram.Enabled = e.boolean("TELEGRAM_ENABLED", cfg.Telegram.Enabled)
	cfg.Telegram.BotToken = e.str("TELEGRAM_BOT_TOKEN", cfg.Telegram.BotToken)
	cfg.Telegram.ChatID = e.str("TELEGRAM_CHAT_ID", cfg.Telegram.ChatID)
	cfg.Telegram.Timeout = e.seconds("TELEGRAM_TIMEOUT_SECONDS", cfg.Telegram.Timeout)
	cfg.Telegram.APIURL = strings.TrimRight(e.str("TELEGRAM_API_URL", cfg.Telegram.APIURL), "/")

	cfg.Kafka.Enabled = e.boolean("KAFKA_ENABLED", cfg.Kafka.Enabled)
	cfg.Kafka.Brokers = e.list("KAFKA_BROKERS", cfg.Kafka.Brokers)
	cfg.Kafka.Topic = e.str("KAFKA_TOPIC", cfg.Kafka.Topic)
	cfg.Kafka.Producer.Compression = strings.ToLower(e.str("KAFKA_COMPRESSION", cfg.Kafka.Producer.Compression))
	cfg.Kafka.Producer.MaxRetries = e.integer("KAFKA_MAX_RETRIES", cfg.Kafka.Producer.MaxRetries)
	cfg.Kafka.Producer.RetryBackoff = e.millis("KAFKA_RETRY_BACKOFF_MS", cfg.Kafka.Producer.RetryBackoff)
	cfg.Kafka.Producer.WriteTimeout = e.seconds("KAFKA_WRITE_TIMEOUT_SECONDS", cfg.Kafka.Producer.WriteTimeout)

	cfg.HTTP.Addr = e.str("METRICS_ADDR", cfg.HTTP.Addr)

	if err := cfg.Validate(); err != nil {
		e.errs = append(e.errs, err)
	}
	if len(e.errs) > 0 {
		return nil, errors.Join(e.errs...)
	}
	return cfg, nil
}

// Validate checks cross-field and range constraints.
func (c *Config) Validate() error {
	var errs []error

	positive := []struct {
		key string
		val time.Duration
	}{
		{"INTERVAL_SECONDS", c.Monitor.Interval},
		{"STATUS_PUSH_INTERVAL_SECONDS", c.Monitor.StatusPushInterval},
		{"TICK_TIMEOUT_SECONDS", c.Monitor.TickTimeout},
		{"TELEGRAM_TIMEOUT_SECONDS", c.Telegram.Timeout},
	}
	for _, p := range positive {
		if p.val <= 0 {
			errs = append(errs, fmt.Errorf("%s: %w", p.key, ErrMustBePositive))
		}
	}
	if c.Monitor.AlertCooldown < 0 {
		errs = append(errs, fmt.Errorf("ALERT_COOLDOWN_SECONDS: %w", ErrInvalidValue))
	}
	if c.Log.MaxSizeMB <= 0 {
		errs = append(errs, fmt.Errorf("LOG_MAX_SIZE_MB: %w", ErrMustBePositive))
	}
	if c.Log.MaxBackups <= 0 {
		errs = append(errs, fmt.Errorf("LOG_MAX_BACKUPS: %w", ErrMustBePositive))
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		errs = append(errs, fmt.Errorf("LOG_FORMAT %q: %w", c.Log.Format, ErrInvalidValue))
	}
	if c.Log.FileName == "" {
		errs = append(errs, fmt.Errorf("LOG_FILE_NAME: %w", ErrInvalidValue))
	}
	if err := c.Thresholds.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Telegram.Enabled && c.Kafka.Enabled {
		errs = append(errs, ErrMultipleSinks)
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			errs = append(errs, fmt.Errorf("KAFKA_BROKERS: %w", ErrInvalidValue))
		}
		if c.Kafka.Topic == "" {
			errs = append(errs, fmt.Errorf("KAFKA_TOPIC: %w", ErrInvalidValue))
		}
	}
	return errors.Join(errs...)
}

// envReader parses typed values and collects every parse failure.
type envReader struct {
	lookup LookupFunc
	errs   []error
}

func (e *envReader) raw(key string) (string, bool) {
	v, ok := e.lookup(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func (e *envReader) str(key, def string) string {
	if v, ok := e.raw(key); ok {
		return v
	}
	return def
}

func (e *envReader) integer(key string, def int) int {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidValue))
		return def
	}
	return n
}

func (e *envReader) float(key string, def float64) float64 {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidValue))
		return def
	}
	return f
}

func (e *envReader) seconds(key string, def time.Duration) time.Duration {
	return e.duration(key, def, time.Second)
}

func (e *envReader) millis(key string, def time.Duration) time.Duration {
	return e.duration(key, def, time.Millisecond)
}

// duration reads an integer count of unit. Counts that do not fit in a
// time.Duration are rejected.
func (e *envReader) duration(key string, def, unit time.Duration) time.Duration {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	limit := int64(math.MaxInt64 / unit)
	if err != nil || n > limit || n < -limit {
		e.errs = append(e.errs, fmt.Errorf("%s=%q: %w", key, v, ErrInvalidValue))
		return def
	}
	return time.Duration(n) * unit
}

// boolean treats 1, true, yes and on as true; any other non-empty value is false.
func (e *envReader) boolean(key string, def bool) bool {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	switch strings.ToLower(v) {
	case "1", "true", "yes", "on":
		return true
	default:
		return false
	}
}

func (e *envReader) list(key string, def []string) []string {
	v, ok := e.raw(key)
	if !ok {
		return def
	}
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
