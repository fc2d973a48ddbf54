package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Entry is a single resolved configuration variable.
type Entry struct {
	Key   string
	Value string
}

// Entries lists the resolved configuration in environment-variable form.
// Secrets are redacted.
func (c *Config) Entries() []Entry {
	secs := func(d time.Duration) string { return strconv.FormatInt(int64(d/time.Second), 10) }
	ms := func(d time.Duration) string { return strconv.FormatInt(int64(d/time.Millisecond), 10) }
	num := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }

	return []Entry{
		{"BASE_DIR", c.BaseDir},
		{"LOG_DIR", c.Log.Dir},
		{"LOG_FILE_NAME", c.Log.FileName},
		{"LOG_LEVEL", c.Log.Level},
		{"LOG_FORMAT", c.Log.Format},
		{"LOG_MAX_SIZE_MB", strconv.Itoa(c.Log.MaxSizeMB)},
		{"LOG_MAX_BACKUPS", strconv.Itoa(c.Log.MaxBackups)},
		{"INTERVAL_SECONDS", secs(c.Monitor.Interval)},
		{"STATUS_PUSH_INTERVAL_SECONDS", secs(c.Monitor.StatusPushInterval)},
		{"ALERT_COOLDOWN_SECONDS", secs(c.Monitor.AlertCooldown)},
		{"TICK_TIMEOUT_SECONDS", secs(c.Monitor.TickTimeout)},
		{"CPU_THRESHOLD", num(c.Thresholds.CPU)},
		{"MEM_THRESHOLD", num(c.Thresholds.Mem)},
		{"DISK_THRESHOLD", num(c.Thresholds.Disk)},
		{"CPU_SAMPLE_WINDOW_MS", ms(c.Sampler.CPUWindow)},
		{"DISK_PATH", c.Sampler.DiskPath},
		{"STARTUP_NOTIFY_ENABLED", strconv.FormatBool(c.Notify.Startup)},
		{"SHUTDOWN_NOTIFY_ENABLED", strconv.FormatBool(c.Notify.Shutdown)},
		{"TELEGRAM_ENABLED", strconv.FormatBool(c.Telegram.Enabled)},
		{"TELEGRAM_BOT_TOKEN", Redact(c.Telegram.BotToken)},
		{"TELEGRAM_CHAT_ID", c.Telegram.ChatID},
		{"TELEGRAM_TIMEOUT_SECONDS", secs(c.Telegram.Timeout)},
		{"TELEGRAM_API_URL", c.Telegram.APIURL},
		{"KAFKA_ENABLED", strconv.FormatBool(c.Kafka.Enabled)},
		{"KAFKA_BROKERS", strings.Join(c.Kafka.Brokers, ",")},
		{"KAFKA_TOPIC", c.Kafka.Topic},
		{"KAFKA_COMPRESSION", c.Kafka.Producer.Compression},
		{"KAFKA_MAX_RETRIES", strconv.Itoa(c.Kafka.Producer.MaxRetries)},
		{"KAFKA_RETRY_BACKOFF_MS", ms(c.Kafka.Producer.RetryBackoff)},
		{"KAFKA_WRITE_TIMEOUT_SECONDS", secs(c.Kafka.Producer.WriteTimeout)},
		{"METRICS_ADDR", c.HTTP.Addr},
	}
}

// Redact keeps the last four characters of a secret.
func Redact(secret string) string {
	switch {
	case secret == "":
		return ""
	case len(secret) <= 4:
		return "****"
	default:
		return fmt.Sprintf("****%s", secret[len(secret)-4:])
	}
}
