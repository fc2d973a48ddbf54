package config

import (
	"path/filepath"
	"time"

	"hostpulse/internal/logger"
	"hostpulse/internal/models"
)

// Config holds runtime configuration for the monitor.
type Config struct {
	// BaseDir anchors the default log directory
	BaseDir string

	Log        LogConfig
	Monitor    MonitorConfig
	Thresholds models.ThresholdSet
	Sampler    SamplerConfig
	Notify     NotifyConfig
	Telegram   TelegramConfig
	Kafka      KafkaConfig
	HTTP       HTTPConfig
}

// LogConfig controls the rotating log file
type LogConfig struct {
	Dir        string
	FileName   string
	Level      string
	Format     string
	MaxSizeMB  int
	MaxBackups int
}

// MonitorConfig holds the cadences of the periodic tasks
type MonitorConfig struct {
	Interval           time.Duration
	StatusPushInterval time.Duration
	AlertCooldown      time.Duration
	TickTimeout        time.Duration
}

// SamplerConfig controls how metrics are read from the host
type SamplerConfig struct {
	CPUWindow time.Duration
	DiskPath  string
}

// NotifyConfig toggles the one-time lifecycle notifications
type NotifyConfig struct {
	Startup  bool
	Shutdown bool
}

// TelegramConfig configures the Telegram Bot API sink
type TelegramConfig struct {
	Enabled  bool
	BotToken string
	ChatID   string
	Timeout  time.Duration
	APIURL   string
}

// KafkaConfig configures the Kafka topic sink
type KafkaConfig struct {
	Enabled  bool
	Brokers  []string
	Topic    string
	Producer ProducerConfig
}

// ProducerConfig tunes the Kafka writer
type ProducerConfig struct {
	Compression  string
	MaxRetries   int
	RetryBackoff time.Duration
	WriteTimeout time.Duration
	RequiredAcks int
}

// HTTPConfig controls the optional status listener. Empty Addr disables it.
type HTTPConfig struct {
	Addr string
}

// Default returns the configuration used when no environment overrides are set.
func Default() *Config {
	return &Config{
		BaseDir: ".",
		Log: LogConfig{
			Dir:        filepath.Join(".", "logs"),
			FileName:   "monitor.log",
			Level:      "INFO",
			Format:     "text",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
		Monitor: MonitorConfig{
			Interval:           10 * time.Second,
			StatusPushInterval: 180 * time.Second,
			AlertCooldown:      300 * time.Second,
			TickTimeout:        30 * time.Second,
		},
		Thresholds: models.ThresholdSet{CPU: 85, Mem: 90, Disk: 90},
		Sampler: SamplerConfig{
			CPUWindow: 500 * time.Millisecond,
			DiskPath:  "/",
		},
		Notify: NotifyConfig{
			Startup:  true,
			Shutdown: false,
		},
		Telegram: TelegramConfig{
			Timeout: 10 * time.Second,
			APIURL:  "https://api.telegram.org",
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topic:   "hostpulse.notifications",
			Producer: ProducerConfig{
				Compression:  "none",
				MaxRetries:   3,
				RetryBackoff: 100 * time.Millisecond,
				WriteTimeout: 10 * time.Second,
				RequiredAcks: 1,
			},
		},
	}
}

// NotificationsEnabled reports whether any notification sink is configured.
func (c *Config) NotificationsEnabled() bool {
	return c.Telegram.Enabled || c.Kafka.Enabled
}

// LoggerOptions converts the log section for logger.Init.
func (c *Config) LoggerOptions() logger.Options {
	return logger.Options{
		Dir:        c.Log.Dir,
		FileName:   c.Log.FileName,
		Level:      c.Log.Level,
		Format:     c.Log.Format,
		MaxSizeMB:  c.Log.MaxSizeMB,
		MaxBackups: c.Log.MaxBackups,
	}
}
