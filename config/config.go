package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config struct to hold the configuration settings
type Config struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	NATS          NATSConfig          `yaml:"nats"`
	Osu           OsuConfig           `yaml:"osu"`
	Upstream      UpstreamConfig      `yaml:"upstream"`
	Bot           BotConfig           `yaml:"bot"`
	Queue         QueueConfig         `yaml:"queue"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// PostgresConfig holds Postgres configuration.
type PostgresConfig struct {
	DSN string `yaml:"dsn"`
}

// NATSConfig holds NATS configuration.
type NATSConfig struct {
	URL              string `yaml:"url"`
	QueueGroup       string `yaml:"queue_group"`
	SubscribersCount int    `yaml:"subscribers_count"`
}

// OsuConfig holds the osu! API key and the base URLs of every backend.
type OsuConfig struct {
	APIKey          string `yaml:"api_key"`
	OfficialBaseURL string `yaml:"official_base_url"`
	GatariBaseURL   string `yaml:"gatari_base_url"`
	AkatsukiBaseURL string `yaml:"akatsuki_base_url"`
}

// UpstreamConfig bounds every outbound API call.
type UpstreamConfig struct {
	Timeout       time.Duration `yaml:"timeout"`
	RatePerSecond float64       `yaml:"rate_per_second"`
	Burst         int           `yaml:"burst"`
}

// BotConfig holds chat-facing behaviour.
type BotConfig struct {
	Prefix string `yaml:"prefix"`
	Charts bool   `yaml:"charts"`
}

// QueueConfig holds river worker settings.
type QueueConfig struct {
	MaxWorkers int `yaml:"max_workers"`
}

// ObservabilityConfig holds configuration for observability components
type ObservabilityConfig struct {
	MetricsAddress string `yaml:"metrics_address"`
	Environment    string `yaml:"environment"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"` // json|text
	LogFile        string `yaml:"log_file"`
}

// LoadConfig loads the configuration from a YAML file.
func LoadConfig(filename string) (*Config, error) {
	// Try reading configuration from the file first
	data, err := os.ReadFile(filename)
	if err != nil {
		// If the file is not found, try loading from environment variables
		return loadConfigFromEnv()
	}

	cfg := Defaults()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns the configuration used for every field not set by the
// file or the environment.
func Defaults() *Config {
	return &Config{
		NATS: NATSConfig{
			URL:              "nats://localhost:4222",
			QueueGroup:       "tbb",
			SubscribersCount: 4,
		},
		Osu: OsuConfig{
			OfficialBaseURL: "https://osu.ppy.sh",
			GatariBaseURL:   "https://api.gatari.pw",
			AkatsukiBaseURL: "https://akatsuki.pw",
		},
		Upstream: UpstreamConfig{
			Timeout:       10 * time.Second,
			RatePerSecond: 5,
			Burst:         10,
		},
		Bot: BotConfig{
			Prefix: "$",
			Charts: true,
		},
		Queue: QueueConfig{MaxWorkers: 4},
		Observability: ObservabilityConfig{
			MetricsAddress: ":9090",
			LogLevel:       "info",
			LogFormat:      "json",
		},
	}
}

// applyEnv overrides file values with environment variables when present.
func applyEnv(cfg *Config) error {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Postgres.DSN = v
	}
	if v := os.Getenv("NATS_URL"); v != "" {
		cfg.NATS.URL = v
	}
	if v := os.Getenv("NATS_QUEUE_GROUP"); v != "" {
		cfg.NATS.QueueGroup = v
	}
	if v := os.Getenv("OSU_API_KEY"); v != "" {
		cfg.Osu.APIKey = v
	}
	if v := os.Getenv("OSU_BASE_URL"); v != "" {
		cfg.Osu.OfficialBaseURL = v
	}
	if v := os.Getenv("GATARI_BASE_URL"); v != "" {
		cfg.Osu.GatariBaseURL = v
	}
	if v := os.Getenv("AKATSUKI_BASE_URL"); v != "" {
		cfg.Osu.AkatsukiBaseURL = v
	}
	if v := os.Getenv("UPSTREAM_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid UPSTREAM_TIMEOUT value: %w", err)
		}
		cfg.Upstream.Timeout = d
	}
	if v := os.Getenv("UPSTREAM_RATE"); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("invalid UPSTREAM_RATE value: %w", err)
		}
		cfg.Upstream.RatePerSecond = f
	}
	if v := os.Getenv("UPSTREAM_BURST"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid UPSTREAM_BURST value: %w", err)
		}
		cfg.Upstream.Burst = n
	}
	if v := os.Getenv("COMMAND_PREFIX"); v != "" {
		cfg.Bot.Prefix = v
	}
	if v := os.Getenv("CHARTS_ENABLED"); v != "" {
		cfg.Bot.Charts = v == "true"
	}
	if v := os.Getenv("QUEUE_MAX_WORKERS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid QUEUE_MAX_WORKERS value: %w", err)
		}
		cfg.Queue.MaxWorkers = n
	}
	if v := os.Getenv("METRICS_ADDRESS"); v != "" {
		cfg.Observability.MetricsAddress = v
	}
	if v := os.Getenv("ENV"); v != "" {
		cfg.Observability.Environment = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Observability.LogLevel = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Observability.LogFormat = v
	}
	if v := os.Getenv("LOG_FILE"); v != "" {
		cfg.Observability.LogFile = v
	}
	return nil
}

// loadConfigFromEnv loads the configuration from environment variables.
func loadConfigFromEnv() (*Config, error) {
	cfg := Defaults()
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if cfg.Postgres.DSN == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable not set")
	}
	if os.Getenv("NATS_URL") == "" {
		return nil, fmt.Errorf("NATS_URL environment variable not set")
	}
	return cfg, nil
}
