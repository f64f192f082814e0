// Package config loads runtime settings from an optional YAML file, the
// .env file and the process environment, in that order of precedence
// (environment wins), and opens the connections the server depends on.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Port     string `yaml:"port"`
	GinMode  string `yaml:"gin_mode"`
	LogLevel string `yaml:"log_level"`

	DBDriver string `yaml:"db_driver"`
	DBDSN    string `yaml:"db_dsn"`

	RedisAddr string `yaml:"redis_addr"`

	WeatherAPIKey     string        `yaml:"weather_api_key"`
	WeatherAPIBaseURL string        `yaml:"weather_api_base_url"`
	WeatherCacheTTL   time.Duration `yaml:"weather_cache_ttl"`

	KafkaBroker string `yaml:"kafka_broker"`
	KafkaTopic  string `yaml:"kafka_topic"`

	SMTPHost     string `yaml:"smtp_host"`
	SMTPPort     int    `yaml:"smtp_port"`
	SMTPUsername string `yaml:"smtp_username"`
	SMTPPassword string `yaml:"smtp_password"`
	SMTPFrom     string `yaml:"smtp_from"`

	APIBaseURL  string   `yaml:"api_base_url"`
	CORSOrigins []string `yaml:"cors_origins"`
	// TrustedProxies may set X-Forwarded-For. The page server calls the API
	// over loopback, so loopback is always trusted.
	TrustedProxies []string `yaml:"trusted_proxies"`

	RateLimitRPS   float64 `yaml:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst"`
}

// Default returns the settings used when nothing else is configured.
func Default() Config {
	return Config{
		Port:              "8080",
		GinMode:           "debug",
		LogLevel:          "info",
		DBDriver:          "sqlite",
		DBDSN:             "moliceiro.db",
		WeatherAPIBaseURL: "https://api.openweathermap.org/data/2.5",
		WeatherCacheTTL:   6 * time.Hour,
		KafkaTopic:        "moliceiro.events",
		SMTPPort:          587,
		CORSOrigins:       []string{"*"},
		TrustedProxies:    []string{"127.0.0.1", "::1"},
		RateLimitRPS:      50,
		RateLimitBurst:    100,
	}
}

// Load builds the configuration. A missing .env file is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return cfg, err
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return cfg, err
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = "http://localhost:" + cfg.Port
	}
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parsing config file %q: %w", path, err)
	}
	return nil
}

func splitList(v string) []string {
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

type lookupFunc func(string) (string, bool)

func (c *Config) applyEnv(lookup lookupFunc) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(key); ok && v != "" {
			*dst = v
		}
	}

	str("PORT", &c.Port)
	str("GIN_MODE", &c.GinMode)
	str("LOG_LEVEL", &c.LogLevel)
	str("DB_DRIVER", &c.DBDriver)
	str("DB_DSN", &c.DBDSN)
	str("REDIS_ADDR", &c.RedisAddr)
	str("WEATHER_API_KEY", &c.WeatherAPIKey)
	str("WEATHER_API_BASE_URL", &c.WeatherAPIBaseURL)
	str("KAFKA_BROKER", &c.KafkaBroker)
	str("KAFKA_TOPIC", &c.KafkaTopic)
	str("SMTP_HOST", &c.SMTPHost)
	str("SMTP_USERNAME", &c.SMTPUsername)
	str("SMTP_PASSWORD", &c.SMTPPassword)
	str("SMTP_FROM", &c.SMTPFrom)
	str("API_BASE_URL", &c.APIBaseURL)

	if v, ok := lookup("CORS_ORIGINS"); ok && v != "" {
		c.CORSOrigins = splitList(v)
	}
	if v, ok := lookup("TRUSTED_PROXIES"); ok && v != "" {
		c.TrustedProxies = splitList(v)
	}
	if v, ok := lookup("WEATHER_CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("WEATHER_CACHE_TTL: %w", err)
		}
		c.WeatherCacheTTL = d
	}
	if v, ok := lookup("SMTP_PORT"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SMTP_PORT: %w", err)
		}
		c.SMTPPort = n
	}
	if v, ok := lookup("RATE_LIMIT_RPS"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_RPS: %w", err)
		}
		c.RateLimitRPS = f
	}
	if v, ok := lookup("RATE_LIMIT_BURST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("RATE_LIMIT_BURST: %w", err)
		}
		c.RateLimitBurst = n
	}
	return nil
}

// Validate rejects settings the server cannot start with.
func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite", "mysql", "postgres":
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.DBDSN == "" {
		return fmt.Errorf("DB_DSN is not set")
	}
	if c.Port == "" {
		return fmt.Errorf("PORT is not set")
	}
	if c.RateLimitRPS <= 0 || c.RateLimitBurst <= 0 {
		return fmt.Errorf("rate limit must be positive")
	}
	return nil
}

// SMTPEnabled reports whether reservation e-mails can be sent.
func (c Config) SMTPEnabled() bool {
	return c.SMTPHost != "" && c.SMTPFrom != ""
}
