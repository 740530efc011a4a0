package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	libconfig "energyrental/backend/libs/config"
	"energyrental/backend/services/rental-page/internal/page"
)

// Config defines rental page configuration.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Backend BackendConfig `yaml:"backend"`
	Poll    PollConfig    `yaml:"poll"`
	Redis   RedisConfig   `yaml:"redis"`
	JWT     JWTConfig     `yaml:"jwt"`
	Live    LiveConfig    `yaml:"live"`
}

// HTTPConfig is the live page listener.
type HTTPConfig struct {
	Port string `yaml:"port" env:"RENTAL_PAGE_HTTP_PORT"`
}

// BackendConfig points at the rental backend serving the status endpoints.
type BackendConfig struct {
	BaseURL        string `yaml:"baseUrl" env:"RENTAL_BACKEND_URL"`
	Token          string `yaml:"token" env:"RENTAL_BACKEND_TOKEN"`
	TimeoutSeconds int    `yaml:"timeoutSeconds" env:"RENTAL_BACKEND_TIMEOUT"`
}

// PollConfig tunes the payment poll chain.
type PollConfig struct {
	PendingInterval time.Duration `yaml:"pendingInterval" env:"RENTAL_POLL_PENDING_INTERVAL"`
	WaitingInterval time.Duration `yaml:"waitingInterval" env:"RENTAL_POLL_WAITING_INTERVAL"`
	MaxWait         time.Duration `yaml:"maxWait" env:"RENTAL_POLL_MAX_WAIT"`
}

// RedisConfig enables the payment snapshot cache when Addr is set.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"RENTAL_REDIS_ADDR"`
	Password string `yaml:"password" env:"RENTAL_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"RENTAL_REDIS_DB"`
	TTL      int    `yaml:"ttlSeconds" env:"RENTAL_REDIS_TTL"`
}

// JWTConfig enables token checks on the live page when Secret is set.
type JWTConfig struct {
	Secret string `yaml:"secret" env:"RENTAL_PAGE_JWT_SECRET"`
}

// LiveConfig tunes live sessions.
type LiveConfig struct {
	AllowedOrigins          string `yaml:"allowedOrigins" env:"RENTAL_PAGE_ALLOWED_ORIGINS"`
	ClipboardTimeoutSeconds int    `yaml:"clipboardTimeoutSeconds" env:"RENTAL_PAGE_CLIPBOARD_TIMEOUT"`
}

// Load reads configuration via shared helper.
func Load() (*Config, error) {
	cfg := &Config{
		HTTP: HTTPConfig{Port: "8090"},
		Backend: BackendConfig{
			BaseURL:        "http://localhost:5000",
			TimeoutSeconds: 10,
		},
		Poll: PollConfig{
			PendingInterval: page.DefaultPendingInterval,
			WaitingInterval: page.DefaultWaitingInterval,
		},
		Redis: RedisConfig{TTL: 3600},
	}

	if err := libconfig.LoadConfig(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required values.
func (c *Config) Validate() error {
	base := strings.TrimSpace(c.Backend.BaseURL)
	if base == "" {
		return errors.New("config: backend base url required")
	}
	u, err := url.Parse(base)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("config: backend base url %q must be an absolute http(s) url", base)
	}
	if c.Poll.MaxWait < 0 {
		return errors.New("config: poll max wait must not be negative")
	}
	return nil
}

// HTTPAddress returns :port style.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8090"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// BackendTimeout returns http client timeout.
func (c *Config) BackendTimeout() time.Duration {
	if c.Backend.TimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(c.Backend.TimeoutSeconds) * time.Second
}

// PollerConfig converts the poll section.
func (c *Config) PollerConfig() page.PollerConfig {
	return page.PollerConfig{
		PendingInterval: c.Poll.PendingInterval,
		WaitingInterval: c.Poll.WaitingInterval,
		MaxWait:         c.Poll.MaxWait,
	}
}

// SnapshotTTL returns ttl as duration.
func (c *Config) SnapshotTTL() time.Duration {
	if c.Redis.TTL <= 0 {
		return time.Hour
	}
	return time.Duration(c.Redis.TTL) * time.Second
}

// ClipboardTimeout bounds a browser clipboard round trip.
func (c *Config) ClipboardTimeout() time.Duration {
	if c.Live.ClipboardTimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.Live.ClipboardTimeoutSeconds) * time.Second
}

// AllowedOrigins splits the comma separated origin list.
func (c *Config) AllowedOrigins() []string {
	var origins []string
	for _, o := range strings.Split(c.Live.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	return origins
}
