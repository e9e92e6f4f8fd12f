package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Durable cache drivers.
const (
	DriverMemory   = "memory"
	DriverValkey   = "valkey"
	DriverPostgres = "postgres"
	DriverR2       = "r2"
)

// Config aggregates runtime configuration used across the service.
type Config struct {
	HTTP    HTTPConfig    `yaml:"http"`
	Widget  WidgetConfig  `yaml:"widget"`
	Cache   CacheConfig   `yaml:"cache"`
	Content ContentConfig `yaml:"content"`
	Token   TokenConfig   `yaml:"token"`
}

// HTTPConfig controls server level behavior.
type HTTPConfig struct {
	Address        string          `yaml:"address"`
	ReadTimeout    time.Duration   `yaml:"readTimeout"`
	WriteTimeout   time.Duration   `yaml:"writeTimeout"`
	AllowedOrigins []string        `yaml:"allowedOrigins"`
	RateLimit      RateLimitConfig `yaml:"rateLimit"`
}

// RateLimitConfig drives the request limiting middleware.
type RateLimitConfig struct {
	Enabled           bool `yaml:"enabled"`
	RequestsPerMinute int  `yaml:"requestsPerMinute"`
	Burst             int  `yaml:"burst"`
}

// WidgetConfig controls rendering of the filter widget.
type WidgetConfig struct {
	VersionTag       string `yaml:"versionTag"`
	DefaultLocale    string `yaml:"defaultLocale"`
	SchemaMaxEntries int    `yaml:"schemaMaxEntries"`
	ShowSchema       bool   `yaml:"showSchema"`
}

// CacheConfig configures the two markup cache tiers.
type CacheConfig struct {
	TTL            time.Duration `yaml:"ttl"`
	FastMaxEntries int           `yaml:"fastMaxEntries"`
	Durable        DurableConfig `yaml:"durable"`
}

// DurableConfig selects and configures the durable tier.
type DurableConfig struct {
	Driver   string         `yaml:"driver"`
	Valkey   ValkeyConfig   `yaml:"valkey"`
	Postgres PostgresConfig `yaml:"postgres"`
	R2       R2Config       `yaml:"r2"`
}

// ValkeyConfig contains connection information for cache storage.
type ValkeyConfig struct {
	Addr   string `yaml:"addr"`
	Prefix string `yaml:"prefix"`
}

// PostgresConfig contains DSN and pooling settings.
type PostgresConfig struct {
	DSN      string `yaml:"dsn"`
	MaxConns int32  `yaml:"maxConns"`
	MinConns int32  `yaml:"minConns"`
}

// R2Config configures S3-compatible object storage.
type R2Config struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"accessKey"`
	SecretKey string `yaml:"secretKey"`
	Bucket    string `yaml:"bucket"`
	Region    string `yaml:"region"`
	Prefix    string `yaml:"prefix"`
}

// ContentConfig selects the FAQ content source.
type ContentConfig struct {
	SeedFile string         `yaml:"seedFile"`
	Postgres PostgresConfig `yaml:"postgres"`
}

// TokenConfig configures request token signing.
type TokenConfig struct {
	Secret string        `yaml:"secret"`
	TTL    time.Duration `yaml:"ttl"`
	Action string        `yaml:"action"`
}

// Load reads configuration from a YAML file and environment variables.
func Load() (*Config, error) {
	cfg := defaultConfig()

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := hydrateFromFile(cfg, path); err != nil {
			return nil, err
		}
	} else if _, err := os.Stat("configs/config.yaml"); err == nil {
		if err := hydrateFromFile(cfg, "configs/config.yaml"); err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

func hydrateFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("HTTP_ADDRESS"); v != "" {
		cfg.HTTP.Address = v
	}
	if v := os.Getenv("HTTP_ALLOWED_ORIGINS"); v != "" {
		cfg.HTTP.AllowedOrigins = splitList(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_ENABLED"); v != "" {
		cfg.HTTP.RateLimit.Enabled = parseBool(v)
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_RPM"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.RequestsPerMinute = parsed
		}
	}
	if v := os.Getenv("HTTP_RATE_LIMIT_BURST"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.HTTP.RateLimit.Burst = parsed
		}
	}
	if v := os.Getenv("FAQ_VERSION_TAG"); v != "" {
		cfg.Widget.VersionTag = v
	}
	if v := os.Getenv("FAQ_DEFAULT_LOCALE"); v != "" {
		cfg.Widget.DefaultLocale = v
	}
	if v := os.Getenv("FAQ_SCHEMA_MAX_ENTRIES"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Widget.SchemaMaxEntries = parsed
		}
	}
	if v := os.Getenv("FAQ_SHOW_SCHEMA"); v != "" {
		cfg.Widget.ShowSchema = parseBool(v)
	}
	if v := os.Getenv("FAQ_CACHE_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Cache.TTL = parsed
		}
	}
	if v := os.Getenv("FAQ_CACHE_FAST_MAX"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			cfg.Cache.FastMaxEntries = parsed
		}
	}
	if v := os.Getenv("FAQ_CACHE_DRIVER"); v != "" {
		cfg.Cache.Durable.Driver = strings.ToLower(strings.TrimSpace(v))
	}
	if v := os.Getenv("FAQ_VALKEY_ADDR"); v != "" {
		cfg.Cache.Durable.Valkey.Addr = v
	}
	if v := os.Getenv("FAQ_CACHE_POSTGRES_DSN"); v != "" {
		cfg.Cache.Durable.Postgres.DSN = v
	}
	if v := os.Getenv("FAQ_R2_ENDPOINT"); v != "" {
		cfg.Cache.Durable.R2.Endpoint = v
	}
	if v := os.Getenv("FAQ_R2_ACCESS_KEY"); v != "" {
		cfg.Cache.Durable.R2.AccessKey = v
	}
	if v := os.Getenv("FAQ_R2_SECRET_KEY"); v != "" {
		cfg.Cache.Durable.R2.SecretKey = v
	}
	if v := os.Getenv("FAQ_R2_BUCKET"); v != "" {
		cfg.Cache.Durable.R2.Bucket = v
	}
	if v := os.Getenv("FAQ_R2_REGION"); v != "" {
		cfg.Cache.Durable.R2.Region = v
	}
	if v := os.Getenv("FAQ_CONTENT_SEED"); v != "" {
		cfg.Content.SeedFile = v
	}
	if v := os.Getenv("FAQ_CONTENT_POSTGRES_DSN"); v != "" {
		cfg.Content.Postgres.DSN = v
	}
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.Token.Secret = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			cfg.Token.TTL = parsed
		}
	}
}

func defaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Address:      ":8080",
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 5 * time.Second,
			RateLimit: RateLimitConfig{
				Enabled:           true,
				RequestsPerMinute: 120,
				Burst:             30,
			},
		},
		Widget: WidgetConfig{
			VersionTag:       "1",
			DefaultLocale:    "en",
			SchemaMaxEntries: 50,
			ShowSchema:       true,
		},
		Cache: CacheConfig{
			TTL:            6 * time.Hour,
			FastMaxEntries: 512,
			Durable: DurableConfig{
				Driver: DriverMemory,
				Valkey: ValkeyConfig{Prefix: "faqfilter"},
				Postgres: PostgresConfig{
					MaxConns: 4,
				},
				R2: R2Config{
					Region: "auto",
					Prefix: "faq-markup",
				},
			},
		},
		Content: ContentConfig{
			Postgres: PostgresConfig{
				MaxConns: 4,
			},
		},
		Token: TokenConfig{
			TTL:    12 * time.Hour,
			Action: "faq_filter",
		},
	}
}

// Validate ensures the configuration is safe to use.
func (c *Config) Validate() error {
	if c.HTTP.Address == "" {
		return errors.New("http.address cannot be empty")
	}
	if c.HTTP.RateLimit.Enabled {
		if c.HTTP.RateLimit.RequestsPerMinute <= 0 {
			return errors.New("http.rateLimit.requestsPerMinute must be positive")
		}
		if c.HTTP.RateLimit.Burst <= 0 {
			return errors.New("http.rateLimit.burst must be positive")
		}
	}
	if strings.TrimSpace(c.Widget.VersionTag) == "" {
		return errors.New("widget.versionTag cannot be empty")
	}
	if strings.TrimSpace(c.Widget.DefaultLocale) == "" {
		return errors.New("widget.defaultLocale cannot be empty")
	}
	if c.Widget.SchemaMaxEntries < 1 {
		return errors.New("widget.schemaMaxEntries must be at least 1")
	}
	if c.Cache.TTL <= 0 {
		return errors.New("cache.ttl must be positive")
	}
	if c.Cache.FastMaxEntries <= 0 {
		return errors.New("cache.fastMaxEntries must be positive")
	}
	switch c.Cache.Durable.Driver {
	case DriverMemory:
	case DriverValkey:
		if strings.TrimSpace(c.Cache.Durable.Valkey.Addr) == "" {
			return errors.New("cache.durable.valkey.addr cannot be empty when driver is valkey")
		}
	case DriverPostgres:
		if strings.TrimSpace(c.Cache.Durable.Postgres.DSN) == "" {
			return errors.New("cache.durable.postgres.dsn cannot be empty when driver is postgres")
		}
	case DriverR2:
		r2 := c.Cache.Durable.R2
		if strings.TrimSpace(r2.Endpoint) == "" || strings.TrimSpace(r2.Bucket) == "" {
			return errors.New("cache.durable.r2.endpoint and bucket are required when driver is r2")
		}
	default:
		return fmt.Errorf("cache.durable.driver %q is not supported", c.Cache.Durable.Driver)
	}
	if strings.TrimSpace(c.Token.Secret) == "" {
		return errors.New("token.secret cannot be empty")
	}
	if c.Token.TTL <= 0 {
		return errors.New("token.ttl must be positive")
	}
	if strings.TrimSpace(c.Token.Action) == "" {
		return errors.New("token.action cannot be empty")
	}
	return nil
}

func parseBool(v string) bool {
	return v == "1" || strings.EqualFold(v, "true")
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
