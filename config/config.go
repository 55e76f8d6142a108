package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the content-acquisition layer.
// It is loaded once at startup and passed explicitly into every
// component; nothing below the entry points reads ambient state.
type Config struct {
	General   GeneralConfig   `mapstructure:"general"`
	Server    ServerConfig    `mapstructure:"server"`
	Search    SearchConfig    `mapstructure:"search"`
	Retrieve  RetrieveConfig  `mapstructure:"retrieve"`
	Progress  ProgressConfig  `mapstructure:"progress"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Address       string `mapstructure:"address"`
	StreamEnabled bool   `mapstructure:"stream_enabled"`
}

// SearchConfig configures the search capabilities and fan-out limits
type SearchConfig struct {
	MaxQueries     int           `mapstructure:"max_queries"`
	DefaultResults int           `mapstructure:"default_results"`
	MaxResults     int           `mapstructure:"max_results"`
	Tavily         TavilyConfig  `mapstructure:"tavily"`
	SearxNG        SearxNGConfig `mapstructure:"searxng"`
}

// TavilyConfig configures the primary search capability
type TavilyConfig struct {
	APIKey     string        `mapstructure:"api_key"`
	BaseURL    string        `mapstructure:"base_url"`
	MaxResults int           `mapstructure:"max_results"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// SearxNGConfig configures the self-hosted fallback search capability
type SearxNGConfig struct {
	BaseURL    string        `mapstructure:"base_url"`
	Language   string        `mapstructure:"language"`
	SafeSearch int           `mapstructure:"safesearch"`
	Timeout    time.Duration `mapstructure:"timeout"`
}

// RetrieveConfig configures the extraction tiers
type RetrieveConfig struct {
	MaxContentChars int           `mapstructure:"max_content_chars"`
	Exa             ExaConfig     `mapstructure:"exa"`
	Reader          ReaderConfig  `mapstructure:"reader"`
	FetchTimeout    time.Duration `mapstructure:"fetch_timeout"`
}

// ExaConfig configures the primary extraction capability
type ExaConfig struct {
	APIKey    string        `mapstructure:"api_key"`
	BaseURL   string        `mapstructure:"base_url"`
	LiveCrawl string        `mapstructure:"livecrawl"`
	Timeout   time.Duration `mapstructure:"timeout"`
}

// ReaderConfig configures the render-service extraction capability.
// Type selects the implementation: "http" posts to Endpoint, "browser"
// renders locally with headless Chrome.
type ReaderConfig struct {
	Type     string        `mapstructure:"type"`
	Endpoint string        `mapstructure:"endpoint"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

// ProgressConfig selects the progress-event sink
type ProgressConfig struct {
	Sink  string      `mapstructure:"sink"` // log, redis, none
	Redis RedisConfig `mapstructure:"redis"`
}

// RedisConfig configures the redis pub/sub progress sink
type RedisConfig struct {
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
	Pass    string `mapstructure:"pass"`
	DB      int    `mapstructure:"db"`
	Channel string `mapstructure:"channel"`
}

// TelemetryConfig contains metrics settings
type TelemetryConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.address", ":8090")
	v.SetDefault("server.stream_enabled", true)

	v.SetDefault("search.max_queries", 10)
	v.SetDefault("search.default_results", 10)
	v.SetDefault("search.max_results", 20)
	// Secrets default to empty so their env bindings are always visible
	// to Unmarshal.
	v.SetDefault("search.tavily.api_key", "")
	v.SetDefault("search.tavily.base_url", "https://api.tavily.com")
	v.SetDefault("search.tavily.max_results", 15)
	v.SetDefault("search.tavily.timeout", 30*time.Second)
	v.SetDefault("search.searxng.base_url", "http://localhost:8080")
	v.SetDefault("search.searxng.language", "en")
	v.SetDefault("search.searxng.safesearch", 0)
	v.SetDefault("search.searxng.timeout", 20*time.Second)

	v.SetDefault("retrieve.max_content_chars", 8000)
	v.SetDefault("retrieve.exa.api_key", "")
	v.SetDefault("retrieve.exa.base_url", "https://api.exa.ai")
	v.SetDefault("retrieve.exa.livecrawl", "preferred")
	v.SetDefault("retrieve.exa.timeout", 30*time.Second)
	v.SetDefault("retrieve.reader.type", "http")
	v.SetDefault("retrieve.reader.endpoint", "http://localhost:3000")
	v.SetDefault("retrieve.reader.timeout", 30*time.Second)
	v.SetDefault("retrieve.fetch_timeout", 15*time.Second)

	v.SetDefault("progress.sink", "log")
	v.SetDefault("progress.redis.host", "localhost")
	v.SetDefault("progress.redis.port", "6379")
	v.SetDefault("progress.redis.channel", "fetchkit.progress")

	v.SetDefault("telemetry.enabled", true)
}

// Load reads configuration from the given file (or the default search
// paths when path is empty) plus FETCHKIT_* environment variables, and
// returns the resulting Config. A missing config file is not an error;
// defaults and env vars still apply.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if path == "" {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	} else {
		v.SetConfigFile(path)
	}

	v.SetEnvPrefix("FETCHKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return &cfg, nil
}
