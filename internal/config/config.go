// Package config loads server settings. Precedence, lowest first: built-in
// defaults, an optional YAML file, a .env file, the process environment.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"xembed/internal/domain"
	"xembed/pkg/log"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Renderers for the HTML source.
const (
	RendererHTTP    = "http"
	RendererBrowser = "browser"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Upstream  UpstreamConfig  `yaml:"upstream"`
	Scraper   ScraperConfig   `yaml:"scraper"`
	Embed     EmbedConfig     `yaml:"embed"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	LogLevel  log.Level       `yaml:"-" envconfig:"LOG_LEVEL"`
}

// ServerConfig holds HTTP listener settings.
type ServerConfig struct {
	Port   int    `yaml:"port" envconfig:"PORT"`
	AppEnv string `yaml:"app_env" envconfig:"APP_ENV"`
	// PublicURL is where this service is reachable from the outside.
	PublicURL string `yaml:"public_url" envconfig:"PUBLIC_URL"`
}

// UpstreamConfig describes where post representations come from.
type UpstreamConfig struct {
	Strategy       string        `yaml:"strategy" envconfig:"SOURCE_STRATEGY"`
	SyndicationURL string        `yaml:"syndication_url" envconfig:"SYNDICATION_URL"`
	PageBaseURL    string        `yaml:"page_base_url" envconfig:"PAGE_BASE_URL"`
	Timeout        time.Duration `yaml:"timeout" envconfig:"UPSTREAM_TIMEOUT"`
}

// ScraperConfig controls how the HTML document is obtained and read.
type ScraperConfig struct {
	Renderer       string        `yaml:"renderer" envconfig:"HTML_RENDERER"`
	ChromePath     string        `yaml:"chrome_path" envconfig:"CHROME_PATH"`
	BrowserWSURL   string        `yaml:"browser_ws_url" envconfig:"BROWSER_WS_URL"`
	SelectorsPath  string        `yaml:"selectors_path" envconfig:"SELECTORS_PATH"`
	ReloadInterval time.Duration `yaml:"reload_interval" envconfig:"SELECTORS_RELOAD_INTERVAL"`
}

// EmbedConfig holds branding stamped into every preview.
type EmbedConfig struct {
	SiteLabel    string `yaml:"site_label" envconfig:"SITE_LABEL"`
	CompositeURL string `yaml:"composite_url" envconfig:"COMPOSITE_URL"`
	OEmbedURL    string `yaml:"oembed_url" envconfig:"OEMBED_URL"`
	ThemeColor   string `yaml:"theme_color" envconfig:"THEME_COLOR"`
	Timezone     string `yaml:"timezone" envconfig:"DISPLAY_TIMEZONE"`
}

// RateLimitConfig bounds previews per client IP. Limit 0 disables it.
type RateLimitConfig struct {
	Limit  int           `yaml:"limit" envconfig:"RATE_LIMIT"`
	Window time.Duration `yaml:"window" envconfig:"RATE_LIMIT_WINDOW"`
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:      3000,
			AppEnv:    "development",
			PublicURL: "http://localhost:3000",
		},
		Upstream: UpstreamConfig{
			Strategy:       string(domain.StrategyHybrid),
			SyndicationURL: "https://cdn.syndication.twimg.com/tweet-result",
			PageBaseURL:    "https://twitter.com",
			Timeout:        10 * time.Second,
		},
		Scraper: ScraperConfig{
			Renderer:       RendererHTTP,
			SelectorsPath:  "config/selectors.yaml",
			ReloadInterval: 30 * time.Second,
		},
		Embed: EmbedConfig{
			SiteLabel:    "xembed",
			CompositeURL: "https://vxtwitter.com/rendercombined.jpg",
			ThemeColor:   "#2B2D31",
			Timezone:     "UTC",
		},
		RateLimit: RateLimitConfig{
			Limit:  60,
			Window: time.Minute,
		},
		LogLevel: log.Info,
	}
}

// Load builds the configuration. configPath may be empty; envFile may name
// a .env file that is silently skipped when missing.
func Load(configPath, envFile string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", envFile, err)
		}
	}

	// No default tags: absent variables leave file and built-in values alone.
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}

	cfg.Server.PublicURL = strings.TrimRight(cfg.Server.PublicURL, "/")
	if cfg.Embed.OEmbedURL == "" {
		cfg.Embed.OEmbedURL = cfg.Server.PublicURL + "/oembed"
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks values that would otherwise fail at request time.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Server.Port)
	}
	if _, err := c.Strategy(); err != nil {
		return fmt.Errorf("SOURCE_STRATEGY %q: %w", c.Upstream.Strategy, err)
	}
	switch c.Scraper.Renderer {
	case RendererHTTP, RendererBrowser:
	default:
		return fmt.Errorf("HTML_RENDERER must be %q or %q, got %q", RendererHTTP, RendererBrowser, c.Scraper.Renderer)
	}
	if c.Upstream.Timeout <= 0 {
		return errors.New("UPSTREAM_TIMEOUT must be positive")
	}
	if _, err := c.Location(); err != nil {
		return fmt.Errorf("DISPLAY_TIMEZONE: %w", err)
	}
	if c.RateLimit.Limit > 0 && c.RateLimit.Window <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be positive when RATE_LIMIT is set")
	}
	return nil
}

// IsProduction reports whether APP_ENV is "production".
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Server.AppEnv, "production")
}

// Strategy parses the configured source strategy.
func (c *Config) Strategy() (domain.SourceStrategy, error) {
	return domain.ParseSourceStrategy(c.Upstream.Strategy)
}

// Location loads the display time zone.
func (c *Config) Location() (*time.Location, error) {
	return time.LoadLocation(c.Embed.Timezone)
}

// Address returns the listen address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf(":%d", c.Port)
}
