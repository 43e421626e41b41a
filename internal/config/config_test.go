package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"xembed/internal/domain"
	"xembed/pkg/log"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("", "")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("Port = %d, want 3000", cfg.Server.Port)
	}
	if cfg.IsProduction() {
		t.Error("default environment should not be production")
	}
	if s, _ := cfg.Strategy(); s != domain.StrategyHybrid {
		t.Errorf("Strategy = %v, want hybrid", s)
	}
	if cfg.Embed.OEmbedURL != "http://localhost:3000/oembed" {
		t.Errorf("OEmbedURL = %q", cfg.Embed.OEmbedURL)
	}
	if cfg.LogLevel != log.Info {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoad_FileThenEnv(t *testing.T) {
	// Arrange
	path := writeFile(t, "xembed.yaml", `
server:
  port: 8080
  public_url: https://embed.example.com/
upstream:
  strategy: html_only
  timeout: 3s
embed:
  site_label: FixEmbed
`)
	t.Setenv("PORT", "9090")
	t.Setenv("APP_ENV", "production")
	t.Setenv("LOG_LEVEL", "debug")

	// Act
	cfg, err := Load(path, "")

	// Assert
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("env should override file: Port = %d", cfg.Server.Port)
	}
	if cfg.Upstream.Timeout != 3*time.Second {
		t.Errorf("file value lost: Timeout = %v", cfg.Upstream.Timeout)
	}
	if s, _ := cfg.Strategy(); s != domain.StrategyHTMLOnly {
		t.Errorf("Strategy = %v", s)
	}
	if cfg.Embed.SiteLabel != "FixEmbed" {
		t.Errorf("SiteLabel = %q", cfg.Embed.SiteLabel)
	}
	if cfg.Embed.OEmbedURL != "https://embed.example.com/oembed" {
		t.Errorf("OEmbedURL = %q", cfg.Embed.OEmbedURL)
	}
	if cfg.Upstream.PageBaseURL != "https://twitter.com" {
		t.Errorf("unset key should keep default, got %q", cfg.Upstream.PageBaseURL)
	}
	if !cfg.IsProduction() {
		t.Error("APP_ENV=production not honoured")
	}
	if cfg.LogLevel != log.Debug {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoad_DotEnvFile(t *testing.T) {
	envFile := writeFile(t, ".env", "OEMBED_URL=https://oembed.example.com/o\nHTML_RENDERER=browser\n")
	// Registered so t.Setenv restores the variables godotenv sets.
	t.Setenv("OEMBED_URL", "")
	t.Setenv("HTML_RENDERER", "")
	os.Unsetenv("OEMBED_URL")
	os.Unsetenv("HTML_RENDERER")

	cfg, err := Load("", envFile)

	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Embed.OEmbedURL != "https://oembed.example.com/o" {
		t.Errorf("OEmbedURL = %q", cfg.Embed.OEmbedURL)
	}
	if cfg.Scraper.Renderer != RendererBrowser {
		t.Errorf("Renderer = %q", cfg.Scraper.Renderer)
	}
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	if _, err := Load("", filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("missing .env should be ignored, got %v", err)
	}
}

func TestLoad_MissingConfigFileFails(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml"), ""); err == nil {
		t.Error("expected error for missing config file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"bad port", func(c *Config) { c.Server.Port = 0 }, "PORT"},
		{"bad strategy", func(c *Config) { c.Upstream.Strategy = "json_only" }, "SOURCE_STRATEGY"},
		{"bad renderer", func(c *Config) { c.Scraper.Renderer = "curl" }, "HTML_RENDERER"},
		{"bad timeout", func(c *Config) { c.Upstream.Timeout = 0 }, "UPSTREAM_TIMEOUT"},
		{"bad timezone", func(c *Config) { c.Embed.Timezone = "Mars/Olympus" }, "DISPLAY_TIMEZONE"},
		{"bad window", func(c *Config) { c.RateLimit.Window = 0 }, "RATE_LIMIT_WINDOW"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()

			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want mention of %s", err, tt.want)
			}
		})
	}

	if err := Default().Validate(); err != nil {
		t.Errorf("defaults should validate: %v", err)
	}
}

func TestLoad_InvalidLogLevel(t *testing.T) {
	t.Setenv("LOG_LEVEL", "chatty")

	if _, err := Load("", ""); err == nil {
		t.Error("expected error for unknown LOG_LEVEL")
	}
}
