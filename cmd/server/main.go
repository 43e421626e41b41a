package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"xembed/internal/adapters/payload"
	"xembed/internal/adapters/scraper"
	"xembed/internal/adapters/web"
	"xembed/internal/config"
	"xembed/internal/metadata"
	"xembed/internal/redirect"
	"xembed/internal/usecases"
	"xembed/pkg/log"
	"xembed/pkg/log/transporters"
	"xembed/pkg/syndication"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	envFile := flag.String("env-file", ".env", "dotenv file loaded before reading the environment")
	flag.Parse()

	if err := run(*configPath, *envFile); err != nil {
		fmt.Fprintln(os.Stderr, "xembed:", err)
		os.Exit(1)
	}
}

func run(configPath, envFile string) error {
	cfg, err := config.Load(configPath, envFile)
	if err != nil {
		return err
	}

	logger := log.New(cfg.LogLevel, transporters.NewStdout()).With("service", "xembed")
	log.SetDefault(logger)
	defer logger.Close()

	strategy, _ := cfg.Strategy()
	location, _ := cfg.Location()

	selectors, err := scraper.LoadSelectors(cfg.Scraper.SelectorsPath, cfg.Scraper.ReloadInterval)
	if err != nil {
		return fmt.Errorf("load selectors: %w", err)
	}

	var fetcher scraper.PageFetcher = scraper.NewHTTPFetcher(cfg.Upstream.Timeout)
	if cfg.Scraper.Renderer == config.RendererBrowser {
		pool, err := newBrowserPool(cfg.Scraper)
		if err != nil {
			return fmt.Errorf("start browser: %w", err)
		}
		defer pool.Close()
		fetcher = scraper.NewBrowserFetcher(pool, cfg.Upstream.Timeout)
	}
	htmlSource := scraper.NewPostScraper(fetcher, selectors, cfg.Upstream.PageBaseURL)

	var jsonSource usecases.FieldSource
	if strategy.NeedsJSON() {
		client := syndication.NewClient(cfg.Upstream.Timeout, syndication.WithBaseURL(cfg.Upstream.SyndicationURL))
		jsonSource = payload.NewSource(client)
	}

	normalizer := metadata.New(metadata.Options{
		SiteLabel:    cfg.Embed.SiteLabel,
		CompositeURL: cfg.Embed.CompositeURL,
		OEmbedURL:    cfg.Embed.OEmbedURL,
		ProviderURL:  cfg.Server.PublicURL,
		ThemeColor:   cfg.Embed.ThemeColor,
		Location:     location,
	})
	resolveUC := usecases.NewResolveEmbedUseCase(strategy, jsonSource, htmlSource, normalizer)

	handlers := web.NewHandlers(resolveUC, redirect.NewBuilder(cfg.IsProduction(), cfg.Upstream.PageBaseURL))
	rateLimiter := web.NewRateLimiter(cfg.RateLimit.Limit, cfg.RateLimit.Window)
	defer rateLimiter.Close()

	app := fiber.New(fiber.Config{
		AppName:               "xembed",
		DisableStartupMessage: true,
	})
	app.Use(recover.New())
	app.Use(requestid.New(web.RequestIDConfig()))
	app.Use(web.RequestIDToContextMiddleware())
	app.Use(web.RequestLoggerMiddleware())
	web.SetupRoutes(app, handlers, rateLimiter)

	errCh := make(chan error, 1)
	go func() {
		log.GlobalInfo("starting xembed",
			"addr", cfg.Server.Address(),
			"strategy", string(strategy),
			"renderer", cfg.Scraper.Renderer,
			"production", cfg.IsProduction(),
		)
		errCh <- app.Listen(cfg.Server.Address())
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		log.GlobalInfo("shutting down", "signal", s.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return app.ShutdownWithContext(ctx)
}

func newBrowserPool(cfg config.ScraperConfig) (*scraper.BrowserPool, error) {
	if cfg.BrowserWSURL != "" {
		return scraper.NewRemoteBrowserPool(cfg.BrowserWSURL)
	}
	return scraper.NewBrowserPool(cfg.ChromePath)
}
