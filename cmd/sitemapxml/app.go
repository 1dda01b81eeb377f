package main

import (
	"fmt"
	"io"
	"log/slog"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/romangod6/sitemap-xml/config"
	"github.com/romangod6/sitemap-xml/internal/metrics"
	"github.com/romangod6/sitemap-xml/internal/notifier"
	"github.com/romangod6/sitemap-xml/internal/robots"
	"github.com/romangod6/sitemap-xml/internal/sitemap"
	"github.com/romangod6/sitemap-xml/internal/storage"
	"github.com/romangod6/sitemap-xml/internal/utils"
)

// app holds everything a command needs for one process run.
type app struct {
	cfg      *config.Config
	logger   *slog.Logger
	repo     storage.Repository
	manager  *sitemap.Manager
	registry *prom.Registry
	closers  []io.Closer
}

func loadConfig() (*config.Config, error) {
	if configFile != "" {
		return config.LoadConfigFile(configFile)
	}
	return config.LoadConfig()
}

func newApp() (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	logger, logCloser, err := utils.NewLogger(utils.LoggerOptions{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		File:   cfg.Logging.File,
	})
	if err != nil {
		return nil, err
	}
	slog.SetDefault(logger)

	registry, err := cfg.SiteRegistry()
	if err != nil {
		logCloser.Close()
		return nil, fmt.Errorf("invalid site configuration: %w", err)
	}

	repo, err := storage.Open(cfg.Database.Driver, cfg.Database.URL)
	if err != nil {
		logCloser.Close()
		return nil, err
	}

	promRegistry := prom.NewRegistry()
	manager := sitemap.NewManager(registry, sitemap.Options{
		DocumentRoot:          cfg.Sitemap.DocumentRoot,
		EnabledTemplates:      cfg.Sitemap.EnabledTemplates,
		ExcludeItems:          cfg.Sitemap.ExcludeItems,
		XMLNS:                 cfg.Sitemap.XMLNS,
		AnonymousIdentity:     cfg.Sitemap.AnonymousIdentity,
		ProductionEnvironment: cfg.Sitemap.ProductionEnvironment,
		ConfigurationItem:     cfg.Sitemap.ConfigurationItem,
		GenerateRobotsFile:    cfg.Sitemap.GenerateRobotsFile,
		SiteResolving:         cfg.Database.SiteResolving,
	}, sitemap.Deps{
		Repository: repo,
		Links:      storage.NewLinkManager(cfg.Database.BaseURL),
		Robots:     robots.NewRegistrar(logger),
		Pinger: notifier.New(notifier.Config{
			UserAgent: cfg.Sitemap.UserAgent,
			Timeout:   cfg.GetPingTimeout(),
		}, logger),
		Metrics: metrics.NewPrometheusRecorder(promRegistry),
		Logger:  logger,
	})

	return &app{
		cfg:      cfg,
		logger:   logger,
		repo:     repo,
		manager:  manager,
		registry: promRegistry,
		closers:  []io.Closer{repo, logCloser},
	}, nil
}

func (a *app) Close() {
	for _, c := range a.closers {
		c.Close()
	}
}
