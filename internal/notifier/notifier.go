// Package notifier pings search engines about updated sitemaps.
package notifier

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"github.com/romangod6/sitemap-xml/internal/utils"
	"golang.org/x/net/html"
)

// Outcome classifies a single ping.
type Outcome string

const (
	OutcomeSubmitted Outcome = "submitted"
	OutcomeSkipped   Outcome = "skipped"
	OutcomeRejected  Outcome = "rejected"
	OutcomeFailed    Outcome = "failed"
)

// LoopbackMarker identifies development sitemap URLs that search engines
// refuse.
const LoopbackMarker = "http://localhost"

const defaultTimeout = 10 * time.Second

type Config struct {
	UserAgent string
	Timeout   time.Duration
}

// Notifier issues one synchronous GET per (engine, sitemap) pair.
type Notifier struct {
	collector *colly.Collector
	logger    *slog.Logger
}

func New(cfg Config, logger *slog.Logger) *Notifier {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	opts := []colly.CollectorOption{colly.AllowURLRevisit()}
	if cfg.UserAgent != "" {
		opts = append(opts, colly.UserAgent(cfg.UserAgent))
	}
	c := colly.NewCollector(opts...)
	c.SetRequestTimeout(cfg.Timeout)

	return &Notifier{
		collector: c,
		logger:    logger,
	}
}

// Notify submits sitemapURL to the engine whose request template is
// engineTemplate. Failures are logged and reported through the outcome only.
func (n *Notifier) Notify(ctx context.Context, engineTemplate, sitemapURL string) Outcome {
	if strings.Contains(sitemapURL, LoopbackMarker) {
		n.logger.DebugContext(ctx, "Skipping loopback sitemap",
			utils.Engine(engineTemplate),
			utils.URL(sitemapURL))
		return OutcomeSkipped
	}

	request := engineTemplate + html.EscapeString(sitemapURL)

	if err := ctx.Err(); err != nil {
		n.logger.WarnContext(ctx, "Search engine ping cancelled",
			slog.String("request", request),
			utils.Err(err))
		return OutcomeFailed
	}

	var (
		status    int
		errStatus int
		failure   error
	)

	// Callbacks are per ping; the clone shares the parent's transport and timeout.
	c := n.collector.Clone()
	c.OnResponse(func(r *colly.Response) {
		status = r.StatusCode
	})
	c.OnError(func(r *colly.Response, err error) {
		failure = err
		if r != nil {
			errStatus = r.StatusCode
		}
	})

	if err := c.Visit(request); err != nil && failure == nil {
		failure = err
	}

	switch {
	case failure != nil && errStatus != 0:
		n.logger.ErrorContext(ctx, "Cannot submit sitemap",
			utils.Engine(engineTemplate),
			utils.Status(errStatus))
		return OutcomeRejected
	case failure != nil:
		n.logger.WarnContext(ctx, "Search engine request failed",
			slog.String("request", request),
			utils.Err(failure))
		return OutcomeFailed
	case status != http.StatusOK:
		n.logger.ErrorContext(ctx, "Cannot submit sitemap",
			utils.Engine(engineTemplate),
			utils.Status(status))
		return OutcomeRejected
	}

	n.logger.InfoContext(ctx, "Submitted sitemap",
		utils.Engine(engineTemplate),
		utils.URL(sitemapURL))
	return OutcomeSubmitted
}
