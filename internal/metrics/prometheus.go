package metrics

import (
	"net/http"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "sitemapxml"

// PrometheusRecorder implements Recorder using Prometheus metrics.
type PrometheusRecorder struct {
	sitemapURLs   *prom.GaugeVec
	builds        *prom.CounterVec
	buildDuration *prom.HistogramVec
	pings         *prom.CounterVec
}

// NewPrometheusRecorder constructs the metrics and registers them with reg.
func NewPrometheusRecorder(reg *prom.Registry) *PrometheusRecorder {
	pr := &PrometheusRecorder{
		sitemapURLs: prom.NewGaugeVec(prom.GaugeOpts{
			Namespace: namespace,
			Name:      "sitemap_urls",
			Help:      "Number of URLs written to the last sitemap of each site",
		}, []string{"site"}),
		builds: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "sitemap_builds_total",
			Help:      "Sitemap builds by site and result",
		}, []string{"site", "result"}),
		buildDuration: prom.NewHistogramVec(prom.HistogramOpts{
			Namespace: namespace,
			Name:      "sitemap_build_duration_seconds",
			Help:      "Duration of successful sitemap builds",
			Buckets:   prom.DefBuckets,
		}, []string{"site"}),
		pings: prom.NewCounterVec(prom.CounterOpts{
			Namespace: namespace,
			Name:      "search_engine_pings_total",
			Help:      "Search engine pings by outcome",
		}, []string{"outcome"}),
	}
	if reg != nil {
		reg.MustRegister(pr.sitemapURLs, pr.builds, pr.buildDuration, pr.pings)
	}
	return pr
}

func (pr *PrometheusRecorder) SitemapBuilt(site string, urls int, duration time.Duration) {
	pr.sitemapURLs.WithLabelValues(site).Set(float64(urls))
	pr.builds.WithLabelValues(site, "success").Inc()
	pr.buildDuration.WithLabelValues(site).Observe(duration.Seconds())
}

func (pr *PrometheusRecorder) SitemapFailed(site string) {
	pr.builds.WithLabelValues(site, "failure").Inc()
}

func (pr *PrometheusRecorder) PingCompleted(outcome string) {
	pr.pings.WithLabelValues(outcome).Inc()
}

// HTTPHandler serves the metrics registered with reg.
func HTTPHandler(reg *prom.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg})
}
