// Package metrics records sitemap build and search engine ping outcomes.
package metrics

import "time"

// Recorder receives pipeline events.
type Recorder interface {
	SitemapBuilt(site string, urls int, duration time.Duration)
	SitemapFailed(site string)
	PingCompleted(outcome string)
}

// NoopRecorder discards everything.
type NoopRecorder struct{}

func (NoopRecorder) SitemapBuilt(string, int, time.Duration) {}
func (NoopRecorder) SitemapFailed(string)                    {}
func (NoopRecorder) PingCompleted(string)                    {}
