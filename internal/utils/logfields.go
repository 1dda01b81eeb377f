package utils

import "log/slog"

// Canonical log field names.
const (
	KeySite        = "site"
	KeySitemapPath = "sitemap_path"
	KeyURL         = "url"
	KeyEngine      = "engine"
	KeyStatus      = "status"
	KeyCount       = "count"
	KeyDurationMS  = "duration_ms"
	KeyError       = "error"
)

func Site(name string) slog.Attr      { return slog.String(KeySite, name) }
func SitemapPath(p string) slog.Attr  { return slog.String(KeySitemapPath, p) }
func URL(u string) slog.Attr          { return slog.String(KeyURL, u) }
func Engine(e string) slog.Attr       { return slog.String(KeyEngine, e) }
func Status(code int) slog.Attr       { return slog.Int(KeyStatus, code) }
func Count(n int) slog.Attr           { return slog.Int(KeyCount, n) }
func DurationMS(ms float64) slog.Attr { return slog.Float64(KeyDurationMS, ms) }
func Err(err error) slog.Attr {
	if err == nil {
		return slog.String(KeyError, "")
	}
	return slog.String(KeyError, err.Error())
}
