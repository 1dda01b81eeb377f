// Package robots maintains Sitemap directives in a robots.txt file.
package robots

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/temoto/robotstxt"
)

// FileName is the robots file kept in a document root.
const FileName = "robots.txt"

const directivePrefix = "Sitemap: "

// Registrar appends Sitemap directives to robots files. Calls are serialized
// so concurrent registrations cannot lose each other's lines.
type Registrar struct {
	mu     sync.Mutex
	logger *slog.Logger
}

func NewRegistrar(logger *slog.Logger) *Registrar {
	if logger == nil {
		logger = slog.Default()
	}
	return &Registrar{logger: logger}
}

// RegisterSitemaps adds a "Sitemap: <url>" line for every URL whose line is
// not already present, then rewrites the file. A missing file counts as
// empty. Lines for sitemaps no longer configured are left in place.
func (r *Registrar) RegisterSitemaps(robotsPath string, sitemapURLs []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	existing, err := os.ReadFile(robotsPath)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to read robots file: %w", err)
	}

	var content strings.Builder
	content.Write(existing)

	added := 0
	for _, u := range sitemapURLs {
		if u == "" {
			continue
		}
		line := directivePrefix + u
		if strings.Contains(content.String(), line) {
			continue
		}
		if content.Len() > 0 && !strings.HasSuffix(content.String(), "\n") {
			content.WriteString("\n")
		}
		content.WriteString(line)
		content.WriteString("\n")
		added++
	}

	if err := os.MkdirAll(filepath.Dir(robotsPath), 0755); err != nil {
		return fmt.Errorf("failed to create robots directory: %w", err)
	}
	if err := os.WriteFile(robotsPath, []byte(content.String()), 0644); err != nil {
		return fmt.Errorf("failed to write robots file: %w", err)
	}

	r.logger.Info("Registered sitemaps in robots file",
		slog.String("path", robotsPath),
		slog.Int("added", added),
		slog.Int("requested", len(sitemapURLs)))

	return nil
}

// Sitemaps returns the Sitemap directives declared in the robots file. A
// missing file declares none.
func (r *Registrar) Sitemaps(robotsPath string) ([]string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	data, err := os.ReadFile(robotsPath)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read robots file: %w", err)
	}

	robots, err := robotstxt.FromBytes(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse robots file: %w", err)
	}
	return robots.Sitemaps, nil
}
