package sitemap

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/romangod6/sitemap-xml/internal/metrics"
	"github.com/romangod6/sitemap-xml/internal/models"
	"github.com/romangod6/sitemap-xml/internal/notifier"
	"github.com/romangod6/sitemap-xml/internal/robots"
	"github.com/romangod6/sitemap-xml/internal/storage"
	"github.com/romangod6/sitemap-xml/internal/utils"
)

// Field names read from the search engine configuration items.
const (
	SearchEnginesField     = "Search engines"
	HTTPRequestStringField = "HttpRequestString"
)

type Options struct {
	DocumentRoot          string
	EnabledTemplates      string
	ExcludeItems          string
	XMLNS                 string
	AnonymousIdentity     string
	ProductionEnvironment bool
	ConfigurationItem     string
	GenerateRobotsFile    bool
	SiteResolving         bool
}

// Pinger submits one sitemap URL to one search engine.
type Pinger interface {
	Notify(ctx context.Context, engineTemplate, sitemapURL string) notifier.Outcome
}

// BuildResult reports the outcome of one site's build.
type BuildResult struct {
	Site        string `json:"site"`
	SitemapPath string `json:"sitemapPath"`
	SitemapURL  string `json:"sitemapUrl"`
	URLCount    int    `json:"urlCount"`
	Error       string `json:"error,omitempty"`
	Err         error  `json:"-"`
}

// BuildError wraps the failure of a single site's build.
type BuildError struct {
	Site        string
	SitemapPath string
	Err         error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("unable to build sitemap for site=%q path=%q: %v", e.Site, e.SitemapPath, e.Err)
}

func (e *BuildError) Unwrap() error { return e.Err }

// Manager builds the sitemaps of every configured site and publishes their
// locations.
type Manager struct {
	repo     storage.Repository
	registry models.SiteRegistry
	opts     Options

	selector *Selector
	resolver *Resolver
	robots   *robots.Registrar
	pinger   Pinger
	metrics  metrics.Recorder
	logger   *slog.Logger

	enabled  IDSet
	excluded IDSet

	runMu sync.Mutex
}

// Deps are the collaborators of a Manager. Optional ones fall back to
// defaults when nil.
type Deps struct {
	Repository storage.Repository
	Links      LinkProvider
	Robots     *robots.Registrar
	Pinger     Pinger
	Metrics    metrics.Recorder
	Logger     *slog.Logger
}

func NewManager(registry models.SiteRegistry, opts Options, deps Deps) *Manager {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	rec := deps.Metrics
	if rec == nil {
		rec = metrics.NoopRecorder{}
	}
	links := deps.Links
	if links == nil {
		links = storage.NewLinkManager(storage.DefaultBaseURL)
	}
	registrar := deps.Robots
	if registrar == nil {
		registrar = robots.NewRegistrar(logger)
	}

	enabled, badTemplates := ParseIDList(opts.EnabledTemplates)
	excluded, badItems := ParseIDList(opts.ExcludeItems)
	for _, token := range append(badTemplates, badItems...) {
		logger.Warn("Ignoring identifier that is not a GUID", slog.String("token", token))
	}
	if len(enabled) == 0 {
		logger.Warn("No sitemap templates enabled; sitemaps will be empty")
	}

	return &Manager{
		repo:     deps.Repository,
		registry: registry,
		opts:     opts,
		selector: NewSelector(deps.Repository, opts.AnonymousIdentity, logger),
		resolver: NewResolver(links, opts.SiteResolving, logger),
		robots:   registrar,
		pinger:   deps.Pinger,
		metrics:  rec,
		logger:   logger,
		enabled:  enabled,
		excluded: excluded,
	}
}

// Sites returns the configured sites in registry order.
func (m *Manager) Sites() []models.Site {
	return m.registry.Sites()
}

// Run builds every site's sitemap and then registers the sitemaps in the
// robots file.
func (m *Manager) Run(ctx context.Context) ([]BuildResult, error) {
	m.runMu.Lock()
	defer m.runMu.Unlock()

	results := m.BuildAll(ctx)
	if err := m.RegisterRobots(ctx); err != nil {
		return results, err
	}
	return results, nil
}

// BuildAll builds each site in registry order. A failing site is logged and
// reported in its result; the remaining sites are still built.
func (m *Manager) BuildAll(ctx context.Context) []BuildResult {
	sites := m.registry.Sites()
	results := make([]BuildResult, 0, len(sites))

	for _, site := range sites {
		result, err := m.BuildSite(ctx, site)
		if err != nil {
			m.logger.ErrorContext(ctx, "Sitemap build failed",
				utils.Site(site.Name),
				utils.SitemapPath(result.SitemapPath),
				utils.Err(err))
			m.metrics.SitemapFailed(site.Name)
			result.Err = err
			result.Error = err.Error()
		}
		results = append(results, result)
	}

	return results
}

// BuildSite selects, resolves and serializes one site's items and writes the
// sitemap below the document root.
func (m *Manager) BuildSite(ctx context.Context, site models.Site) (BuildResult, error) {
	start := time.Now()
	result := BuildResult{
		Site:        site.Name,
		SitemapPath: m.sitemapPath(site),
		SitemapURL:  m.resolver.SitemapURL(ctx, site),
	}
	fail := func(err error) (BuildResult, error) {
		return result, &BuildError{Site: site.Name, SitemapPath: site.SitemapFile, Err: err}
	}

	items, err := m.selector.SelectItems(ctx, site.StartPath, m.enabled, m.excluded)
	if err != nil {
		return fail(err)
	}

	entries := make([]models.SitemapEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, models.SitemapEntry{
			Loc:          m.resolver.ResolveURL(ctx, item, site),
			LastModified: item.Updated,
		})
	}

	data, err := BuildDocument(entries, m.opts.XMLNS)
	if err != nil {
		return fail(err)
	}
	if err := WriteDocument(result.SitemapPath, data); err != nil {
		return fail(err)
	}

	result.URLCount = len(entries)
	elapsed := time.Since(start)
	m.metrics.SitemapBuilt(site.Name, len(entries), elapsed)
	m.logger.InfoContext(ctx, "Sitemap written",
		utils.Site(site.Name),
		utils.SitemapPath(result.SitemapPath),
		utils.Count(len(entries)),
		utils.DurationMS(float64(elapsed.Milliseconds())))

	return result, nil
}

// SitemapURLs returns the public sitemap URL of every site in registry order.
func (m *Manager) SitemapURLs(ctx context.Context) []string {
	sites := m.registry.Sites()
	urls := make([]string, 0, len(sites))
	for _, site := range sites {
		urls = append(urls, m.resolver.SitemapURL(ctx, site))
	}
	return urls
}

// RegisterRobots adds every site's sitemap URL to the document root's
// robots file in a single read-modify-write.
func (m *Manager) RegisterRobots(ctx context.Context) error {
	if !m.opts.GenerateRobotsFile {
		m.logger.DebugContext(ctx, "Robots file registration disabled")
		return nil
	}
	return m.robots.RegisterSitemaps(m.robotsPath(), m.SitemapURLs(ctx))
}

// RobotsSitemaps returns the Sitemap directives currently in the robots file.
func (m *Manager) RobotsSitemaps() ([]string, error) {
	return m.robots.Sitemaps(m.robotsPath())
}

// SubmitToSearchEngines pings every configured search engine for every
// site's sitemap. It returns false outside production or when the search
// engine configuration item is missing, and true once every engine has been
// attempted, whatever the individual outcomes.
func (m *Manager) SubmitToSearchEngines(ctx context.Context) (bool, error) {
	if !m.opts.ProductionEnvironment {
		m.logger.InfoContext(ctx, "Skipping search engine submission outside production")
		return false, nil
	}
	if m.pinger == nil {
		return false, fmt.Errorf("no search engine notifier configured")
	}
	if m.repo == nil {
		return false, ErrRepositoryUnavailable
	}
	if err := m.repo.Ping(ctx); err != nil {
		return false, fmt.Errorf("%w: %w", ErrRepositoryUnavailable, err)
	}

	cfgItem, err := m.repo.ItemByPath(ctx, m.opts.ConfigurationItem)
	if err != nil {
		return false, fmt.Errorf("failed to load sitemap configuration item: %w", err)
	}
	if cfgItem == nil {
		m.logger.WarnContext(ctx, "Sitemap configuration item not found",
			slog.String("path", m.opts.ConfigurationItem))
		return false, nil
	}

	urls := m.SitemapURLs(ctx)
	for _, token := range strings.Split(cfgItem.Field(SearchEnginesField), ListSeparator) {
		token = strings.TrimSpace(token)
		if token == "" {
			continue
		}
		engineTemplate, ok := m.engineTemplate(ctx, token)
		if !ok {
			continue
		}
		for _, u := range urls {
			outcome := m.pinger.Notify(ctx, engineTemplate, u)
			m.metrics.PingCompleted(string(outcome))
		}
	}

	return true, nil
}

func (m *Manager) engineTemplate(ctx context.Context, token string) (string, bool) {
	id, err := uuid.Parse(token)
	if err != nil {
		m.logger.WarnContext(ctx, "Ignoring search engine reference that is not a GUID", slog.String("token", token))
		return "", false
	}

	engine, err := m.repo.ItemByID(ctx, id)
	if err != nil {
		m.logger.WarnContext(ctx, "Failed to load search engine item", utils.Engine(token), utils.Err(err))
		return "", false
	}
	if engine == nil {
		return "", false
	}

	tpl := engine.Field(HTTPRequestStringField)
	if tpl == "" {
		m.logger.WarnContext(ctx, "Search engine item has no request string", utils.Engine(engine.Name))
		return "", false
	}
	return tpl, true
}

func (m *Manager) sitemapPath(site models.Site) string {
	return filepath.Join(m.opts.DocumentRoot, filepath.FromSlash(strings.TrimPrefix(site.SitemapFile, "/")))
}

func (m *Manager) robotsPath() string {
	return filepath.Join(m.opts.DocumentRoot, robots.FileName)
}
