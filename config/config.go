package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/romangod6/sitemap-xml/internal/models"
	"github.com/spf13/viper"
)

type Config struct {
	Database struct {
		Driver        string
		URL           string
		BaseURL       string
		SiteResolving bool
	}
	Server struct {
		Port int
	}
	Sitemap struct {
		DocumentRoot          string
		EnabledTemplates      string
		ExcludeItems          string
		XMLNS                 string
		ProductionEnvironment bool
		ConfigurationItem     string
		AnonymousIdentity     string
		PingTimeout           string
		UserAgent             string
		RebuildInterval       string
		GenerateRobotsFile    bool
	}
	Sites   []SiteConfig
	Logging struct {
		Level  string
		Format string
		File   string
	}
}

// SiteConfig is one entry of the sites list.
type SiteConfig struct {
	Name        string
	Hostname    string
	ServerURL   string
	Protocol    string
	SitemapFile string
	StartPath   string
}

func LoadConfig() (*Config, error) {
	// A missing .env is normal outside development.
	if err := godotenv.Load(); err != nil {
		if _, statErr := os.Stat(".env"); statErr == nil {
			slog.Warn("Found .env file but could not load it", "error", err)
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	return load(v)
}

// LoadConfigFile reads configuration from an explicit file path.
func LoadConfigFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	return load(v)
}

func load(v *viper.Viper) (*Config, error) {
	v.SetEnvPrefix("sitemap")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Default values
	v.SetDefault("server.port", 8080)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.url", "content.db")
	v.SetDefault("database.baseurl", "http://localhost")
	v.SetDefault("database.siteresolving", true)
	v.SetDefault("sitemap.documentroot", "./wwwroot")
	v.SetDefault("sitemap.xmlns", models.DefaultSitemapXMLNS)
	v.SetDefault("sitemap.configurationitem", "/sitecore/system/Modules/Sitemap XML/Sitemap configuration")
	v.SetDefault("sitemap.anonymousidentity", `extranet\Anonymous`)
	v.SetDefault("sitemap.pingtimeout", "10s")
	v.SetDefault("sitemap.useragent", "Sitemap XML Bot v1.0")
	v.SetDefault("sitemap.rebuildinterval", "24h")
	v.SetDefault("sitemap.generaterobotsfile", true)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")

	if err := v.ReadInConfig(); err != nil {
		return nil, err
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the settings that would otherwise surface as confusing
// failures halfway through a run.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("database.driver: unknown driver %q", c.Database.Driver)
	}

	if len(c.Sites) == 0 {
		return fmt.Errorf("sites: at least one site must be configured")
	}

	seen := make(map[string]bool, len(c.Sites))
	for i, s := range c.Sites {
		if s.Name == "" {
			return fmt.Errorf("sites[%d]: name is required", i)
		}
		if seen[s.Name] {
			return fmt.Errorf("sites[%d]: duplicate site name %q", i, s.Name)
		}
		seen[s.Name] = true
		if s.SitemapFile == "" {
			return fmt.Errorf("site %q: sitemapfile is required", s.Name)
		}
		if s.StartPath == "" {
			return fmt.Errorf("site %q: startpath is required", s.Name)
		}
		switch strings.ToLower(s.Protocol) {
		case "", "http", "https":
		default:
			return fmt.Errorf("site %q: unsupported protocol %q", s.Name, s.Protocol)
		}
	}

	return nil
}

// SiteRegistry builds the immutable site registry for a run.
func (c *Config) SiteRegistry() (models.SiteRegistry, error) {
	sites := make([]models.Site, 0, len(c.Sites))
	for _, s := range c.Sites {
		sites = append(sites, models.Site{
			Name:        s.Name,
			Hostname:    s.Hostname,
			ServerURL:   s.ServerURL,
			Protocol:    strings.ToLower(s.Protocol),
			SitemapFile: s.SitemapFile,
			StartPath:   s.StartPath,
		})
	}
	return models.NewSiteRegistry(sites)
}

func (c *Config) GetPingTimeout() time.Duration {
	return parseDuration(c.Sitemap.PingTimeout, 10*time.Second)
}

func (c *Config) GetRebuildInterval() time.Duration {
	return parseDuration(c.Sitemap.RebuildInterval, 24*time.Hour)
}

func parseDuration(raw string, fallback time.Duration) time.Duration {
	duration, err := time.ParseDuration(raw)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}
