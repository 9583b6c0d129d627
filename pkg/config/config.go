// Package config provides configuration management for the scraper.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"caselaw-scraper/pkg/export"
	"caselaw-scraper/pkg/httpclient"
	"caselaw-scraper/pkg/pipeline"
	"caselaw-scraper/pkg/sites"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// Listing sources.
const (
	SourceHTML = "html"
	SourceAtom = "atom"
)

// Configuration validation errors.
var (
	ErrMissingBaseURL    = errors.New("site.base_url is required")
	ErrInvalidFirstPage  = errors.New("listing.first_page must be at least 1")
	ErrInvalidPageRange  = errors.New("listing.last_page cannot be lower than listing.first_page")
	ErrInvalidRowDelay   = errors.New("pipeline.row_delay must be non-negative")
	ErrInvalidTimeout    = errors.New("http.timeout must be non-negative")
	ErrUnknownSource     = errors.New("listing.source must be one of: html, atom")
	ErrMissingOutputPath = errors.New("output.csv is required")
)

// Config represents the complete scraper configuration.
type Config struct {
	Site     SiteConfig     `yaml:"site"`
	Listing  ListingConfig  `yaml:"listing"`
	HTTP     HTTPConfig     `yaml:"http"`
	Pipeline PipelineConfig `yaml:"pipeline"`
	Detail   DetailConfig   `yaml:"detail"`
	Output   OutputConfig   `yaml:"output"`
}

// SiteConfig locates the site being scraped.
type SiteConfig struct {
	BaseURL    string `yaml:"base_url"`
	SearchPath string `yaml:"search_path"`
	FeedPath   string `yaml:"feed_path"`
}

// ListingConfig selects where listing rows come from and which pages are read.
type ListingConfig struct {
	Source    string `yaml:"source"`
	FirstPage int    `yaml:"first_page"`
	LastPage  int    `yaml:"last_page"`
}

// HTTPConfig defines request behavior.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	StrictStatus bool          `yaml:"strict_status"`
}

// PipelineConfig defines pacing.
type PipelineConfig struct {
	RowDelay time.Duration `yaml:"row_delay"`
}

// DetailConfig defines detail page extraction.
type DetailConfig struct {
	ReadabilityFallback bool `yaml:"readability_fallback"`
}

// OutputConfig defines where results are written.
type OutputConfig struct {
	CSV    string `yaml:"csv"`
	NDJSON string `yaml:"ndjson"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Site: SiteConfig{
			BaseURL:    sites.NationalArchivesOrigin,
			SearchPath: sites.NationalArchivesSearchPath,
			FeedPath:   sites.NationalArchivesFeedPath,
		},
		Listing: ListingConfig{
			Source:    SourceHTML,
			FirstPage: pipeline.DefaultFirstPage,
			LastPage:  pipeline.DefaultLastPage,
		},
		HTTP: HTTPConfig{
			Timeout: httpclient.DefaultTimeout,
		},
		Pipeline: PipelineConfig{
			RowDelay: pipeline.DefaultRowDelay,
		},
		Output: OutputConfig{
			CSV: export.DefaultCSVPath,
		},
	}
}

// Load reads a YAML file and merges it over Default. Keys missing from the
// file, or set to their zero value, keep the default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	return Parse(data)
}

// Parse is Load for an in-memory document.
func Parse(data []byte) (*Config, error) {
	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg := Default()
	if err := mergo.Merge(&cfg, override, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Site.BaseURL == "" {
		return ErrMissingBaseURL
	}

	switch c.Listing.Source {
	case SourceHTML, SourceAtom:
	default:
		return fmt.Errorf("%w: %q", ErrUnknownSource, c.Listing.Source)
	}

	if c.Listing.FirstPage < 1 {
		return ErrInvalidFirstPage
	}

	if c.Listing.LastPage < c.Listing.FirstPage {
		return ErrInvalidPageRange
	}

	if c.HTTP.Timeout < 0 {
		return ErrInvalidTimeout
	}

	if c.Pipeline.RowDelay < 0 {
		return ErrInvalidRowDelay
	}

	if c.Output.CSV == "" {
		return ErrMissingOutputPath
	}

	return nil
}

// ListingURL returns the URL the page parameter is appended to: the search
// page, or the Atom feed when the listing source is atom.
func (c *Config) ListingURL() string {
	if c.Listing.Source == SourceAtom {
		return c.Site.BaseURL + c.Site.FeedPath
	}
	return c.Site.BaseURL + c.Site.SearchPath
}

// RunConfig converts the configuration into pipeline settings.
func (c *Config) RunConfig() pipeline.Config {
	return pipeline.Config{
		SearchURL: c.ListingURL(),
		FirstPage: c.Listing.FirstPage,
		LastPage:  c.Listing.LastPage,
		RowDelay:  c.Pipeline.RowDelay,
	}
}

// ClientOptions converts the configuration into HTTP client settings.
func (c *Config) ClientOptions() pipeline.ClientOptions {
	return pipeline.ClientOptions{
		Timeout:             c.HTTP.Timeout,
		StrictStatus:        c.HTTP.StrictStatus,
		ReadabilityFallback: c.Detail.ReadabilityFallback,
	}
}
