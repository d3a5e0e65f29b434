// Package config loads and validates the solrdex configuration: engine
// connection settings plus the search, facet, display and sort field
// definitions consumed by the query pipeline.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the solrdex configuration.
type Config struct {
	Solr    SolrConfig    `yaml:"solr"`
	Search  SearchConfig  `yaml:"search"`
	HTTP    HTTPConfig    `yaml:"http"`
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds gateway HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// SolrConfig holds search engine connection settings.
type SolrConfig struct {
	BaseURL         string `yaml:"base_url"` // core base URL, e.g. http://localhost:8983/solr/catalog
	DefaultHandler  string `yaml:"default_handler"`
	DocumentHandler string `yaml:"document_handler"` // handler for by-id lookups (default: default_handler)
	TimeoutSec      int    `yaml:"timeout_sec"`
}

// SearchConfig holds the field definitions plus paging and grouping policy.
type SearchConfig struct {
	UniqueKey      string `yaml:"unique_key"`
	DefaultPerPage int    `yaml:"default_per_page"`
	MaxPerPage     int    `yaml:"max_per_page"`
	GroupField     string `yaml:"group_field"`
	Facets         *bool  `yaml:"facets"`     // global facet inclusion default
	Spellcheck     bool   `yaml:"spellcheck"` // request spellcheck suggestions on searches

	SearchFields []SearchFieldConfig  `yaml:"search_fields"`
	FacetFields  []FacetFieldConfig   `yaml:"facet_fields"`
	ShowFields   []DisplayFieldConfig `yaml:"show_fields"`
	IndexFields  []DisplayFieldConfig `yaml:"index_fields"`
	SortFields   []SortFieldConfig    `yaml:"sort_fields"`
}

// SearchFieldConfig defines one named search field.
type SearchFieldConfig struct {
	Key             string            `yaml:"key"`
	Field           string            `yaml:"field"` // target field or synonym group
	Handler         string            `yaml:"handler"`
	LocalParameters map[string]string `yaml:"local_parameters"`
}

// FacetFieldConfig defines one facet field.
type FacetFieldConfig struct {
	Field string     `yaml:"field"`
	Limit FacetLimit `yaml:"limit"` // integer, or true for the system default
	Sort  string     `yaml:"sort"`
	Pivot []string   `yaml:"pivot"`
	Query string     `yaml:"query"`  // ad-hoc query facet clause
	ExTag string     `yaml:"ex_tag"` // filter exclusion tag
	// Include: true = always, false = never, unset = follow the global
	// facets default.
	Include *bool             `yaml:"include"`
	Params  map[string]string `yaml:"params"` // free-form f.<field>.* extras
}

// Included resolves the inclusion policy against the global facets default.
func (f FacetFieldConfig) Included(globalDefault bool) bool {
	if f.Include != nil {
		return *f.Include
	}
	return globalDefault
}

// DisplayFieldConfig defines one show or index field.
type DisplayFieldConfig struct {
	Field     string            `yaml:"field"`
	Include   *bool             `yaml:"include"`
	Highlight bool              `yaml:"highlight"` // index fields only
	Params    map[string]string `yaml:"params"`    // per-field engine options
}

// Included resolves the display field's inclusion policy (default: include).
func (d DisplayFieldConfig) Included() bool {
	return d.Include == nil || *d.Include
}

// SortFieldConfig defines one named sort key.
type SortFieldConfig struct {
	Key     string `yaml:"key"`
	Sort    string `yaml:"sort"` // full sort expression, e.g. "score desc, year_i desc"
	Default bool   `yaml:"default"`
}

// SearchField looks up a named search-field definition. A miss is not an
// error; callers fall back to passthrough behavior.
func (s SearchConfig) SearchField(key string) (SearchFieldConfig, bool) {
	for _, f := range s.SearchFields {
		if f.Key == key {
			return f, true
		}
	}
	return SearchFieldConfig{}, false
}

// FacetField looks up a facet-field definition by field name.
func (s SearchConfig) FacetField(field string) (FacetFieldConfig, bool) {
	for _, f := range s.FacetFields {
		if f.Field == field {
			return f, true
		}
	}
	return FacetFieldConfig{}, false
}

// SortField looks up a named sort definition.
func (s SearchConfig) SortField(key string) (SortFieldConfig, bool) {
	for _, f := range s.SortFields {
		if f.Key == key {
			return f, true
		}
	}
	return SortFieldConfig{}, false
}

// DefaultSortField returns the sort definition flagged as default, falling
// back to the first configured one.
func (s SearchConfig) DefaultSortField() (SortFieldConfig, bool) {
	for _, f := range s.SortFields {
		if f.Default {
			return f, true
		}
	}
	if len(s.SortFields) > 0 {
		return s.SortFields[0], true
	}
	return SortFieldConfig{}, false
}

// FacetsEnabled reports the global facet inclusion default.
func (s SearchConfig) FacetsEnabled() bool {
	return s.Facets == nil || *s.Facets
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
func Load(env string) (Config, error) {
	configPath := findConfigPath(env)

	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// Default returns a Config with defaults applied, for programmatic setup.
func Default() Config {
	var cfg Config
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 10
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.Solr.DefaultHandler == "" {
		c.Solr.DefaultHandler = "select"
	}
	if c.Solr.DocumentHandler == "" {
		c.Solr.DocumentHandler = c.Solr.DefaultHandler
	}
	if c.Solr.TimeoutSec <= 0 {
		c.Solr.TimeoutSec = 30
	}
	if c.Search.UniqueKey == "" {
		c.Search.UniqueKey = "id"
	}
	if c.Search.DefaultPerPage <= 0 {
		c.Search.DefaultPerPage = 10
	}
	if c.Search.MaxPerPage <= 0 {
		c.Search.MaxPerPage = 100
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.Solr.BaseURL == "" {
		return fmt.Errorf("solr.base_url is required")
	}
	if c.Search.DefaultPerPage > c.Search.MaxPerPage {
		return fmt.Errorf(
			"search.default_per_page %d exceeds search.max_per_page %d",
			c.Search.DefaultPerPage, c.Search.MaxPerPage,
		)
	}
	seen := make(map[string]bool, len(c.Search.SearchFields))
	for _, f := range c.Search.SearchFields {
		if f.Key == "" {
			return fmt.Errorf("search.search_fields entries require a key")
		}
		if seen[f.Key] {
			return fmt.Errorf("duplicate search field key %q", f.Key)
		}
		seen[f.Key] = true
	}
	for _, f := range c.Search.FacetFields {
		if f.Field == "" {
			return fmt.Errorf("search.facet_fields entries require a field")
		}
		switch f.Sort {
		case "", "count", "index":
			// ok
		default:
			return fmt.Errorf("facet field %s: sort must be \"count\" or \"index\", got %q", f.Field, f.Sort)
		}
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
