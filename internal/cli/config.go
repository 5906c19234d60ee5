package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/lineage/pkg/errors"
	"github.com/matzehuels/lineage/pkg/integrations/images"
	"github.com/matzehuels/lineage/pkg/integrations/wikibase"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// Environment variables overriding the config file.
const (
	envEndpoint = "LINEAGE_ENDPOINT"
	envCache    = "LINEAGE_CACHE"
	envAssets   = "LINEAGE_ASSETS"
	envAddr     = "LINEAGE_ADDR"
)

const defaultAddr = ":8080"

// =============================================================================
// Config - File and Environment Settings
// =============================================================================

// Config is the on-disk configuration, loaded from config.toml.
//
// Layers apply in order: built-in defaults, the TOML file, environment
// variables, then command flags.
type Config struct {
	Endpoint    string              `toml:"endpoint"`
	EntityBase  string              `toml:"entity_base"`
	PropBase    string              `toml:"prop_base"`
	ItemBase    string              `toml:"item_base"`
	Language    string              `toml:"language"`
	Limit       int                 `toml:"limit"`
	Timeout     string              `toml:"timeout"`
	RateLimit   float64             `toml:"rate_limit"`
	PersonClass string              `toml:"person_class"`
	Properties  wikibase.Properties `toml:"properties"`

	Cache       string `toml:"cache"`
	AssetsDir   string `toml:"assets_dir"`
	AssetsURL   string `toml:"assets_url"`
	CommonsBase string `toml:"commons_base"`
	ImageWidth  int    `toml:"image_width"`

	Tree   TreeConfig   `toml:"tree"`
	Server ServerConfig `toml:"server"`
}

// TreeConfig holds the default tree options.
type TreeConfig struct {
	Direction             string  `toml:"direction"`
	MaxDepth              int     `toml:"max_depth"`
	IncludeBothParents    bool    `toml:"include_both_parents"`
	Orientation           string  `toml:"orientation"`
	EnrichmentConcurrency int     `toml:"enrichment_concurrency"`
	ViewportWidth         float64 `toml:"viewport_width"`
}

// ServerConfig holds settings for "lineage serve".
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	wb := wikibase.DefaultConfig()
	return Config{
		Endpoint:    wb.Endpoint,
		EntityBase:  wb.EntityBase,
		PropBase:    wb.PropBase,
		ItemBase:    wb.ItemBase,
		Language:    wb.Language,
		Limit:       wb.Limit,
		Timeout:     wb.Timeout.String(),
		Properties:  wb.Properties,
		CommonsBase: images.DefaultCommonsBase,
		ImageWidth:  images.DefaultWidth,
		Tree: TreeConfig{
			Direction:             string(pipeline.DefaultDirection),
			MaxDepth:              pipeline.DefaultMaxDepth,
			IncludeBothParents:    true,
			Orientation:           string(pipeline.DefaultOrientation),
			EnrichmentConcurrency: pipeline.DefaultConcurrency,
			ViewportWidth:         pipeline.DefaultViewportWidth,
		},
		Server: ServerConfig{Addr: defaultAddr},
	}
}

// LoadConfig reads the config file at path over the defaults and applies
// environment overrides. An empty path means the default location, which
// may be absent; an explicit path must exist.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := configPath()
		if err == nil {
			path = p
		}
	}
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
			}
		} else if explicit {
			return cfg, errors.Wrap(errors.ErrCodeFileNotFound, err, "config file %s", path)
		}
	}

	cfg.applyEnv(os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(getenv func(string) string) {
	if v := getenv(envEndpoint); v != "" {
		c.Endpoint = v
	}
	if v := getenv(envCache); v != "" {
		c.Cache = v
	}
	if v := getenv(envAssets); v != "" {
		c.AssetsDir = v
	}
	if v := getenv(envAddr); v != "" {
		c.Server.Addr = v
	}
}

// Validate checks values that cannot be defaulted.
func (c *Config) Validate() error {
	if _, err := c.timeout(); err != nil {
		return err
	}
	if c.Limit < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "limit must be >= 0, got %d", c.Limit)
	}
	if c.Tree.MaxDepth < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "tree.max_depth must be >= 0, got %d", c.Tree.MaxDepth)
	}
	if c.Tree.Direction != "" {
		if err := pipeline.ValidateDirection(c.Tree.Direction); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "tree.direction")
		}
	}
	if c.Tree.Orientation != "" {
		if err := pipeline.ValidateOrientation(c.Tree.Orientation); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "tree.orientation")
		}
	}
	return nil
}

func (c *Config) timeout() (time.Duration, error) {
	if c.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		// Bare numbers are seconds.
		if secs, nerr := strconv.ParseFloat(c.Timeout, 64); nerr == nil {
			return time.Duration(secs * float64(time.Second)), nil
		}
		return 0, errors.Wrap(errors.ErrCodeInvalidConfig, err, "timeout %q", c.Timeout)
	}
	return d, nil
}

// Wikibase returns the data source configuration.
func (c *Config) Wikibase() wikibase.Config {
	timeout, _ := c.timeout()
	props := c.Properties
	if c.PersonClass != "" {
		props.Person = c.PersonClass
	}
	return wikibase.Config{
		Endpoint:   c.Endpoint,
		EntityBase: c.EntityBase,
		PropBase:   c.PropBase,
		ItemBase:   c.ItemBase,
		Language:   c.Language,
		Limit:      c.Limit,
		Timeout:    timeout,
		RateLimit:  c.RateLimit,
		Properties: props,
	}
}

// Images returns the image resolver configuration.
func (c *Config) Images() images.Config {
	return images.Config{
		CommonsBase: c.CommonsBase,
		Width:       c.ImageWidth,
		AssetsDir:   c.AssetsDir,
		AssetsURL:   c.AssetsURL,
	}
}

// TreeOptions returns pipeline options for root seeded from the [tree]
// section.
func (c *Config) TreeOptions(root string) pipeline.Options {
	return pipeline.Options{
		Root:          root,
		Direction:     c.Tree.Direction,
		MaxDepth:      pipeline.Depth(c.Tree.MaxDepth),
		FatherOnly:    !c.Tree.IncludeBothParents,
		Orientation:   c.Tree.Orientation,
		Concurrency:   c.Tree.EnrichmentConcurrency,
		ViewportWidth: c.Tree.ViewportWidth,
	}
}

// =============================================================================
// Paths
// =============================================================================

// configPath returns the config file location (~/.config/lineage/config.toml).
func configPath() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, ".config", appName, "config.toml"), nil
}
