package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/lineage/pkg/buildinfo"
	"github.com/matzehuels/lineage/pkg/cache"
	"github.com/matzehuels/lineage/pkg/enrich"
	"github.com/matzehuels/lineage/pkg/graph"
	"github.com/matzehuels/lineage/pkg/integrations/images"
	"github.com/matzehuels/lineage/pkg/integrations/wikibase"
	"github.com/matzehuels/lineage/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "lineage"
)

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Persistent flags.
	configFile string
	cacheURL   string
	noCache    bool
	dataFile   string
	offline    bool

	config *Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{Logger: newLogger(w, level)}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Lineage explores family trees stored in a Wikibase",
		Long:         `Lineage fetches genealogical records from a Wikibase query service, builds ancestor and descendant trees around any person, and lays them out for the terminal, files, or an HTTP API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())

	flags := root.PersistentFlags()
	flags.StringVar(&c.configFile, "config", "", "config file (default ~/.config/lineage/config.toml)")
	flags.StringVar(&c.cacheURL, "cache", "", "cache backend URL: file path, memory://, redis://, mongodb://, or none")
	flags.BoolVar(&c.noCache, "no-cache", false, "disable caching")
	flags.StringVar(&c.dataFile, "data", "", "read people from a snapshot file instead of the query service")
	flags.BoolVar(&c.offline, "offline", false, "use the built-in sample data")

	// Register all subcommands
	root.AddCommand(c.fetchCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.treeCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.browseCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// loadConfig reads the configuration once per process.
func (c *CLI) loadConfig() (*Config, error) {
	if c.config != nil {
		return c.config, nil
	}
	cfg, err := LoadConfig(c.configFile)
	if err != nil {
		return nil, err
	}
	if c.cacheURL != "" {
		cfg.Cache = c.cacheURL
	}
	c.config = &cfg
	return c.config, nil
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner wires the data source, image resolver and cache into a
// pipeline runner.
func (c *CLI) newRunner(ctx context.Context) (*pipeline.Runner, error) {
	runner, _, err := c.newRunnerWithImages(ctx)
	return runner, err
}

// newRunnerWithImages is newRunner that also returns the uncached image
// resolver, for callers that list galleries.
func (c *CLI) newRunnerWithImages(ctx context.Context) (*pipeline.Runner, *images.Resolver, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, nil, err
	}
	backend, err := c.newCache(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	resolver := images.NewResolver(nil, cfg.Images())
	cached := enrich.NewCached(resolver, backend, nil, resolver.Options(), 0)

	runner := pipeline.NewRunner(c.newSource(cfg, backend), cached, backend, nil, c.Logger)
	return runner, resolver, nil
}

// newSource picks the data source from the persistent flags.
func (c *CLI) newSource(cfg *Config, backend cache.Cache) pipeline.DataSource {
	switch {
	case c.offline:
		return &graph.StaticSource{Label: "sample", People: wikibase.SampleData()}
	case c.dataFile != "":
		return graph.NewFileSource(c.dataFile)
	}
	return wikibase.NewClient(backend, cache.TTLPeople, cfg.Wikibase())
}

func (c *CLI) newCache(ctx context.Context, cfg *Config) (cache.Cache, error) {
	if c.noCache {
		return cache.NewNullCache(), nil
	}
	if cfg.Cache != "" {
		return cache.Open(ctx, cfg.Cache)
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("cache disabled", "error", err)
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/lineage/).
func cacheDir() (string, error) {
	if cacheHome := os.Getenv("XDG_CACHE_HOME"); cacheHome != "" {
		return filepath.Join(cacheHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".cache", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatText}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(strings.ToLower(f)); f != "" {
			out = append(out, f)
		}
	}
	return out
}
