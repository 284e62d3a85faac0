// Package cli implements the geomkit command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/geomkit/pkg/buildinfo"
	"github.com/matzehuels/geomkit/pkg/cache"
	"github.com/matzehuels/geomkit/pkg/config"
	"github.com/matzehuels/geomkit/pkg/observability"
	"github.com/matzehuels/geomkit/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "geomkit"
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
	Config *config.Config

	stderr  io.Writer
	logFile io.Closer
	hooked  bool
}

// globalFlags are the persistent flags shared by every command.
type globalFlags struct {
	verbose    bool
	configPath string
	logFile    string
	logFormat  string
}

// New creates a new CLI instance with a default logger writing to w.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level, config.LogText),
		Config: config.Default(),
		stderr: w,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	var flags globalFlags

	root := &cobra.Command{
		Use:   appName,
		Short: "geomkit turns datasets into chart geometry",
		Long: `geomkit computes treemap, icicle, flow, hexbin and histogram layouts from
tabular or hierarchical data, and renders the resulting scenes to SVG, PNG,
PDF or JSON.`,
		Version:      buildinfo.Get().Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := c.setup(flags); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return c.teardown()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose logging")
	pf.StringVar(&flags.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/geomkit/config.toml)")
	pf.StringVar(&flags.logFile, "log-file", "", "also write logs to this file, rotated")
	pf.StringVar(&flags.logFormat, "log-format", "", "log format: text (default), json")

	// Register all subcommands
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.scalesCommand())
	root.AddCommand(c.validateCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.previewCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and rebuilds the logger from it. Flags win
// over the file and the environment.
func (c *CLI) setup(flags globalFlags) error {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return err
	}
	if flags.logFile != "" {
		cfg.Log.File = flags.logFile
	}
	if flags.logFormat != "" {
		cfg.Log.Format = flags.logFormat
		if err := cfg.Validate(); err != nil {
			return err
		}
	}
	if flags.verbose {
		cfg.Log.Level = "debug"
	}
	c.Config = cfg

	logger, closer, err := configureLogger(c.stderr, cfg.Log)
	if err != nil {
		return err
	}
	c.Logger = logger
	c.logFile = closer
	if logger.GetLevel() <= log.DebugLevel {
		c.hooked = observability.Register(observability.NewLogHooks(logger))
	}
	c.Logger.Debug("configuration loaded", "cache", cfg.Cache.Backend, "path", flags.configPath)
	return nil
}

func (c *CLI) teardown() error {
	if c.hooked {
		observability.Reset()
		c.hooked = false
	}
	if c.logFile == nil {
		return nil
	}
	err := c.logFile.Close()
	c.logFile = nil
	return err
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner backed by the configured cache.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	store, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, c.Config.Cache.Prefix)
	return pipeline.NewRunner(cache.NewInstrumented(store), keyer, c.Logger), nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		c.Logger.Warn("no cache directory", "err", err)
	}
	cfg := c.Config.Cache
	if dir == "" && cfg.Dir == "" && (cfg.Backend == config.CacheFile || cfg.Backend == "") {
		return cache.NewNullCache(), nil
	}
	store, err := cache.Open(ctx, cfg, dir)
	if err != nil {
		return nil, fmt.Errorf("open %s cache: %w", cfg.Backend, err)
	}
	return store, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/geomkit/).
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

// outputBase strips the extension from the input path, or returns output
// unchanged when given.
func outputBase(output, input string) string {
	if output != "" {
		return output
	}
	return strings.TrimSuffix(input, filepath.Ext(input))
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// chartConfig returns a copy of the configured chart options so commands
// can adjust them without touching the shared configuration.
func (c *CLI) chartConfig() *config.Chart {
	ch := c.Config.Chart
	ch.ColorPalette = append([]string(nil), c.Config.Chart.ColorPalette...)
	return &ch
}
