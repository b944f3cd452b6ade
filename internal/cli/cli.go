// Package cli implements the ringavatar command-line interface.
package cli

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/ringavatar/pkg/avatar"
	"github.com/matzehuels/ringavatar/pkg/buildinfo"
	"github.com/matzehuels/ringavatar/pkg/cache"
	"github.com/matzehuels/ringavatar/pkg/pipeline"
)

// =============================================================================
// Constants
// =============================================================================

const (
	// appName is the application name used for directories and display.
	appName = "ringavatar"

	// configFile is the config looked up in the user config directory when
	// --config is not given.
	configFile = "config.toml"
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
		Short:        "Ringavatar draws digit strings as radial avatars",
		Long:         `Ringavatar turns a string of decimal digits into a ring of ten colored arcs joined by curves, one per consecutive digit pair. It renders still images, animated GIFs, transition diagrams, and live previews in a window or the terminal.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.statsCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.configCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use. Cache keys are scoped to
// the build version so upgrades never serve stale artifacts.
func (c *CLI) newRunner(noCache bool) (*pipeline.Runner, error) {
	ch, err := newCache(noCache)
	if err != nil {
		return nil, err
	}
	keyer := cache.NewScopedKeyer(nil, buildinfo.CacheScope())
	return pipeline.NewRunner(ch, keyer, c.Logger), nil
}

func newCache(noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	dir, err := cacheDir()
	if err != nil {
		return cache.NewNullCache(), nil
	}
	return cache.NewFileCache(dir)
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/ringavatar/).
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

// configDir returns the config directory using XDG standard (~/.config/ringavatar/).
func configDir() (string, error) {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", appName), nil
}

// =============================================================================
// Options Helpers
// =============================================================================

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.FormatSVG}
	}
	return strings.Split(s, ",")
}

// styleFlags are the config overrides shared by commands that draw.
type styleFlags struct {
	config     string
	bezier     bool
	animated   bool
	title      string
	background string
}

func (f *styleFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.config, "config", "", "TOML config file (default: ~/.config/ringavatar/config.toml if present)")
	cmd.Flags().BoolVar(&f.bezier, "bezier", false, "draw connectors as cubic curves")
	cmd.Flags().BoolVar(&f.animated, "animated", false, "animate growth and breathing")
	cmd.Flags().StringVar(&f.title, "title", "", "text drawn in the center")
	cmd.Flags().StringVar(&f.background, "background", "", "disc background color")
}

// load reads the config file, if any, and applies flags the user set.
func (f *styleFlags) load(cmd *cobra.Command) (avatar.Config, error) {
	cfg := avatar.DefaultConfig()
	path := f.config
	if path == "" {
		if dir, err := configDir(); err == nil {
			if p := filepath.Join(dir, configFile); fileExists(p) {
				path = p
			}
		}
	}
	if path != "" {
		loaded, err := avatar.LoadConfig(path)
		if err != nil {
			return avatar.Config{}, err
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if flags.Changed("bezier") {
		cfg.Bezier = f.bezier
	}
	if flags.Changed("animated") {
		cfg.Animated = f.animated
	}
	if flags.Changed("title") {
		cfg.Title = f.title
	}
	if flags.Changed("background") {
		cfg.Background = f.background
	}
	if _, err := cfg.Validate(); err != nil {
		return avatar.Config{}, err
	}
	return cfg, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
