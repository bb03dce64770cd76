package cli

import (
	"context"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/topicsheet/pkg/buildinfo"
	"github.com/matzehuels/topicsheet/pkg/config"
	"github.com/matzehuels/topicsheet/pkg/drafts"
	"github.com/matzehuels/topicsheet/pkg/pipeline"
	"github.com/matzehuels/topicsheet/pkg/session"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for directories and display.
const appName = config.AppName

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

	// Out receives command output. Defaults to os.Stdout.
	Out io.Writer

	configFile string
	verbose    bool
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Out:    os.Stdout,
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Topicsheet lays out strategic topic summaries as PDF",
		Long: `Topicsheet turns a filled-in Strategic / Ad hoc Topic Summary form into a
paginated PDF. Sheets come from YAML, JSON or TOML files or from saved drafts,
and the same forms can be served in a browser with 'topicsheet serve'.`,
		Version:           buildinfo.Version,
		SilenceUsage:      true,
		PersistentPreRunE: c.setup,
	}

	root.SetVersionTemplate(buildinfo.Template())

	pf := root.PersistentFlags()
	pf.StringVar(&c.configFile, "config", "", "config file (default: ~/.config/topicsheet/config.toml)")
	pf.BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	pf.String("log-level", "", "log level: debug, info, warn, error")
	pf.String("profile", "", "TOML layout profile overriding geometry and branding")
	pf.String("drafts", "", "draft store backend: file, memory, redis, mongo")
	pf.String("drafts-dir", "", "draft directory for the file backend")
	pf.String("drafts-url", "", "redis or mongo URL for the draft store")

	// Register all subcommands
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.draftsCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.inspectCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// setup loads the configuration and attaches the logger to the context.
func (c *CLI) setup(cmd *cobra.Command, args []string) error {
	v := config.New()
	if err := config.BindFlags(v, cmd.Flags()); err != nil {
		return err
	}
	cfg, err := config.Load(v, c.configFile)
	if err != nil {
		return err
	}
	c.cfg = cfg

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = LogInfo
	}
	if c.verbose {
		level = LogDebug
	}
	c.SetLogLevel(level)

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	cmd.SetContext(withLogger(ctx, c.Logger))
	return nil
}

// settings returns the loaded configuration, or the defaults when a command
// runs without the root pre-run (tests).
func (c *CLI) settings() *config.Config {
	if c.cfg == nil {
		cfg, err := config.Load(config.New(), c.configFile)
		if err != nil {
			cfg = &config.Config{LogLevel: "info", Cache: config.CacheConfig{Backend: config.CacheNone}}
		}
		c.cfg = cfg
	}
	return c.cfg
}

// =============================================================================
// Runner Factory
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cfg := *c.settings()
	if noCache {
		cfg.Cache.Backend = config.CacheNone
	}
	cc, err := cfg.OpenCache(ctx)
	if err != nil {
		return nil, err
	}
	return pipeline.NewRunner(cc, nil, c.Logger), nil
}

// openDrafts opens the configured draft store and resolves the CLI owner.
func (c *CLI) openDrafts(ctx context.Context) (drafts.Store, string, error) {
	store, err := c.settings().OpenDrafts(ctx)
	if err != nil {
		return nil, "", err
	}
	owner, err := session.CLIOwner(configDir())
	if err != nil {
		store.Close()
		return nil, "", err
	}
	return store, owner, nil
}

// =============================================================================
// Paths
// =============================================================================

// cacheDir returns the cache directory using XDG standard (~/.cache/topicsheet/).
func cacheDir() (string, error) {
	return config.CacheDir()
}

// configDir returns the config directory, or "" to let callers fall back
// to their own default.
func configDir() string {
	dir, err := config.Dir()
	if err != nil {
		return ""
	}
	return dir
}

// =============================================================================
// Options Helpers
// =============================================================================

// renderDefaults returns the per-render options from the configuration.
func (c *CLI) renderDefaults() (pipeline.Options, error) {
	opts, err := c.settings().RenderOptions()
	if err != nil {
		return pipeline.Options{}, err
	}
	opts.Logger = c.Logger
	return opts, nil
}

// parseFormats parses a comma-separated format string into a slice.
func parseFormats(s string) []string {
	if s == "" {
		return []string{pipeline.DefaultFormat}
	}
	var out []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			out = append(out, f)
		}
	}
	return out
}
