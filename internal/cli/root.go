package cli

import (
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/spf13/cobra"

	"github.com/herd-ag/herdstore/internal/catalog"
	"github.com/herd-ag/herdstore/internal/config"
	"github.com/herd-ag/herdstore/internal/store"
)

// Version is stamped at build time with -ldflags "-X".
var Version = "dev"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	Database   string // overrides config database when set
	Driver     string // overrides config driver when set

	// Config is resolved in PersistentPreRunE from the file, environment and
	// flags above.
	Config config.Config
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the herdstore CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:           "herdstore",
		Short:         "herdstore - agent execution and decision records",
		Long:          "Stores agent execution records and decision records in an embedded analytical database.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true, // main prints the error and exits with its code
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return opts.resolveConfig()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to YAML config file")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", "", "database file or :memory: (overrides config)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "database driver: duckdb, sqlite3 or sqlite (overrides config)")

	cmd.AddCommand(NewInitCommand(opts))
	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewGetCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMCPCommand(opts))

	return cmd
}

func (o *RootOptions) resolveConfig() error {
	cfg, err := config.Load(o.ConfigPath)
	if err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	if o.Database != "" {
		cfg.Database = o.Database
	}
	if o.Driver != "" {
		cfg.Driver = o.Driver
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "load config", err)
	}
	o.Config = cfg
	return nil
}

// formatter builds the OutputFormatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(), // Verbose logs go to stderr to avoid corrupting JSON
		Verbose:   o.Verbose,
	}
}

// logger writes text logs to stderr at the configured level, or debug with -v.
func (o *RootOptions) logger(w io.Writer) *slog.Logger {
	level := o.Config.Level()
	if o.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// storeOptions translates the resolved config into store options.
func (o *RootOptions) storeOptions(logger *slog.Logger) ([]store.Option, error) {
	driver, err := store.ParseDriver(o.Config.Driver)
	if err != nil {
		return nil, err
	}
	policy, err := store.ParseConflictPolicy(o.Config.OnConflict)
	if err != nil {
		return nil, err
	}

	opts := []store.Option{
		store.WithDriver(driver),
		store.WithConflictPolicy(policy),
		store.WithLogger(logger),
	}
	if o.Config.Catalog != "" {
		cat, err := catalog.Load(o.Config.Catalog)
		if err != nil {
			return nil, err
		}
		opts = append(opts, store.WithCatalog(cat))
	}
	return opts, nil
}

// openStore opens the configured store. Failures are reported through f.
func (o *RootOptions) openStore(cmd *cobra.Command, f *OutputFormatter) (*store.Store, *slog.Logger, error) {
	logger := o.logger(cmd.ErrOrStderr())

	opts, err := o.storeOptions(logger)
	if err != nil {
		return nil, nil, f.Fail("", err)
	}

	f.VerboseLog("Opening %s database %s", o.Config.Driver, o.Config.Database)
	s, err := store.Open(o.Config.Database, opts...)
	if err != nil {
		return nil, nil, f.Fail("", err)
	}
	return s, logger, nil
}

func closeStore(s *store.Store, logger *slog.Logger) {
	if err := s.Close(); err != nil {
		logger.Error("error closing database", "error", err)
	}
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}
