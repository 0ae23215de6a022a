package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/herd-ag/herdstore/internal/catalog"
	"github.com/herd-ag/herdstore/internal/mapping"
	"github.com/herd-ag/herdstore/internal/record"
	"github.com/herd-ag/herdstore/internal/store"
)

// SchemaResult is the JSON output of the schema command.
type SchemaResult struct {
	Driver     string   `json:"driver"`
	Statements []string `json:"statements"`
}

// NewSchemaCommand creates the schema command.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the table DDL for the configured driver",
		Long: `Print the CREATE TABLE statements herdstore issues on open, compiled for
the configured driver and catalog. No database is opened.

Example:
  herdstore schema
  herdstore schema --driver sqlite --config herd.yaml`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSchema(rootOpts, cmd)
		},
	}
}

func runSchema(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	driver, err := store.ParseDriver(opts.Config.Driver)
	if err != nil {
		return f.Fail(ErrCodeConfig, err)
	}

	var cat *catalog.Catalog
	if opts.Config.Catalog != "" {
		cat, err = catalog.Load(opts.Config.Catalog)
	} else {
		cat, err = catalog.Default()
	}
	if err != nil {
		return f.Fail(ErrCodeCatalog, err)
	}

	reg, err := mapping.NewRegistry(cat, record.Types()...)
	if err != nil {
		return f.Fail(ErrCodeCatalog, err)
	}

	if f.Format == "json" {
		stmts, err := store.SchemaSQL(driver.Dialect(), reg)
		if err != nil {
			return f.Fail("", err)
		}
		return f.Success(SchemaResult{Driver: string(driver), Statements: stmts})
	}

	script, err := store.SchemaScript(driver.Dialect(), reg)
	if err != nil {
		return f.Fail("", err)
	}
	fmt.Fprint(f.Writer, script)
	return nil
}
