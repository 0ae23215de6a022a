package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// TableInfo names the table backing a record type.
type TableInfo struct {
	Type  string `json:"type"`
	Table string `json:"table"`
}

// InitResult is the output of the init command.
type InitResult struct {
	Database string      `json:"database"`
	Driver   string      `json:"driver"`
	Tables   []TableInfo `json:"tables"`
}

// NewInitCommand creates the init command.
func NewInitCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the database and its tables",
		Long: `Open the configured database, creating the file if needed, and create a
table for every record type that does not have one yet.

Example:
  herdstore init --db ./herd.duckdb
  herdstore init --driver sqlite --db ./herd.db`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(rootOpts, cmd)
		},
	}
}

func runInit(opts *RootOptions, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	s, logger, err := opts.openStore(cmd, f)
	if err != nil {
		return err
	}
	defer closeStore(s, logger)

	result := InitResult{Database: opts.Config.Database, Driver: string(s.Driver())}
	for _, t := range s.Types() {
		m, err := s.Mapping(t)
		if err != nil {
			return f.Fail("", err)
		}
		result.Tables = append(result.Tables, TableInfo{Type: t.Name, Table: m.Table()})
	}

	if f.Format == "json" {
		return f.Success(result)
	}

	tables := make([]string, len(result.Tables))
	for i, ti := range result.Tables {
		tables[i] = fmt.Sprintf("%s (%s)", ti.Table, ti.Type)
	}
	fmt.Fprintf(f.Writer, "✓ Initialized %s database %s\n", result.Driver, result.Database)
	fmt.Fprintf(f.Writer, "  tables: %s\n", strings.Join(tables, ", "))
	return nil
}
