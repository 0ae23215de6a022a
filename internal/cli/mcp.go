package cli

import (
	"github.com/spf13/cobra"

	herdmcp "github.com/herd-ag/herdstore/internal/mcp"
)

// NewMCPCommand creates the mcp command.
func NewMCPCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve records to agents over MCP (stdio)",
		Long: `Run an MCP server on stdin/stdout exposing the herd_get, herd_list and
herd_save tools. Logs go to stderr.

Example:
  herdstore mcp --db ./herd.duckdb`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMCP(rootOpts, cmd)
		},
	}
}

func runMCP(opts *RootOptions, cmd *cobra.Command) error {
	// stdout carries the protocol; diagnostics must stay on stderr.
	f := opts.formatter(cmd)
	f.Writer = cmd.ErrOrStderr()

	s, logger, err := opts.openStore(cmd, f)
	if err != nil {
		return err
	}
	defer closeStore(s, logger)

	logger.Info("mcp server starting", "db", opts.Config.Database, "driver", s.Driver())
	if err := herdmcp.New(s, logger, Version).ServeStdio(); err != nil {
		return f.Fail(ErrCodeGeneric, err)
	}
	return nil
}
