package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/herd-ag/herdstore/internal/record"
)

// GetResult is the JSON output of the get command.
type GetResult struct {
	Type   string        `json:"type"`
	Record record.Record `json:"record"`
}

// NewGetCommand creates the get command.
func NewGetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <type> <id>",
		Short: "Print one record by id",
		Long: `Print the record of the given type whose primary key is id. Text output
is YAML keyed by logical field name.

Example:
  herdstore get agent 0190f3a4-7c1e-7cc2-b3f1-1a2b3c4d5e6f
  herdstore get decision ADR-12 --format json`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGet(rootOpts, args[0], args[1], cmd)
		},
	}
}

func runGet(opts *RootOptions, typeName, id string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	s, logger, err := opts.openStore(cmd, f)
	if err != nil {
		return err
	}
	defer closeStore(s, logger)

	t, err := s.Lookup(typeName)
	if err != nil {
		return f.Fail("", err)
	}

	rec, err := s.Get(cmd.Context(), t, id)
	if err != nil {
		return f.Fail("", err)
	}
	if rec == nil {
		return f.Fail(ErrCodeNotFound, fmt.Errorf("%s %q not found", t.Name, id))
	}

	if f.Format == "json" {
		return f.Success(GetResult{Type: t.Name, Record: rec})
	}

	enc := yaml.NewEncoder(f.Writer)
	enc.SetIndent(2)
	if err := enc.Encode(rec); err != nil {
		return f.Fail("", fmt.Errorf("encode record: %w", err))
	}
	return enc.Close()
}
