package cli

import (
	"fmt"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/unicode/norm"

	"github.com/herd-ag/herdstore/internal/record"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	Where  []string // field=value
	Absent []string // fields that must be null
}

// ListResult is the JSON output of the list command.
type ListResult struct {
	Type    string          `json:"type"`
	Count   int             `json:"count"`
	Records []record.Record `json:"records"`
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list <type>",
		Short: "List records matching field filters",
		Long: `List records of the given type in the order they were first saved.
Every --where and --absent filter must match.

Example:
  herdstore list agent --where agent=mason --where state=running
  herdstore list decision --absent scope --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.Where, "where", "w", nil, "equality filter field=value (repeatable)")
	cmd.Flags().StringArrayVar(&opts.Absent, "absent", nil, "field that must have no value (repeatable)")

	return cmd
}

func runList(opts *ListOptions, typeName string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	filter, err := parseFilters(opts.Where, opts.Absent)
	if err != nil {
		return f.Fail(ErrCodeInput, err)
	}

	s, logger, err := opts.openStore(cmd, f)
	if err != nil {
		return err
	}
	defer closeStore(s, logger)

	t, err := s.Lookup(typeName)
	if err != nil {
		return f.Fail("", err)
	}

	recs, err := s.List(cmd.Context(), t, filter)
	if err != nil {
		return f.Fail("", err)
	}
	f.VerboseLog("%d %s record(s) matched %d filter(s)", len(recs), t.Name, len(filter))

	if f.Format == "json" {
		return f.Success(ListResult{Type: t.Name, Count: len(recs), Records: recs})
	}
	return writeTable(f, t, recs)
}

// parseFilters builds a logical-field filter from field=value pairs and
// absent field names.
func parseFilters(where, absent []string) (map[string]any, error) {
	filter := make(map[string]any, len(where)+len(absent))
	for _, w := range where {
		field, value, ok := strings.Cut(w, "=")
		if !ok || field == "" {
			return nil, fmt.Errorf("invalid filter %q: expected field=value", w)
		}
		if _, dup := filter[field]; dup {
			return nil, fmt.Errorf("field %q filtered more than once", field)
		}
		filter[field] = value
	}
	for _, field := range absent {
		if _, dup := filter[field]; dup {
			return nil, fmt.Errorf("field %q filtered more than once", field)
		}
		filter[field] = nil
	}
	return filter, nil
}

func writeTable(f *OutputFormatter, t *record.Type, recs []record.Record) error {
	if len(recs) == 0 {
		fmt.Fprintf(f.Writer, "No %s records\n", t.Name)
		return nil
	}

	fields := t.FieldNames()
	tw := tabwriter.NewWriter(f.Writer, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.ToUpper(strings.Join(fields, "\t")))
	for _, r := range recs {
		values := r.Values()
		cells := make([]string, len(fields))
		for i, name := range fields {
			cells[i] = cell(values[name])
		}
		fmt.Fprintln(tw, strings.Join(cells, "\t"))
	}
	return tw.Flush()
}

// cell renders v for the text table. Text is shown in NFC so that combining
// marks do not throw off tabwriter's column widths; stored values and JSON
// output are untouched.
func cell(v any) string {
	switch v := v.(type) {
	case nil:
		return "-"
	case time.Time:
		return v.UTC().Format(time.RFC3339)
	default:
		return norm.NFC.String(fmt.Sprint(v))
	}
}
