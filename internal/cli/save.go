package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	File string
}

// SaveResult is the output of the save command.
type SaveResult struct {
	Type string `json:"type"`
	ID   string `json:"id"`
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <type>",
		Short: "Save a record read from a YAML or JSON file",
		Long: `Save one record of the given type. The input is a YAML or JSON object
keyed by logical field name. A record without an id is assigned one.

Example:
  herdstore save agent --file run.yaml
  echo '{"title":"t","body":"b","decision_maker":"steve"}' | herdstore save decision --file -`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.File, "file", "f", "", "record file, or - for stdin (required)")
	_ = cmd.MarkFlagRequired("file")

	return cmd
}

func runSave(opts *SaveOptions, typeName string, cmd *cobra.Command) error {
	f := opts.formatter(cmd)

	values, err := readValues(opts.File, cmd.InOrStdin())
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
	rec, err := t.New(values)
	if err != nil {
		return f.Fail(inputCode(err), err)
	}

	id, err := s.Save(cmd.Context(), rec)
	if err != nil {
		return f.Fail("", err)
	}

	if f.Format == "json" {
		return f.Success(SaveResult{Type: t.Name, ID: id})
	}
	fmt.Fprintf(f.Writer, "✓ Saved %s %s\n", t.Name, id)
	return nil
}

// readValues decodes one YAML or JSON object from path, or from stdin when
// path is "-".
func readValues(path string, stdin io.Reader) (map[string]any, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("read record: %w", err)
	}

	var values map[string]any
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("parse record %s: %w", path, err)
	}
	if values == nil {
		return nil, fmt.Errorf("parse record %s: empty input", path)
	}
	return values, nil
}
