package cli

import (
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/reoring/taskmap/record"
	"github.com/reoring/taskmap/task"
)

// NewDecodeCommand decodes a JSON document and prints the encoded record.
func NewDecodeCommand(opts *RootOptions) *cobra.Command {
	var preserve bool
	cmd := &cobra.Command{
		Use:   "decode <kind> [file|-]",
		Short: "Decode JSON input as a kind and print the record",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := decodeInput(cmd, opts, args)
			if err != nil {
				return err
			}
			encode := task.Encode
			if preserve {
				encode = task.EncodePreserving
			}
			w, err := encode(st)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), w)
		},
	}
	cmd.Flags().BoolVar(&preserve, "preserve", false, "omit fields filled from defaults")
	return cmd
}

// decodeInput decodes args[1] (or stdin) as kind args[0].
func decodeInput(cmd *cobra.Command, opts *RootOptions, args []string) (*record.Store, error) {
	m, err := opts.mapper(opts.policy)
	if err != nil {
		return nil, err
	}
	var in io.Reader = cmd.InOrStdin()
	if len(args) > 1 && args[1] != "-" {
		f, err := os.Open(args[1])
		if err != nil {
			return nil, err
		}
		defer f.Close()
		in = f
	}
	return m.DecodeReader(cmd.Context(), args[0], in)
}
