package cli

import (
	"github.com/spf13/cobra"
)

// NewSchemaCommand prints the JSON Schema projection of a kind.
func NewSchemaCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "schema <kind>",
		Short: "Print the JSON Schema of a kind",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := opts.mapper(opts.policy)
			if err != nil {
				return err
			}
			s, err := m.JSONSchema(args[0])
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), s)
		},
	}
}
