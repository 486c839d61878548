package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/reoring/taskmap/valuetype"
)

// NewTypesCommand lists the base value types.
func NewTypesCommand(_ *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the base value type names",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, n := range valuetype.Names() {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		},
	}
}
