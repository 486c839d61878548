package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reoring/taskmap/checkpoint"
	"github.com/reoring/taskmap/kind"
	"github.com/reoring/taskmap/task"
)

// NewCheckpointCommand groups the checkpoint subcommands.
func NewCheckpointCommand(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "checkpoint",
		Short: "Save and resume task records",
	}
	cmd.AddCommand(newCheckpointSaveCommand(opts))
	cmd.AddCommand(newCheckpointResumeCommand(opts))
	cmd.AddCommand(newCheckpointListCommand(opts))
	return cmd
}

func newCheckpointSaveCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "save <kind> [file|-]",
		Short: "Decode input and store the encoded record",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := decodeInput(cmd, opts, args)
			if err != nil {
				return err
			}
			w, err := task.Encode(st)
			if err != nil {
				return err
			}
			db, err := checkpoint.Open(opts.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			id, err := db.Save(cmd.Context(), st.Kind(), opts.policy.String(), w)
			if err != nil {
				return err
			}
			opts.logger.Info("checkpoint saved", "id", id, "kind", st.Kind(), "fields", st.Len())
			fmt.Fprintln(cmd.OutOrStdout(), id)
			return nil
		},
	}
}

// Saved records are keyed by field name and hold only the fields of the
// policy they were saved under, so they are resumed with that policy's
// encoded form regardless of --policy.
func newCheckpointResumeCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "resume <id>",
		Short: "Load a checkpoint, re-decode it as a task and print it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := checkpoint.Open(opts.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			cp, err := db.Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			saved, ok := kind.ParsePolicy(cp.Policy)
			if !ok {
				return fmt.Errorf("checkpoint %s: unknown policy %q", cp.ID, cp.Policy)
			}
			m, err := opts.mapper(saved.Encoded())
			if err != nil {
				return err
			}
			st, err := m.DecodeObject(cmd.Context(), cp.Kind, cp.Payload)
			if err != nil {
				return err
			}
			w, err := task.Encode(st)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), w)
		},
	}
}

func newCheckpointListCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list [kind]",
		Short: "List saved checkpoints, oldest first",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			db, err := checkpoint.Open(opts.DB)
			if err != nil {
				return err
			}
			defer db.Close()
			var k string
			if len(args) == 1 {
				k = args[0]
			}
			cps, err := db.List(cmd.Context(), k)
			if err != nil {
				return err
			}
			for _, cp := range cps {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\n", cp.ID, cp.Kind, cp.Policy, cp.CreatedAt.Format(time.RFC3339))
			}
			return nil
		},
	}
}
