package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tinytelemetry/lotus-setup/internal/snapshot"
)

// newSnapshotCmd exposes the pre snapshot id store, so other tools taking
// snapshots around a change can share it.
func newSnapshotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "snapshot",
		Short: "Manage stored pre snapshot ids",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "save PURPOSE ID",
			Short: "Store the pre snapshot id of a purpose",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := strconv.ParseUint(args[1], 10, 64)
				if err != nil {
					return fmt.Errorf("invalid snapshot id %q", args[1])
				}
				return withSnapshots(cmd, func(s snapshot.Store) error {
					return s.Save(args[0], id)
				})
			},
		},
		&cobra.Command{
			Use:   "load PURPOSE",
			Short: "Print the stored pre snapshot id of a purpose",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSnapshots(cmd, func(s snapshot.Store) error {
					id, err := s.Load(args[0])
					if err != nil {
						return err
					}
					fmt.Fprintln(cmd.OutOrStdout(), id)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "clean PURPOSE",
			Short: "Forget the stored pre snapshot id of a purpose",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return withSnapshots(cmd, func(s snapshot.Store) error {
					return s.Clean(args[0])
				})
			},
		},
	)
	return cmd
}

func withSnapshots(cmd *cobra.Command, fn func(snapshot.Store) error) error {
	cfg, err := loadConfig(cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}
	e, err := openEnv(cfg, cmd.ErrOrStderr(), false)
	if err != nil {
		return err
	}
	defer e.Close()
	return fn(e.snapshots())
}
