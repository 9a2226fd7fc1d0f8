package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newSnapshotCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot",
		Short: "Print the engine's current state as a self-contained blob",
		Long:  "Writes the same opaque snapshot format statediff.Chain.Commit and Engine.Bootstrap use to stdout, for manual inspection or backup.",
		RunE:  runSnapshot,
	}
}

func runSnapshot(cmd *cobra.Command, _ []string) error {
	cc := mustCLIContext(cmd.Context())

	blob, err := cc.Engine.Snapshot()
	if err != nil {
		return fmt.Errorf("snapshot: %w", err)
	}

	_, err = os.Stdout.Write(blob)

	return err
}
