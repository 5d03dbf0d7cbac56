package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"
)

var gcCmd = &cobra.Command{
	Use:   "gc",
	Short: "Force a version garbage-collection pass",
	Long: `gc schedules garbage collection for every logical key in the store,
keeping the version each key would show a reader at --watermark, and
every newer version, and reclaiming everything strictly older.

The default watermark is the maximum possible version, which keeps only
the single latest version of every key — equivalent to compacting all
history away. Pass a lower --watermark to preserve versions a still-active
reader snapshot might need.

Scheduling is asynchronous: gc returns once every key has been handed to
the store's background GC worker, not once reclamation has finished.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		watermark, _ := cmd.Flags().GetUint64("watermark")

		store, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		scheduled, err := store.GCAll(watermark)
		if err != nil {
			return fmt.Errorf("schedule gc: %w", err)
		}

		fmt.Printf("scheduled version GC for %d keys at watermark %d\n", scheduled, watermark)
		return nil
	},
}

func init() {
	gcCmd.Flags().Uint64("watermark", math.MaxUint64, "Reclaim versions older than the one each key shows a reader at this version")
}
