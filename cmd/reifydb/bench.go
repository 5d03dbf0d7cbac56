package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/reifydb/reifydb/internal/encoding"
	"github.com/reifydb/reifydb/internal/mvs"
)

var benchCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure commit throughput against the configured tiers",
	Long: `bench drives synthetic single-key commits directly against
internal/mvs.Store.Commit (bypassing the transaction manager's conflict
tracking and interceptor chains, since it measures the store's own write
path) and reports the achieved commits/sec and bytes/sec.

It writes under a "reifydb-bench/" key prefix; existing data outside that
prefix is untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		commits, _ := cmd.Flags().GetInt("commits")
		valueSize, _ := cmd.Flags().GetInt("value-size")

		store, err := openStore(cmd)
		if err != nil {
			return fmt.Errorf("open store: %w", err)
		}
		defer store.Close()

		value := make([]byte, valueSize)
		for i := range value {
			value[i] = byte(i)
		}

		start := time.Now()
		for i := 0; i < commits; i++ {
			key := encoding.NewKey([]byte(fmt.Sprintf("reifydb-bench/%012d", i)))
			if err := store.Commit([]mvs.Write{{Key: key, Value: value}}, uint64(i+1)); err != nil {
				return fmt.Errorf("commit %d: %w", i, err)
			}
		}
		elapsed := time.Since(start)

		commitsPerSec := float64(commits) / elapsed.Seconds()
		bytesPerSec := float64(commits*valueSize) / elapsed.Seconds()
		fmt.Printf("commits:       %d\n", commits)
		fmt.Printf("value size:    %d bytes\n", valueSize)
		fmt.Printf("elapsed:       %s\n", elapsed)
		fmt.Printf("commits/sec:   %.1f\n", commitsPerSec)
		fmt.Printf("bytes/sec:     %.1f\n", bytesPerSec)
		return nil
	},
}

func init() {
	benchCmd.Flags().Int("commits", 10000, "Number of single-key commits to drive")
	benchCmd.Flags().Int("value-size", 128, "Size in bytes of each committed value")
}
