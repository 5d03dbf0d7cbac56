package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/reifydb/reifydb/pkg/log"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reifydb",
	Short: "reifydb maintenance CLI",
	Long: `reifydb is a maintenance tool for the ReifyDB storage engine.

It opens a tiered multi-version store directly against its on-disk tiers
for operational tasks — inspecting tier/version statistics, forcing a
version garbage-collection pass, and measuring commit throughput — rather
than acting as a network-facing server.`,
	Version: Version,
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"reifydb version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	rootCmd.PersistentFlags().String("log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().Bool("log-console", false, "Human-readable console log output instead of JSON")
	rootCmd.PersistentFlags().String("config", "", "Path to a YAML file decoding into mvs.Config (flags below override its fields)")
	rootCmd.PersistentFlags().String("warm-path", "", "Path to the warm tier's bbolt database (omit to skip the warm tier)")
	rootCmd.PersistentFlags().String("cold-path", "", "Path to the cold tier's bbolt database (omit to skip the cold tier)")
	rootCmd.PersistentFlags().Bool("sync", false, "fsync every commit on the warm/cold page stores")

	cobra.OnInitialize(initLogging)

	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(gcCmd)
	rootCmd.AddCommand(benchCmd)
}

func initLogging() {
	logLevel, _ := rootCmd.PersistentFlags().GetString("log-level")
	logConsole, _ := rootCmd.PersistentFlags().GetBool("log-console")

	log.Init(log.Config{
		Level:   log.Level(logLevel),
		Console: logConsole,
	})
}
