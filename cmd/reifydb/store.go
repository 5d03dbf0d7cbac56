package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/reifydb/reifydb/internal/mvs"
)

// openStore builds an mvs.Store for this invocation: --config, if given,
// is decoded as YAML into an mvs.Config; --warm-path/--cold-path then
// override whichever fields were explicitly set on the command line.
func openStore(cmd *cobra.Command) (*mvs.Store, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return mvs.Open(cfg)
}

func loadConfig(cmd *cobra.Command) (mvs.Config, error) {
	var cfg mvs.Config

	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		raw, err := os.ReadFile(configPath)
		if err != nil {
			return cfg, fmt.Errorf("read config %s: %w", configPath, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config %s: %w", configPath, err)
		}
	}

	if cmd.Flags().Changed("warm-path") {
		cfg.WarmPath, _ = cmd.Flags().GetString("warm-path")
	}
	if cmd.Flags().Changed("cold-path") {
		cfg.ColdPath, _ = cmd.Flags().GetString("cold-path")
	}
	if cmd.Flags().Changed("sync") {
		cfg.Sync, _ = cmd.Flags().GetBool("sync")
	}

	return cfg, nil
}
