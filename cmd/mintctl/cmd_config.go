package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bitfsorg/libmint-go/allowlist"
	"github.com/bitfsorg/libmint-go/config"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Collection config helpers",
	}

	initCmd := &cobra.Command{
		Use:   "init FILE",
		Short: "Write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.SaveConfig(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			a.log.Info("config written", zap.String("path", args[0]))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s; set operator and guardian before use\n", args[0])
			return nil
		},
	}

	validateCmd := &cobra.Command{
		Use:   "validate FILE",
		Short: "Load and validate a config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(args[0])
			if err != nil {
				return err
			}
			if err := a.applyLogLevel(cfg); err != nil {
				return err
			}
			operator, err := cfg.Operator.Base58(cfg.Mainnet())
			if err != nil {
				return err
			}
			guardian, err := cfg.Guardian.Base58(cfg.Mainnet())
			if err != nil {
				return err
			}
			a.log.Debug("config loaded", zap.String("path", args[0]), zap.String("network", cfg.Network))

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "name:          %s\n", cfg.Name)
			fmt.Fprintf(w, "collection id: %s\n", allowlist.DeriveCollectionID(cfg.Name, cfg.Operator))
			fmt.Fprintf(w, "operator:      %s (%s)\n", cfg.Operator, operator)
			fmt.Fprintf(w, "guardian:      %s (%s)\n", cfg.Guardian, guardian)
			fmt.Fprintf(w, "network:       %s\n", cfg.Network)
			fmt.Fprintf(w, "data dir:      %s\n", cfg.DataDir)
			fmt.Fprintf(w, "supply:        %d in %d batches of %d\n", cfg.Limit, cfg.Limit/cfg.BatchSize, cfg.BatchSize)
			fmt.Fprintf(w, "reserve:       %d\n", cfg.OwnerLimit)
			fmt.Fprintf(w, "price:         %d x up to %d\n", cfg.Price, cfg.MaxQuantity)
			return nil
		},
	}

	cmd.AddCommand(initCmd, validateCmd)
	return cmd
}

func loadConfig(path string) (config.CollectionConfig, error) {
	cfg, err := config.LoadConfig(path)
	if err != nil {
		return cfg, err
	}
	if err := config.ValidateConfig(cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
