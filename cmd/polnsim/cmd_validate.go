package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate",
		Short: "Check the config against its schema and semantic rules",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig(cmd)
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("config validation: %w", err)
			}
			fmt.Fprintf(a.out, "config OK: variant=%s horizons=%v price_cap=%g\n",
				cfg.Kind(), cfg.SimulationYears, cfg.PriceCap())
			return nil
		},
	}
}
