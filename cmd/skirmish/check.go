package main

import (
	"fmt"

	"github.com/l1jgo/skirmish/internal/config"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCheckCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Load and cross-check data tables and scripts without running",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			t, err := loadTables(cfg, zap.NewNop())
			if err != nil {
				return err
			}
			printSection("Data")
			printStat("Unit templates", t.units.Count())
			printStat("Effect templates", t.effects.Count())
			printStat("Factions", len(t.factions))
			printStat("Scripted attack powers", t.powered)
			printOK("data is consistent")
			return nil
		},
	}
}
