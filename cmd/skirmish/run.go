package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/faction"
	"github.com/l1jgo/skirmish/internal/persist"
	"github.com/l1jgo/skirmish/internal/sim"
	"github.com/l1jgo/skirmish/internal/system"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var _ system.StatsWriter = (*persist.StatsRepo)(nil)

func newRunCommand() *cobra.Command {
	var maxTicks int
	var autoplay bool
	var limits map[string]int
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation tick loop",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			if cmd.Flags().Changed("ticks") {
				cfg.Simulation.MaxTicks = maxTicks
			}
			return run(cfg, autoplay, limits)
		},
	}
	cmd.Flags().IntVar(&maxTicks, "ticks", 0, "stop after this many ticks (0 = until interrupted)")
	cmd.Flags().BoolVar(&autoplay, "autoplay", false, "let every faction build and train on its own")
	cmd.Flags().StringToIntVar(&limits, "limit", nil, "override a build limit for every faction, e.g. --limit barracks=1")
	return cmd
}

func run(cfg *config.Config, autoplay bool, limits map[string]int) error {
	log, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer log.Sync()

	// 1. Data tables and scripts
	printSection("Data")
	t, err := loadTables(cfg, log)
	if err != nil {
		return err
	}
	printStat("Unit templates", t.units.Count())
	printStat("Effect templates", t.effects.Count())
	printStat("Scripted attack powers", t.powered)

	// 2. Simulation context; every faction registry exists before any spawn
	s, err := sim.New(sim.Options{
		Units:    t.units,
		Effects:  t.effects,
		Factions: data.Setups(t.factions),
		Log:      log,
	})
	if err != nil {
		return err
	}
	placed, err := s.PlaceStart(t.factions)
	if err != nil {
		return fmt.Errorf("place start: %w", err)
	}
	if err := applyLimits(s.Roster(), t.units, limits); err != nil {
		return err
	}
	printStat("Factions", s.Roster().Len())
	printStat("Starting entities", placed)
	printStat("Limit overrides", len(limits))
	fmt.Println()

	// 3. Stats sink
	writer, closeWriter, err := openStatsWriter(cfg, s.Roster().Len(), log)
	if err != nil {
		return err
	}
	defer closeWriter()
	stats := system.NewStatsSystem(s.Roster(), writer, log, cfg.Simulation.StatsInterval)
	s.AddSystem(stats)

	var driver *autoplayer
	if autoplay {
		driver = newAutoplayer(s, t.units, log)
	}

	// 4. Tick loop
	shutdownCh := make(chan os.Signal, 1)
	signal.Notify(shutdownCh, syscall.SIGINT, syscall.SIGTERM)

	ticker := time.NewTicker(cfg.Simulation.TickRate)
	defer ticker.Stop()
	log.Info("simulation started", zap.Duration("tick", cfg.Simulation.TickRate), zap.Bool("autoplay", autoplay))

	for {
		select {
		case <-ticker.C:
			if driver != nil {
				driver.step()
			}
			s.Tick(cfg.Simulation.TickRate)
			if cfg.Simulation.MaxTicks > 0 && s.Ticks() >= uint64(cfg.Simulation.MaxTicks) {
				stats.Flush()
				report(s.Roster().Snapshots())
				log.Info("simulation finished", zap.Uint64("ticks", s.Ticks()))
				return nil
			}
		case sig := <-shutdownCh:
			log.Info("shutdown signal received", zap.String("signal", sig.String()))
			stats.Flush()
			report(s.Roster().Snapshots())
			return nil
		}
	}
}

// applyLimits sets each code's cap on every faction. Codes must name a unit
// or building template.
func applyLimits(roster *faction.Roster, units *data.UnitTable, limits map[string]int) error {
	for code, max := range limits {
		if units.Get(code) == nil {
			return fmt.Errorf("limit %s: unknown template", code)
		}
		if max < 0 {
			return fmt.Errorf("limit %s: negative cap %d", code, max)
		}
		for _, reg := range roster.Factions() {
			reg.SetLimit(code, max)
		}
	}
	return nil
}

// openStatsWriter connects to PostgreSQL when enabled, otherwise logs snapshots.
func openStatsWriter(cfg *config.Config, factions int, log *zap.Logger) (system.StatsWriter, func(), error) {
	if !cfg.Database.Enabled {
		return system.LogStatsWriter{Log: log}, func() {}, nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := persist.NewDB(ctx, cfg.Database, log)
	if err != nil {
		return nil, nil, fmt.Errorf("database: %w", err)
	}
	if _, err := persist.RunMigrations(ctx, db); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("migrations: %w", err)
	}
	repo := persist.NewStatsRepo(db, uuid.New())
	if err := repo.StartMatch(ctx, factions); err != nil {
		db.Close()
		return nil, nil, err
	}
	printOK("PostgreSQL stats recorder ready")
	log.Info("recording match stats", zap.String("match", repo.MatchID().String()))
	return repo, db.Close, nil
}

func report(snaps []faction.Snapshot) {
	fmt.Println()
	for _, sn := range snaps {
		printSection(fmt.Sprintf("Faction %d %s", sn.FactionID, sn.Name))
		printStat("Units", sn.Units)
		printStat("Buildings", sn.Buildings)
		printStat("Combat units", sn.Combat)
		printStat("Visible enemies", sn.Enemies)
		printStat("Attack power", sn.AttackPower)
		if sn.Defeated {
			printOK("defeated")
		}
	}
}
