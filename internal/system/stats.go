package system

import (
	"context"
	"time"

	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/faction"
	"go.uber.org/zap"
)

// StatsWriter receives periodic faction snapshots.
type StatsWriter interface {
	WriteSnapshots(ctx context.Context, tick uint64, snaps []faction.Snapshot) error
}

// StatsSystem snapshots every faction each interval ticks and hands the
// result to a StatsWriter. Phase 2 (Persist).
type StatsSystem struct {
	roster    *faction.Roster
	writer    StatsWriter
	log       *zap.Logger
	interval  int
	tickCount int
	tick      uint64
}

func NewStatsSystem(roster *faction.Roster, writer StatsWriter, log *zap.Logger, intervalTicks int) *StatsSystem {
	return &StatsSystem{
		roster:   roster,
		writer:   writer,
		log:      log,
		interval: intervalTicks,
	}
}

func (s *StatsSystem) Phase() coresys.Phase { return coresys.PhasePersist }

func (s *StatsSystem) Update(_ time.Duration) {
	s.tick++
	if s.interval <= 0 {
		return
	}
	s.tickCount++
	if s.tickCount < s.interval {
		return
	}
	s.tickCount = 0
	s.Flush()
}

// Flush writes a snapshot immediately, regardless of the interval.
// Called on shutdown so the final state is recorded.
func (s *StatsSystem) Flush() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.writer.WriteSnapshots(ctx, s.tick, s.roster.Snapshots()); err != nil {
		s.log.Warn("write faction stats failed", zap.Uint64("tick", s.tick), zap.Error(err))
	}
}

// LogStatsWriter writes snapshots to the log. Used when no database is configured.
type LogStatsWriter struct {
	Log *zap.Logger
}

func (w LogStatsWriter) WriteSnapshots(_ context.Context, tick uint64, snaps []faction.Snapshot) error {
	for _, s := range snaps {
		w.Log.Info("faction stats",
			zap.Uint64("tick", tick),
			zap.Int("faction", s.FactionID),
			zap.String("name", s.Name),
			zap.Int("units", s.Units),
			zap.Int("buildings", s.Buildings),
			zap.Int("combat", s.Combat),
			zap.Int("enemies", s.Enemies),
			zap.Int("attack_power", s.AttackPower),
			zap.Bool("defeated", s.Defeated))
	}
	return nil
}
