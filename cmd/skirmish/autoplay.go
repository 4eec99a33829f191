package main

import (
	"errors"
	"math/rand"

	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/entity"
	"github.com/l1jgo/skirmish/internal/sim"
	"go.uber.org/zap"
)

// autoplayer is a minimal stand-in for spawn and construction logic: each
// step every faction tries one random template, finishes pending buildings,
// and occasionally loses a unit to an impact.
type autoplayer struct {
	sim   *sim.Simulation
	codes []string
	rng   *rand.Rand
	log   *zap.Logger
}

func newAutoplayer(s *sim.Simulation, units *data.UnitTable, log *zap.Logger) *autoplayer {
	return &autoplayer{
		sim:   s,
		codes: units.Codes(),
		rng:   rand.New(rand.NewSource(1)),
		log:   log,
	}
}

func (a *autoplayer) step() {
	for _, reg := range a.sim.Roster().Factions() {
		if reg.IsDefeated() {
			continue
		}
		for _, b := range reg.Buildings() {
			if !b.Built {
				_ = a.sim.CompleteConstruction(b.ID)
			}
		}

		code := a.codes[a.rng.Intn(len(a.codes))]
		e, err := a.sim.Spawn(reg.ID(), code)
		switch {
		case errors.Is(err, sim.ErrLimitReached), errors.Is(err, sim.ErrRequirementsUnmet):
			continue
		case err != nil:
			a.log.Warn("autoplay spawn failed", zap.Int("faction", reg.ID()), zap.String("code", code), zap.Error(err))
			continue
		}
		if e.CanAttack() {
			a.strike(reg.Enemies())
		}
	}
}

// strike kills a random enemy unit one time in four, leaving a spark behind.
func (a *autoplayer) strike(enemies []*entity.Entity) {
	if len(enemies) == 0 || a.rng.Intn(4) != 0 {
		return
	}
	target := enemies[a.rng.Intn(len(enemies))]
	if !target.IsUnit() {
		return
	}
	if _, err := a.sim.SpawnEffect("spark", target.ID); err != nil {
		a.log.Debug("no impact effect", zap.Error(err))
	}
	if err := a.sim.Kill(target.ID); err != nil {
		a.log.Warn("autoplay kill failed", zap.Error(err))
	}
}
