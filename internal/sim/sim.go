// Package sim ties the object pool and the faction roster together into one
// explicitly constructed simulation context and drives entity lifecycles:
// spawn gating, registration, release back to the pool, and per-tick systems.
package sim

import (
	"errors"
	"fmt"
	"time"

	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/core/event"
	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/entity"
	"github.com/l1jgo/skirmish/internal/faction"
	"github.com/l1jgo/skirmish/internal/pool"
	"github.com/l1jgo/skirmish/internal/system"
	"go.uber.org/zap"
)

var (
	ErrUnknownFaction    = errors.New("unknown faction")
	ErrUnknownTemplate   = errors.New("unknown template")
	ErrUnknownEntity     = errors.New("unknown entity")
	ErrLimitReached      = errors.New("faction limit reached")
	ErrRequirementsUnmet = errors.New("required buildings missing")
	ErrNotBuilding       = errors.New("entity is not a building")
)

// Options configures a Simulation.
type Options struct {
	Units    *data.UnitTable
	Effects  *data.EffectTable
	Factions []faction.Setup
	Log      *zap.Logger
}

// Simulation is the context every subsystem receives: entity identity, the
// object pool, and the faction roster. Single-goroutine access only.
type Simulation struct {
	world   *ecs.World
	pool    *pool.Pool
	roster  *faction.Roster
	units   *data.UnitTable
	effects *data.EffectTable
	bus     *event.Bus
	runner  *coresys.Runner
	log     *zap.Logger

	descriptors *ecs.PtrComponentStore[entity.Entity]
	handles     *ecs.PtrComponentStore[pool.Instance]
	defeated    map[int]bool
}

func New(opts Options) (*Simulation, error) {
	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Units == nil {
		return nil, fmt.Errorf("new simulation: unit table is required")
	}
	effects := opts.Effects
	if effects == nil {
		effects = data.NewEffectTable()
	}

	// Every registry must exist before the first Register call.
	roster, err := faction.NewRoster(opts.Factions, log)
	if err != nil {
		return nil, fmt.Errorf("new simulation: %w", err)
	}

	s := &Simulation{
		world:       ecs.NewWorld(),
		roster:      roster,
		units:       opts.Units,
		effects:     effects,
		bus:         event.NewBus(),
		runner:      coresys.NewRunner(),
		log:         log,
		descriptors: ecs.NewPtrComponentStore[entity.Entity](),
		handles:     ecs.NewPtrComponentStore[pool.Instance](),
		defeated:    make(map[int]bool),
	}
	s.world.Track(s.descriptors, s.handles)
	s.pool = pool.New(s.world, s.createEntity, log)

	s.runner.Register(system.NewEventDispatchSystem(s.bus))
	s.runner.Register(system.NewLifetimeSystem(s.pool))
	s.runner.Register(system.NewCleanupSystem(s.world, log))
	return s, nil
}

// createEntity is the pool factory: it only accepts codes known to a table.
func (s *Simulation) createEntity(category pool.Category, code string) (ecs.EntityID, error) {
	if s.units.Get(code) == nil && s.effects.Get(code) == nil {
		return 0, fmt.Errorf("%w: %s", ErrUnknownTemplate, code)
	}
	return s.world.CreateEntity(), nil
}

func (s *Simulation) World() *ecs.World       { return s.world }
func (s *Simulation) Pool() *pool.Pool        { return s.pool }
func (s *Simulation) Roster() *faction.Roster { return s.roster }
func (s *Simulation) Bus() *event.Bus         { return s.bus }

// AddSystem registers an extra per-tick system.
func (s *Simulation) AddSystem(sys coresys.System) {
	s.runner.Register(sys)
}

// Tick runs one simulation step.
func (s *Simulation) Tick(dt time.Duration) {
	s.runner.Tick(dt)
}

// Ticks returns the number of completed ticks.
func (s *Simulation) Ticks() uint64 {
	return s.runner.Ticks()
}

// Faction returns the registry of a faction.
func (s *Simulation) Faction(id int) (*faction.Registry, error) {
	r, ok := s.roster.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownFaction, id)
	}
	return r, nil
}

// Entity returns the descriptor of a live faction entity.
func (s *Simulation) Entity(id ecs.EntityID) (*entity.Entity, bool) {
	return s.descriptors.Get(id)
}

// LiveEntities returns the number of entities currently attached to a faction.
func (s *Simulation) LiveEntities() int {
	n := 0
	ecs.Each2(s.descriptors, s.handles, func(_ ecs.EntityID, _ *entity.Entity, inst *pool.Instance) {
		if inst.Active() {
			n++
		}
	})
	return n
}
