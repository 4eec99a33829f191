package sim

import (
	"fmt"
	"time"

	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/core/event"
	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/entity"
	"github.com/l1jgo/skirmish/internal/pool"
	"go.uber.org/zap"
)

// Spawn creates an entity of code for a faction. It refuses when the faction
// is at its limit for code or, for buildings, lacks a required building.
// Buildings start unbuilt; see CompleteConstruction.
func (s *Simulation) Spawn(factionID int, code string) (*entity.Entity, error) {
	return s.spawn(factionID, code, false)
}

// Place puts an already built entity into a faction, as for starting assets.
// Limits still apply; building requirements do not.
func (s *Simulation) Place(factionID int, code string) (*entity.Entity, error) {
	return s.spawn(factionID, code, true)
}

func (s *Simulation) spawn(factionID int, code string, placed bool) (*entity.Entity, error) {
	reg, err := s.Faction(factionID)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", code, err)
	}
	tmpl := s.units.Get(code)
	if tmpl == nil {
		return nil, fmt.Errorf("spawn: %w: %s", ErrUnknownTemplate, code)
	}
	if reg.HasReachedLimit(code) {
		return nil, fmt.Errorf("spawn %s for faction %d: %w", code, factionID, ErrLimitReached)
	}

	e := entity.New(tmpl, 0, factionID)
	if placed {
		e.Built = true
	} else if e.IsBuilding() && !reg.CheckRequiredBuildings(e) {
		return nil, fmt.Errorf("spawn %s for faction %d: %w", code, factionID, ErrRequirementsUnmet)
	}

	inst, err := s.pool.Acquire(tmpl.Category, code)
	if err != nil {
		return nil, fmt.Errorf("spawn %s: %w", code, err)
	}
	e.ID = inst.ID
	if err := reg.Register(e); err != nil {
		s.pool.Release(inst)
		return nil, fmt.Errorf("spawn %s: %w", code, err)
	}
	s.descriptors.Set(e.ID, e)
	s.handles.Set(e.ID, inst)

	event.Emit(s.bus, event.EntitySpawned{
		EntityID:  e.ID,
		FactionID: factionID,
		Code:      code,
		Building:  e.IsBuilding(),
	})
	return e, nil
}

// CompleteConstruction marks a building as built, which lets it satisfy
// other buildings' requirements.
func (s *Simulation) CompleteConstruction(id ecs.EntityID) error {
	e, ok := s.descriptors.Get(id)
	if !ok {
		return fmt.Errorf("complete construction: %w: %d", ErrUnknownEntity, id)
	}
	if !e.IsBuilding() {
		return fmt.Errorf("complete construction of %s: %w", e.Code, ErrNotBuilding)
	}
	if e.Built {
		return nil
	}
	e.Built = true
	event.Emit(s.bus, event.ConstructionCompleted{EntityID: id, FactionID: e.FactionID, Code: e.Code})
	return nil
}

// Kill removes an entity from its faction, releases the effects attached to
// it and returns its instance to the pool. The underlying entity stays alive
// for reuse.
func (s *Simulation) Kill(id ecs.EntityID) error {
	e, ok := s.descriptors.Get(id)
	if !ok {
		return fmt.Errorf("kill: %w: %d", ErrUnknownEntity, id)
	}
	reg, err := s.Faction(e.FactionID)
	if err != nil {
		return fmt.Errorf("kill %s: %w", e.Code, err)
	}
	if err := reg.Unregister(e); err != nil {
		return fmt.Errorf("kill %s: %w", e.Code, err)
	}
	s.descriptors.Remove(id)
	if n := s.pool.ReleaseAttached(id); n > 0 {
		s.log.Debug("attached effects released", zap.Uint64("entity", uint64(id)), zap.Int("count", n))
	}
	if inst, ok := s.handles.Take(id); ok {
		s.pool.Release(inst)
	}

	event.Emit(s.bus, event.EntityRemoved{
		EntityID:  id,
		FactionID: e.FactionID,
		Code:      e.Code,
		Building:  e.IsBuilding(),
	})
	if reg.IsDefeated() && !s.defeated[reg.ID()] {
		s.defeated[reg.ID()] = true
		event.Emit(s.bus, event.FactionDefeated{FactionID: reg.ID()})
		s.log.Info("faction defeated", zap.Int("faction", reg.ID()), zap.String("name", reg.Name()))
	}
	return nil
}

// Destroy kills a faction entity if needed, retires its pool entry and
// queues the underlying entity for destruction at the end of the tick. From
// this call on the entity is not alive and cannot be acquired again.
func (s *Simulation) Destroy(id ecs.EntityID) error {
	if !s.world.Alive(id) {
		return fmt.Errorf("destroy: %w: %d", ErrUnknownEntity, id)
	}
	inst, pooled := s.handles.Get(id)
	if s.descriptors.Has(id) {
		if err := s.Kill(id); err != nil {
			return err
		}
	}
	if pooled {
		s.pool.Retire(inst)
	}
	s.pool.ReleaseAttached(id)
	s.world.MarkForDestruction(id)
	return nil
}

// SpawnEffect acquires a pooled effect attached to parent. Effects with a
// template lifetime release themselves when it runs out.
func (s *Simulation) SpawnEffect(code string, parent ecs.EntityID) (*pool.Instance, error) {
	tmpl := s.effects.Get(code)
	if tmpl == nil {
		return nil, fmt.Errorf("spawn effect: %w: %s", ErrUnknownTemplate, code)
	}
	return s.SpawnEffectFor(tmpl, parent, tmpl.Lifetime)
}

// SpawnEffectFor acquires an effect with an explicit lifetime; 0 keeps it
// until ReleaseEffect.
func (s *Simulation) SpawnEffectFor(tmpl *data.EffectTemplate, parent ecs.EntityID, lifetime time.Duration) (*pool.Instance, error) {
	inst, err := s.pool.Acquire(tmpl.Category, tmpl.Code)
	if err != nil {
		return nil, fmt.Errorf("spawn effect %s: %w", tmpl.Code, err)
	}
	inst.Attach(parent)
	inst.SetLifetime(lifetime)
	return inst, nil
}

// ReleaseEffect returns an effect to the pool before its lifetime ends.
func (s *Simulation) ReleaseEffect(inst *pool.Instance) {
	s.pool.Release(inst)
}

// PlaceStart places every faction's starting entities.
func (s *Simulation) PlaceStart(defs []data.FactionDef) (int, error) {
	n := 0
	for _, d := range defs {
		for _, st := range d.Start {
			for i := 0; i < st.Count; i++ {
				if _, err := s.Place(d.ID, st.Code); err != nil {
					return n, fmt.Errorf("faction %d start: %w", d.ID, err)
				}
				n++
			}
		}
	}
	return n, nil
}
