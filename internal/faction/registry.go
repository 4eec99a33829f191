package faction

import (
	"errors"
	"fmt"

	"github.com/l1jgo/skirmish/internal/entity"
	"go.uber.org/zap"
)

var (
	ErrNilEntity         = errors.New("nil entity")
	ErrForeignEntity     = errors.New("entity belongs to another faction")
	ErrAlreadyRegistered = errors.New("entity already registered")
	ErrNotRegistered     = errors.New("entity not registered")
)

// Registry is the bookkeeping for one faction: membership sets derived from
// entity capabilities, the limit ledger, and the combat power total. All sets
// are updated incrementally by Register and Unregister.
// Single-goroutine access only (simulation tick).
type Registry struct {
	id     int
	name   string
	roster *Roster
	log    *zap.Logger

	units      *members
	buildings  *members
	builders   *members
	collectors *members
	healers    *members
	converters *members
	combat     *members
	nonCombat  *members
	centers    *members
	dropOffs   *members
	enemies    *members // entities of every other faction

	limits *LimitLedger
	prereq Prerequisites
	power  CombatPower

	populated bool
}

func newRegistry(s Setup, roster *Roster, log *zap.Logger) *Registry {
	r := &Registry{
		id:         s.ID,
		name:       s.Name,
		roster:     roster,
		log:        log.With(zap.Int("faction", s.ID)),
		units:      newMembers(),
		buildings:  newMembers(),
		builders:   newMembers(),
		collectors: newMembers(),
		healers:    newMembers(),
		converters: newMembers(),
		combat:     newMembers(),
		nonCombat:  newMembers(),
		centers:    newMembers(),
		dropOffs:   newMembers(),
		enemies:    newMembers(),
		limits:     NewLimitLedger(s.Limits),
	}
	r.prereq = Prerequisites{buildings: r.buildings}
	return r
}

func (r *Registry) ID() int      { return r.id }
func (r *Registry) Name() string { return r.name }

// Register adds e to this faction, to the enemy set of every other faction,
// and to the limit and combat power aggregates.
func (r *Registry) Register(e *entity.Entity) error {
	if e == nil {
		return fmt.Errorf("register: %w", ErrNilEntity)
	}
	if e.FactionID != r.id {
		return fmt.Errorf("register %s (faction %d) into faction %d: %w", e.Code, e.FactionID, r.id, ErrForeignEntity)
	}
	if r.units.has(e.ID) || r.buildings.has(e.ID) {
		return fmt.Errorf("register %s: %w", e.Code, ErrAlreadyRegistered)
	}

	if e.IsUnit() {
		r.units.add(e)
		if e.Caps.Has(entity.CapBuild) {
			r.builders.add(e)
		}
		if e.Caps.Has(entity.CapGather) {
			r.collectors.add(e)
		}
		if e.Caps.Has(entity.CapHeal) {
			r.healers.add(e)
		}
		if e.Caps.Has(entity.CapConvert) {
			r.converters.add(e)
		}
		if e.CanAttack() {
			r.combat.add(e)
			r.power.Add(e)
		} else {
			r.nonCombat.add(e)
		}
	} else {
		r.buildings.add(e)
		if e.Caps.Has(entity.CapCenter) {
			r.centers.add(e)
		}
		if e.Caps.Has(entity.CapDropOff) {
			r.dropOffs.add(e)
		}
	}

	for _, other := range r.roster.factions {
		if other != r {
			other.enemies.add(e)
		}
	}
	r.limits.Increment(e.Code, 1)
	r.populated = true

	r.log.Debug("entity registered",
		zap.String("code", e.Code),
		zap.Stringer("kind", e.Kind),
		zap.Uint64("entity", uint64(e.ID)))
	return nil
}

// Unregister is the exact inverse of Register.
func (r *Registry) Unregister(e *entity.Entity) error {
	if e == nil {
		return fmt.Errorf("unregister: %w", ErrNilEntity)
	}
	if !r.units.has(e.ID) && !r.buildings.has(e.ID) {
		return fmt.Errorf("unregister %s from faction %d: %w", e.Code, r.id, ErrNotRegistered)
	}

	// Removal goes by recorded membership, not by the entity's current flags,
	// so nothing is left behind if capabilities changed since Register.
	if r.combat.has(e.ID) {
		r.power.Remove(e)
	}
	for _, set := range []*members{
		r.units, r.builders, r.collectors, r.healers, r.converters, r.combat, r.nonCombat,
		r.buildings, r.centers, r.dropOffs,
	} {
		set.remove(e)
	}

	for _, other := range r.roster.factions {
		if other != r {
			other.enemies.remove(e)
		}
	}
	r.limits.Increment(e.Code, -1)

	r.log.Debug("entity unregistered",
		zap.String("code", e.Code),
		zap.Stringer("kind", e.Kind),
		zap.Uint64("entity", uint64(e.ID)))
	return nil
}

// HasReachedLimit reports whether another entity with code would exceed the
// configured cap. Codes without a cap are never limited.
func (r *Registry) HasReachedLimit(code string) bool {
	return r.limits.HasReachedLimit(code)
}

// CheckRequiredBuildings reports whether this faction satisfies every
// requirement group of building b.
func (r *Registry) CheckRequiredBuildings(b *entity.Entity) bool {
	return r.prereq.IsSatisfied(b)
}

// CurrentAttackPower returns the summed basic attack power of combat units.
func (r *Registry) CurrentAttackPower() int {
	return r.power.Current()
}

// SetLimit adds or changes the cap for code. A new entry starts counting
// from the members of code the faction already has.
func (r *Registry) SetLimit(code string, max int) {
	_, existed := r.limits.Entry(code)
	r.limits.Set(code, max)
	if !existed {
		r.limits.Increment(code, r.countCode(code))
	}
}

func (r *Registry) countCode(code string) int {
	n := 0
	for _, set := range []*members{r.units, r.buildings} {
		for _, e := range set.byID {
			if e.Code == code {
				n++
			}
		}
	}
	return n
}

// Limit returns the limit entry for code, if any.
func (r *Registry) Limit(code string) (LimitEntry, bool) {
	return r.limits.Entry(code)
}

// BuiltCount returns how many finished buildings with code the faction has.
func (r *Registry) BuiltCount(code string) int {
	n := 0
	for _, b := range r.buildings.byID {
		if b.Built && b.Code == code {
			n++
		}
	}
	return n
}

// IsDefeated is true once a faction that had members has neither a center nor a unit left.
func (r *Registry) IsDefeated() bool {
	return r.populated && r.centers.len() == 0 && r.units.len() == 0
}

// Has reports whether the entity with e's ID is a member of this faction.
func (r *Registry) Has(e *entity.Entity) bool {
	return e != nil && (r.units.has(e.ID) || r.buildings.has(e.ID))
}

// IsEnemy reports whether e is registered with another faction.
func (r *Registry) IsEnemy(e *entity.Entity) bool {
	return e != nil && r.enemies.has(e.ID)
}

func (r *Registry) Units() []*entity.Entity      { return r.units.list() }
func (r *Registry) Buildings() []*entity.Entity  { return r.buildings.list() }
func (r *Registry) Builders() []*entity.Entity   { return r.builders.list() }
func (r *Registry) Collectors() []*entity.Entity { return r.collectors.list() }
func (r *Registry) Healers() []*entity.Entity    { return r.healers.list() }
func (r *Registry) Converters() []*entity.Entity { return r.converters.list() }
func (r *Registry) Combat() []*entity.Entity     { return r.combat.list() }
func (r *Registry) NonCombat() []*entity.Entity  { return r.nonCombat.list() }
func (r *Registry) Centers() []*entity.Entity    { return r.centers.list() }
func (r *Registry) DropOffs() []*entity.Entity   { return r.dropOffs.list() }
func (r *Registry) Enemies() []*entity.Entity    { return r.enemies.list() }

// Snapshot is a point-in-time summary of a faction's bookkeeping.
type Snapshot struct {
	FactionID   int
	Name        string
	Units       int
	Buildings   int
	Builders    int
	Collectors  int
	Healers     int
	Converters  int
	Combat      int
	NonCombat   int
	Centers     int
	DropOffs    int
	Enemies     int
	AttackPower int
	Defeated    bool
	Limits      []LimitEntry
}

func (r *Registry) Snapshot() Snapshot {
	return Snapshot{
		FactionID:   r.id,
		Name:        r.name,
		Units:       r.units.len(),
		Buildings:   r.buildings.len(),
		Builders:    r.builders.len(),
		Collectors:  r.collectors.len(),
		Healers:     r.healers.len(),
		Converters:  r.converters.len(),
		Combat:      r.combat.len(),
		NonCombat:   r.nonCombat.len(),
		Centers:     r.centers.len(),
		DropOffs:    r.dropOffs.len(),
		Enemies:     r.enemies.len(),
		AttackPower: r.power.Current(),
		Defeated:    r.IsDefeated(),
		Limits:      r.limits.Entries(),
	}
}
