package sim_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/skirmish/internal/core/event"
	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/faction"
	"github.com/l1jgo/skirmish/internal/pool"
	"github.com/l1jgo/skirmish/internal/sim"
)

const units = `
units:
  - { code: villager, kind: unit, capabilities: [build, gather] }
  - code: militia
    kind: unit
    capabilities: [attack]
    attacks: [{ name: sword, power: 4 }]
  - { code: town_center, kind: building, capabilities: [center, drop_off] }
  - { code: barracks, kind: building, requires: [[town_center]] }
  - { code: lumber_camp, kind: building, capabilities: [drop_off] }
  - { code: range, kind: building, requires: [[barracks]] }
  - { code: stable, kind: building, requires: [[barracks]] }
  - { code: workshop, kind: building, requires: [[range, stable], [lumber_camp]] }
`

const effects = `
effects:
  - { code: spark, category: impact_effect, lifetime: 300ms }
  - { code: ring, category: selection_icon }
`

func newSim(t *testing.T, redLimits ...faction.LimitEntry) *sim.Simulation {
	t.Helper()
	ut, err := data.ParseUnitTable([]byte(units))
	require.NoError(t, err)
	et, err := data.ParseEffectTable([]byte(effects))
	require.NoError(t, err)
	s, err := sim.New(sim.Options{
		Units:   ut,
		Effects: et,
		Factions: []faction.Setup{
			{ID: 1, Name: "red", Limits: redLimits},
			{ID: 2, Name: "blue"},
		},
	})
	require.NoError(t, err)
	return s
}

func mustFaction(t *testing.T, s *sim.Simulation, id int) *faction.Registry {
	t.Helper()
	r, err := s.Faction(id)
	require.NoError(t, err)
	return r
}

func TestSpawn_RegistersAndAppearsAsEnemy(t *testing.T) {
	s := newSim(t)
	red, blue := mustFaction(t, s, 1), mustFaction(t, s, 2)

	m, err := s.Spawn(1, "militia")
	require.NoError(t, err)

	assert.True(t, red.Has(m))
	assert.True(t, blue.IsEnemy(m))
	assert.Equal(t, 4, red.CurrentAttackPower())
	assert.Equal(t, 1, s.Pool().ActiveCount(pool.CategoryUnit))
	assert.Equal(t, 1, s.LiveEntities())

	got, ok := s.Entity(m.ID)
	require.True(t, ok)
	assert.Same(t, m, got)
}

func TestKill_ReturnsInstanceToPoolForReuse(t *testing.T) {
	s := newSim(t)
	red, blue := mustFaction(t, s, 1), mustFaction(t, s, 2)

	first, err := s.Spawn(1, "militia")
	require.NoError(t, err)
	require.NoError(t, s.Kill(first.ID))

	assert.False(t, red.Has(first))
	assert.Empty(t, blue.Enemies())
	assert.Zero(t, red.CurrentAttackPower())
	assert.True(t, s.World().Alive(first.ID), "killed entities stay alive in the pool")
	assert.Equal(t, 0, s.Pool().ActiveCount(pool.CategoryUnit))

	second, err := s.Spawn(2, "militia")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "pooled instance reused across factions")
	assert.Equal(t, 1, s.Pool().Len(pool.CategoryUnit))
	assert.Equal(t, 2, second.FactionID)
	assert.True(t, red.IsEnemy(second))
}

func TestSpawn_LimitGate(t *testing.T) {
	s := newSim(t, faction.LimitEntry{Code: "barracks", Max: 2})
	red := mustFaction(t, s, 1)
	_, err := s.Place(1, "town_center")
	require.NoError(t, err)

	a, err := s.Spawn(1, "barracks")
	require.NoError(t, err)
	_, err = s.Spawn(1, "barracks")
	require.NoError(t, err)
	assert.True(t, red.HasReachedLimit("barracks"))

	_, err = s.Spawn(1, "barracks")
	assert.ErrorIs(t, err, sim.ErrLimitReached)
	assert.Equal(t, 3, s.Pool().ActiveCount(pool.CategoryBuilding), "refused spawn acquires nothing")

	require.NoError(t, s.Kill(a.ID))
	assert.False(t, red.HasReachedLimit("barracks"))
	_, err = s.Spawn(1, "barracks")
	assert.NoError(t, err)
}

func TestSpawn_RequirementGate(t *testing.T) {
	s := newSim(t)

	_, err := s.Spawn(1, "barracks")
	require.ErrorIs(t, err, sim.ErrRequirementsUnmet)

	_, err = s.Place(1, "town_center")
	require.NoError(t, err)
	barracks, err := s.Spawn(1, "barracks")
	require.NoError(t, err)
	assert.False(t, barracks.Built)

	_, err = s.Spawn(1, "stable")
	require.ErrorIs(t, err, sim.ErrRequirementsUnmet, "barracks still under construction")

	require.NoError(t, s.CompleteConstruction(barracks.ID))
	stable, err := s.Spawn(1, "stable")
	require.NoError(t, err)
	require.NoError(t, s.CompleteConstruction(stable.ID))

	_, err = s.Spawn(1, "workshop")
	require.ErrorIs(t, err, sim.ErrRequirementsUnmet, "lumber camp group unmet")

	_, err = s.Place(1, "lumber_camp")
	require.NoError(t, err)
	_, err = s.Spawn(1, "workshop")
	assert.NoError(t, err)

	_, err = s.Spawn(2, "workshop")
	assert.ErrorIs(t, err, sim.ErrRequirementsUnmet, "other factions' buildings do not count")
}

func TestCompleteConstruction_Errors(t *testing.T) {
	s := newSim(t)
	v, err := s.Spawn(1, "villager")
	require.NoError(t, err)

	assert.ErrorIs(t, s.CompleteConstruction(v.ID), sim.ErrNotBuilding)
	assert.ErrorIs(t, s.CompleteConstruction(9999), sim.ErrUnknownEntity)
}

func TestSpawn_Errors(t *testing.T) {
	s := newSim(t)

	_, err := s.Spawn(7, "villager")
	assert.ErrorIs(t, err, sim.ErrUnknownFaction)
	_, err = s.Spawn(1, "dragon")
	assert.ErrorIs(t, err, sim.ErrUnknownTemplate)
	assert.ErrorIs(t, s.Kill(12345), sim.ErrUnknownEntity)
}

func TestDestroy_RetiresFromPool(t *testing.T) {
	s := newSim(t)
	red := mustFaction(t, s, 1)

	v, err := s.Spawn(1, "villager")
	require.NoError(t, err)
	require.NoError(t, s.Destroy(v.ID))
	assert.False(t, red.Has(v))
	assert.False(t, s.World().Alive(v.ID), "queued entities are not alive")
	assert.Equal(t, 0, s.Pool().Len(pool.CategoryUnit))
	assert.Equal(t, uint64(1), s.Pool().Stats().Retired)

	s.Tick(100 * time.Millisecond)
	assert.False(t, s.World().Alive(v.ID))

	again, err := s.Spawn(1, "villager")
	require.NoError(t, err)
	assert.NotEqual(t, v.ID, again.ID)
	assert.Equal(t, 1, s.Pool().Len(pool.CategoryUnit))

	assert.ErrorIs(t, s.Destroy(v.ID), sim.ErrUnknownEntity)
}

func TestDestroy_ThenSpawnSameTickGetsFreshEntity(t *testing.T) {
	s := newSim(t)
	red := mustFaction(t, s, 1)
	blue := mustFaction(t, s, 2)

	doomed, err := s.Spawn(1, "militia")
	require.NoError(t, err)
	require.NoError(t, s.Destroy(doomed.ID))
	assert.ErrorIs(t, s.Destroy(doomed.ID), sim.ErrUnknownEntity, "already queued")

	fresh, err := s.Spawn(1, "militia")
	require.NoError(t, err)
	require.NotEqual(t, doomed.ID, fresh.ID)

	s.Tick(100 * time.Millisecond)

	assert.False(t, s.World().Alive(doomed.ID))
	assert.True(t, s.World().Alive(fresh.ID), "cleanup leaves the new entity alone")
	assert.True(t, red.Has(fresh))

	snap := red.Snapshot()
	assert.Equal(t, 1, snap.Units)
	assert.Equal(t, 1, snap.Combat)
	assert.Equal(t, 4, snap.AttackPower)
	assert.Equal(t, 1, blue.Snapshot().Enemies)

	require.NoError(t, s.Kill(fresh.ID))
	assert.Equal(t, 0, red.Snapshot().Units)
	assert.Equal(t, 0, red.CurrentAttackPower())
	assert.Equal(t, 0, blue.Snapshot().Enemies)
}

func TestKill_ReleasesAttachedEffects(t *testing.T) {
	s := newSim(t)
	v, err := s.Spawn(1, "villager")
	require.NoError(t, err)
	other, err := s.Spawn(2, "villager")
	require.NoError(t, err)

	spark, err := s.SpawnEffect("spark", v.ID)
	require.NoError(t, err)
	ring, err := s.SpawnEffect("ring", v.ID)
	require.NoError(t, err)
	kept, err := s.SpawnEffect("ring", other.ID)
	require.NoError(t, err)

	require.NoError(t, s.Kill(v.ID))

	assert.False(t, spark.Active())
	assert.False(t, ring.Active(), "effects without a lifetime are released too")
	assert.Zero(t, ring.Parent())
	assert.True(t, kept.Active())
	assert.Equal(t, other.ID, kept.Parent())
}

func TestSpawnEffect_LifetimeAndReuse(t *testing.T) {
	s := newSim(t)
	v, err := s.Spawn(1, "villager")
	require.NoError(t, err)

	spark, err := s.SpawnEffect("spark", v.ID)
	require.NoError(t, err)
	assert.Equal(t, v.ID, spark.Parent())
	assert.Equal(t, 300*time.Millisecond, spark.Remaining())

	ring, err := s.SpawnEffect("ring", v.ID)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		s.Tick(100 * time.Millisecond)
	}
	assert.False(t, spark.Active())
	assert.Zero(t, spark.Parent())
	assert.True(t, ring.Active())

	s.ReleaseEffect(ring)
	assert.False(t, ring.Active())

	again, err := s.SpawnEffect("spark", v.ID)
	require.NoError(t, err)
	assert.Same(t, spark, again)

	_, err = s.SpawnEffect("smoke", v.ID)
	assert.ErrorIs(t, err, sim.ErrUnknownTemplate)
}

func TestEvents_DeliveredNextTick(t *testing.T) {
	s := newSim(t)
	var spawned, removed []string
	var defeated []int
	event.Subscribe(s.Bus(), func(e event.EntitySpawned) { spawned = append(spawned, e.Code) })
	event.Subscribe(s.Bus(), func(e event.EntityRemoved) { removed = append(removed, e.Code) })
	event.Subscribe(s.Bus(), func(e event.FactionDefeated) { defeated = append(defeated, e.FactionID) })

	tc, err := s.Place(1, "town_center")
	require.NoError(t, err)
	assert.Empty(t, spawned)

	s.Tick(100 * time.Millisecond)
	assert.Equal(t, []string{"town_center"}, spawned)

	require.NoError(t, s.Kill(tc.ID))
	s.Tick(100 * time.Millisecond)
	assert.Equal(t, []string{"town_center"}, removed)
	assert.Equal(t, []int{1}, defeated)
	assert.Equal(t, uint64(2), s.Ticks())
}

func TestPlaceStart(t *testing.T) {
	s := newSim(t)
	n, err := s.PlaceStart([]data.FactionDef{
		{Setup: faction.Setup{ID: 1}, Start: []data.StartEntry{{Code: "town_center", Count: 1}, {Code: "villager", Count: 3}}},
		{Setup: faction.Setup{ID: 2}, Start: []data.StartEntry{{Code: "villager", Count: 2}}},
	})
	require.NoError(t, err)
	assert.Equal(t, 6, n)

	red := mustFaction(t, s, 1)
	assert.Len(t, red.Builders(), 3)
	assert.Len(t, red.Centers(), 1)
	assert.True(t, red.Centers()[0].Built)
	assert.Len(t, mustFaction(t, s, 2).Enemies(), 4)
}

func TestNew_RejectsDuplicateFactions(t *testing.T) {
	ut, err := data.ParseUnitTable([]byte(units))
	require.NoError(t, err)
	_, err = sim.New(sim.Options{Units: ut, Factions: []faction.Setup{{ID: 1}, {ID: 1}}})
	assert.ErrorIs(t, err, faction.ErrDuplicateFaction)
}
