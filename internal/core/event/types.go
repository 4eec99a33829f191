package event

import "github.com/l1jgo/skirmish/internal/core/ecs"

// EntitySpawned is emitted after an entity joins a faction.
type EntitySpawned struct {
	EntityID  ecs.EntityID
	FactionID int
	Code      string
	Building  bool
}

// EntityRemoved is emitted after an entity leaves its faction.
type EntityRemoved struct {
	EntityID  ecs.EntityID
	FactionID int
	Code      string
	Building  bool
}

// ConstructionCompleted is emitted when a building becomes built.
type ConstructionCompleted struct {
	EntityID  ecs.EntityID
	FactionID int
	Code      string
}

// FactionDefeated is emitted once, when a faction loses its last center and unit.
type FactionDefeated struct {
	FactionID int
}
