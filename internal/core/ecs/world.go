package ecs

// World owns entity identity: the ID pool, the component stores that must be
// cleared on destroy, and a deferred destruction queue flushed once per tick
// by the cleanup system.
type World struct {
	pool         *EntityPool
	stores       []Removable
	destroyQueue []EntityID
	dying        map[EntityID]struct{}
}

func NewWorld() *World {
	return &World{
		pool:         NewEntityPool(),
		stores:       make([]Removable, 0, 8),
		destroyQueue: make([]EntityID, 0, 64),
		dying:        make(map[EntityID]struct{}),
	}
}

// Track registers component stores whose entries are dropped when an entity
// is destroyed.
func (w *World) Track(stores ...Removable) {
	w.stores = append(w.stores, stores...)
}

func (w *World) CreateEntity() EntityID {
	return w.pool.Create()
}

// Alive reports whether id exists and is not queued for destruction. A queued
// entity is already gone for every caller; only the flush reclaims its slot.
func (w *World) Alive(id EntityID) bool {
	if _, ok := w.dying[id]; ok {
		return false
	}
	return w.pool.Alive(id)
}

// Dying reports whether id is queued for destruction.
func (w *World) Dying(id EntityID) bool {
	_, ok := w.dying[id]
	return ok
}

// LiveCount returns the number of entities whose slot has not been reclaimed.
func (w *World) LiveCount() int {
	return w.pool.Live()
}

// MarkForDestruction queues an entity for end-of-tick cleanup. Stale and
// already queued IDs are ignored.
func (w *World) MarkForDestruction(id EntityID) {
	if !w.Alive(id) {
		return
	}
	w.dying[id] = struct{}{}
	w.destroyQueue = append(w.destroyQueue, id)
}

// PendingDestruction reports how many entities are queued.
func (w *World) PendingDestruction() int {
	return len(w.destroyQueue)
}

// FlushDestroyQueue destroys all queued entities and clears their components.
// Returns the number of entities destroyed.
func (w *World) FlushDestroyQueue() int {
	n := 0
	for _, id := range w.destroyQueue {
		delete(w.dying, id)
		if !w.pool.Alive(id) {
			continue
		}
		for _, s := range w.stores {
			s.Remove(id)
		}
		w.pool.Destroy(id)
		n++
	}
	w.destroyQueue = w.destroyQueue[:0]
	return n
}
