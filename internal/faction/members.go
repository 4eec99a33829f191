package faction

import (
	"sort"

	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/entity"
)

// members is a non-owning membership set keyed by entity ID.
type members struct {
	byID map[ecs.EntityID]*entity.Entity
}

func newMembers() *members {
	return &members{byID: make(map[ecs.EntityID]*entity.Entity, 32)}
}

func (m *members) add(e *entity.Entity)    { m.byID[e.ID] = e }
func (m *members) remove(e *entity.Entity) { delete(m.byID, e.ID) }
func (m *members) len() int                { return len(m.byID) }

func (m *members) has(id ecs.EntityID) bool {
	_, ok := m.byID[id]
	return ok
}

// list returns the members ordered by ID so callers see a stable order.
func (m *members) list() []*entity.Entity {
	out := make([]*entity.Entity, 0, len(m.byID))
	for _, e := range m.byID {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
