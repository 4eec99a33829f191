package faction

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var ErrDuplicateFaction = errors.New("duplicate faction id")

// Setup configures one faction at roster construction.
type Setup struct {
	ID     int          `yaml:"id"`
	Name   string       `yaml:"name"`
	Limits []LimitEntry `yaml:"limits"`
}

// Roster holds every faction registry of a match. All registries are built
// before NewRoster returns and the faction slice is never changed afterwards,
// so cross-faction enemy updates always iterate a stable list.
type Roster struct {
	factions []*Registry
	byID     map[int]*Registry
}

func NewRoster(setups []Setup, log *zap.Logger) (*Roster, error) {
	if log == nil {
		log = zap.NewNop()
	}
	ro := &Roster{
		factions: make([]*Registry, 0, len(setups)),
		byID:     make(map[int]*Registry, len(setups)),
	}
	for _, s := range setups {
		if _, dup := ro.byID[s.ID]; dup {
			return nil, fmt.Errorf("faction %d: %w", s.ID, ErrDuplicateFaction)
		}
		r := newRegistry(s, ro, log)
		ro.factions = append(ro.factions, r)
		ro.byID[s.ID] = r
	}
	return ro, nil
}

// Get returns the registry for a faction ID.
func (ro *Roster) Get(id int) (*Registry, bool) {
	r, ok := ro.byID[id]
	return r, ok
}

// Factions returns the registries in setup order. The slice is a copy.
func (ro *Roster) Factions() []*Registry {
	out := make([]*Registry, len(ro.factions))
	copy(out, ro.factions)
	return out
}

func (ro *Roster) Len() int { return len(ro.factions) }

// Snapshots summarizes every faction in setup order.
func (ro *Roster) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(ro.factions))
	for _, r := range ro.factions {
		out = append(out, r.Snapshot())
	}
	return out
}
