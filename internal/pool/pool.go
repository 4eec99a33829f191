package pool

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/l1jgo/skirmish/internal/core/ecs"
	"go.uber.org/zap"
)

var (
	ErrUnknownCategory = errors.New("unknown pool category")
	ErrEmptyTemplate   = errors.New("empty template code")
)

// Liveness reports whether an entity still exists. *ecs.World satisfies it.
type Liveness interface {
	Alive(id ecs.EntityID) bool
}

// Factory creates the underlying entity for a new pooled instance.
type Factory func(category Category, templateCode string) (ecs.EntityID, error)

// Instance is one reusable pooled object. The pool owns its activation state;
// callers hold the pointer as a handle between Acquire and Release.
type Instance struct {
	ID           ecs.EntityID
	TemplateCode string
	Category     Category

	active    bool
	remaining time.Duration // 0 = no countdown
	parent    ecs.EntityID
}

func (i *Instance) Active() bool             { return i.active }
func (i *Instance) Remaining() time.Duration { return i.remaining }
func (i *Instance) Parent() ecs.EntityID     { return i.parent }

// Attach parents the instance to another entity until it is released.
func (i *Instance) Attach(parent ecs.EntityID) { i.parent = parent }

// SetLifetime starts a countdown after which the pool releases the instance.
// d <= 0 clears any running countdown.
func (i *Instance) SetLifetime(d time.Duration) {
	if d < 0 {
		d = 0
	}
	i.remaining = d
}

// Stats counts pool activity since construction.
type Stats struct {
	Created uint64
	Reused  uint64
	Pruned  uint64
	Expired uint64
	Retired uint64
}

// Pool keeps one instance list per category. Instances are created on demand
// and never destroyed by the pool; Release only deactivates them.
// Single-goroutine access only (simulation tick).
type Pool struct {
	lists   [categoryCount][]*Instance
	alive   Liveness
	factory Factory
	log     *zap.Logger
	stats   Stats
}

func New(alive Liveness, factory Factory, log *zap.Logger) *Pool {
	if log == nil {
		log = zap.NewNop()
	}
	return &Pool{alive: alive, factory: factory, log: log}
}

// Acquire returns the first inactive instance of templateCode in category,
// reactivated, or creates one through the factory when none is free.
// Entries whose entity was destroyed elsewhere are dropped during the scan.
func (p *Pool) Acquire(category Category, templateCode string) (*Instance, error) {
	if !category.Valid() {
		return nil, fmt.Errorf("acquire: %w: %d", ErrUnknownCategory, uint8(category))
	}
	if templateCode == "" {
		return nil, fmt.Errorf("acquire %s: %w", category, ErrEmptyTemplate)
	}

	list := p.lists[category]
	for i := 0; i < len(list); {
		inst := list[i]
		if !p.alive.Alive(inst.ID) {
			list = slices.Delete(list, i, i+1)
			p.stats.Pruned++
			continue
		}
		if !inst.active && inst.TemplateCode == templateCode {
			p.lists[category] = list
			inst.active = true
			p.stats.Reused++
			return inst, nil
		}
		i++
	}
	p.lists[category] = list

	id, err := p.factory(category, templateCode)
	if err != nil {
		return nil, fmt.Errorf("acquire %s/%s: %w", category, templateCode, err)
	}
	inst := &Instance{
		ID:           id,
		TemplateCode: templateCode,
		Category:     category,
		active:       true,
	}
	p.lists[category] = append(p.lists[category], inst)
	p.stats.Created++
	p.log.Debug("pool instance created",
		zap.Stringer("category", category),
		zap.String("template", templateCode),
		zap.Uint64("entity", uint64(id)))
	return inst, nil
}

// Release deactivates inst and detaches it from its parent. It stays in its
// category list and can satisfy a later Acquire of the same template.
func (p *Pool) Release(inst *Instance) {
	if inst == nil || !inst.active {
		return
	}
	inst.active = false
	inst.remaining = 0
	inst.parent = 0
}

// Retire drops inst from its category list for good. Use it when the
// underlying entity is about to be destroyed so no Acquire can hand it out in
// the meantime. Unknown instances are ignored.
func (p *Pool) Retire(inst *Instance) {
	if inst == nil || !inst.Category.Valid() {
		return
	}
	list := p.lists[inst.Category]
	i := slices.Index(list, inst)
	if i < 0 {
		return
	}
	p.Release(inst)
	p.lists[inst.Category] = slices.Delete(list, i, i+1)
	p.stats.Retired++
}

// ReleaseAttached releases every active instance attached to parent and
// returns how many were released.
func (p *Pool) ReleaseAttached(parent ecs.EntityID) int {
	if parent.IsZero() {
		return 0
	}
	n := 0
	for c := range p.lists {
		for _, inst := range p.lists[c] {
			if inst.active && inst.parent == parent {
				p.Release(inst)
				n++
			}
		}
	}
	return n
}

// Tick advances lifetime countdowns of active instances and releases the
// ones that reach zero. Returns the number released.
func (p *Pool) Tick(dt time.Duration) int {
	expired := 0
	for c := range p.lists {
		for _, inst := range p.lists[c] {
			if !inst.active || inst.remaining <= 0 {
				continue
			}
			inst.remaining -= dt
			if inst.remaining <= 0 {
				p.Release(inst)
				expired++
			}
		}
	}
	p.stats.Expired += uint64(expired)
	return expired
}

// Len returns the number of instances held for category, active or not.
func (p *Pool) Len(category Category) int {
	if !category.Valid() {
		return 0
	}
	return len(p.lists[category])
}

// ActiveCount returns the number of active instances in category.
func (p *Pool) ActiveCount(category Category) int {
	if !category.Valid() {
		return 0
	}
	n := 0
	for _, inst := range p.lists[category] {
		if inst.active {
			n++
		}
	}
	return n
}

func (p *Pool) Stats() Stats { return p.stats }
