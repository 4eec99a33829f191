package system

import (
	"time"

	coresys "github.com/l1jgo/skirmish/internal/core/system"
	"github.com/l1jgo/skirmish/internal/pool"
)

// LifetimeSystem counts down pooled instance lifetimes and releases the
// instances that run out. Phase 1 (Update).
type LifetimeSystem struct {
	pool *pool.Pool
}

func NewLifetimeSystem(p *pool.Pool) *LifetimeSystem {
	return &LifetimeSystem{pool: p}
}

func (s *LifetimeSystem) Phase() coresys.Phase { return coresys.PhaseUpdate }

func (s *LifetimeSystem) Update(dt time.Duration) {
	s.pool.Tick(dt)
}
