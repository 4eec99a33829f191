package ecs

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntityPool_ZeroIDNeverIssued(t *testing.T) {
	p := NewEntityPool()
	id := p.Create()
	assert.False(t, id.IsZero())
	assert.False(t, p.Alive(0))
}

func TestEntityPool_DestroyInvalidatesStaleIDs(t *testing.T) {
	p := NewEntityPool()
	a := p.Create()
	require.True(t, p.Destroy(a))
	assert.False(t, p.Alive(a))
	assert.False(t, p.Destroy(a), "second destroy of a stale id")

	b := p.Create()
	assert.Equal(t, a.Index(), b.Index(), "slot is recycled")
	assert.Equal(t, a.Generation()+1, b.Generation())
	assert.True(t, p.Alive(b))
	assert.False(t, p.Alive(a))
	assert.Equal(t, 1, p.Live())
}

func TestWorld_FlushDestroyQueue(t *testing.T) {
	w := NewWorld()
	names := NewPtrComponentStore[string]()
	w.Track(names)

	id := w.CreateEntity()
	name := "barracks"
	names.Set(id, &name)

	w.MarkForDestruction(id)
	w.MarkForDestruction(id)
	assert.False(t, w.Alive(id), "queued entities no longer count as alive")
	assert.True(t, w.Dying(id))
	assert.True(t, names.Has(id), "components survive until the flush")
	assert.Equal(t, 1, w.PendingDestruction(), "second mark is ignored")
	assert.Equal(t, 1, w.LiveCount())

	assert.Equal(t, 1, w.FlushDestroyQueue())
	assert.False(t, w.Alive(id))
	assert.False(t, w.Dying(id))
	assert.False(t, names.Has(id))
	assert.Equal(t, 0, w.LiveCount())
	assert.Equal(t, 0, w.PendingDestruction())
}

func TestWorld_MarkIgnoresStaleIDs(t *testing.T) {
	w := NewWorld()
	id := w.CreateEntity()
	w.MarkForDestruction(id)
	require.Equal(t, 1, w.FlushDestroyQueue())

	w.MarkForDestruction(id)
	assert.Equal(t, 0, w.PendingDestruction())
	assert.False(t, w.Dying(id))
}

func TestPtrComponentStore_Take(t *testing.T) {
	s := NewPtrComponentStore[int]()
	v := 7
	s.Set(3, &v)

	got, ok := s.Take(3)
	require.True(t, ok)
	assert.Same(t, &v, got)
	assert.False(t, s.Has(3))

	_, ok = s.Take(3)
	assert.False(t, ok)
}

func TestEach2_VisitsIntersection(t *testing.T) {
	a := NewPtrComponentStore[int]()
	b := NewPtrComponentStore[string]()
	one, two := 1, 2
	s := "x"
	a.Set(1, &one)
	a.Set(2, &two)
	b.Set(2, &s)

	var seen []EntityID
	Each2(a, b, func(id EntityID, _ *int, _ *string) {
		seen = append(seen, id)
	})
	assert.Equal(t, []EntityID{2}, seen)
}
