package event

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBus_DeliversNextTick(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e EntitySpawned) { got = append(got, e.Code) })

	Emit(b, EntitySpawned{Code: "worker"})
	b.DispatchAll()
	assert.Empty(t, got, "not delivered before swap")

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"worker"}, got)

	b.SwapBuffers()
	b.DispatchAll()
	assert.Equal(t, []string{"worker"}, got, "delivered once")
}

func TestBus_DispatchFollowsEmissionOrder(t *testing.T) {
	b := NewBus()
	var got []string
	Subscribe(b, func(e EntitySpawned) { got = append(got, "spawned "+e.Code) })
	Subscribe(b, func(e EntityRemoved) { got = append(got, "removed "+e.Code) })
	Subscribe(b, func(e FactionDefeated) { got = append(got, "defeated") })

	Emit(b, EntitySpawned{Code: "militia"})
	Emit(b, EntityRemoved{Code: "militia"})
	Emit(b, EntitySpawned{Code: "archer"})
	Emit(b, FactionDefeated{FactionID: 2})
	Emit(b, ConstructionCompleted{Code: "house"})
	assert.Equal(t, 5, b.Pending())

	b.SwapBuffers()
	assert.Equal(t, 0, b.Pending())
	b.DispatchAll()

	assert.Equal(t, []string{"spawned militia", "removed militia", "spawned archer", "defeated"}, got)
}
