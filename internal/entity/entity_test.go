package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/skirmish/internal/pool"
)

func TestParseCapabilities(t *testing.T) {
	c, err := ParseCapabilities([]string{"attack", "Gather", " drop_off "})
	require.NoError(t, err)
	assert.True(t, c.Has(CapAttack))
	assert.True(t, c.Has(CapGather))
	assert.True(t, c.Has(CapDropOff))
	assert.False(t, c.Has(CapHeal))

	_, err = ParseCapabilities([]string{"fly"})
	assert.Error(t, err)
}

func TestNew_CopiesAttacksAndSetsBuilt(t *testing.T) {
	tmpl := &Template{
		Code:     "archer",
		Kind:     KindUnit,
		Category: pool.CategoryUnit,
		Caps:     CapAttack,
		Attacks:  []AttackProfile{{Name: "bow", Power: 7}},
	}
	e := New(tmpl, 9, 1)
	assert.True(t, e.Built)
	assert.True(t, e.CanAttack())

	e.Attacks[0].Power = 99
	assert.Equal(t, 7, tmpl.Attacks[0].Power, "template is not shared")

	site := New(&Template{Code: "barracks", Kind: KindBuilding}, 10, 1)
	assert.False(t, site.Built)
	assert.True(t, site.IsBuilding())
}

func TestRequirementGroup_Contains(t *testing.T) {
	g := RequirementGroup{"stable", "range"}
	assert.True(t, g.Contains("range"))
	assert.False(t, g.Contains("forge"))
}
