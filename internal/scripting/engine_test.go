package scripting

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l1jgo/skirmish/internal/entity"
)

func TestAttackPower_ShippedFormula(t *testing.T) {
	e, err := NewEngine("../../scripts", nil)
	require.NoError(t, err)
	defer e.Close()
	require.True(t, e.HasPowerFormula())

	// 6 damage every 2s = 3 dps; range 1 → reach 1; 3*2*1 = 6
	p, ok := e.AttackPower(entity.AttackProfile{Name: "sword", Damage: 6, Reload: 2 * time.Second, Range: 1})
	require.True(t, ok)
	assert.Equal(t, 6, p)

	// 4 damage every 2s = 2 dps; range 5 → reach 2; 2*2*2 = 8
	p, ok = e.AttackPower(entity.AttackProfile{Name: "bow", Damage: 4, Reload: 2 * time.Second, Range: 5})
	require.True(t, ok)
	assert.Equal(t, 8, p)
}

func TestAttackPower_MissingFunction(t *testing.T) {
	e, err := NewEngine(t.TempDir(), nil)
	require.NoError(t, err)
	defer e.Close()

	assert.False(t, e.HasPowerFormula())
	_, ok := e.AttackPower(entity.AttackProfile{Damage: 1})
	assert.False(t, ok)
}

func TestAttackPower_ScriptErrors(t *testing.T) {
	e, err := NewEngineFromSource(`function calc_attack_power(p) error("boom") end`, nil)
	require.NoError(t, err)
	defer e.Close()
	_, ok := e.AttackPower(entity.AttackProfile{Damage: 1})
	assert.False(t, ok)

	e2, err := NewEngineFromSource(`function calc_attack_power(p) return "lots" end`, nil)
	require.NoError(t, err)
	defer e2.Close()
	_, ok = e2.AttackPower(entity.AttackProfile{Damage: 1})
	assert.False(t, ok)
}

func TestNewEngineFromSource_SyntaxError(t *testing.T) {
	_, err := NewEngineFromSource(`function (`, nil)
	assert.Error(t, err)
}
