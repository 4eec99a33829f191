package faction

import "github.com/l1jgo/skirmish/internal/entity"

// CombatPower keeps a running total of base attack power for one faction.
// Add and Remove resolve the basic profile from the unit's state at call time,
// so changing DefaultAttack while a unit is counted makes the total drift.
type CombatPower struct {
	total int
}

func (c *CombatPower) Add(u *entity.Entity)    { c.total += BasicAttackPower(u) }
func (c *CombatPower) Remove(u *entity.Entity) { c.total -= BasicAttackPower(u) }
func (c *CombatPower) Current() int            { return c.total }

// BasicAttackPower returns the power of u's basic attack profile. With several
// profiles DefaultAttack picks one; an index outside the table counts as zero.
func BasicAttackPower(u *entity.Entity) int {
	switch n := len(u.Attacks); {
	case n == 0:
		return 0
	case n == 1:
		return u.Attacks[0].Power
	case u.DefaultAttack < 0 || u.DefaultAttack >= n:
		return 0
	default:
		return u.Attacks[u.DefaultAttack].Power
	}
}
