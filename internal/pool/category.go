package pool

import (
	"fmt"
	"strings"
)

// Category identifies a bucket of interchangeable pooled instances.
// The set is closed; values outside it are rejected by the pool.
type Category uint8

const (
	CategoryUnit Category = iota
	CategoryBuilding
	CategoryImpactEffect
	CategoryAttackEffect
	CategoryProjectile
	CategorySelectionIcon
	CategoryMinimapIcon

	categoryCount
)

var categoryNames = [categoryCount]string{
	CategoryUnit:          "unit",
	CategoryBuilding:      "building",
	CategoryImpactEffect:  "impact_effect",
	CategoryAttackEffect:  "attack_effect",
	CategoryProjectile:    "projectile",
	CategorySelectionIcon: "selection_icon",
	CategoryMinimapIcon:   "minimap_icon",
}

// Valid reports whether c is a member of the closed category set.
func (c Category) Valid() bool { return c < categoryCount }

func (c Category) String() string {
	if !c.Valid() {
		return fmt.Sprintf("category(%d)", uint8(c))
	}
	return categoryNames[c]
}

// ParseCategory maps a data-file name to its Category.
func ParseCategory(name string) (Category, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i, s := range categoryNames {
		if s == n {
			return Category(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// UnmarshalText lets categories appear by name in YAML and TOML.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, uint8(c))
	}
	return []byte(categoryNames[c]), nil
}
