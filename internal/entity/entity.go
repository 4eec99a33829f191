// Package entity describes the game objects that factions keep track of.
// Descriptors are built once per spawn from a Template, so capability and
// attack data never need to be looked up again while the entity lives.
package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/l1jgo/skirmish/internal/core/ecs"
	"github.com/l1jgo/skirmish/internal/pool"
)

// Kind separates mobile units from buildings.
type Kind uint8

const (
	KindUnit Kind = iota
	KindBuilding
)

func (k Kind) String() string {
	if k == KindBuilding {
		return "building"
	}
	return "unit"
}

func (k *Kind) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "unit":
		*k = KindUnit
	case "building":
		*k = KindBuilding
	default:
		return fmt.Errorf("unknown entity kind %q", text)
	}
	return nil
}

// Capability is a bit set of what an entity can do.
type Capability uint16

const (
	CapAttack Capability = 1 << iota
	CapBuild
	CapGather
	CapHeal
	CapConvert
	CapCenter  // building: faction center, accepts resources and trains builders
	CapDropOff // building: resource drop-off point
)

var capabilityNames = map[string]Capability{
	"attack":   CapAttack,
	"build":    CapBuild,
	"gather":   CapGather,
	"heal":     CapHeal,
	"convert":  CapConvert,
	"center":   CapCenter,
	"drop_off": CapDropOff,
}

func (c Capability) Has(flag Capability) bool { return c&flag == flag }

// ParseCapabilities folds a list of capability names into one set.
func ParseCapabilities(names []string) (Capability, error) {
	var c Capability
	for _, n := range names {
		flag, ok := capabilityNames[strings.ToLower(strings.TrimSpace(n))]
		if !ok {
			return 0, fmt.Errorf("unknown capability %q", n)
		}
		c |= flag
	}
	return c, nil
}

// AttackProfile is one attack an entity can perform. Power is the value the
// faction's combat power aggregate counts for it.
type AttackProfile struct {
	Name   string        `yaml:"name"`
	Damage int           `yaml:"damage"`
	Reload time.Duration `yaml:"reload"`
	Range  float64       `yaml:"range"`
	Power  int           `yaml:"power"`
}

// RequirementGroup lists alternative building codes. Any one built building
// with a listed code satisfies the group.
type RequirementGroup []string

// Contains reports whether code is one of the group's alternatives.
func (g RequirementGroup) Contains(code string) bool {
	for _, c := range g {
		if c == code {
			return true
		}
	}
	return false
}

// Template is the static definition an entity is spawned from.
type Template struct {
	Code          string
	Name          string
	Kind          Kind
	Category      pool.Category
	Caps          Capability
	Attacks       []AttackProfile
	DefaultAttack int
	Requirements  []RequirementGroup
}

// Entity is the per-instance descriptor registered with a faction.
type Entity struct {
	ID            ecs.EntityID
	Code          string
	Name          string
	Kind          Kind
	Category      pool.Category
	FactionID     int
	Caps          Capability
	Built         bool
	Attacks       []AttackProfile
	DefaultAttack int
	Requirements  []RequirementGroup
}

// New builds a descriptor for a freshly spawned instance of t. Units count as
// built immediately; buildings start as construction sites.
func New(t *Template, id ecs.EntityID, factionID int) *Entity {
	attacks := make([]AttackProfile, len(t.Attacks))
	copy(attacks, t.Attacks)
	return &Entity{
		ID:            id,
		Code:          t.Code,
		Name:          t.Name,
		Kind:          t.Kind,
		Category:      t.Category,
		FactionID:     factionID,
		Caps:          t.Caps,
		Built:         t.Kind == KindUnit,
		Attacks:       attacks,
		DefaultAttack: t.DefaultAttack,
		Requirements:  t.Requirements,
	}
}

func (e *Entity) IsUnit() bool     { return e.Kind == KindUnit }
func (e *Entity) IsBuilding() bool { return e.Kind == KindBuilding }
func (e *Entity) CanAttack() bool  { return e.Caps.Has(CapAttack) }
