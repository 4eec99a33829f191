package data

import (
	"fmt"
	"os"

	"github.com/l1jgo/skirmish/internal/faction"
	"gopkg.in/yaml.v3"
)

// StartEntry places Count entities of Code for a faction at match start.
// Starting buildings are already built.
type StartEntry struct {
	Code  string `yaml:"code"`
	Count int    `yaml:"count"`
}

// FactionDef is one faction of a match: its limits and starting entities.
type FactionDef struct {
	faction.Setup `yaml:",inline"`

	Start []StartEntry `yaml:"start"`
}

type factionListFile struct {
	Factions []FactionDef `yaml:"factions"`
}

// LoadFactionList loads the match's faction definitions from a YAML file.
func LoadFactionList(path string) ([]FactionDef, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read faction_list: %w", err)
	}
	defs, err := ParseFactionList(raw)
	if err != nil {
		return nil, fmt.Errorf("parse faction_list: %w", err)
	}
	return defs, nil
}

// ParseFactionList decodes a faction list document.
func ParseFactionList(raw []byte) ([]FactionDef, error) {
	var f factionListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	return f.Factions, nil
}

// Setups extracts the roster setups from faction definitions.
func Setups(defs []FactionDef) []faction.Setup {
	out := make([]faction.Setup, len(defs))
	for i := range defs {
		out[i] = defs[i].Setup
	}
	return out
}

// ValidateFactions checks that limits and start entries name known templates.
func ValidateFactions(defs []FactionDef, units *UnitTable) error {
	for _, d := range defs {
		for _, l := range d.Limits {
			if units.Get(l.Code) == nil {
				return fmt.Errorf("faction %d: limit for unknown code %q", d.ID, l.Code)
			}
			if l.Max < 0 {
				return fmt.Errorf("faction %d: negative limit for %q", d.ID, l.Code)
			}
		}
		for _, s := range d.Start {
			if units.Get(s.Code) == nil {
				return fmt.Errorf("faction %d: start entry for unknown code %q", d.ID, s.Code)
			}
		}
	}
	return nil
}
