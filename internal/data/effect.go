package data

import (
	"fmt"
	"os"
	"time"

	"github.com/l1jgo/skirmish/internal/pool"
	"gopkg.in/yaml.v3"
)

// EffectTemplate is a pooled, non-faction object such as a projectile or an
// impact effect. Lifetime 0 means it stays until released explicitly.
type EffectTemplate struct {
	Code     string
	Category pool.Category
	Lifetime time.Duration
}

type effectDef struct {
	Code     string        `yaml:"code"`
	Category string        `yaml:"category"`
	Lifetime time.Duration `yaml:"lifetime"`
}

type effectListFile struct {
	Effects []effectDef `yaml:"effects"`
}

// EffectTable holds effect templates indexed by code.
type EffectTable struct {
	effects map[string]*EffectTemplate
}

// LoadEffectTable loads pooled effect templates from a YAML file.
func LoadEffectTable(path string) (*EffectTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read effect_list: %w", err)
	}
	t, err := ParseEffectTable(raw)
	if err != nil {
		return nil, fmt.Errorf("parse effect_list: %w", err)
	}
	return t, nil
}

// ParseEffectTable decodes an effect list document.
func ParseEffectTable(raw []byte) (*EffectTable, error) {
	var f effectListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	t := &EffectTable{effects: make(map[string]*EffectTemplate, len(f.Effects))}
	for _, d := range f.Effects {
		if d.Code == "" {
			return nil, fmt.Errorf("effect: missing code")
		}
		c, err := pool.ParseCategory(d.Category)
		if err != nil {
			return nil, fmt.Errorf("effect %s: %w", d.Code, err)
		}
		if c == pool.CategoryUnit || c == pool.CategoryBuilding {
			return nil, fmt.Errorf("effect %s: category %s is reserved for faction entities", d.Code, c)
		}
		if _, dup := t.effects[d.Code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, d.Code)
		}
		t.effects[d.Code] = &EffectTemplate{Code: d.Code, Category: c, Lifetime: d.Lifetime}
	}
	return t, nil
}

// NewEffectTable returns an empty table.
func NewEffectTable() *EffectTable {
	return &EffectTable{effects: make(map[string]*EffectTemplate)}
}

// Get returns an effect template by code, or nil if not found.
func (t *EffectTable) Get(code string) *EffectTemplate {
	return t.effects[code]
}

// Count returns the number of loaded effect templates.
func (t *EffectTable) Count() int {
	return len(t.effects)
}
