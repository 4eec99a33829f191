package data

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/l1jgo/skirmish/internal/entity"
	"github.com/l1jgo/skirmish/internal/pool"
	"gopkg.in/yaml.v3"
)

var ErrDuplicateCode = errors.New("duplicate template code")

// unitDef is the YAML shape of one unit or building template.
type unitDef struct {
	Code          string                 `yaml:"code"`
	Name          string                 `yaml:"name"`
	Kind          string                 `yaml:"kind"`     // unit, building
	Category      string                 `yaml:"category"` // pool category; defaults from kind
	Capabilities  []string               `yaml:"capabilities"`
	Attacks       []entity.AttackProfile `yaml:"attacks"`
	DefaultAttack int                    `yaml:"default_attack"`
	Requires      [][]string             `yaml:"requires"` // AND of OR-groups
}

type unitListFile struct {
	Units []unitDef `yaml:"units"`
}

// PowerCalculator derives an attack profile's power when the data leaves it unset.
type PowerCalculator interface {
	AttackPower(p entity.AttackProfile) (int, bool)
}

// UnitTable holds unit and building templates indexed by code.
type UnitTable struct {
	templates map[string]*entity.Template
}

// LoadUnitTable loads unit and building templates from a YAML file.
func LoadUnitTable(path string) (*UnitTable, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read unit_list: %w", err)
	}
	t, err := ParseUnitTable(raw)
	if err != nil {
		return nil, fmt.Errorf("parse unit_list: %w", err)
	}
	return t, nil
}

// ParseUnitTable decodes a unit list document.
func ParseUnitTable(raw []byte) (*UnitTable, error) {
	var f unitListFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, err
	}
	t := &UnitTable{templates: make(map[string]*entity.Template, len(f.Units))}
	for i := range f.Units {
		tmpl, err := f.Units[i].template()
		if err != nil {
			return nil, err
		}
		if _, dup := t.templates[tmpl.Code]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateCode, tmpl.Code)
		}
		t.templates[tmpl.Code] = tmpl
	}
	return t, nil
}

func (d *unitDef) template() (*entity.Template, error) {
	if d.Code == "" {
		return nil, fmt.Errorf("unit %q: missing code", d.Name)
	}
	tmpl := &entity.Template{
		Code:          d.Code,
		Name:          d.Name,
		Attacks:       d.Attacks,
		DefaultAttack: d.DefaultAttack,
	}
	if tmpl.Name == "" {
		tmpl.Name = d.Code
	}

	switch d.Kind {
	case "", "unit":
		tmpl.Kind = entity.KindUnit
		tmpl.Category = pool.CategoryUnit
	case "building":
		tmpl.Kind = entity.KindBuilding
		tmpl.Category = pool.CategoryBuilding
	default:
		return nil, fmt.Errorf("unit %s: unknown kind %q", d.Code, d.Kind)
	}
	if d.Category != "" {
		c, err := pool.ParseCategory(d.Category)
		if err != nil {
			return nil, fmt.Errorf("unit %s: %w", d.Code, err)
		}
		tmpl.Category = c
	}

	caps, err := entity.ParseCapabilities(d.Capabilities)
	if err != nil {
		return nil, fmt.Errorf("unit %s: %w", d.Code, err)
	}
	tmpl.Caps = caps

	for _, g := range d.Requires {
		if len(g) == 0 {
			return nil, fmt.Errorf("unit %s: empty requirement group", d.Code)
		}
		tmpl.Requirements = append(tmpl.Requirements, entity.RequirementGroup(g))
	}
	return tmpl, nil
}

// Get returns a template by code, or nil if not found.
func (t *UnitTable) Get(code string) *entity.Template {
	return t.templates[code]
}

// Count returns the number of loaded templates.
func (t *UnitTable) Count() int {
	return len(t.templates)
}

// Codes returns all template codes in sorted order.
func (t *UnitTable) Codes() []string {
	out := make([]string, 0, len(t.templates))
	for code := range t.templates {
		out = append(out, code)
	}
	sort.Strings(out)
	return out
}

// ApplyPower fills in the power of every attack profile that has none,
// using calc. Returns the number of profiles filled.
func (t *UnitTable) ApplyPower(calc PowerCalculator) int {
	n := 0
	for _, tmpl := range t.templates {
		for i := range tmpl.Attacks {
			if tmpl.Attacks[i].Power != 0 {
				continue
			}
			if p, ok := calc.AttackPower(tmpl.Attacks[i]); ok {
				tmpl.Attacks[i].Power = p
				n++
			}
		}
	}
	return n
}

// Validate checks cross-references between templates: requirement groups
// must name known building codes.
func (t *UnitTable) Validate() error {
	var errs []error
	for _, code := range t.Codes() {
		tmpl := t.templates[code]
		for _, g := range tmpl.Requirements {
			for _, req := range g {
				dep := t.templates[req]
				switch {
				case dep == nil:
					errs = append(errs, fmt.Errorf("%s requires unknown code %q", code, req))
				case dep.Kind != entity.KindBuilding:
					errs = append(errs, fmt.Errorf("%s requires %q which is not a building", code, req))
				}
			}
		}
	}
	return errors.Join(errs...)
}
