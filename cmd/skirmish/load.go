package main

import (
	"fmt"

	"github.com/l1jgo/skirmish/internal/config"
	"github.com/l1jgo/skirmish/internal/data"
	"github.com/l1jgo/skirmish/internal/scripting"
	"go.uber.org/zap"
)

// tables bundles everything loaded from data files and scripts.
type tables struct {
	units    *data.UnitTable
	effects  *data.EffectTable
	factions []data.FactionDef
	powered  int // attack profiles whose power came from Lua
}

func loadTables(cfg *config.Config, log *zap.Logger) (*tables, error) {
	units, err := data.LoadUnitTable(cfg.Data.UnitList)
	if err != nil {
		return nil, fmt.Errorf("load unit table: %w", err)
	}
	if err := units.Validate(); err != nil {
		return nil, fmt.Errorf("validate unit table: %w", err)
	}

	effects, err := data.LoadEffectTable(cfg.Data.EffectList)
	if err != nil {
		return nil, fmt.Errorf("load effect table: %w", err)
	}

	factions, err := data.LoadFactionList(cfg.Data.FactionList)
	if err != nil {
		return nil, fmt.Errorf("load faction list: %w", err)
	}
	if err := data.ValidateFactions(factions, units); err != nil {
		return nil, fmt.Errorf("validate faction list: %w", err)
	}

	lua, err := scripting.NewEngine(cfg.Scripting.Dir, log)
	if err != nil {
		return nil, fmt.Errorf("lua engine: %w", err)
	}
	defer lua.Close()
	powered := 0
	if lua.HasPowerFormula() {
		powered = units.ApplyPower(lua)
	} else {
		log.Warn("calc_attack_power not defined; profiles without power count as zero")
	}

	return &tables{units: units, effects: effects, factions: factions, powered: powered}, nil
}
