// Package static loads the built-in trap, chest, and monster templates from
// embedded JSON and serves them through dungeon.TemplateRepository.
package static

import (
	"embed"
	"encoding/json"
	"fmt"
	"sort"

	"emberdelve/internal/app/ports"
	"emberdelve/internal/domain/dungeon"
)

//go:embed data/*.json
var dataFS embed.FS

// trapRow is the on-disk trap shape. The effect is a positional payload,
// decoded into its closed variant at load time.
type trapRow struct {
	ID                  string `json:"id"`
	Name                string `json:"name"`
	Type                string `json:"type,omitempty"`
	DamageType          string `json:"damage_type,omitempty"`
	DetectionDifficulty int    `json:"detection_difficulty"`
	DisarmDifficulty    int    `json:"disarm_difficulty"`
	TriggerChance       int    `json:"trigger_chance"`
	SingleUse           bool   `json:"single_use"`
	Effect              []any  `json:"effect"`
}

type Repository struct {
	traps    map[string]dungeon.TrapDef
	chests   map[string]dungeon.ChestDef
	monsters map[string]dungeon.MonsterDef
}

// Load parses the embedded template data. It fails fast on malformed JSON;
// the data ships with the binary, so a parse error is a build defect.
func Load() (*Repository, error) {
	repo := &Repository{
		traps:    map[string]dungeon.TrapDef{},
		chests:   map[string]dungeon.ChestDef{},
		monsters: map[string]dungeon.MonsterDef{},
	}

	var trapRows []trapRow
	if err := readJSON("data/traps.json", &trapRows); err != nil {
		return nil, err
	}
	for _, row := range trapRows {
		repo.traps[row.ID] = dungeon.TrapDef{
			ID:                  row.ID,
			Name:                row.Name,
			Type:                row.Type,
			DamageType:          dungeon.DamageType(row.DamageType),
			DetectionDifficulty: row.DetectionDifficulty,
			DisarmDifficulty:    row.DisarmDifficulty,
			TriggerChance:       row.TriggerChance,
			SingleUse:           row.SingleUse,
			Effect:              dungeon.ParseTrapEffect(row.Effect),
		}
	}

	var chestRows []dungeon.ChestDef
	if err := readJSON("data/chests.json", &chestRows); err != nil {
		return nil, err
	}
	for _, def := range chestRows {
		repo.chests[def.ID] = def
	}

	var monsterRows []dungeon.MonsterDef
	if err := readJSON("data/monsters.json", &monsterRows); err != nil {
		return nil, err
	}
	for _, def := range monsterRows {
		repo.monsters[def.ID] = def
	}

	return repo, nil
}

func readJSON(name string, out any) error {
	raw, err := dataFS.ReadFile(name)
	if err != nil {
		return fmt.Errorf("read %s: %w", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	return nil
}

func (r *Repository) Trap(id string) (dungeon.TrapDef, error) {
	def, ok := r.traps[id]
	if !ok {
		return dungeon.TrapDef{}, fmt.Errorf("trap %q: %w", id, ports.ErrTemplateMissing)
	}
	return def, nil
}

func (r *Repository) Chest(id string) (dungeon.ChestDef, error) {
	def, ok := r.chests[id]
	if !ok {
		return dungeon.ChestDef{}, fmt.Errorf("chest %q: %w", id, ports.ErrTemplateMissing)
	}
	return def, nil
}

func (r *Repository) Monster(id string) (dungeon.MonsterDef, error) {
	def, ok := r.monsters[id]
	if !ok {
		return dungeon.MonsterDef{}, fmt.Errorf("monster %q: %w", id, ports.ErrTemplateMissing)
	}
	return def, nil
}

func (r *Repository) Traps() []dungeon.TrapDef {
	out := make([]dungeon.TrapDef, 0, len(r.traps))
	for _, def := range r.traps {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (r *Repository) Chests() []dungeon.ChestDef {
	out := make([]dungeon.ChestDef, 0, len(r.chests))
	for _, def := range r.chests {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Monsters lists every monster template, for spawners.
func (r *Repository) Monsters() []dungeon.MonsterDef {
	out := make([]dungeon.MonsterDef, 0, len(r.monsters))
	for _, def := range r.monsters {
		out = append(out, def)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
