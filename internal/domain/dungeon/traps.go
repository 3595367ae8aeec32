package dungeon

// TrapDef is the static template a TrapRecord points at.
type TrapDef struct {
	ID                  string     `json:"id"`
	Name                string     `json:"name"`
	Type                string     `json:"type,omitempty"`
	DamageType          DamageType `json:"damage_type,omitempty"`
	DetectionDifficulty int        `json:"detection_difficulty"`
	DisarmDifficulty    int        `json:"disarm_difficulty"`
	TriggerChance       int        `json:"trigger_chance"`
	SingleUse           bool       `json:"single_use"`
	Effect              TrapEffect `json:"-"`
}

// ChestDef is the static template a ChestRecord points at.
type ChestDef struct {
	ID                  string  `json:"id"`
	Name                string  `json:"name"`
	DetectionDifficulty int     `json:"detection_difficulty"`
	DisarmDifficulty    int     `json:"disarm_difficulty"`
	TrapID              string  `json:"trap,omitempty"`
	LootTable           [][]any `json:"loot_table,omitempty"`
	MaxLoot             int     `json:"max_loot"`
}

// MonsterDef is the static template the spawner and summon traps resolve.
type MonsterDef struct {
	ID              string             `json:"id"`
	Name            string             `json:"name"`
	HP              int                `json:"hp"`
	Level           int                `json:"level"`
	AttackDice      string             `json:"attack_dice"`
	DamageType      DamageType         `json:"damage_type,omitempty"`
	Resistances     map[DamageType]int `json:"resistances,omitempty"`
	Vulnerabilities map[DamageType]int `json:"vulnerabilities,omitempty"`
	Immunities      []string           `json:"immunities,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	Debuff          *DebuffCast        `json:"debuff,omitempty"`
}

// DebuffCast is a status-inflicting ability a monster can use against the
// player in melee range instead of striking.
type DebuffCast struct {
	Name      string `json:"name"`
	Status    string `json:"status"`
	Chance    int    `json:"chance"`
	Duration  int    `json:"duration"`
	Magnitude int    `json:"magnitude,omitempty"`
}

// TemplateRepository resolves identifiers to static definitions. It is
// constructed once at startup and passed explicitly to everything that
// needs it, so tests can substitute fixtures.
type TemplateRepository interface {
	Trap(id string) (TrapDef, error)
	Chest(id string) (ChestDef, error)
	Monster(id string) (MonsterDef, error)
	Traps() []TrapDef
	Chests() []ChestDef
}

// TrapRecord is a placed trap. Hidden -> Revealed -> Disarmed or Triggered;
// single-use traps leave the registry on trigger.
type TrapRecord struct {
	TemplateID string  `json:"id"`
	Def        TrapDef `json:"-"`
	Revealed   bool    `json:"revealed"`
	Disarmed   bool    `json:"disarmed"`
	SingleUse  bool    `json:"single_use"`
}

// ChestRecord is a placed chest. Opened chests stay in the registry.
type ChestRecord struct {
	TemplateID string   `json:"id"`
	Def        ChestDef `json:"-"`
	Contents   []string `json:"contents"`
	Opened     bool     `json:"opened"`
	Revealed   bool     `json:"revealed"`
	Disarmed   bool     `json:"disarmed"`
}

// RollChestLoot walks the weighted loot table, keeping entries whose weight
// roll succeeds, capped at MaxLoot.
func RollChestLoot(rng Rand, def ChestDef) []string {
	maxLoot := def.MaxLoot
	if maxLoot <= 0 {
		maxLoot = 2
	}
	var loot []string
	for _, entry := range def.LootTable {
		if len(loot) >= maxLoot {
			break
		}
		if len(entry) < 2 {
			continue
		}
		itemID := asString(entry[0])
		weight := asInt(entry[1])
		if itemID == "" || weight <= 0 {
			continue
		}
		if rng.Intn(100)+1 <= weight {
			loot = append(loot, itemID)
		}
	}
	return loot
}

// PopulateHazards seeds traps and chests on a freshly generated depth.
// Trap density scales gently with depth; each room has a flat chance of a
// chest at its center. Depth 0 is the town and gets nothing.
func PopulateHazards(w *World, templates TemplateRepository, rng Rand) {
	if w.Depth <= 0 || w.Height == 0 {
		return
	}
	trapDefs := templates.Traps()
	chestDefs := templates.Chests()

	for y := 0; y < w.Height; y++ {
		for x := 0; x < w.Width; x++ {
			if w.Grid[y][x] == byte(TileSecretDoor) {
				w.SecretDoors[Position{X: x, Y: y}] = DefaultSecretDoorDifficulty + w.Depth*SecretDoorDifficultyPerDepth
			}
		}
	}

	trapChance := TrapDensityBase + float64(w.Depth)*TrapDensityPerDepth
	if trapChance > TrapDensityBase+TrapDensityCap {
		trapChance = TrapDensityBase + TrapDensityCap
	}
	if len(trapDefs) > 0 {
		for y := 1; y < w.Height-1; y++ {
			for x := 1; x < w.Width-1; x++ {
				if w.Grid[y][x] != TileFloor {
					continue
				}
				if rng.Float64() < trapChance {
					def := trapDefs[rng.Intn(len(trapDefs))]
					w.Traps[Position{X: x, Y: y}] = &TrapRecord{
						TemplateID: def.ID,
						Def:        def,
						SingleUse:  def.SingleUse,
					}
				}
			}
		}
	}

	if len(chestDefs) > 0 {
		for _, room := range w.Rooms {
			if rng.Float64() >= RoomChestChance {
				continue
			}
			center := room.Center()
			if tile, ok := w.TileAt(center); !ok || tile != TileFloor {
				continue
			}
			if _, taken := w.Traps[center]; taken {
				continue
			}
			if _, taken := w.Chests[center]; taken {
				continue
			}
			def := chestDefs[rng.Intn(len(chestDefs))]
			w.Chests[center] = &ChestRecord{
				TemplateID: def.ID,
				Def:        def,
				Contents:   RollChestLoot(rng, def),
			}
		}
	}
}
