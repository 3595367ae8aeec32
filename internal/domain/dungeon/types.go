package dungeon

import (
	"fmt"
	"strconv"
	"strings"
)

type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Key renders the position in the "x,y" form used for snapshot map keys.
func (p Position) Key() string {
	return strconv.Itoa(p.X) + "," + strconv.Itoa(p.Y)
}

func ParsePositionKey(key string) (Position, error) {
	parts := strings.SplitN(key, ",", 2)
	if len(parts) != 2 {
		return Position{}, fmt.Errorf("malformed position key %q", key)
	}
	x, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Position{}, fmt.Errorf("malformed position key %q: %w", key, err)
	}
	y, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Position{}, fmt.Errorf("malformed position key %q: %w", key, err)
	}
	return Position{X: x, Y: y}, nil
}

type DamageType string

const (
	DamagePhysical  DamageType = "physical"
	DamageFire      DamageType = "fire"
	DamageCold      DamageType = "cold"
	DamagePoison    DamageType = "poison"
	DamageLightning DamageType = "lightning"
	DamageAcid      DamageType = "acid"
	DamageArcane    DamageType = "arcane"
)

type ActorKind string

const (
	KindPlayer  ActorKind = "player"
	KindMonster ActorKind = "monster"
)

// Anchor is a named recall destination bound to an actor.
type Anchor struct {
	Depth int      `json:"depth"`
	Pos   Position `json:"pos"`
}

type Actor struct {
	ID         string    `json:"id"`
	Kind       ActorKind `json:"kind"`
	TemplateID string    `json:"template_id,omitempty"`
	Name       string    `json:"name"`
	Position   Position  `json:"position"`

	HP      int `json:"hp"`
	MaxHP   int `json:"max_hp"`
	Mana    int `json:"mana"`
	MaxMana int `json:"max_mana"`
	Level   int `json:"level"`

	Stats           map[string]int     `json:"stats,omitempty"`
	Abilities       map[string]float64 `json:"abilities,omitempty"`
	Resistances     map[DamageType]int `json:"resistances,omitempty"`
	Vulnerabilities map[DamageType]int `json:"vulnerabilities,omitempty"`
	Immunities      []string           `json:"immunities,omitempty"`
	Tags            []string           `json:"tags,omitempty"`
	Debuff          *DebuffCast        `json:"debuff,omitempty"`

	Effects EffectSet `json:"effects,omitempty"`

	Sleeping      bool `json:"sleeping,omitempty"`
	AwareOfPlayer bool `json:"aware_of_player,omitempty"`

	// Player-only state. Zero-valued on monsters.
	Depth            int               `json:"depth,omitempty"`
	DeepestDepth     int               `json:"deepest_depth,omitempty"`
	XP               int               `json:"xp,omitempty"`
	Hunger           int               `json:"hunger,omitempty"`
	MaxHunger        int               `json:"max_hunger,omitempty"`
	HungerState      string            `json:"hunger_state,omitempty"`
	LightName        string            `json:"light_name,omitempty"`
	LightFuel        int               `json:"light_fuel,omitempty"`
	LightMaxFuel     int               `json:"light_max_fuel,omitempty"`
	CarriedWeight    int               `json:"carried_weight,omitempty"`
	EncumbranceLevel string            `json:"encumbrance_level,omitempty"`
	SpellCooldowns   map[string]int    `json:"spell_cooldowns,omitempty"`
	Anchors          map[string]Anchor `json:"anchors,omitempty"`

	// Transient bookkeeping, not part of the persisted actor.
	BonusActions int  `json:"-"`
	DeathNoXP    bool `json:"-"`
}

func (a *Actor) IsPlayer() bool {
	return a.Kind == KindPlayer
}

func (a *Actor) Alive() bool {
	return a.HP > 0
}

// TakeDamage reduces hit points and reports whether the actor died from it.
func (a *Actor) TakeDamage(amount int) bool {
	if amount <= 0 {
		return false
	}
	a.HP -= amount
	if a.HP < 0 {
		a.HP = 0
	}
	return a.HP == 0
}

func (a *Actor) RestoreMana(amount int) int {
	if amount <= 0 || a.Mana >= a.MaxMana {
		return 0
	}
	restored := amount
	if a.Mana+restored > a.MaxMana {
		restored = a.MaxMana - a.Mana
	}
	a.Mana += restored
	return restored
}

// StatModifier returns the saving-throw modifier derived from an ability
// score. Monsters without scores use level/4 as a pseudo modifier.
func (a *Actor) StatModifier(stat string) int {
	if score, ok := a.Stats[strings.ToUpper(stat)]; ok {
		return (score - 10) / 2
	}
	return a.Level / 4
}

// Ability returns a skill score, defaulting to 5 when untrained.
func (a *Actor) Ability(name string) float64 {
	if v, ok := a.Abilities[name]; ok {
		return v
	}
	return 5
}

func (a *Actor) HasTag(tag string) bool {
	for _, t := range a.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ImmuneTo covers both the explicit immunity list and tag-implied rules:
// undead shrug off poison, constructs shrug off poison and curses.
func (a *Actor) ImmuneTo(effectName string) bool {
	for _, name := range a.Immunities {
		if name == effectName {
			return true
		}
	}
	if a.HasTag("undead") && effectName == EffectPoisoned {
		return true
	}
	if a.HasTag("construct") && (effectName == EffectPoisoned || effectName == EffectCursed) {
		return true
	}
	return false
}

func (a *Actor) WakeUp() {
	a.Sleeping = false
	a.AwareOfPlayer = true
}

func (a *Actor) SpellOnCooldown(spell string) bool {
	return a.SpellCooldowns[spell] > 0
}

func (a *Actor) SetSpellCooldown(spell string, turns int) {
	if a.SpellCooldowns == nil {
		a.SpellCooldowns = map[string]int{}
	}
	a.SpellCooldowns[spell] = turns
}

func (a *Actor) TickCooldowns() {
	for spell, turns := range a.SpellCooldowns {
		if turns <= 1 {
			delete(a.SpellCooldowns, spell)
			continue
		}
		a.SpellCooldowns[spell] = turns - 1
	}
}

func (a *Actor) BindAnchor(name string, depth int, pos Position) {
	if a.Anchors == nil {
		a.Anchors = map[string]Anchor{}
	}
	a.Anchors[name] = Anchor{Depth: depth, Pos: pos}
}

func (a *Actor) RemoveAnchor(name string) bool {
	if _, ok := a.Anchors[name]; !ok {
		return false
	}
	delete(a.Anchors, name)
	return true
}
