package dungeon

import "strings"

const (
	EffectPoisoned    = "Poisoned"
	EffectBurning     = "Burning"
	EffectBleeding    = "Bleeding"
	EffectFrozen      = "Frozen"
	EffectSlowed      = "Slowed"
	EffectCursed      = "Cursed"
	EffectWeakened    = "Weakened"
	EffectBlessed     = "Blessed"
	EffectHasted      = "Hasted"
	EffectImmobilized = "Immobilized"
	EffectAsleep      = "Asleep"
)

type StackMode string

const (
	StackModeRefresh StackMode = "refresh"
	StackModeStack   StackMode = "stack"
	StackModeReplace StackMode = "replace"
)

type StatusEffect struct {
	Name      string `json:"name"`
	Duration  int    `json:"duration"`
	Magnitude int    `json:"magnitude"`
	Stacks    int    `json:"stacks"`
	MaxStacks int    `json:"max_stacks"`
	Source    string `json:"source,omitempty"`
}

func NewStatusEffect(name string, duration, magnitude, stacks, maxStacks int, source string) StatusEffect {
	if duration < 1 {
		duration = 1
	}
	if maxStacks < 1 {
		maxStacks = 1
	}
	if stacks < 1 {
		stacks = 1
	}
	if stacks > maxStacks {
		stacks = maxStacks
	}
	return StatusEffect{
		Name:      name,
		Duration:  duration,
		Magnitude: magnitude,
		Stacks:    stacks,
		MaxStacks: maxStacks,
		Source:    source,
	}
}

// EffectSet is the per-actor status effect store, keyed by effect name.
type EffectSet map[string]*StatusEffect

func (s EffectSet) Has(name string) bool {
	_, ok := s[name]
	return ok
}

func (s EffectSet) Get(name string) *StatusEffect {
	return s[name]
}

func (s EffectSet) Remove(name string) bool {
	if _, ok := s[name]; !ok {
		return false
	}
	delete(s, name)
	return true
}

func (s EffectSet) Active() []*StatusEffect {
	out := make([]*StatusEffect, 0, len(s))
	for _, eff := range s {
		out = append(out, eff)
	}
	return out
}

// Install resolves stacking against any existing effect of the same name.
// A fresh effect installs directly regardless of mode. Stack mode raises the
// stack count up to the cap; refresh and stack both keep the longer duration
// and the stronger magnitude.
func (s *EffectSet) Install(eff StatusEffect, mode StackMode) {
	if *s == nil {
		*s = EffectSet{}
	}
	existing, ok := (*s)[eff.Name]
	if !ok || mode == StackModeReplace {
		installed := eff
		(*s)[eff.Name] = &installed
		return
	}
	if mode == StackModeStack {
		existing.Stacks += eff.Stacks
		if existing.Stacks > existing.MaxStacks {
			existing.Stacks = existing.MaxStacks
		}
	}
	if eff.Duration > existing.Duration {
		existing.Duration = eff.Duration
	}
	if eff.Magnitude > existing.Magnitude {
		existing.Magnitude = eff.Magnitude
	}
}

// Tick decrements every duration by one and removes effects that reach zero,
// returning the expired names for wear-off messaging.
func (s EffectSet) Tick() []string {
	var expired []string
	for name, eff := range s {
		eff.Duration--
		if eff.Duration <= 0 {
			expired = append(expired, name)
			delete(s, name)
		}
	}
	return expired
}

// HarmfulEffect classifies effects that warrant a saving throw. Stat-drain
// effects use a name suffix instead of fixed membership.
func HarmfulEffect(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	switch lower {
	case "poisoned", "burning", "cursed", "weakened", "asleep", "bleeding",
		"stunned", "paralyzed", "immobilized", "slowed", "frozen", "confused",
		"feared", "fleeing", "charmed", "terrified", "webbed":
		return true
	}
	return strings.HasSuffix(lower, "_drain")
}

// ResistanceKeyForEffect maps an effect name to the damage-type resistance
// that mitigates it, if any.
func ResistanceKeyForEffect(name string) (DamageType, bool) {
	switch strings.ToLower(name) {
	case "poisoned":
		return DamagePoison, true
	case "burning":
		return DamageFire, true
	case "frozen", "slowed":
		return DamageCold, true
	case "cursed", "weakened":
		return DamageArcane, true
	}
	return "", false
}

// SaveStatForEffect picks the ability score a saving throw rolls against:
// WIS for mental effects, DEX for restraints, CON otherwise.
func SaveStatForEffect(name string) string {
	switch strings.ToLower(name) {
	case "charmed", "feared", "fleeing", "confused", "asleep", "terrified":
		return "WIS"
	case "immobilized", "paralyzed", "stunned", "frozen", "slowed", "webbed":
		return "DEX"
	}
	return "CON"
}

// StatusModifier sums Blessed/Cursed contributions to attack and save rolls.
func StatusModifier(a *Actor) int {
	total := 0
	if blessed := a.Effects.Get(EffectBlessed); blessed != nil {
		total += blessed.Magnitude * blessed.Stacks
	}
	if cursed := a.Effects.Get(EffectCursed); cursed != nil {
		total -= cursed.Magnitude * cursed.Stacks
	}
	return total
}
