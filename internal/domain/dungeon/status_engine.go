package dungeon

import (
	"fmt"
	"strings"
)

// EffectEngine applies status effects to actors, running the immunity,
// saving-throw, and resistance gauntlet before anything touches the store.
type EffectEngine struct {
	Rand Rand
}

type EffectApplication struct {
	Name      string
	Duration  int
	Magnitude int
	Stacks    int
	MaxStacks int
	Source    string
	Mode      StackMode
}

type ApplyOutcome string

const (
	OutcomeApplied  ApplyOutcome = "applied"
	OutcomeImmune   ApplyOutcome = "immune"
	OutcomeResisted ApplyOutcome = "resisted"
)

// Apply runs the full application pipeline: immunity first, then a saving
// throw for harmful effects, then resistance scaling, then stacking
// resolution. Saving throws and resistance lookups
// never fail; absent data degrades to no mitigation.
func (e EffectEngine) Apply(w *World, target *Actor, req EffectApplication) ApplyOutcome {
	if target == nil || req.Name == "" {
		return OutcomeResisted
	}
	if req.Duration <= 0 {
		req.Duration = DefaultEffectDuration
	}
	if req.Magnitude <= 0 {
		req.Magnitude = 1
	}
	if req.Stacks <= 0 {
		req.Stacks = 1
	}
	if req.MaxStacks <= 0 {
		req.MaxStacks = 1
	}
	if req.Mode == "" {
		req.Mode = StackModeRefresh
	}

	if target.ImmuneTo(req.Name) {
		if target.IsPlayer() {
			w.LogEvent(fmt.Sprintf("You are immune to %s.", strings.ToLower(req.Name)))
		} else {
			w.LogEvent(fmt.Sprintf("%s is immune to %s.", target.Name, strings.ToLower(req.Name)))
		}
		return OutcomeImmune
	}

	if HarmfulEffect(req.Name) {
		dc := SaveBaseDC
		if req.Magnitude > SaveMagnitudePivot {
			dc += (req.Magnitude - SaveMagnitudePivot) / 2
		}
		resisted, reduction := e.savingThrow(w, target, req.Name, dc)
		if resisted {
			return OutcomeResisted
		}
		if reduction > 0 {
			factor := 1.0 - reduction
			req.Magnitude = scaleFloor1(req.Magnitude, factor)
			req.Duration = scaleFloor1(req.Duration, factor)
		}
	}

	// Resistance scaling floors magnitude and duration at 1 so a fully
	// resistant target still records the effect instead of silently
	// erasing it.
	if resKey, ok := ResistanceKeyForEffect(req.Name); ok {
		if pct := target.Resistances[resKey]; pct > 0 {
			factor := 1.0 - float64(pct)/100.0
			if factor < 0 {
				factor = 0
			}
			req.Magnitude = scaleFloor1(req.Magnitude, factor)
			req.Duration = scaleFloor1(req.Duration, factor)
			if target.IsPlayer() {
				w.LogEvent("Your resistances mitigate the effect.")
			}
		}
	}

	target.Effects.Install(NewStatusEffect(req.Name, req.Duration, req.Magnitude, req.Stacks, req.MaxStacks, req.Source), req.Mode)
	return OutcomeApplied
}

// savingThrow rolls d20 + stat modifier against the DC. A natural 20 or a
// roll meeting the DC fully resists; rolls within the partial band below
// the DC reduce magnitude and duration by 0.2-0.8 depending on margin.
func (e EffectEngine) savingThrow(w *World, target *Actor, effectName string, dc int) (resisted bool, reduction float64) {
	modifier := target.StatModifier(SaveStatForEffect(effectName)) + StatusModifier(target)
	die := e.Rand.Intn(20) + 1
	roll := die + modifier

	if die == 20 {
		if target.IsPlayer() {
			w.LogEvent(fmt.Sprintf("You fully resist %s! (Critical save)", effectName))
		} else {
			w.LogEvent(fmt.Sprintf("%s fully resists %s!", target.Name, effectName))
		}
		return true, 1.0
	}
	if roll >= dc {
		if target.IsPlayer() {
			w.LogEvent(fmt.Sprintf("You resist %s.", effectName))
		} else {
			w.LogEvent(fmt.Sprintf("%s resists %s.", target.Name, effectName))
		}
		return true, 1.0
	}
	if roll >= dc-SavePartialBand {
		reduction = float64(roll-(dc-SavePartialBand)) / SavePartialBandScale
		if target.IsPlayer() {
			w.LogEvent(fmt.Sprintf("You partially resist %s. (Reduced effect)", effectName))
		} else {
			w.LogEvent(fmt.Sprintf("%s partially resists %s.", target.Name, effectName))
		}
		return false, reduction
	}
	return false, 0
}

func scaleFloor1(value int, factor float64) int {
	if value <= 0 {
		return value
	}
	scaled := int(float64(value) * factor)
	if scaled < 1 {
		scaled = 1
	}
	return scaled
}

// RemoveAllDebuffs strips every harmful effect, returning how many went.
func RemoveAllDebuffs(target *Actor) int {
	removed := 0
	for _, eff := range target.Effects.Active() {
		if HarmfulEffect(eff.Name) && target.Effects.Remove(eff.Name) {
			removed++
		}
	}
	return removed
}
