package dungeon

import "fmt"

// Hunger states from best fed to worst.
const (
	HungerWellFed  = "well_fed"
	HungerSatiated = "satiated"
	HungerHungry   = "hungry"
	HungerWeak     = "weak"
	HungerStarving = "starving"
)

func hungerStateFor(value int) string {
	switch {
	case value >= HungerWellFedThreshold:
		return HungerWellFed
	case value >= HungerSatiatedThreshold:
		return HungerSatiated
	case value >= HungerHungryThreshold:
		return HungerHungry
	case value >= HungerWeakThreshold:
		return HungerWeak
	}
	return HungerStarving
}

var hungerTransitions = map[string]string{
	HungerHungry:   "You feel hungry.",
	HungerWeak:     "You feel weak from hunger.",
	HungerStarving: "You are starving!",
	HungerWellFed:  "You feel well fed.",
	HungerSatiated: "You feel satisfied.",
}

// UpdateHunger runs one turn of hunger decay: CON slows the drain, weak
// and starving states bleed hit points.
func UpdateHunger(w *World, lastDamageTurn *int64) {
	p := w.Player
	if p == nil || !p.Alive() {
		return
	}
	if p.MaxHunger == 0 {
		p.MaxHunger = DefaultMaxHunger
		p.Hunger = DefaultMaxHunger
		p.HungerState = HungerWellFed
	}
	decay := HungerTurnDecayBase - p.StatModifier("CON")
	if decay < HungerMinDecay {
		decay = HungerMinDecay
	}
	p.Hunger -= decay
	if p.Hunger < 0 {
		p.Hunger = 0
	}
	prev := p.HungerState
	state := hungerStateFor(p.Hunger)
	if state != prev {
		p.HungerState = state
		if msg, ok := hungerTransitions[state]; ok {
			w.LogEvent(msg)
		}
	}
	switch state {
	case HungerWeak:
		if w.Time-*lastDamageTurn >= HungerWeakDamageInterval {
			p.TakeDamage(1)
			if p.Alive() {
				w.LogEvent("Hunger gnaws at you. (-1 HP)")
			}
			*lastDamageTurn = w.Time
		}
	case HungerStarving:
		dmg := HungerStarvingDamage
		if p.Hunger > 0 {
			dmg = HungerStarvingDamage - 1
			if dmg < 1 {
				dmg = 1
			}
		}
		p.TakeDamage(dmg)
		if p.Alive() {
			w.LogEvent(fmt.Sprintf("Starvation wracks your body! (-%d HP)", dmg))
		}
		*lastDamageTurn = w.Time
	}
}

// AdjustHunger feeds (or drains) the player, clamping to [0, max].
func AdjustHunger(w *World, delta int) {
	p := w.Player
	if p == nil {
		return
	}
	if p.MaxHunger == 0 {
		p.MaxHunger = DefaultMaxHunger
	}
	p.Hunger += delta
	if p.Hunger > p.MaxHunger {
		p.Hunger = p.MaxHunger
	}
	if p.Hunger < 0 {
		p.Hunger = 0
	}
	prev := p.HungerState
	state := hungerStateFor(p.Hunger)
	if state != prev {
		p.HungerState = state
		if msg, ok := hungerTransitions[state]; ok {
			w.LogEvent(msg)
		}
	}
}

// ConsumeLightFuel burns one unit of fuel from the equipped light and emits
// low-fuel warnings at 25/10/5 percent. At zero the light goes out.
func ConsumeLightFuel(w *World) {
	p := w.Player
	if p == nil || p.LightName == "" || p.LightFuel <= 0 {
		return
	}
	p.LightFuel--
	maxFuel := p.LightMaxFuel
	if maxFuel <= 0 {
		maxFuel = 1000
	}
	switch p.LightFuel {
	case maxFuel * 25 / 100:
		w.LogEvent(fmt.Sprintf("Your %s is running low on fuel (25%% remaining).", p.LightName))
	case maxFuel * 10 / 100:
		w.LogEvent(fmt.Sprintf("Your %s is almost out of fuel (10%% remaining).", p.LightName))
	case maxFuel * 5 / 100:
		w.LogEvent(fmt.Sprintf("Your %s is about to go out (5%% remaining)!", p.LightName))
	}
	if p.LightFuel <= 0 {
		w.LogEvent(fmt.Sprintf("Your %s goes out!", p.LightName))
		p.LightName = ""
		p.LightFuel = 0
	}
}

// Encumbrance levels from lightest to heaviest.
const (
	EncumbranceUnburdened = "unburdened"
	EncumbranceBurdened   = "burdened"
	EncumbranceHeavy      = "heavy"
	EncumbranceOverloaded = "overloaded"
)

// CheckEncumbrance compares carried weight to STR-derived capacity and
// warns on level changes, plus a periodic reminder while overloaded.
func CheckEncumbrance(w *World, lastWarnTurn *int64) {
	p := w.Player
	if p == nil {
		return
	}
	str := p.Stats["STR"]
	if str <= 0 {
		str = 10
	}
	capacity := str * OverweightCapacityPerSTR
	percent := 0
	if capacity > 0 {
		percent = p.CarriedWeight * 100 / capacity
	}
	prev := p.EncumbranceLevel
	if prev == "" {
		prev = EncumbranceUnburdened
	}
	level := EncumbranceUnburdened
	switch {
	case percent >= 100:
		level = EncumbranceOverloaded
	case percent >= 75:
		level = EncumbranceHeavy
	case percent >= 50:
		level = EncumbranceBurdened
	}
	p.EncumbranceLevel = level
	if level != prev {
		switch level {
		case EncumbranceBurdened:
			w.LogEvent(fmt.Sprintf("You are burdened by your load. (%d%% capacity)", percent))
		case EncumbranceHeavy:
			w.LogEvent(fmt.Sprintf("You are heavily burdened! (%d%% capacity)", percent))
		case EncumbranceOverloaded:
			w.LogEvent(fmt.Sprintf("You are overloaded! Movement will be difficult. (%d%% capacity)", percent))
		case EncumbranceUnburdened:
			w.LogEvent("You feel unburdened.")
		}
		*lastWarnTurn = w.Time
		return
	}
	if level == EncumbranceOverloaded && w.Time-*lastWarnTurn >= EncumbranceWarnInterval {
		w.LogEvent(fmt.Sprintf("You are overloaded! (%d/%d weight)", p.CarriedWeight, capacity))
		*lastWarnTurn = w.Time
	}
}
