package dungeon

import (
	"fmt"
	"strconv"
)

// TrapEffect is the closed set of things a trap can do when it fires. The
// dispatcher matches the concrete type exhaustively; payloads decoded from
// templates with an unrecognized kind become UnknownEffect, which is a
// logged no-op rather than a failure.
type TrapEffect interface {
	trapEffect()
}

type NoEffect struct{}

type DamageEffect struct {
	Dice string `json:"dice"`
}

type DamageStatusEffect struct {
	Dice     string `json:"dice"`
	Status   string `json:"status"`
	Duration int    `json:"duration"`
}

type AreaDamageEffect struct {
	Dice   string `json:"dice"`
	Radius int    `json:"radius"`
}

type TeleportEffect struct {
	Range int `json:"range"`
}

type AlarmEffect struct{}

type AreaStatusEffect struct {
	Status   string `json:"status"`
	Duration int    `json:"duration"`
	Radius   int    `json:"radius"`
}

type ImmobilizeEffect struct {
	Duration int `json:"duration"`
}

type LineDamageEffect struct {
	Dice   string `json:"dice"`
	Length int    `json:"length"`
}

type ElementalBoltEffect struct {
	Element DamageType `json:"element"`
	Dice    string     `json:"dice"`
}

type DropLevelEffect struct {
	Levels int `json:"levels"`
}

type SummonEffect struct {
	TemplateID string `json:"template_id"`
	Count      int    `json:"count"`
}

type ChaosEffect struct{}

type UnknownEffect struct {
	Kind string `json:"kind"`
}

func (NoEffect) trapEffect()            {}
func (DamageEffect) trapEffect()        {}
func (DamageStatusEffect) trapEffect()  {}
func (AreaDamageEffect) trapEffect()    {}
func (TeleportEffect) trapEffect()      {}
func (AlarmEffect) trapEffect()         {}
func (AreaStatusEffect) trapEffect()    {}
func (ImmobilizeEffect) trapEffect()    {}
func (LineDamageEffect) trapEffect()    {}
func (ElementalBoltEffect) trapEffect() {}
func (DropLevelEffect) trapEffect()     {}
func (SummonEffect) trapEffect()        {}
func (ChaosEffect) trapEffect()         {}
func (UnknownEffect) trapEffect()       {}

// ParseTrapEffect decodes the positional payload form used by trap
// templates, e.g. ["damage_status","2d4","Poisoned",10]. An empty payload
// is a harmless NoEffect. A payload whose kind is not in the closed set, or
// whose arguments are short or malformed, decodes to UnknownEffect so the
// trap still fires as a defensive no-op.
func ParseTrapEffect(payload []any) TrapEffect {
	if len(payload) == 0 {
		return NoEffect{}
	}
	kind, ok := payload[0].(string)
	if !ok {
		return UnknownEffect{Kind: fmt.Sprint(payload[0])}
	}
	switch kind {
	case "damage":
		if len(payload) >= 2 {
			return DamageEffect{Dice: asString(payload[1])}
		}
	case "damage_status":
		if len(payload) >= 4 {
			return DamageStatusEffect{
				Dice:     asString(payload[1]),
				Status:   asString(payload[2]),
				Duration: asInt(payload[3]),
			}
		}
	case "area_damage":
		if len(payload) >= 3 {
			return AreaDamageEffect{Dice: asString(payload[1]), Radius: asInt(payload[2])}
		}
	case "teleport":
		if len(payload) >= 2 {
			return TeleportEffect{Range: asInt(payload[1])}
		}
	case "alarm":
		return AlarmEffect{}
	case "area_status":
		if len(payload) >= 4 {
			return AreaStatusEffect{
				Status:   asString(payload[1]),
				Duration: asInt(payload[2]),
				Radius:   asInt(payload[3]),
			}
		}
	case "immobilize":
		if len(payload) >= 2 {
			return ImmobilizeEffect{Duration: asInt(payload[1])}
		}
	case "line_damage":
		if len(payload) >= 3 {
			return LineDamageEffect{Dice: asString(payload[1]), Length: asInt(payload[2])}
		}
	case "elemental_bolt":
		if len(payload) >= 3 {
			return ElementalBoltEffect{
				Element: DamageType(asString(payload[1])),
				Dice:    asString(payload[2]),
			}
		}
	case "drop_level":
		if len(payload) >= 2 {
			return DropLevelEffect{Levels: asInt(payload[1])}
		}
	case "summon":
		if len(payload) >= 3 {
			return SummonEffect{TemplateID: asString(payload[1]), Count: asInt(payload[2])}
		}
	case "chaos":
		return ChaosEffect{}
	}
	return UnknownEffect{Kind: kind}
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func asInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case string:
		if parsed, err := strconv.Atoi(n); err == nil {
			return parsed
		}
	}
	return 0
}
