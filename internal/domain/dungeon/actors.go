package dungeon

import "github.com/google/uuid"

// NewMonster instantiates an actor from a monster template.
func NewMonster(def MonsterDef, pos Position) *Actor {
	hp := def.HP
	if hp <= 0 {
		hp = 1
	}
	var debuff *DebuffCast
	if def.Debuff != nil {
		copied := *def.Debuff
		debuff = &copied
	}
	return &Actor{
		ID:              uuid.NewString(),
		Kind:            KindMonster,
		TemplateID:      def.ID,
		Name:            def.Name,
		Position:        pos,
		HP:              hp,
		MaxHP:           hp,
		Level:           def.Level,
		Resistances:     cloneIntMap(def.Resistances),
		Vulnerabilities: cloneIntMap(def.Vulnerabilities),
		Immunities:      append([]string(nil), def.Immunities...),
		Tags:            append([]string(nil), def.Tags...),
		Debuff:          debuff,
		Effects:         EffectSet{},
	}
}

// NewPlayer builds a fresh level-one player at the given position.
func NewPlayer(name string, pos Position) *Actor {
	return &Actor{
		ID:        uuid.NewString(),
		Kind:      KindPlayer,
		Name:      name,
		Position:  pos,
		HP:        20,
		MaxHP:     20,
		Mana:      10,
		MaxMana:   10,
		Level:     1,
		Stats:     map[string]int{"STR": 12, "INT": 10, "WIS": 10, "DEX": 12, "CON": 12, "CHA": 10},
		Effects:   EffectSet{},
		Hunger:    DefaultMaxHunger,
		MaxHunger: DefaultMaxHunger,
	}
}

func cloneIntMap(in map[DamageType]int) map[DamageType]int {
	if in == nil {
		return nil
	}
	out := make(map[DamageType]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
