package dungeon

import (
	"fmt"
	"strings"
)

// Dispatcher owns trap and chest behavior: passive detection, movement
// triggers, explicit disarms, and chest opening. It mutates only the world
// it is handed for the duration of a call.
type Dispatcher struct {
	Rand      Rand
	Templates TemplateRepository
	Effects   EffectEngine
}

// DetectHazards scans the 3x3 neighborhood around the player each turn.
// Detection chance is skill vs. difficulty, clamped to [5,95].
func (d Dispatcher) DetectHazards(w *World) {
	if w.Player == nil {
		return
	}
	p := w.Player.Position
	baseSkill := (w.Player.Ability("searching") + w.Player.Ability("perception")) / 2.0
	level := w.Player.Level
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			pos := Position{X: p.X + dx, Y: p.Y + dy}
			if trap, ok := w.Traps[pos]; ok && !trap.Revealed {
				diff := trap.Def.DetectionDifficulty
				if diff == 0 {
					diff = DefaultTrapDifficulty
				}
				chance := clampChance(float64(TrapDetectBase) + baseSkill*6 + float64(level) - float64(diff))
				if d.Rand.Float64()*100 <= chance {
					trap.Revealed = true
					w.KnownTraps[pos] = true
					w.LogEvent("You spot a trap!")
					w.MarkDirtyTile(pos.X, pos.Y)
				}
			}
			if chest, ok := w.Chests[pos]; ok && !chest.Revealed {
				diff := chest.Def.DetectionDifficulty
				if diff == 0 {
					diff = DefaultChestDifficulty
				}
				chance := clampChance(float64(ChestDetectBase) + baseSkill*5 + float64(level) - float64(diff))
				if d.Rand.Float64()*100 <= chance {
					chest.Revealed = true
					w.LogEvent("You sense a chest nearby.")
					w.MarkDirtyTile(pos.X, pos.Y)
				}
			}
			if tile, ok := w.TileAt(pos); ok && tile == byte(TileSecretDoor) {
				diff, known := w.SecretDoors[pos]
				if !known {
					diff = DefaultSecretDoorDifficulty
				}
				chance := clampChance(float64(TrapDetectBase) + baseSkill*6 + float64(level) - float64(diff))
				if d.Rand.Float64()*100 <= chance {
					w.Grid[pos.Y][pos.X] = byte(TileSecretDoorFound)
					w.LogEvent("You notice the outline of a hidden door!")
					w.MarkDirtyTile(pos.X, pos.Y)
				}
			}
		}
	}
}

// HandleActorMoved is the movement hook: it rolls trigger chance for any
// live trap on the destination tile and lights the room a player walked
// into.
func (d Dispatcher) HandleActorMoved(w *World, actor *Actor, prev, cur Position) {
	if trap, ok := w.Traps[cur]; ok && !trap.Disarmed {
		chance := trap.Def.TriggerChance
		if chance == 0 {
			chance = 100
		}
		if d.Rand.Intn(100)+1 <= chance {
			d.TriggerTrap(w, trap, actor, cur)
			if trap.SingleUse {
				delete(w.Traps, cur)
				delete(w.KnownTraps, cur)
			}
		}
	}

	if actor == w.Player && w.Depth > 0 {
		for idx, room := range w.Rooms {
			if room.Contains(cur) {
				if !w.LitRooms[idx] {
					w.LitRooms[idx] = true
				}
				break
			}
		}
	}
}

// Disarm is the explicit player action against a revealed trap. A failed
// attempt has a fixed chance of setting the trap off.
func (d Dispatcher) Disarm(w *World, pos Position, toolBonus int) {
	trap, ok := w.Traps[pos]
	if !ok {
		w.LogEvent("No trap there.")
		return
	}
	if !trap.Revealed {
		w.LogEvent("You do not see a trap there.")
		return
	}
	if trap.Disarmed {
		w.LogEvent("Already disarmed.")
		return
	}
	baseSkill := (w.Player.Ability("searching") + w.Player.Ability("perception")) / 2.0
	diff := trap.Def.DisarmDifficulty
	if diff == 0 {
		diff = DefaultTrapDifficulty
	}
	diff -= toolBonus * 2
	if diff < 1 {
		diff = 1
	}
	chance := clampChance(float64(DisarmChanceBase) + baseSkill*6 + float64(w.Player.Level) - float64(diff))
	if d.Rand.Float64()*100 <= chance {
		trap.Disarmed = true
		w.LogEvent("You successfully disarm the trap.")
		if toolBonus > 0 {
			w.LogEvent(fmt.Sprintf("(Tool bonus %d applied)", toolBonus))
		}
		return
	}
	w.LogEvent("Disarm attempt fails.")
	if d.Rand.Float64() < DisarmFailTriggerPct {
		d.TriggerTrap(w, trap, w.Player, pos)
		if trap.SingleUse {
			delete(w.Traps, pos)
			delete(w.KnownTraps, pos)
		}
	}
}

// OpenChest resolves any embedded trap via a bypass roll, deposits contents
// as ground items, and permanently marks the chest opened. Re-opening is a
// no-op with its own message.
func (d Dispatcher) OpenChest(w *World, pos Position, toolBonus int) {
	chest, ok := w.Chests[pos]
	if !ok {
		w.LogEvent("No chest there.")
		return
	}
	if chest.Opened {
		w.LogEvent("Chest already opened.")
		return
	}

	if chest.Def.TrapID != "" && !chest.Disarmed {
		searching := w.Player.Ability("searching")
		diff := chest.Def.DisarmDifficulty
		if diff == 0 {
			diff = DefaultChestDifficulty
		}
		bypass := float64(ChestBypassBase) + searching*6 + float64(w.Player.Level) - float64(diff)
		if bypass < ChestBypassChanceMin {
			bypass = ChestBypassChanceMin
		}
		if bypass > ChestBypassChanceMax {
			bypass = ChestBypassChanceMax
		}
		if toolBonus > 0 {
			bypass += float64(toolBonus * 2)
			if bypass > 98 {
				bypass = 98
			}
		}
		if d.Rand.Float64()*100 <= bypass {
			chest.Disarmed = true
			w.LogEvent("You bypass the chest trap!")
		} else if def, err := d.Templates.Trap(chest.Def.TrapID); err != nil {
			// Missing template: the trap fails to fire, the chest
			// still opens.
			w.LogEvent("The chest's mechanism clicks uselessly.")
		} else {
			embedded := &TrapRecord{TemplateID: def.ID, Def: def, SingleUse: true}
			d.TriggerTrap(w, embedded, w.Player, pos)
		}
	}

	chest.Opened = true
	w.MarkDirtyTile(pos.X, pos.Y)
	if len(chest.Contents) == 0 {
		w.LogEvent("The chest is empty.")
		return
	}
	w.DropItems(pos, chest.Contents)
	w.LogEvent(fmt.Sprintf("You open the chest and find: %s", strings.Join(chest.Contents, ", ")))
}

// TriggerTrap dispatches the trap's effect with fixed semantics per kind.
func (d Dispatcher) TriggerTrap(w *World, trap *TrapRecord, actor *Actor, pos Position) {
	name := trap.Def.Name
	if name == "" {
		name = "Trap"
	}
	switch eff := trap.Def.Effect.(type) {
	case nil, NoEffect:
		w.LogEvent(fmt.Sprintf("%s triggers harmlessly.", name))
	case DamageEffect:
		d.applyTrapDamage(w, actor, RollDamageExpr(d.Rand, eff.Dice), name, trap.Def.DamageType)
	case DamageStatusEffect:
		d.applyTrapDamage(w, actor, RollDamageExpr(d.Rand, eff.Dice), name, trap.Def.DamageType)
		d.applyStatus(w, actor, eff.Status, eff.Duration, name)
	case AreaDamageEffect:
		dmg := RollDamageExpr(d.Rand, eff.Dice)
		hits := 0
		for _, target := range d.actorsInRadius(w, pos, eff.Radius) {
			resolved, _ := ResolveDamage(dmg, d.trapDamageType(trap), target)
			d.inflict(w, target, resolved, name)
			hits++
		}
		w.LogEvent(fmt.Sprintf("%s erupts (%d caught in the blast).", name, hits))
	case TeleportEffect:
		d.teleportRandom(w, actor, eff.Range)
		w.LogEvent(fmt.Sprintf("%s blinks its victim!", name))
	case AlarmEffect:
		for _, m := range w.Monsters {
			m.AwareOfPlayer = true
		}
		w.LogEvent(fmt.Sprintf("%s rings loudly! Monsters are alerted.", name))
	case AreaStatusEffect:
		affected := 0
		for _, target := range d.actorsInRadius(w, pos, eff.Radius) {
			if d.applyStatus(w, target, eff.Status, eff.Duration, name) {
				affected++
			}
		}
		w.LogEvent(fmt.Sprintf("%s releases a cloud (%d affected).", name, affected))
	case ImmobilizeEffect:
		if d.applyStatus(w, actor, EffectImmobilized, eff.Duration, name) {
			if actor.IsPlayer() {
				w.LogEvent("You are trapped in a net!")
			} else {
				w.LogEvent(fmt.Sprintf("%s is immobilized by %s!", actor.Name, name))
			}
		}
	case LineDamageEffect:
		dmg := RollDamageExpr(d.Rand, eff.Dice)
		hits := 0
		for _, target := range d.actorsInCross(w, pos, eff.Length) {
			d.inflict(w, target, dmg, name)
			hits++
		}
		w.LogEvent(fmt.Sprintf("%s slashes outward (%d struck).", name, hits))
	case ElementalBoltEffect:
		dmg := RollDamageExpr(d.Rand, eff.Dice)
		d.applyTrapDamage(w, actor, dmg, name, eff.Element)
		w.LogEvent(fmt.Sprintf("A %s bolt from %s strikes!", strings.ToLower(string(eff.Element)), name))
	case DropLevelEffect:
		levels := eff.Levels
		if levels < 1 {
			levels = 1
		}
		if actor.IsPlayer() {
			target := w.Depth + levels
			w.LogEvent(fmt.Sprintf("%s drops you deeper!", name))
			w.PendingDepthChange = &target
		} else {
			// A falling monster dies without granting experience.
			actor.HP = 0
			actor.DeathNoXP = true
			w.LogEvent(fmt.Sprintf("%s falls through a shaft!", actor.Name))
		}
	case SummonEffect:
		spawned := d.summonAdjacent(w, pos, eff.TemplateID, eff.Count)
		w.LogEvent(fmt.Sprintf("%s summons %d creature(s)!", name, spawned))
	case ChaosEffect:
		d.dispatchChaos(w, trap, actor, pos, name)
	case UnknownEffect:
		w.LogEvent(fmt.Sprintf("%s triggers with unknown magic.", name))
	}
}

func (d Dispatcher) dispatchChaos(w *World, trap *TrapRecord, actor *Actor, pos Position, name string) {
	pick := []string{"damage", "teleport", "alarm", "immobilize"}[d.Rand.Intn(4)]
	w.LogEvent(fmt.Sprintf("%s warps with chaotic energy (%s)!", name, pick))
	switch pick {
	case "damage":
		d.applyTrapDamage(w, actor, d.Rand.Intn(10)+3, name, trap.Def.DamageType)
	case "teleport":
		d.teleportRandom(w, actor, 8)
	case "alarm":
		for _, m := range w.Monsters {
			m.AwareOfPlayer = true
		}
	case "immobilize":
		if d.applyStatus(w, actor, EffectImmobilized, 3, name) {
			if actor.IsPlayer() {
				w.LogEvent("You are immobilized!")
			} else {
				w.LogEvent(fmt.Sprintf("%s is immobilized!", actor.Name))
			}
		}
	}
}

// applyStatus routes a hazard's status payload through the effect engine,
// so immunity, saving throws, and resistance scaling all get their say.
func (d Dispatcher) applyStatus(w *World, target *Actor, status string, duration int, source string) bool {
	if target == nil || status == "" {
		return false
	}
	outcome := d.Effects.Apply(w, target, EffectApplication{
		Name:     status,
		Duration: duration,
		Source:   source,
	})
	if outcome != OutcomeApplied {
		return false
	}
	if target.IsPlayer() {
		w.LogEvent(fmt.Sprintf("You are %s!", strings.ToLower(status)))
	}
	return true
}

func (d Dispatcher) trapDamageType(trap *TrapRecord) DamageType {
	if trap.Def.DamageType != "" {
		return trap.Def.DamageType
	}
	return DamagePhysical
}

func (d Dispatcher) applyTrapDamage(w *World, actor *Actor, dmg int, name string, damageType DamageType) {
	if damageType == "" {
		damageType = DamagePhysical
	}
	final, tag := ResolveDamage(dmg, damageType, actor)
	died := actor.TakeDamage(final)
	suffix := ""
	switch tag {
	case MitigationResisted:
		suffix = " (resisted)"
	case MitigationVulnerable:
		suffix = " (vulnerable)"
	case MitigationFrozen:
		suffix = " (frozen)"
	}
	if actor.IsPlayer() {
		if died {
			w.LogEvent(fmt.Sprintf("%s kills you!", name))
		} else {
			w.LogEvent(fmt.Sprintf("%s deals %d damage%s.", name, final, suffix))
		}
	} else {
		w.LogEvent(fmt.Sprintf("%s is hit by %s for %d%s.", actor.Name, name, final, suffix))
		if died {
			w.LogEvent(fmt.Sprintf("%s dies to %s.", actor.Name, name))
		}
	}
}

func (d Dispatcher) inflict(w *World, target *Actor, dmg int, name string) {
	died := target.TakeDamage(dmg)
	if target.IsPlayer() {
		if died {
			w.LogEvent(fmt.Sprintf("%s kills you!", name))
		}
	} else if died {
		w.LogEvent(fmt.Sprintf("%s dies to %s.", target.Name, name))
	}
}

func (d Dispatcher) actorsInRadius(w *World, center Position, radius int) []*Actor {
	var out []*Actor
	r2 := radius * radius
	consider := func(a *Actor) {
		if a == nil || !a.Alive() {
			return
		}
		dx, dy := a.Position.X-center.X, a.Position.Y-center.Y
		if dx*dx+dy*dy <= r2 {
			out = append(out, a)
		}
	}
	for _, m := range w.Monsters {
		consider(m)
	}
	consider(w.Player)
	return out
}

func (d Dispatcher) actorsInCross(w *World, center Position, length int) []*Actor {
	var out []*Actor
	inCross := func(p Position) bool {
		return (p.Y == center.Y && abs(p.X-center.X) <= length) ||
			(p.X == center.X && abs(p.Y-center.Y) <= length)
	}
	for _, m := range w.Monsters {
		if m.Alive() && inCross(m.Position) {
			out = append(out, m)
		}
	}
	if w.Player != nil && w.Player.Alive() && inCross(w.Player.Position) {
		out = append(out, w.Player)
	}
	return out
}

func (d Dispatcher) teleportRandom(w *World, actor *Actor, within int) {
	if within <= 0 {
		return
	}
	from := actor.Position
	for attempt := 0; attempt < 50; attempt++ {
		dest := Position{
			X: from.X + d.Rand.Intn(2*within+1) - within,
			Y: from.Y + d.Rand.Intn(2*within+1) - within,
		}
		if w.PlacementValid(dest) {
			actor.Position = dest
			d.HandleActorMoved(w, actor, from, dest)
			return
		}
	}
}

// summonAdjacent spawns monsters on free walkable neighbors of the trap,
// stopping early once no placement is left.
func (d Dispatcher) summonAdjacent(w *World, pos Position, templateID string, count int) int {
	def, err := d.Templates.Monster(templateID)
	if err != nil {
		return 0
	}
	neighbors := []Position{
		{pos.X + 1, pos.Y}, {pos.X - 1, pos.Y}, {pos.X, pos.Y + 1}, {pos.X, pos.Y - 1},
		{pos.X + 1, pos.Y + 1}, {pos.X - 1, pos.Y - 1}, {pos.X + 1, pos.Y - 1}, {pos.X - 1, pos.Y + 1},
	}
	spawned := 0
	for i := 0; i < count; i++ {
		shuffled := append([]Position(nil), neighbors...)
		for j := len(shuffled) - 1; j > 0; j-- {
			k := d.Rand.Intn(j + 1)
			shuffled[j], shuffled[k] = shuffled[k], shuffled[j]
		}
		placed := false
		for _, cand := range shuffled {
			if w.PlacementValid(cand) {
				w.Monsters = append(w.Monsters, NewMonster(def, cand))
				spawned++
				placed = true
				break
			}
		}
		if !placed {
			break
		}
	}
	return spawned
}

func clampChance(chance float64) float64 {
	if chance < DetectChanceMin {
		return DetectChanceMin
	}
	if chance > DetectChanceMax {
		return DetectChanceMax
	}
	return chance
}
