package dungeon

import "fmt"

// UpdateMonsters advances every living monster by one turn: status ticks
// with damage-over-time, then a simple pursue-and-strike behavior for
// monsters aware of the player. Immobilized or sleeping monsters stand
// still. Deaths are processed at the end so a monster killed by its own
// poison this turn still drops.
func UpdateMonsters(w *World, rng Rand, dispatcher Dispatcher) {
	for _, m := range w.Monsters {
		if !m.Alive() {
			continue
		}
		m.Effects.Tick()
		ApplyDamageOverTime(w, m)
		if !m.Alive() || m.Sleeping || m.Effects.Has(EffectImmobilized) {
			continue
		}
		if w.Player == nil || !w.Player.Alive() {
			continue
		}
		if !m.AwareOfPlayer {
			continue
		}
		dx := sign(w.Player.Position.X - m.Position.X)
		dy := sign(w.Player.Position.Y - m.Position.Y)
		dest := Position{X: m.Position.X + dx, Y: m.Position.Y + dy}
		if dest == w.Player.Position {
			if m.Debuff != nil && rng.Intn(100)+1 <= m.Debuff.Chance {
				w.LogEvent(fmt.Sprintf("%s casts %s!", m.Name, m.Debuff.Name))
				dispatcher.Effects.Apply(w, w.Player, EffectApplication{
					Name:      m.Debuff.Status,
					Duration:  m.Debuff.Duration,
					Magnitude: m.Debuff.Magnitude,
					Source:    fmt.Sprintf("%s:%s", m.Name, m.Debuff.Name),
				})
				CreateNoise(w, rng, m.Position, 6, 5)
				continue
			}
			dmg := rng.Intn(4) + m.Level
			if dmg < 1 {
				dmg = 1
			}
			final, tag := ResolveDamage(dmg, DamagePhysical, w.Player)
			died := w.Player.TakeDamage(final)
			msg := fmt.Sprintf("%s hits you for %d", m.Name, final)
			if tag == MitigationFrozen {
				msg += " (frozen)"
			}
			w.LogEvent(msg + ".")
			if died {
				w.LogEvent(fmt.Sprintf("%s slays you!", m.Name))
			}
			continue
		}
		if w.PlacementValid(dest) {
			prev := m.Position
			m.Position = dest
			dispatcher.HandleActorMoved(w, m, prev, dest)
		}
	}
	ProcessMonsterDeaths(w)
}

// ApplyDamageOverTime deals Poisoned/Burning/Bleeding ticks, each scaled
// independently by the matching resistance and floored at 1. Effects an
// actor is immune to are purged instead of ticking (stale persisted
// state).
func ApplyDamageOverTime(w *World, a *Actor) {
	type dot struct {
		effect     string
		damageType DamageType
		resisted   bool
	}
	for _, entry := range []dot{
		{EffectPoisoned, DamagePoison, true},
		{EffectBurning, DamageFire, true},
		{EffectBleeding, "", false},
	} {
		eff := a.Effects.Get(entry.effect)
		if eff == nil || eff.Magnitude <= 0 {
			continue
		}
		if a.ImmuneTo(entry.effect) {
			a.Effects.Remove(entry.effect)
			if a.IsPlayer() {
				w.LogEvent(fmt.Sprintf("%s has no effect on you.", entry.effect))
			}
			continue
		}
		dmg := eff.Magnitude * eff.Stacks
		if dmg < 1 {
			dmg = 1
		}
		if entry.resisted {
			if pct := a.Resistances[entry.damageType]; pct > 0 {
				dmg = scaleFloor1(dmg, 1.0-float64(pct)/100.0)
			}
		}
		a.TakeDamage(dmg)
		if a.IsPlayer() {
			switch entry.effect {
			case EffectPoisoned:
				w.LogEvent(fmt.Sprintf("You suffer %d poison damage!", dmg))
			case EffectBurning:
				w.LogEvent(fmt.Sprintf("You suffer %d fire damage from burning!", dmg))
			case EffectBleeding:
				if eff.Stacks > 1 {
					w.LogEvent(fmt.Sprintf("You bleed from %d wounds for %d damage!", eff.Stacks, dmg))
				} else {
					w.LogEvent(fmt.Sprintf("You bleed for %d damage!", dmg))
				}
			}
		}
	}
}

// ProcessMonsterDeaths removes dead monsters, logging drops. Deaths staged
// by a drop_level shaft grant no experience.
func ProcessMonsterDeaths(w *World) {
	kept := w.Monsters[:0]
	for _, m := range w.Monsters {
		if m.Alive() {
			kept = append(kept, m)
			continue
		}
		if !m.DeathNoXP && w.Player != nil {
			w.Player.XP += m.Level * 10
		}
		w.DeathDropLog = append(w.DeathDropLog, fmt.Sprintf("%s died at %s", m.Name, m.Position.Key()))
		w.MarkDirtyTile(m.Position.X, m.Position.Y)
	}
	w.Monsters = kept
}

// ResolveProjectiles applies queued projectile damage to whatever stands
// at each destination, then clears the queue. Misses are silent.
func ResolveProjectiles(w *World) {
	for _, proj := range w.Projectiles {
		target := w.ActorAt(proj.To)
		if target == nil {
			continue
		}
		damageType := proj.DamageType
		if damageType == "" {
			damageType = DamagePhysical
		}
		final, _ := ResolveDamage(proj.Damage, damageType, target)
		died := target.TakeDamage(final)
		if target.IsPlayer() {
			w.LogEvent(fmt.Sprintf("%s strikes you for %d.", proj.Source, final))
		} else {
			w.LogEvent(fmt.Sprintf("%s strikes %s for %d.", proj.Source, target.Name, final))
			if died {
				w.LogEvent(fmt.Sprintf("%s is slain.", target.Name))
			}
		}
	}
	w.Projectiles = nil
	ProcessMonsterDeaths(w)
}

func sign(v int) int {
	switch {
	case v > 0:
		return 1
	case v < 0:
		return -1
	}
	return 0
}
