package turn

import (
	"context"
	"fmt"
	"log"

	"emberdelve/internal/app/depthcache"
	"emberdelve/internal/app/recall"
	"emberdelve/internal/domain/dungeon"
)

// PhaseError records a failure in one scheduler phase. A failing phase is
// skipped for the turn; the remaining phases still run.
type PhaseError struct {
	Phase string
	Err   error
}

func (e PhaseError) Error() string {
	return fmt.Sprintf("turn phase %s: %v", e.Phase, e.Err)
}

func (e PhaseError) Unwrap() error { return e.Err }

// Scheduler owns the fixed per-turn pipeline. Every accepted player action
// runs the same phases in the same order, so systems like hunger, status
// decay, and monster AI stay in lockstep with world time.
type Scheduler struct {
	rng        dungeon.Rand
	dispatcher dungeon.Dispatcher
	effects    dungeon.EffectEngine
	recall     *recall.Controller
	cache      *depthcache.Cache
	logger     *log.Logger

	lastDamageTurn      int64
	lastEncumbWarn      int64
	lastActorCount      int
	playerMovedThisTurn bool
}

func NewScheduler(rng dungeon.Rand, templates dungeon.TemplateRepository, rc *recall.Controller, cache *depthcache.Cache, logger *log.Logger) *Scheduler {
	if logger == nil {
		logger = log.Default()
	}
	effects := dungeon.EffectEngine{Rand: rng}
	return &Scheduler{
		rng:            rng,
		dispatcher:     dungeon.Dispatcher{Rand: rng, Templates: templates, Effects: effects},
		effects:        effects,
		recall:         rc,
		cache:          cache,
		logger:         logger,
		lastDamageTurn: -1,
		lastEncumbWarn: -1,
	}
}

// Dispatcher exposes the hazard dispatcher so action handlers share the
// scheduler's RNG and template wiring.
func (s *Scheduler) Dispatcher() dungeon.Dispatcher { return s.dispatcher }

// Effects exposes the status engine for action handlers.
func (s *Scheduler) Effects() dungeon.EffectEngine { return s.effects }

// NotePlayerDamage records the turn on which the player last took damage.
// Hunger regeneration pauses for a while after combat.
func (s *Scheduler) NotePlayerDamage(worldTime int64) {
	s.lastDamageTurn = worldTime
}

// Advance runs one full turn after an accepted player action. The returned
// world may differ from the input when a recall or a floor-collapse trap
// moved the player between depths mid-turn.
func (s *Scheduler) Advance(ctx context.Context, w *dungeon.World) (*dungeon.World, []PhaseError) {
	var errs []PhaseError
	run := func(name string, fn func() error) {
		defer func() {
			if r := recover(); r != nil {
				errs = append(errs, PhaseError{Phase: name, Err: fmt.Errorf("panic: %v", r)})
				s.logger.Printf("turn phase %s panicked: %v", name, r)
			}
		}()
		if err := fn(); err != nil {
			errs = append(errs, PhaseError{Phase: name, Err: err})
			s.logger.Printf("turn phase %s failed: %v", name, err)
		}
	}

	player := w.Player

	movementPhase := func() error {
		if w.PrevPlayerPos == nil {
			return nil
		}
		prev := *w.PrevPlayerPos
		w.PrevPlayerPos = nil
		if prev != player.Position {
			s.playerMovedThisTurn = true
			s.dispatcher.HandleActorMoved(w, player, prev, player.Position)
			dungeon.CreateNoise(w, s.rng, player.Position, 4, 3)
		}
		return nil
	}
	detectionPhase := func() error {
		s.dispatcher.DetectHazards(w)
		return nil
	}
	depthPhase := func() error {
		if w.PendingDepthChange == nil {
			return nil
		}
		target := *w.PendingDepthChange
		w.PendingDepthChange = nil
		next, err := s.cache.ChangeDepth(w, target)
		if err != nil {
			return err
		}
		w = next
		player = w.Player
		s.playerMovedThisTurn = true
		return nil
	}
	visibilityPhase := func() error {
		count := len(w.Monsters)
		if s.playerMovedThisTurn || count != s.lastActorCount {
			dungeon.RecomputeVisibility(w)
		}
		s.lastActorCount = count
		return nil
	}

	// A haste bonus action spends no world time. The action's spatial
	// consequences still resolve, but every clocked system stays frozen
	// until a real turn passes.
	if player.Effects.Has(dungeon.EffectHasted) && player.BonusActions > 0 {
		player.BonusActions--
		run("movement", movementPhase)
		run("detection", detectionPhase)
		run("depth", depthPhase)
		run("visibility", visibilityPhase)
		s.playerMovedThisTurn = false
		return w, errs
	}

	run("time", func() error {
		w.Time++
		if hasted := player.Effects.Get(dungeon.EffectHasted); hasted != nil {
			extra := hasted.Magnitude
			if extra < 1 {
				extra = 1
			}
			player.BonusActions = extra
		}
		return nil
	})

	run("hunger", func() error {
		dungeon.UpdateHunger(w, &s.lastDamageTurn)
		return nil
	})

	run("recall", func() error {
		next, err := s.recall.Tick(ctx, w)
		if err != nil {
			return err
		}
		if next != w {
			w = next
			player = w.Player
			s.playerMovedThisTurn = true
		}
		return nil
	})

	run("status", func() error {
		for _, name := range player.Effects.Tick() {
			w.LogEvent(fmt.Sprintf("You are no longer %s.", name))
		}
		dungeon.ApplyDamageOverTime(w, player)
		return nil
	})

	run("cooldowns", func() error {
		player.TickCooldowns()
		return nil
	})

	run("mana", func() error {
		if w.Time%dungeon.ManaRegenInterval == 0 {
			regen := 1 + player.StatModifier("wis")
			if regen < 1 {
				regen = 1
			}
			player.RestoreMana(regen)
		}
		return nil
	})

	run("movement", movementPhase)

	run("detection", detectionPhase)

	run("upkeep", func() error {
		dungeon.ConsumeLightFuel(w)
		dungeon.CheckEncumbrance(w, &s.lastEncumbWarn)
		return nil
	})

	run("projectiles", func() error {
		dungeon.ResolveProjectiles(w)
		return nil
	})

	run("monsters", func() error {
		dungeon.UpdateMonsters(w, s.rng, s.dispatcher)
		return nil
	})

	run("noise", func() error {
		dungeon.DecayNoise(w)
		return nil
	})

	run("depth", depthPhase)

	run("visibility", visibilityPhase)

	s.playerMovedThisTurn = false
	return w, errs
}
