package recall

import (
	"context"
	"fmt"

	"github.com/looplab/fsm"

	"emberdelve/internal/app/depthcache"
	"emberdelve/internal/domain/dungeon"
)

const (
	stateIdle    = "idle"
	statePending = "pending"

	eventActivate = "activate"
	eventExecute  = "execute"
	eventAbort    = "abort"
)

// Controller drives the recall spell: a long countdown, then instant travel
// to the bound anchor or the surface. Once started the recall cannot be
// cancelled by the player; only the caster's death aborts it.
type Controller struct {
	machine *fsm.FSM
	cache   *depthcache.Cache

	turnsLeft   int
	targetDepth int
	targetPos   *dungeon.Position
}

func NewController(cache *depthcache.Cache) *Controller {
	return &Controller{
		machine: fsm.NewFSM(
			stateIdle,
			fsm.Events{
				{Name: eventActivate, Src: []string{stateIdle}, Dst: statePending},
				{Name: eventExecute, Src: []string{statePending}, Dst: stateIdle},
				{Name: eventAbort, Src: []string{statePending}, Dst: stateIdle},
			},
			fsm.Callbacks{},
		),
		cache: cache,
	}
}

// Pending reports whether a recall countdown is running.
func (c *Controller) Pending() bool {
	return c.machine.Is(statePending)
}

// TurnsLeft returns the remaining countdown, zero when idle.
func (c *Controller) TurnsLeft() int {
	if !c.Pending() {
		return 0
	}
	return c.turnsLeft
}

// Activate starts the countdown. anchor names a bound anchor to travel to;
// empty picks the default target. It refuses a second activation while one
// is pending, refuses while the spell is cooling down, and refuses a recall
// that would land the caster on the floor they already stand on. The spell
// cooldown starts here, on activation, not when the travel happens.
func (c *Controller) Activate(ctx context.Context, w *dungeon.World, anchor string) error {
	player := w.Player
	if c.Pending() {
		return fmt.Errorf("a recall is already in progress")
	}
	if player.SpellOnCooldown(dungeon.RecallSpellName) {
		return fmt.Errorf("the recall spell has not recharged yet")
	}

	depth, pos, err := resolveTarget(player, anchor)
	if err != nil {
		return err
	}
	if depth == w.Depth {
		return fmt.Errorf("you are already there")
	}

	if err := c.machine.Event(ctx, eventActivate); err != nil {
		return err
	}
	c.turnsLeft = dungeon.RecallDelayTurns
	c.targetDepth = depth
	c.targetPos = pos
	player.SetSpellCooldown(dungeon.RecallSpellName, dungeon.RecallCooldownTurns)
	w.LogEvent("The air hums as the recall spell begins to weave.")
	return nil
}

// Tick advances the countdown by one turn. When it reaches zero the travel
// happens immediately and the replacement world is returned; otherwise the
// input world comes back unchanged.
func (c *Controller) Tick(ctx context.Context, w *dungeon.World) (*dungeon.World, error) {
	if !c.Pending() {
		return w, nil
	}
	c.turnsLeft--
	if c.turnsLeft > 0 {
		if c.turnsLeft%dungeon.RecallWarnInterval == 0 {
			w.LogEvent(fmt.Sprintf("The recall spell hums. %d turns remain.", c.turnsLeft))
		}
		return w, nil
	}

	if err := c.machine.Event(ctx, eventExecute); err != nil {
		return w, err
	}
	player := w.Player
	next, err := c.cache.ChangeDepth(w, c.targetDepth)
	if err != nil {
		w.LogEvent("The recall spell fizzles against something unseen.")
		return w, err
	}
	if c.targetPos != nil {
		if spot, ok := next.NearestValidPlacement(*c.targetPos); ok {
			player.Position = spot
		}
	}
	next.LogEvent("Reality folds and you are elsewhere.")
	dungeon.RecomputeVisibility(next)
	c.targetPos = nil
	return next, nil
}

// Abort cancels a pending recall. Gameplay only reaches this on death.
func (c *Controller) Abort(ctx context.Context) {
	if c.Pending() {
		_ = c.machine.Event(ctx, eventAbort)
		c.turnsLeft = 0
		c.targetPos = nil
	}
}

// BindAnchor marks the player's current spot as the recall destination.
func BindAnchor(w *dungeon.World, name string) error {
	if name == "" {
		name = "anchor"
	}
	w.Player.BindAnchor(name, w.Depth, w.Player.Position)
	w.LogEvent(fmt.Sprintf("You attune the %s to this spot.", name))
	return nil
}

// RemoveAnchor forgets a bound anchor.
func RemoveAnchor(w *dungeon.World, name string) error {
	if !w.Player.RemoveAnchor(name) {
		return fmt.Errorf("no anchor named %q", name)
	}
	w.LogEvent(fmt.Sprintf("The %s fades from your memory.", name))
	return nil
}

// resolveTarget picks where the recall lands. A named anchor recalls to its
// stored spot; the default returns a delver on the surface to their deepest
// floor and anyone underground back to the surface.
func resolveTarget(player *dungeon.Actor, name string) (int, *dungeon.Position, error) {
	if name != "" {
		anchor, ok := player.Anchors[name]
		if !ok {
			return 0, nil, fmt.Errorf("no anchor named %q", name)
		}
		pos := anchor.Pos
		return anchor.Depth, &pos, nil
	}
	if player.Depth > 0 {
		return 0, nil, nil
	}
	return player.DeepestDepth, nil, nil
}
