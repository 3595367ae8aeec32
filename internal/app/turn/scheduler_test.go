package turn

import (
	"context"
	"io"
	"log"
	"testing"

	"emberdelve/internal/app/depthcache"
	"emberdelve/internal/domain/dungeon"
)

func TestAdvance_ClockAndUpkeep(t *testing.T) {
	sched, w := newTestRig(t, 1)
	hungerBefore := w.Player.Hunger

	next, errs := sched.Advance(context.Background(), w)
	if len(errs) != 0 {
		t.Fatalf("phase errors: %v", errs)
	}
	if next.Time != 1 {
		t.Fatalf("time = %d, want 1", next.Time)
	}
	if next.Player.Hunger >= hungerBefore {
		t.Fatalf("hunger did not decay: %d -> %d", hungerBefore, next.Player.Hunger)
	}
}

func TestAdvance_HastedBonusActionSkipsClock(t *testing.T) {
	sched, w := newTestRig(t, 1)
	w.Player.Effects.Install(dungeon.NewStatusEffect(dungeon.EffectHasted, 10, 0, 1, 1, "potion"), dungeon.StackModeReplace)

	ctx := context.Background()
	w, errs := sched.Advance(ctx, w)
	if len(errs) != 0 {
		t.Fatalf("phase errors: %v", errs)
	}
	if w.Time != 1 || w.Player.BonusActions != 1 {
		t.Fatalf("after first action: time=%d bonus=%d", w.Time, w.Player.BonusActions)
	}

	hungerBefore := w.Player.Hunger
	durationBefore := w.Player.Effects.Get(dungeon.EffectHasted).Duration

	// The bonus action is spent instead of the clock moving, and none of
	// the clocked systems run.
	w, errs = sched.Advance(ctx, w)
	if len(errs) != 0 {
		t.Fatalf("phase errors: %v", errs)
	}
	if w.Time != 1 || w.Player.BonusActions != 0 {
		t.Fatalf("after bonus action: time=%d bonus=%d", w.Time, w.Player.BonusActions)
	}
	if w.Player.Hunger != hungerBefore {
		t.Fatalf("hunger decayed on a bonus action: %d -> %d", hungerBefore, w.Player.Hunger)
	}
	if got := w.Player.Effects.Get(dungeon.EffectHasted).Duration; got != durationBefore {
		t.Fatalf("status duration ticked on a bonus action: %d -> %d", durationBefore, got)
	}

	w, _ = sched.Advance(ctx, w)
	if w.Time != 2 {
		t.Fatalf("clock stalled, time = %d", w.Time)
	}
}

func TestAdvance_HasteMagnitudeGrantsExtraActions(t *testing.T) {
	sched, w := newTestRig(t, 1)
	w.Player.Effects.Install(dungeon.NewStatusEffect(dungeon.EffectHasted, 10, 2, 1, 1, "potion"), dungeon.StackModeReplace)

	w, _ = sched.Advance(context.Background(), w)
	if w.Time != 1 || w.Player.BonusActions != 2 {
		t.Fatalf("after clocked turn: time=%d bonus=%d, want 2 bonus actions", w.Time, w.Player.BonusActions)
	}

	for i := 0; i < 2; i++ {
		w, _ = sched.Advance(context.Background(), w)
		if w.Time != 1 {
			t.Fatalf("bonus action %d advanced the clock to %d", i+1, w.Time)
		}
	}
	w, _ = sched.Advance(context.Background(), w)
	if w.Time != 2 {
		t.Fatalf("clock stalled, time = %d", w.Time)
	}
}

func TestAdvance_ManaRegenOnInterval(t *testing.T) {
	sched, w := newTestRig(t, 1)
	w.Player.Mana = 2
	w.Time = dungeon.ManaRegenInterval - 1

	w, errs := sched.Advance(context.Background(), w)
	if len(errs) != 0 {
		t.Fatalf("phase errors: %v", errs)
	}
	// 1 base + WIS modifier 0 on the interval boundary.
	if w.Player.Mana != 3 {
		t.Fatalf("mana = %d, want 3", w.Player.Mana)
	}

	w, _ = sched.Advance(context.Background(), w)
	if w.Player.Mana != 3 {
		t.Fatalf("mana regenerated off the interval, got %d", w.Player.Mana)
	}
}

func TestAdvance_PendingDepthChangeSwapsWorld(t *testing.T) {
	sched, w := newTestRig(t, 1)
	target := 2
	w.PendingDepthChange = &target

	next, errs := sched.Advance(context.Background(), w)
	if len(errs) != 0 {
		t.Fatalf("phase errors: %v", errs)
	}
	if next.Depth != 2 {
		t.Fatalf("depth = %d, want 2", next.Depth)
	}
	if next.PendingDepthChange != nil {
		t.Fatalf("pending depth change not consumed")
	}
	if next.Player.Depth != 2 {
		t.Fatalf("player depth = %d, want 2", next.Player.Depth)
	}
}

func TestAdvance_FaultInOnePhaseDoesNotStopTheTurn(t *testing.T) {
	cache := depthcache.NewCache(stubGenerator{}, nil, emptyTemplates{}, stubRand{})
	sched := NewScheduler(stubRand{}, emptyTemplates{}, nil, cache, log.New(io.Discard, "", 0))
	player := dungeon.NewPlayer("delver", dungeon.Position{})
	w, err := cache.EnterDepth(player, 1, 0, true)
	if err != nil {
		t.Fatalf("enter: %v", err)
	}

	next, errs := sched.Advance(context.Background(), w)
	if len(errs) != 1 {
		t.Fatalf("phase errors = %v, want exactly the recall fault", errs)
	}
	if errs[0].Phase != "recall" {
		t.Fatalf("faulting phase = %q", errs[0].Phase)
	}
	if next.Time != 1 {
		t.Fatalf("clock should still advance, time = %d", next.Time)
	}
}
