package game

import (
	"context"
	"errors"
	"strings"
	"testing"

	"emberdelve/internal/domain/dungeon"
)

func TestStartRun_SurfaceArrival(t *testing.T) {
	uc, _, _ := newTestUseCase()
	resp, err := uc.StartRun(context.Background(), "hero-1", "Maru")
	if err != nil {
		t.Fatalf("start: %v", err)
	}
	if resp.Turn != 0 || resp.Depth != 0 {
		t.Fatalf("turn=%d depth=%d, want fresh surface", resp.Turn, resp.Depth)
	}
	if resp.Player.Name != "Maru" || resp.Player.HP != resp.Player.MaxHP {
		t.Fatalf("player view = %+v", resp.Player)
	}
	found := false
	for _, msg := range resp.Events {
		if strings.Contains(msg, "mouth of the delve") {
			found = true
		}
	}
	if !found {
		t.Fatalf("arrival message missing from %v", resp.Events)
	}
}

func TestAct_WaitSpendsATurn(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	if _, err := uc.StartRun(ctx, "hero-1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	resp, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "wait"})
	if err != nil {
		t.Fatalf("wait: %v", err)
	}
	if resp.Turn != 1 {
		t.Fatalf("turn = %d, want 1", resp.Turn)
	}
}

func TestAct_RejectedMoveCostsNothing(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	if _, err := uc.StartRun(ctx, "hero-1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}

	// Walk to the west wall, then into it.
	if _, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "move", DX: -1}); err != nil {
		t.Fatalf("first step: %v", err)
	}
	resp, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "move", DX: -1})
	if !errors.Is(err, ErrActionRejected) {
		t.Fatalf("err = %v, want ErrActionRejected", err)
	}
	if resp.Turn != 1 {
		t.Fatalf("rejected action spent a turn: %d", resp.Turn)
	}
}

func TestObserve_EventsSurviveLogSaturation(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	if _, err := uc.StartRun(ctx, "hero-1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	s, _ := uc.session("hero-1")

	// Fill the bounded log well past capacity, drain, then log once more.
	for i := 0; i < dungeon.EventLogCapacity+10; i++ {
		s.world.LogEvent("a distant rumble")
	}
	if _, err := uc.Observe(ctx, "hero-1"); err != nil {
		t.Fatalf("observe: %v", err)
	}
	s.world.LogEvent("the marker event")

	resp, err := uc.Observe(ctx, "hero-1")
	if err != nil {
		t.Fatalf("observe: %v", err)
	}
	if len(resp.Events) != 1 || resp.Events[0] != "the marker event" {
		t.Fatalf("fresh events after saturation = %v, want just the marker", resp.Events)
	}
}

func TestAct_ValidationErrors(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()

	if _, err := uc.Act(ctx, Request{HeroID: "ghost", Action: "wait"}); !errors.Is(err, ErrNoSession) {
		t.Fatalf("err = %v, want ErrNoSession", err)
	}
	if _, err := uc.StartRun(ctx, "hero-1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "moonwalk"}); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("err = %v, want ErrUnknownAction", err)
	}
	if _, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "move", DX: 5}); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("err = %v, want ErrInvalidRequest", err)
	}
	if _, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "ascend"}); !errors.Is(err, ErrActionRejected) {
		t.Fatalf("err = %v, want ErrActionRejected on the surface", err)
	}
}

func TestAct_MoveIntoMonsterAttacks(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	if _, err := uc.StartRun(ctx, "hero-1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	s, ok := uc.session("hero-1")
	if !ok {
		t.Fatalf("session missing")
	}
	pos := s.world.Player.Position
	monster := dungeon.NewMonster(
		dungeon.MonsterDef{ID: "goblin", Name: "goblin", HP: 7, Level: 1},
		dungeon.Position{X: pos.X + 1, Y: pos.Y},
	)
	s.world.Monsters = append(s.world.Monsters, monster)

	resp, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "move", DX: 1})
	if err != nil {
		t.Fatalf("attack move: %v", err)
	}
	// 1d4 rolls 1 with the stub RNG, +1 STR modifier.
	if monster.HP != 5 {
		t.Fatalf("monster HP = %d, want 5", monster.HP)
	}
	if s.world.Player.Position != pos {
		t.Fatalf("attacking must not move the player")
	}
	found := false
	for _, msg := range resp.Events {
		if strings.Contains(msg, "You strike goblin for 2") {
			found = true
		}
	}
	if !found {
		t.Fatalf("strike message missing from %v", resp.Events)
	}
}

func TestAct_DeadHeroIsRefused(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	if _, err := uc.StartRun(ctx, "hero-1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	s, _ := uc.session("hero-1")
	s.world.Player.HP = 0

	resp, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "wait"})
	if !errors.Is(err, ErrHeroDead) {
		t.Fatalf("err = %v, want ErrHeroDead", err)
	}
	if !resp.GameOver {
		t.Fatalf("response should flag game over")
	}
}

func TestSaveAndLoad_RestoresTheRun(t *testing.T) {
	uc, saves, _ := newTestUseCase()
	ctx := context.Background()
	if _, err := uc.StartRun(ctx, "hero-1", "Maru"); err != nil {
		t.Fatalf("start: %v", err)
	}
	for i := 0; i < 3; i++ {
		if _, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "wait"}); err != nil {
			t.Fatalf("wait %d: %v", i, err)
		}
	}
	s, _ := uc.session("hero-1")
	s.world.Player.XP = 90

	if err := uc.Save(ctx, "hero-1"); err != nil {
		t.Fatalf("save: %v", err)
	}
	if len(saves.recs) != 1 {
		t.Fatalf("save records = %d", len(saves.recs))
	}

	// A new run tramples the old state; loading brings it back.
	if _, err := uc.StartRun(ctx, "hero-1", "Maru"); err != nil {
		t.Fatalf("restart: %v", err)
	}
	resp, err := uc.Load(ctx, "hero-1")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if resp.Turn != 3 {
		t.Fatalf("turn = %d, want 3", resp.Turn)
	}
	if resp.Player.XP != 90 {
		t.Fatalf("XP = %d, want 90", resp.Player.XP)
	}
}

func TestLoad_MissingSave(t *testing.T) {
	uc, _, _ := newTestUseCase()
	if _, err := uc.Load(context.Background(), "nobody"); err == nil {
		t.Fatalf("expected an error for a hero without a save")
	}
}

func TestHistory_ReturnsJournaledEvents(t *testing.T) {
	uc, _, _ := newTestUseCase()
	ctx := context.Background()
	if _, err := uc.StartRun(ctx, "hero-1", ""); err != nil {
		t.Fatalf("start: %v", err)
	}
	if _, err := uc.Act(ctx, Request{HeroID: "hero-1", Action: "move", DX: 1}); err != nil {
		t.Fatalf("move: %v", err)
	}

	events, err := uc.History(ctx, "hero-1", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(events) == 0 {
		t.Fatalf("expected journaled events")
	}
	for _, ev := range events {
		if ev.HeroID != "hero-1" {
			t.Fatalf("event for wrong hero: %+v", ev)
		}
	}
}
