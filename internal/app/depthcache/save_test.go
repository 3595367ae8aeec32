package depthcache

import (
	"encoding/json"
	"testing"

	"emberdelve/internal/domain/dungeon"
)

func TestFullSave_RoundTrip(t *testing.T) {
	cache := NewCache(stubGenerator{}, nil, dartTemplates(), stubRand{})
	player := dungeon.NewPlayer("delver", dungeon.Position{})

	w, err := cache.EnterDepth(player, 0, 0, true)
	if err != nil {
		t.Fatalf("enter surface: %v", err)
	}
	w, err = cache.ChangeDepth(w, 2)
	if err != nil {
		t.Fatalf("descend: %v", err)
	}
	w.Time = 77
	player.HP = 11
	player.XP = 140
	ident := IdentificationState{
		Identified: []string{"potion_healing"},
		Obscured:   map[string]string{"potion_speed": "fizzy blue potion"},
	}

	payload, err := cache.ExportFullSave(w, ident)
	if err != nil {
		t.Fatalf("export: %v", err)
	}
	if payload.Version != saveVersion || payload.CurrentDepth != 2 || payload.Time != 77 {
		t.Fatalf("header = %+v", payload)
	}
	if len(payload.DepthState) != 2 {
		t.Fatalf("depth state covers %d floors, want 2", len(payload.DepthState))
	}

	// The payload must survive a trip through its wire encoding.
	raw, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded SavePayload
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	fresh := NewCache(stubGenerator{}, nil, dartTemplates(), stubRand{})
	restored, gotIdent, err := fresh.ImportFullSave(&decoded)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if restored.Depth != 2 || restored.Time != 77 {
		t.Fatalf("restored depth=%d time=%d", restored.Depth, restored.Time)
	}
	if restored.Player.HP != 11 || restored.Player.XP != 140 {
		t.Fatalf("player state lost: HP=%d XP=%d", restored.Player.HP, restored.Player.XP)
	}
	if len(gotIdent.Identified) != 1 || gotIdent.Obscured["potion_speed"] != "fizzy blue potion" {
		t.Fatalf("identification state = %+v", gotIdent)
	}
	if len(fresh.Depths()) != 2 {
		t.Fatalf("imported cache holds %d depths, want 2", len(fresh.Depths()))
	}
}

func TestImportFullSave_RejectsUnknownVersion(t *testing.T) {
	cache := NewCache(stubGenerator{}, nil, fixtureTemplates{}, stubRand{})
	if _, _, err := cache.ImportFullSave(&SavePayload{Version: 99}); err == nil {
		t.Fatalf("expected version error")
	}
	if _, _, err := cache.ImportFullSave(nil); err == nil {
		t.Fatalf("expected error for nil payload")
	}
}

func TestImportFullSave_RegeneratesMissingCurrentDepth(t *testing.T) {
	cache := NewCache(stubGenerator{}, nil, fixtureTemplates{}, stubRand{})
	rawPlayer, _ := json.Marshal(dungeon.NewPlayer("delver", dungeon.Position{}))
	payload := &SavePayload{
		Version:      saveVersion,
		Time:         33,
		CurrentDepth: 3,
		Player:       rawPlayer,
		DepthState:   map[int]DepthSnapshot{},
	}

	// No snapshot covers depth 3; the load carves the floor fresh instead
	// of failing.
	w, _, err := cache.ImportFullSave(payload)
	if err != nil {
		t.Fatalf("import: %v", err)
	}
	if w.Depth != 3 || w.Time != 33 {
		t.Fatalf("regenerated world depth=%d time=%d", w.Depth, w.Time)
	}
	if !w.Walkable(w.Player.Position) {
		t.Fatalf("player landed on a non-walkable tile %v", w.Player.Position)
	}
}
