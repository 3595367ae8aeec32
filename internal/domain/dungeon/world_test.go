package dungeon

import (
	"fmt"
	"testing"
)

func TestLogEvent_BoundedCapacity(t *testing.T) {
	w := openWorld(1, 8)
	for i := 0; i < EventLogCapacity+25; i++ {
		w.LogEvent(fmt.Sprintf("event %d", i))
	}
	log := w.EventLog()
	if len(log) != EventLogCapacity {
		t.Fatalf("log length = %d, want %d", len(log), EventLogCapacity)
	}
	if log[len(log)-1] != fmt.Sprintf("event %d", EventLogCapacity+24) {
		t.Fatalf("newest entry lost: %q", log[len(log)-1])
	}
	if log[0] != "event 25" {
		t.Fatalf("oldest kept entry = %q, want %q", log[0], "event 25")
	}
	// The total keeps counting past the trim point.
	if got := w.EventsLogged(); got != EventLogCapacity+25 {
		t.Fatalf("events logged = %d, want %d", got, EventLogCapacity+25)
	}
}

func TestNearestValidPlacement_SkipsOccupiedAndWalls(t *testing.T) {
	w := openWorld(1, 10)
	w.Player = NewPlayer("Hero", Position{X: 4, Y: 4})

	// Landing on the player spills to an adjacent free tile.
	got, ok := w.NearestValidPlacement(Position{X: 4, Y: 4})
	if !ok {
		t.Fatalf("no placement found")
	}
	if got == w.Player.Position {
		t.Fatalf("placement landed on the player")
	}
	if max(abs(got.X-4), abs(got.Y-4)) != 1 {
		t.Fatalf("placement %v not adjacent to requested spot", got)
	}

	// A corner wall resolves to the nearest floor tile.
	got, ok = w.NearestValidPlacement(Position{X: 0, Y: 0})
	if !ok || !w.Walkable(got) {
		t.Fatalf("wall placement resolved to %v (ok=%v)", got, ok)
	}
}

func TestParsePositionKey_RoundTripAndErrors(t *testing.T) {
	p := Position{X: 17, Y: -3}
	parsed, err := ParsePositionKey(p.Key())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if parsed != p {
		t.Fatalf("round trip = %v, want %v", parsed, p)
	}
	if _, err := ParsePositionKey("not-a-key"); err == nil {
		t.Fatalf("expected error for malformed key")
	}
}

func TestDropItems_AccumulatesPerTile(t *testing.T) {
	w := openWorld(1, 8)
	p := Position{X: 3, Y: 3}
	w.DropItems(p, []string{"dagger"})
	w.DropItems(p, []string{"ration", "torch"})
	if got := w.GroundItems[p]; len(got) != 3 {
		t.Fatalf("ground items = %v", got)
	}
	if len(w.ConsumeDirtyMapTiles()) == 0 {
		t.Fatalf("drops should dirty the tile")
	}
}
