package depthcache

import (
	"encoding/json"

	"emberdelve/internal/domain/dungeon"
)

// DepthSnapshot is the serialized form of one depth's mutable state.
// Entities, traps, and chests are kept as raw JSON per record so a single
// corrupt entry can be skipped on restore without losing the rest.
type DepthSnapshot struct {
	Map          []string                   `json:"map"`
	Entities     []json.RawMessage          `json:"entities"`
	GroundItems  map[string][]string        `json:"ground_items"`
	DeathDropLog []string                   `json:"death_drop_log"`
	Traps        map[string]json.RawMessage `json:"traps"`
	Chests       map[string]json.RawMessage `json:"chests"`
	SecretDoors  map[string]int             `json:"secret_door_difficulty"`
	KnownTraps   []string                   `json:"known_traps"`
	Explored     [][]bool                   `json:"explored"`
	LitRooms     []int                      `json:"lit_rooms"`
}

// serializeDepth captures the live world into an immutable-at-rest bundle.
// The transient visible/lit state is deliberately excluded; only the
// explored mask persists.
func serializeDepth(w *dungeon.World) DepthSnapshot {
	snap := DepthSnapshot{
		GroundItems: map[string][]string{},
		Traps:       map[string]json.RawMessage{},
		Chests:      map[string]json.RawMessage{},
		SecretDoors: map[string]int{},
	}
	for _, row := range w.Grid {
		snap.Map = append(snap.Map, string(row))
	}
	for _, m := range w.Monsters {
		if raw, err := json.Marshal(m); err == nil {
			snap.Entities = append(snap.Entities, raw)
		}
	}
	for pos, items := range w.GroundItems {
		snap.GroundItems[pos.Key()] = append([]string(nil), items...)
	}
	snap.DeathDropLog = append([]string(nil), w.DeathDropLog...)
	for pos, trap := range w.Traps {
		if raw, err := json.Marshal(trap); err == nil {
			snap.Traps[pos.Key()] = raw
		}
	}
	for pos, chest := range w.Chests {
		if raw, err := json.Marshal(chest); err == nil {
			snap.Chests[pos.Key()] = raw
		}
	}
	for pos, diff := range w.SecretDoors {
		snap.SecretDoors[pos.Key()] = diff
	}
	for pos := range w.KnownTraps {
		snap.KnownTraps = append(snap.KnownTraps, pos.Key())
	}
	snap.Explored = make([][]bool, len(w.Explored))
	for y, row := range w.Explored {
		snap.Explored[y] = append([]bool(nil), row...)
	}
	for idx := range w.LitRooms {
		snap.LitRooms = append(snap.LitRooms, idx)
	}
	return snap
}

// restoreDepth rebuilds a live world from a snapshot. Malformed records are
// skipped individually; the load always completes with best-effort state.
// Room geometry is not persisted and is rederived heuristically, so lit
// rooms may differ after a load.
func restoreDepth(depth int, snap DepthSnapshot, templates dungeon.TemplateRepository) *dungeon.World {
	grid := make([][]byte, len(snap.Map))
	for y, row := range snap.Map {
		grid[y] = []byte(row)
	}
	w := dungeon.NewWorld(depth, grid, deriveRooms(grid))

	for _, raw := range snap.Entities {
		var actor dungeon.Actor
		if err := json.Unmarshal(raw, &actor); err != nil {
			continue
		}
		if actor.Effects == nil {
			actor.Effects = dungeon.EffectSet{}
		}
		w.Monsters = append(w.Monsters, &actor)
	}

	for key, items := range snap.GroundItems {
		pos, err := dungeon.ParsePositionKey(key)
		if err != nil {
			continue
		}
		w.GroundItems[pos] = append([]string(nil), items...)
	}
	w.DeathDropLog = append([]string(nil), snap.DeathDropLog...)

	for key, raw := range snap.Traps {
		pos, err := dungeon.ParsePositionKey(key)
		if err != nil {
			continue
		}
		var trap dungeon.TrapRecord
		if err := json.Unmarshal(raw, &trap); err != nil {
			continue
		}
		if def, defErr := templates.Trap(trap.TemplateID); defErr == nil {
			trap.Def = def
		}
		w.Traps[pos] = &trap
	}

	for key, raw := range snap.Chests {
		pos, err := dungeon.ParsePositionKey(key)
		if err != nil {
			continue
		}
		var chest dungeon.ChestRecord
		if err := json.Unmarshal(raw, &chest); err != nil {
			continue
		}
		if def, defErr := templates.Chest(chest.TemplateID); defErr == nil {
			chest.Def = def
		}
		w.Chests[pos] = &chest
	}

	for key, diff := range snap.SecretDoors {
		pos, err := dungeon.ParsePositionKey(key)
		if err != nil {
			continue
		}
		w.SecretDoors[pos] = diff
	}
	for _, key := range snap.KnownTraps {
		pos, err := dungeon.ParsePositionKey(key)
		if err != nil {
			continue
		}
		w.KnownTraps[pos] = true
	}

	if len(snap.Explored) == w.Height {
		for y := 0; y < w.Height; y++ {
			for x := 0; x < w.Width && x < len(snap.Explored[y]); x++ {
				w.Explored[y][x] = snap.Explored[y][x]
			}
		}
	}
	for _, idx := range snap.LitRooms {
		w.LitRooms[idx] = true
	}
	return w
}

// deriveRooms rediscovers rectangular floor areas from the raw grid. It is
// a lighting-bookkeeping heuristic, not a faithful reconstruction of the
// generator's room list.
func deriveRooms(grid [][]byte) []dungeon.Rect {
	height := len(grid)
	if height == 0 {
		return nil
	}
	width := len(grid[0])
	visited := make([][]bool, height)
	for y := range visited {
		visited[y] = make([]bool, width)
	}
	var rooms []dungeon.Rect
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if visited[y][x] || grid[y][x] != dungeon.TileFloor {
				continue
			}
			minX, minY, maxX, maxY := x, y, x, y
			stack := []dungeon.Position{{X: x, Y: y}}
			visited[y][x] = true
			size := 0
			for len(stack) > 0 {
				p := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				size++
				if p.X < minX {
					minX = p.X
				}
				if p.X > maxX {
					maxX = p.X
				}
				if p.Y < minY {
					minY = p.Y
				}
				if p.Y > maxY {
					maxY = p.Y
				}
				for _, n := range []dungeon.Position{{X: p.X + 1, Y: p.Y}, {X: p.X - 1, Y: p.Y}, {X: p.X, Y: p.Y + 1}, {X: p.X, Y: p.Y - 1}} {
					if n.X < 0 || n.X >= width || n.Y < 0 || n.Y >= height {
						continue
					}
					if visited[n.Y][n.X] || grid[n.Y][n.X] != dungeon.TileFloor {
						continue
					}
					visited[n.Y][n.X] = true
					stack = append(stack, n)
				}
			}
			area := (maxX - minX + 1) * (maxY - minY + 1)
			if size >= 4 && area <= size*2 {
				rooms = append(rooms, dungeon.Rect{X1: minX, Y1: minY, X2: maxX + 1, Y2: maxY + 1})
			}
		}
	}
	return rooms
}
