package depthcache

import (
	"fmt"

	"emberdelve/internal/app/ports"
	"emberdelve/internal/domain/dungeon"
)

// Cache keeps one snapshot per visited depth so leaving and re-entering a
// floor restores it exactly as abandoned. Depths never visited are carved
// fresh on first entry.
type Cache struct {
	snapshots map[int]DepthSnapshot

	gen       ports.MapGenerator
	spawner   ports.EntitySpawner
	templates dungeon.TemplateRepository
	rng       ports.RandomSource
}

func NewCache(gen ports.MapGenerator, spawner ports.EntitySpawner, templates dungeon.TemplateRepository, rng ports.RandomSource) *Cache {
	return &Cache{
		snapshots: map[int]DepthSnapshot{},
		gen:       gen,
		spawner:   spawner,
		templates: templates,
		rng:       rng,
	}
}

// Depths lists every depth currently held in the cache.
func (c *Cache) Depths() []int {
	out := make([]int, 0, len(c.snapshots))
	for d := range c.snapshots {
		out = append(out, d)
	}
	return out
}

// LeaveDepth stores the world's current state under its depth. The player is
// not part of the snapshot; they travel with the session.
func (c *Cache) LeaveDepth(w *dungeon.World) {
	c.snapshots[w.Depth] = serializeDepth(w)
}

// EnterDepth produces the live world for the given depth, restoring a cached
// snapshot when one exists and generating a fresh floor otherwise. descended
// controls which staircase the player appears beside.
func (c *Cache) EnterDepth(player *dungeon.Actor, depth int, worldTime int64, descended bool) (*dungeon.World, error) {
	var w *dungeon.World
	fresh := false
	if snap, ok := c.snapshots[depth]; ok {
		w = restoreDepth(depth, snap, c.templates)
	} else {
		generated, err := c.gen.Generate(depth)
		if err != nil {
			return nil, fmt.Errorf("generate depth %d: %w", depth, err)
		}
		w = dungeon.NewWorld(depth, generated.Grid, generated.Rooms)
		dungeon.PopulateHazards(w, c.templates, c.rng)
		fresh = true
	}

	w.Time = worldTime
	w.Player = player
	player.Depth = depth
	if depth > player.DeepestDepth {
		player.DeepestDepth = depth
	}

	arrival := byte(dungeon.TileStairsUp)
	if !descended {
		arrival = byte(dungeon.TileStairsDown)
	}
	spot, found := w.FindTile(arrival)
	if !found {
		spot, found = w.FindTile(byte(dungeon.TileStairsUp))
	}
	if !found && len(w.Rooms) > 0 {
		spot = w.Rooms[0].Center()
		found = true
	}
	if !found {
		return nil, fmt.Errorf("depth %d has no landing tile", depth)
	}
	if placed, ok := w.NearestValidPlacement(spot); ok {
		spot = placed
	}
	player.Position = spot

	if fresh && c.spawner != nil {
		roster, err := c.spawner.Spawn(depth, spot)
		if err != nil {
			return nil, fmt.Errorf("spawn depth %d: %w", depth, err)
		}
		for _, m := range roster {
			if placed, ok := w.NearestValidPlacement(m.Position); ok {
				m.Position = placed
				w.Monsters = append(w.Monsters, m)
			}
		}
	}

	dungeon.RecomputeVisibility(w)
	return w, nil
}

// ChangeDepth caches the current floor and swaps the player onto the target
// one, preserving world time across the transition.
func (c *Cache) ChangeDepth(w *dungeon.World, target int) (*dungeon.World, error) {
	if w == nil || w.Player == nil {
		return nil, fmt.Errorf("no active world")
	}
	if target < 0 {
		target = 0
	}
	descended := target > w.Depth
	c.LeaveDepth(w)
	return c.EnterDepth(w.Player, target, w.Time, descended)
}
