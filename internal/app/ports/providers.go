package ports

import "emberdelve/internal/domain/dungeon"

// GeneratedMap is what the external map generator hands back for a depth.
type GeneratedMap struct {
	Grid  [][]byte
	Rooms []dungeon.Rect
}

// MapGenerator produces the tile grid and room list for a depth. Map
// generation itself is outside the simulation kernel.
type MapGenerator interface {
	Generate(depth int) (GeneratedMap, error)
}

// EntitySpawner yields the initial monster roster for a freshly generated
// depth, given the player's starting position.
type EntitySpawner interface {
	Spawn(depth int, playerPos dungeon.Position) ([]*dungeon.Actor, error)
}

// RandomSource is the pseudo-random collaborator every subsystem rolls
// through.
type RandomSource = dungeon.Rand
