package depthcache

import (
	"errors"

	"emberdelve/internal/app/ports"
	"emberdelve/internal/domain/dungeon"
)

type stubRand struct{}

func (stubRand) Intn(n int) int { return 0 }

func (stubRand) Float64() float64 { return 0.99 }

// stubGenerator carves the same bordered arena for every depth, with an up
// staircase near one corner and a down staircase near the other.
type stubGenerator struct{}

func (stubGenerator) Generate(depth int) (ports.GeneratedMap, error) {
	const size = 12
	grid := make([][]byte, size)
	for y := range grid {
		grid[y] = make([]byte, size)
		for x := range grid[y] {
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				grid[y][x] = byte(dungeon.TileWall)
			} else {
				grid[y][x] = byte(dungeon.TileFloor)
			}
		}
	}
	grid[2][2] = byte(dungeon.TileStairsUp)
	grid[size-3][size-3] = byte(dungeon.TileStairsDown)
	room := dungeon.Rect{X1: 1, Y1: 1, X2: size - 1, Y2: size - 1}
	return ports.GeneratedMap{Grid: grid, Rooms: []dungeon.Rect{room}}, nil
}

type stubSpawner struct {
	roster []*dungeon.Actor
}

func (s stubSpawner) Spawn(depth int, playerPos dungeon.Position) ([]*dungeon.Actor, error) {
	return s.roster, nil
}

var errNoFixture = errors.New("no fixture template")

type fixtureTemplates struct {
	traps map[string]dungeon.TrapDef
}

func (f fixtureTemplates) Trap(id string) (dungeon.TrapDef, error) {
	if def, ok := f.traps[id]; ok {
		return def, nil
	}
	return dungeon.TrapDef{}, errNoFixture
}

func (f fixtureTemplates) Chest(id string) (dungeon.ChestDef, error) {
	return dungeon.ChestDef{}, errNoFixture
}

func (f fixtureTemplates) Monster(id string) (dungeon.MonsterDef, error) {
	return dungeon.MonsterDef{}, errNoFixture
}

func (f fixtureTemplates) Traps() []dungeon.TrapDef { return nil }

func (f fixtureTemplates) Chests() []dungeon.ChestDef { return nil }
