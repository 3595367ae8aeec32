package recall

import (
	"errors"

	"emberdelve/internal/app/depthcache"
	"emberdelve/internal/app/ports"
	"emberdelve/internal/domain/dungeon"
)

type stubRand struct{}

func (stubRand) Intn(n int) int { return 0 }

func (stubRand) Float64() float64 { return 0.99 }

// stubGenerator carves the same small arena for every depth: bordered floor
// with an up staircase near one corner and a down staircase near the other.
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

var errNoFixture = errors.New("no fixture template")

type emptyTemplates struct{}

func (emptyTemplates) Trap(id string) (dungeon.TrapDef, error) {
	return dungeon.TrapDef{}, errNoFixture
}

func (emptyTemplates) Chest(id string) (dungeon.ChestDef, error) {
	return dungeon.ChestDef{}, errNoFixture
}

func (emptyTemplates) Monster(id string) (dungeon.MonsterDef, error) {
	return dungeon.MonsterDef{}, errNoFixture
}

func (emptyTemplates) Traps() []dungeon.TrapDef { return nil }

func (emptyTemplates) Chests() []dungeon.ChestDef { return nil }

func newTestCache() *depthcache.Cache {
	return depthcache.NewCache(stubGenerator{}, nil, emptyTemplates{}, stubRand{})
}
