package dungeon

import "errors"

// scriptedRand replays fixed sequences. Intn consumes ints, Float64
// consumes floats; both wrap around when exhausted so long phases keep
// rolling deterministically.
type scriptedRand struct {
	ints   []int
	floats []float64
	i, f   int
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[r.i%len(r.ints)]
	r.i++
	if v >= n {
		v = n - 1
	}
	return v
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[r.f%len(r.floats)]
	r.f++
	return v
}

// openWorld builds a small all-floor arena with one room for tests.
func openWorld(depth, size int) *World {
	grid := make([][]byte, size)
	for y := range grid {
		grid[y] = make([]byte, size)
		for x := range grid[y] {
			if x == 0 || y == 0 || x == size-1 || y == size-1 {
				grid[y][x] = byte(TileWall)
			} else {
				grid[y][x] = byte(TileFloor)
			}
		}
	}
	room := Rect{X1: 1, Y1: 1, X2: size - 1, Y2: size - 1}
	return NewWorld(depth, grid, []Rect{room})
}

var errNotFoundFixture = errors.New("fixture template not found")

// fixtureTemplates is a tiny in-code template store for dispatcher tests.
type fixtureTemplates struct {
	traps    map[string]TrapDef
	chests   map[string]ChestDef
	monsters map[string]MonsterDef
}

func (f fixtureTemplates) Trap(id string) (TrapDef, error) {
	def, ok := f.traps[id]
	if !ok {
		return TrapDef{}, errNotFoundFixture
	}
	return def, nil
}

func (f fixtureTemplates) Chest(id string) (ChestDef, error) {
	def, ok := f.chests[id]
	if !ok {
		return ChestDef{}, errNotFoundFixture
	}
	return def, nil
}

func (f fixtureTemplates) Monster(id string) (MonsterDef, error) {
	def, ok := f.monsters[id]
	if !ok {
		return MonsterDef{}, errNotFoundFixture
	}
	return def, nil
}

func (f fixtureTemplates) Traps() []TrapDef {
	out := make([]TrapDef, 0, len(f.traps))
	for _, def := range f.traps {
		out = append(out, def)
	}
	return out
}

func (f fixtureTemplates) Chests() []ChestDef {
	out := make([]ChestDef, 0, len(f.chests))
	for _, def := range f.chests {
		out = append(out, def)
	}
	return out
}
