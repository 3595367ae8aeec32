// Package simple carves rectangular rooms joined by L-shaped corridors.
// It is deliberately unclever; the simulation above it does not care how
// the map was made.
package simple

import (
	"fmt"

	"emberdelve/internal/app/ports"
	"emberdelve/internal/domain/dungeon"
)

const (
	mapWidth  = 80
	mapHeight = 40

	maxRooms    = 12
	roomMinSize = 4
	roomMaxSize = 10

	doorChance       = 0.1
	secretDoorChance = 0.15
)

type Generator struct {
	rng ports.RandomSource
}

func NewGenerator(rng ports.RandomSource) *Generator {
	return &Generator{rng: rng}
}

// Generate carves a floor for the depth. Depth 0 is the surface camp: one
// open yard with the descent in the middle. Everything below is rooms and
// corridors with both staircases placed.
func (g *Generator) Generate(depth int) (ports.GeneratedMap, error) {
	grid := make([][]byte, mapHeight)
	for y := range grid {
		grid[y] = make([]byte, mapWidth)
		for x := range grid[y] {
			grid[y][x] = byte(dungeon.TileWall)
		}
	}

	if depth <= 0 {
		yard := dungeon.Rect{X1: mapWidth/2 - 8, Y1: mapHeight/2 - 5, X2: mapWidth/2 + 8, Y2: mapHeight/2 + 5}
		carveRoom(grid, yard)
		center := yard.Center()
		grid[center.Y][center.X] = byte(dungeon.TileStairsDown)
		return ports.GeneratedMap{Grid: grid, Rooms: []dungeon.Rect{yard}}, nil
	}

	var rooms []dungeon.Rect
	for i := 0; i < maxRooms; i++ {
		w := roomMinSize + g.rng.Intn(roomMaxSize-roomMinSize+1)
		h := roomMinSize + g.rng.Intn(roomMaxSize-roomMinSize+1)
		x := 1 + g.rng.Intn(mapWidth-w-2)
		y := 1 + g.rng.Intn(mapHeight-h-2)
		room := dungeon.Rect{X1: x, Y1: y, X2: x + w, Y2: y + h}

		overlaps := false
		for _, other := range rooms {
			if room.X1 <= other.X2 && room.X2 >= other.X1 && room.Y1 <= other.Y2 && room.Y2 >= other.Y1 {
				overlaps = true
				break
			}
		}
		if overlaps {
			continue
		}

		carveRoom(grid, room)
		if len(rooms) > 0 {
			prev := rooms[len(rooms)-1].Center()
			cur := room.Center()
			g.carveCorridor(grid, prev, cur)
		}
		rooms = append(rooms, room)
	}
	if len(rooms) < 2 {
		return ports.GeneratedMap{}, fmt.Errorf("depth %d: generator produced %d rooms", depth, len(rooms))
	}

	g.addSecretAlcoves(grid, rooms)

	up := rooms[0].Center()
	down := rooms[len(rooms)-1].Center()
	grid[up.Y][up.X] = byte(dungeon.TileStairsUp)
	grid[down.Y][down.X] = byte(dungeon.TileStairsDown)

	return ports.GeneratedMap{Grid: grid, Rooms: rooms}, nil
}

func carveRoom(grid [][]byte, r dungeon.Rect) {
	for y := r.Y1; y < r.Y2; y++ {
		for x := r.X1; x < r.X2; x++ {
			grid[y][x] = byte(dungeon.TileFloor)
		}
	}
}

// carveCorridor digs an L: horizontal leg then vertical, or the other way
// around, chosen at random. Walls adjacent to a room occasionally become
// doors, rarely secret ones.
func (g *Generator) carveCorridor(grid [][]byte, from, to dungeon.Position) {
	corner := dungeon.Position{X: to.X, Y: from.Y}
	if g.rng.Intn(2) == 0 {
		corner = dungeon.Position{X: from.X, Y: to.Y}
	}
	g.carveLine(grid, from, corner)
	g.carveLine(grid, corner, to)
}

func (g *Generator) carveLine(grid [][]byte, from, to dungeon.Position) {
	x, y := from.X, from.Y
	for x != to.X || y != to.Y {
		if x < to.X {
			x++
		} else if x > to.X {
			x--
		} else if y < to.Y {
			y++
		} else {
			y--
		}
		if grid[y][x] != byte(dungeon.TileWall) {
			continue
		}
		tile := byte(dungeon.TileFloor)
		if g.rng.Float64() < doorChance {
			tile = byte(dungeon.TileDoorClosed)
		}
		grid[y][x] = tile
	}
}

// addSecretAlcoves bolts a hidden side chamber onto a few rooms. The alcove
// sits behind a secret door in the room's east wall when there is space.
func (g *Generator) addSecretAlcoves(grid [][]byte, rooms []dungeon.Rect) {
	for _, room := range rooms {
		if g.rng.Float64() >= secretDoorChance {
			continue
		}
		doorX := room.X2
		doorY := (room.Y1 + room.Y2) / 2
		if doorX+3 >= mapWidth-1 || doorY+1 >= mapHeight-1 {
			continue
		}
		clear := true
		for y := doorY - 1; y <= doorY+1 && clear; y++ {
			for x := doorX; x <= doorX+3; x++ {
				if grid[y][x] != byte(dungeon.TileWall) {
					clear = false
					break
				}
			}
		}
		if !clear {
			continue
		}
		grid[doorY][doorX] = byte(dungeon.TileSecretDoor)
		for y := doorY - 1; y <= doorY+1; y++ {
			for x := doorX + 1; x <= doorX+3; x++ {
				grid[y][x] = byte(dungeon.TileFloor)
			}
		}
	}
}
