// Command mapview generates one floor and prints it, with hazards overlaid.
// Handy for eyeballing generator changes without booting the server.
package main

import (
	"flag"
	"fmt"
	"log"
	"math/rand"

	"emberdelve/internal/adapter/templates/static"
	"emberdelve/internal/adapter/worldgen/simple"
	"emberdelve/internal/domain/dungeon"
)

func main() {
	var depth int
	var seed int64
	flag.IntVar(&depth, "depth", 1, "depth to generate")
	flag.Int64Var(&seed, "seed", 1, "rng seed")
	flag.Parse()

	templates, err := static.Load()
	if err != nil {
		log.Fatalf("load templates: %v", err)
	}
	rng := rand.New(rand.NewSource(seed))

	gen := simple.NewGenerator(rng)
	m, err := gen.Generate(depth)
	if err != nil {
		log.Fatalf("generate: %v", err)
	}
	w := dungeon.NewWorld(depth, m.Grid, m.Rooms)
	dungeon.PopulateHazards(w, templates, rng)

	for y, row := range w.Grid {
		line := make([]byte, len(row))
		copy(line, row)
		for x := range row {
			pos := dungeon.Position{X: x, Y: y}
			if _, ok := w.Traps[pos]; ok {
				line[x] = '^'
			}
			if _, ok := w.Chests[pos]; ok {
				line[x] = '='
			}
		}
		fmt.Println(string(line))
	}
	fmt.Printf("depth %d: %d rooms, %d traps, %d chests, %d secret doors\n",
		depth, len(w.Rooms), len(w.Traps), len(w.Chests), len(w.SecretDoors))
}
