package simple

import (
	"emberdelve/internal/app/ports"
	"emberdelve/internal/domain/dungeon"
)

const (
	spawnBaseCount     = 3
	spawnPerDepth      = 1
	spawnMaxCount      = 12
	spawnMinPlayerDist = 6
)

// MonsterCatalog is the slice of the template store the spawner needs.
type MonsterCatalog interface {
	Monsters() []dungeon.MonsterDef
}

type Spawner struct {
	catalog MonsterCatalog
	rng     ports.RandomSource
}

func NewSpawner(catalog MonsterCatalog, rng ports.RandomSource) *Spawner {
	return &Spawner{catalog: catalog, rng: rng}
}

// Spawn rolls the initial roster for a fresh floor. Candidates are filtered
// to templates at or below the floor's level band, and everything spawns
// asleep and away from the player's landing spot.
func (s *Spawner) Spawn(depth int, playerPos dungeon.Position) ([]*dungeon.Actor, error) {
	if depth <= 0 {
		return nil, nil
	}
	all := s.catalog.Monsters()
	maxLevel := 1 + depth/2
	var pool []dungeon.MonsterDef
	for _, def := range all {
		if def.Level <= maxLevel {
			pool = append(pool, def)
		}
	}
	if len(pool) == 0 {
		return nil, nil
	}

	count := spawnBaseCount + depth*spawnPerDepth
	if count > spawnMaxCount {
		count = spawnMaxCount
	}

	var roster []*dungeon.Actor
	for i := 0; i < count; i++ {
		def := pool[s.rng.Intn(len(pool))]
		pos := dungeon.Position{
			X: 1 + s.rng.Intn(mapWidth-2),
			Y: 1 + s.rng.Intn(mapHeight-2),
		}
		dx := pos.X - playerPos.X
		dy := pos.Y - playerPos.Y
		if dx*dx+dy*dy < spawnMinPlayerDist*spawnMinPlayerDist {
			continue
		}
		m := dungeon.NewMonster(def, pos)
		m.Sleeping = true
		roster = append(roster, m)
	}
	return roster, nil
}
