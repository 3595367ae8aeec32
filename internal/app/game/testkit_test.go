package game

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"emberdelve/internal/app/ports"
	"emberdelve/internal/domain/dungeon"
)

type stubRand struct{}

func (stubRand) Intn(n int) int { return 0 }

func (stubRand) Float64() float64 { return 0.99 }

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

type fakeSaveRepo struct {
	mu   sync.Mutex
	recs map[string]ports.SaveRecord
}

func (r *fakeSaveRepo) GetByHeroID(ctx context.Context, heroID string) (ports.SaveRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rec, ok := r.recs[heroID]
	if !ok {
		return ports.SaveRecord{}, ports.ErrNotFound
	}
	return rec, nil
}

func (r *fakeSaveRepo) Put(ctx context.Context, rec ports.SaveRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.recs == nil {
		r.recs = map[string]ports.SaveRecord{}
	}
	r.recs[rec.HeroID] = rec
	return nil
}

type fakeEventRepo struct {
	mu     sync.Mutex
	events map[string][]ports.TurnEvent
}

func (r *fakeEventRepo) Append(ctx context.Context, heroID string, events []ports.TurnEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = map[string][]ports.TurnEvent{}
	}
	r.events[heroID] = append(r.events[heroID], events...)
	return nil
}

func (r *fakeEventRepo) ListByHeroID(ctx context.Context, heroID string, limit int) ([]ports.TurnEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	stored := r.events[heroID]
	if len(stored) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make([]ports.TurnEvent, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, stored[i])
	}
	return out, nil
}

func newTestUseCase() (*UseCase, *fakeSaveRepo, *fakeEventRepo) {
	saves := &fakeSaveRepo{}
	events := &fakeEventRepo{}
	uc := &UseCase{
		Templates: emptyTemplates{},
		MapGen:    stubGenerator{},
		Rand:      stubRand{},
		SaveRepo:  saves,
		EventRepo: events,
		Logger:    log.New(io.Discard, "", 0),
		Now:       func() time.Time { return time.Unix(1700000000, 0) },
	}
	return uc, saves, events
}
