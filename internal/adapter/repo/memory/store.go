package memory

import (
	"sync"

	"emberdelve/internal/app/ports"
)

type Store struct {
	mu     sync.RWMutex
	saves  map[string]ports.SaveRecord
	events map[string][]ports.TurnEvent
}

func NewStore() *Store {
	return &Store{
		saves:  make(map[string]ports.SaveRecord),
		events: make(map[string][]ports.TurnEvent),
	}
}
