package memory

import (
	"context"

	"emberdelve/internal/app/ports"
)

type EventRepo struct {
	store *Store
}

func NewEventRepo(store *Store) EventRepo {
	return EventRepo{store: store}
}

func (r EventRepo) Append(_ context.Context, heroID string, events []ports.TurnEvent) error {
	if len(events) == 0 {
		return nil
	}
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.events[heroID] = append(r.store.events[heroID], events...)
	return nil
}

func (r EventRepo) ListByHeroID(_ context.Context, heroID string, limit int) ([]ports.TurnEvent, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	all := r.store.events[heroID]
	if len(all) == 0 {
		return nil, ports.ErrNotFound
	}
	out := make([]ports.TurnEvent, 0, len(all))
	for i := len(all) - 1; i >= 0; i-- {
		out = append(out, all[i])
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}
