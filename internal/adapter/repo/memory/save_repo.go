package memory

import (
	"context"

	"emberdelve/internal/app/ports"
)

type SaveRepo struct {
	store *Store
}

func NewSaveRepo(store *Store) SaveRepo {
	return SaveRepo{store: store}
}

func (r SaveRepo) GetByHeroID(_ context.Context, heroID string) (ports.SaveRecord, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	rec, ok := r.store.saves[heroID]
	if !ok {
		return ports.SaveRecord{}, ports.ErrNotFound
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	return rec, nil
}

func (r SaveRepo) Put(_ context.Context, record ports.SaveRecord) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	record.Payload = append([]byte(nil), record.Payload...)
	r.store.saves[record.HeroID] = record
	return nil
}
