package ports

import (
	"context"
	"time"
)

// SaveRecord is a full-save payload at rest: the versioned JSON document
// produced by the depth cache's export, keyed by hero.
type SaveRecord struct {
	HeroID  string
	Payload []byte
	SavedAt time.Time
}

type SaveRepository interface {
	GetByHeroID(ctx context.Context, heroID string) (SaveRecord, error)
	Put(ctx context.Context, record SaveRecord) error
}

// TurnEvent is one entry of the persisted turn journal.
type TurnEvent struct {
	HeroID     string
	Turn       int64
	Depth      int
	Message    string
	OccurredAt time.Time
}

type EventRepository interface {
	Append(ctx context.Context, heroID string, events []TurnEvent) error
	ListByHeroID(ctx context.Context, heroID string, limit int) ([]TurnEvent, error)
}

type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}
