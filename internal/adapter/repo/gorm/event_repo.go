package gormrepo

import (
	"context"

	"emberdelve/internal/adapter/repo/gorm/model"
	"emberdelve/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type EventRepo struct {
	db *gorm.DB
}

func NewEventRepo(db *gorm.DB) EventRepo {
	return EventRepo{db: db}
}

func (r EventRepo) Append(ctx context.Context, heroID string, events []ports.TurnEvent) error {
	if len(events) == 0 {
		return nil
	}
	rows := make([]model.TurnEvent, 0, len(events))
	for _, e := range events {
		rows = append(rows, model.TurnEvent{
			HeroID:     heroID,
			Turn:       e.Turn,
			Depth:      e.Depth,
			Message:    e.Message,
			OccurredAt: e.OccurredAt,
		})
	}
	return dbFor(ctx, r.db).Create(&rows).Error
}

func (r EventRepo) ListByHeroID(ctx context.Context, heroID string, limit int) ([]ports.TurnEvent, error) {
	rows := []model.TurnEvent{}
	query := dbFor(ctx, r.db).
		Where(&model.TurnEvent{HeroID: heroID}).
		Clauses(clause.OrderBy{
			Columns: []clause.OrderByColumn{{Column: clause.Column{Name: "id"}, Desc: true}},
		})
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, ports.ErrNotFound
	}

	out := make([]ports.TurnEvent, 0, len(rows))
	for _, row := range rows {
		out = append(out, ports.TurnEvent{
			HeroID:     row.HeroID,
			Turn:       row.Turn,
			Depth:      row.Depth,
			Message:    row.Message,
			OccurredAt: row.OccurredAt,
		})
	}
	return out, nil
}
