package gormrepo

import (
	"context"
	"errors"

	"emberdelve/internal/adapter/repo/gorm/model"
	"emberdelve/internal/app/ports"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SaveRepo struct {
	db *gorm.DB
}

func NewSaveRepo(db *gorm.DB) SaveRepo {
	return SaveRepo{db: db}
}

func (r SaveRepo) GetByHeroID(ctx context.Context, heroID string) (ports.SaveRecord, error) {
	var m model.GameSave
	if err := dbFor(ctx, r.db).Where("hero_id = ?", heroID).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ports.SaveRecord{}, ports.ErrNotFound
		}
		return ports.SaveRecord{}, err
	}
	return ports.SaveRecord{
		HeroID:  m.HeroID,
		Payload: m.Payload,
		SavedAt: m.SavedAt,
	}, nil
}

func (r SaveRepo) Put(ctx context.Context, record ports.SaveRecord) error {
	row := model.GameSave{
		HeroID:  record.HeroID,
		Payload: record.Payload,
		SavedAt: record.SavedAt,
	}
	return dbFor(ctx, r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "hero_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "saved_at"}),
		}).
		Create(&row).Error
}
