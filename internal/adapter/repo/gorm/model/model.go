// Package model holds the persistence rows. Keep the struct shapes in sync
// with the SQL under migrations/.
package model

import "time"

// GameSave stores the full-save JSON document for one hero. One row per
// hero; saving again overwrites the previous run.
type GameSave struct {
	ID      int64     `gorm:"column:id;primaryKey;autoIncrement"`
	HeroID  string    `gorm:"column:hero_id;uniqueIndex;not null"`
	Payload []byte    `gorm:"column:payload;type:jsonb;not null"`
	SavedAt time.Time `gorm:"column:saved_at;not null"`
}

func (GameSave) TableName() string { return "game_saves" }

// TurnEvent is one appended line of a hero's turn journal.
type TurnEvent struct {
	ID         int64     `gorm:"column:id;primaryKey;autoIncrement"`
	HeroID     string    `gorm:"column:hero_id;index;not null"`
	Turn       int64     `gorm:"column:turn;not null"`
	Depth      int       `gorm:"column:depth;not null"`
	Message    string    `gorm:"column:message;not null"`
	OccurredAt time.Time `gorm:"column:occurred_at;not null"`
}

func (TurnEvent) TableName() string { return "turn_events" }
