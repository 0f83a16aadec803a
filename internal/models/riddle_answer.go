package models

import (
	"time"
)

// RiddleAnswer is the canonical answer text for a riddle. Immutable once
// seeded; lookups take the first row for a riddle.
type RiddleAnswer struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	RiddleID uint64 `gorm:"not null;index"`
	Answer   string `gorm:"type:text;not null"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime"`
}

func (RiddleAnswer) TableName() string {
	return "riddle_answers"
}
