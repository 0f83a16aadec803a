package models

import (
	"time"
)

// Riddle is a seeded puzzle rotated to clients one at a time.
//
// Three flags carry distinct lifecycles and must not be conflated:
//   - IsAsked marks the riddle as presented within the current rotation
//     cycle; a cycle reset clears it on every row.
//   - IsFirst marks that somebody already answered it correctly; it flips
//     false->true at most once and is never reset by rotation.
//   - IsCurrent marks the most recent rotation pick; every rotation call
//     clears it on all rows before choosing.
type Riddle struct {
	ID       uint64 `gorm:"primaryKey;autoIncrement"`
	Type     string `gorm:"type:varchar(50);index"`
	Question string `gorm:"type:text;not null"`

	IsFirst   bool `gorm:"not null;default:false;index"`
	IsAsked   bool `gorm:"not null;default:false;index"`
	IsCurrent bool `gorm:"not null;default:false"`

	AnswerTime *time.Time `gorm:"type:timestamptz"`
	CreatedAt  time.Time  `gorm:"type:timestamptz;autoCreateTime"`
}

func (Riddle) TableName() string {
	return "riddles"
}
