package models

import (
	"time"
)

// RiddleScammer is the append-only audit log of rejected grant attempts.
// TokenAmount stays 0 for blocked attempts.
type RiddleScammer struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	WalletAddress string `gorm:"type:varchar(100);not null;index"`
	TokenAmount   int64  `gorm:"not null"`
	Reason        string `gorm:"type:varchar(20);index"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (RiddleScammer) TableName() string {
	return "riddle_scammers"
}
