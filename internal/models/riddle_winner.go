package models

import (
	"time"

	"gorm.io/datatypes"
)

// RiddleWinner is one row per successful grant. Append-only; the daily total
// and cooldown window are derived from CreatedAt, never stored.
type RiddleWinner struct {
	ID            uint64 `gorm:"primaryKey;autoIncrement"`
	WalletAddress string `gorm:"type:varchar(100);not null;index"`
	TokenAmount   int64  `gorm:"not null"`

	// Assets is the {tokens, nfts} snapshot the tier was computed from.
	Assets datatypes.JSON `gorm:"type:jsonb"`

	CreatedAt time.Time `gorm:"type:timestamptz;autoCreateTime;index"`
}

func (RiddleWinner) TableName() string {
	return "riddle_winners"
}
