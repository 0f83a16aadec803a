package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"riddleward/internal/models"
)

type ListRiddlesParams struct {
	Limit  int
	Offset int
	Type   *string
	Asked  *bool
}

type ListLedgerParams struct {
	Limit  int
	Offset int
	Wallet *string
	Since  *time.Time
}

// Repository is the shared persistent store behind the rotator and the
// reward engine. Tx-suffixed methods run against an open transaction and are
// only called from inside InTx; the rest manage their own session.
type Repository interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB) error) error

	// Rotation. ListUnaskedTx locks the returned rows so concurrent
	// rotation picks serialize on the same candidate set.
	ClearCurrentTx(ctx context.Context, tx *gorm.DB) error
	ListUnaskedTx(ctx context.Context, tx *gorm.DB) ([]models.Riddle, error)
	ResetCycleTx(ctx context.Context, tx *gorm.DB) error
	MarkAskedTx(ctx context.Context, tx *gorm.DB, id uint64) error

	// Answer verification. MarkFirstCorrect is a compare-and-set on
	// is_first; it reports whether this call performed the flip.
	GetRiddleByID(ctx context.Context, id uint64) (*models.Riddle, error)
	FirstAnswerByRiddleID(ctx context.Context, riddleID uint64) (*models.RiddleAnswer, error)
	MarkFirstCorrect(ctx context.Context, id uint64, answeredAt time.Time) (bool, error)

	// Reward grant. AcquireGrantLockTx serializes concurrent grant
	// transactions so the cap check and the insert are atomic as a pair.
	AcquireGrantLockTx(ctx context.Context, tx *gorm.DB) error
	SumWinnerTokensBetweenTx(ctx context.Context, tx *gorm.DB, from, to time.Time) (int64, error)
	SecondLatestWinnerTx(ctx context.Context, tx *gorm.DB) (*models.RiddleWinner, error)
	InsertWinnerTx(ctx context.Context, tx *gorm.DB, item *models.RiddleWinner) error
	InsertScammer(ctx context.Context, item *models.RiddleScammer) error

	// Seeding and audit listings.
	CreateRiddle(ctx context.Context, riddle *models.Riddle, answer *models.RiddleAnswer) error
	ListRiddles(ctx context.Context, params ListRiddlesParams) ([]models.Riddle, error)
	CountRiddles(ctx context.Context, params ListRiddlesParams) (int64, error)
	ListWinners(ctx context.Context, params ListLedgerParams) ([]models.RiddleWinner, error)
	CountWinners(ctx context.Context, params ListLedgerParams) (int64, error)
	ListScammers(ctx context.Context, params ListLedgerParams) ([]models.RiddleScammer, error)
	CountScammers(ctx context.Context, params ListLedgerParams) (int64, error)

	// Ops reporting.
	SumWinnerTokensBetween(ctx context.Context, from, to time.Time) (int64, error)
	CountScammersSince(ctx context.Context, since time.Time) (int64, error)
}
