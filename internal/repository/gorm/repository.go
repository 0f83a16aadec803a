package gormrepository

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"riddleward/internal/models"
	"riddleward/internal/repository"
)

// grantLockKey is the advisory lock key shared by all grant transactions.
const grantLockKey int64 = 0x52574152 // "RWAR"

type Store struct {
	db *gorm.DB
}

var _ repository.Repository = (*Store)(nil)

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

func (s *Store) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(fn)
}

// --- rotation ---------------------------------------------------------------

func (s *Store) ClearCurrentTx(ctx context.Context, tx *gorm.DB) error {
	if tx == nil {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&models.Riddle{}).
		Where("is_current = ?", true).
		Update("is_current", false).Error
}

func (s *Store) ListUnaskedTx(ctx context.Context, tx *gorm.DB) ([]models.Riddle, error) {
	if tx == nil {
		return nil, nil
	}
	var items []models.Riddle
	if err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("is_asked = ?", false).
		Order("id asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) ResetCycleTx(ctx context.Context, tx *gorm.DB) error {
	if tx == nil {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&models.Riddle{}).
		Where("is_asked = ?", true).
		Update("is_asked", false).Error
}

func (s *Store) MarkAskedTx(ctx context.Context, tx *gorm.DB, id uint64) error {
	if tx == nil {
		return nil
	}
	return tx.WithContext(ctx).
		Model(&models.Riddle{}).
		Where("id = ?", id).
		Updates(map[string]any{"is_asked": true, "is_current": true}).Error
}

// --- answer verification ----------------------------------------------------

func (s *Store) GetRiddleByID(ctx context.Context, id uint64) (*models.Riddle, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.Riddle
	err := s.db.WithContext(ctx).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

func (s *Store) FirstAnswerByRiddleID(ctx context.Context, riddleID uint64) (*models.RiddleAnswer, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	var item models.RiddleAnswer
	err := s.db.WithContext(ctx).
		Where("riddle_id = ?", riddleID).
		Order("id asc").
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// MarkFirstCorrect flips is_first exactly once per riddle. The WHERE guard
// makes concurrent first-correct submissions race safely: one update wins,
// the rest see zero rows affected.
func (s *Store) MarkFirstCorrect(ctx context.Context, id uint64, answeredAt time.Time) (bool, error) {
	if s == nil || s.db == nil {
		return false, nil
	}
	res := s.db.WithContext(ctx).
		Model(&models.Riddle{}).
		Where("id = ? AND is_first = ?", id, false).
		Updates(map[string]any{"is_first": true, "answer_time": answeredAt})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// --- reward grant -----------------------------------------------------------

func (s *Store) AcquireGrantLockTx(ctx context.Context, tx *gorm.DB) error {
	if tx == nil {
		return nil
	}
	return tx.WithContext(ctx).Exec("SELECT pg_advisory_xact_lock(?)", grantLockKey).Error
}

func (s *Store) SumWinnerTokensBetweenTx(ctx context.Context, tx *gorm.DB, from, to time.Time) (int64, error) {
	if tx == nil {
		return 0, nil
	}
	return sumWinnerTokens(tx.WithContext(ctx), from, to)
}

func (s *Store) SumWinnerTokensBetween(ctx context.Context, from, to time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	return sumWinnerTokens(s.db.WithContext(ctx), from, to)
}

func sumWinnerTokens(db *gorm.DB, from, to time.Time) (int64, error) {
	var total int64
	err := db.Model(&models.RiddleWinner{}).
		Select("COALESCE(SUM(token_amount), 0)").
		Where("created_at >= ? AND created_at < ?", from, to).
		Scan(&total).Error
	return total, err
}

func (s *Store) SecondLatestWinnerTx(ctx context.Context, tx *gorm.DB) (*models.RiddleWinner, error) {
	if tx == nil {
		return nil, nil
	}
	var items []models.RiddleWinner
	if err := tx.WithContext(ctx).
		Order("created_at desc").
		Limit(2).
		Find(&items).Error; err != nil {
		return nil, err
	}
	if len(items) < 2 {
		return nil, nil
	}
	return &items[1], nil
}

func (s *Store) InsertWinnerTx(ctx context.Context, tx *gorm.DB, item *models.RiddleWinner) error {
	if tx == nil || item == nil {
		return nil
	}
	return tx.WithContext(ctx).Create(item).Error
}

func (s *Store) InsertScammer(ctx context.Context, item *models.RiddleScammer) error {
	if s == nil || s.db == nil || item == nil {
		return nil
	}
	return s.db.WithContext(ctx).Create(item).Error
}

// --- seeding & audit --------------------------------------------------------

func (s *Store) CreateRiddle(ctx context.Context, riddle *models.Riddle, answer *models.RiddleAnswer) error {
	if s == nil || s.db == nil || riddle == nil {
		return nil
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(riddle).Error; err != nil {
			return err
		}
		if answer == nil {
			return nil
		}
		answer.RiddleID = riddle.ID
		return tx.Create(answer).Error
	})
}

func (s *Store) ListRiddles(ctx context.Context, params repository.ListRiddlesParams) ([]models.Riddle, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := riddleQuery(s.db.WithContext(ctx), params)
	limit := normalizeLimit(params.Limit, 100)
	offset := normalizeOffset(params.Offset)
	var items []models.Riddle
	if err := query.Order("id asc").Limit(limit).Offset(offset).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountRiddles(ctx context.Context, params repository.ListRiddlesParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	if err := riddleQuery(s.db.WithContext(ctx), params).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func riddleQuery(db *gorm.DB, params repository.ListRiddlesParams) *gorm.DB {
	query := db.Model(&models.Riddle{})
	if params.Type != nil && strings.TrimSpace(*params.Type) != "" {
		query = query.Where("type = ?", strings.TrimSpace(*params.Type))
	}
	if params.Asked != nil {
		query = query.Where("is_asked = ?", *params.Asked)
	}
	return query
}

func (s *Store) ListWinners(ctx context.Context, params repository.ListLedgerParams) ([]models.RiddleWinner, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := ledgerQuery(s.db.WithContext(ctx).Model(&models.RiddleWinner{}), params)
	var items []models.RiddleWinner
	if err := query.
		Order("created_at desc").
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountWinners(ctx context.Context, params repository.ListLedgerParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := ledgerQuery(s.db.WithContext(ctx).Model(&models.RiddleWinner{}), params).Count(&count).Error
	return count, err
}

func (s *Store) ListScammers(ctx context.Context, params repository.ListLedgerParams) ([]models.RiddleScammer, error) {
	if s == nil || s.db == nil {
		return nil, nil
	}
	query := ledgerQuery(s.db.WithContext(ctx).Model(&models.RiddleScammer{}), params)
	var items []models.RiddleScammer
	if err := query.
		Order("created_at desc").
		Limit(normalizeLimit(params.Limit, 100)).
		Offset(normalizeOffset(params.Offset)).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (s *Store) CountScammers(ctx context.Context, params repository.ListLedgerParams) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := ledgerQuery(s.db.WithContext(ctx).Model(&models.RiddleScammer{}), params).Count(&count).Error
	return count, err
}

func ledgerQuery(query *gorm.DB, params repository.ListLedgerParams) *gorm.DB {
	if params.Wallet != nil && strings.TrimSpace(*params.Wallet) != "" {
		query = query.Where("wallet_address = ?", strings.TrimSpace(*params.Wallet))
	}
	if params.Since != nil && !params.Since.IsZero() {
		query = query.Where("created_at >= ?", *params.Since)
	}
	return query
}

func (s *Store) CountScammersSince(ctx context.Context, since time.Time) (int64, error) {
	if s == nil || s.db == nil {
		return 0, nil
	}
	var count int64
	err := s.db.WithContext(ctx).
		Model(&models.RiddleScammer{}).
		Where("created_at >= ?", since).
		Count(&count).Error
	return count, err
}

func normalizeLimit(limit, fallback int) int {
	if limit <= 0 {
		return fallback
	}
	if limit > 1000 {
		return 1000
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
