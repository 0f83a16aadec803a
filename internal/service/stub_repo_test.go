package service

import (
	"context"
	"sync"
	"time"

	"gorm.io/gorm"

	"riddleward/internal/models"
	"riddleward/internal/repository"
)

// stubRepo is a test-only in-memory implementation of repository.Repository.
// Mutations are serialized by a mutex so the concurrency tests exercise the
// same at-most-once guarantees the SQL store provides via CAS updates.
type stubRepo struct {
	mu       sync.Mutex
	riddles  []models.Riddle
	answers  []models.RiddleAnswer
	winners  []models.RiddleWinner
	scammers []models.RiddleScammer

	nextID uint64
}

var _ repository.Repository = (*stubRepo)(nil)

func (s *stubRepo) InTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

func (s *stubRepo) ClearCurrentTx(ctx context.Context, tx *gorm.DB) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.riddles {
		s.riddles[i].IsCurrent = false
	}
	return nil
}

func (s *stubRepo) ListUnaskedTx(ctx context.Context, tx *gorm.DB) ([]models.Riddle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Riddle
	for _, r := range s.riddles {
		if !r.IsAsked {
			out = append(out, r)
		}
	}
	return out, nil
}

func (s *stubRepo) ResetCycleTx(ctx context.Context, tx *gorm.DB) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.riddles {
		s.riddles[i].IsAsked = false
	}
	return nil
}

func (s *stubRepo) MarkAskedTx(ctx context.Context, tx *gorm.DB, id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.riddles {
		if s.riddles[i].ID == id {
			s.riddles[i].IsAsked = true
			s.riddles[i].IsCurrent = true
		}
	}
	return nil
}

func (s *stubRepo) GetRiddleByID(ctx context.Context, id uint64) (*models.Riddle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.riddles {
		if r.ID == id {
			copied := r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) FirstAnswerByRiddleID(ctx context.Context, riddleID uint64) (*models.RiddleAnswer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.answers {
		if a.RiddleID == riddleID {
			copied := a
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *stubRepo) MarkFirstCorrect(ctx context.Context, id uint64, answeredAt time.Time) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.riddles {
		if s.riddles[i].ID == id && !s.riddles[i].IsFirst {
			s.riddles[i].IsFirst = true
			at := answeredAt
			s.riddles[i].AnswerTime = &at
			return true, nil
		}
	}
	return false, nil
}

func (s *stubRepo) AcquireGrantLockTx(ctx context.Context, tx *gorm.DB) error {
	return nil
}

func (s *stubRepo) SumWinnerTokensBetweenTx(ctx context.Context, tx *gorm.DB, from, to time.Time) (int64, error) {
	return s.SumWinnerTokensBetween(ctx, from, to)
}

func (s *stubRepo) SumWinnerTokensBetween(ctx context.Context, from, to time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total int64
	for _, w := range s.winners {
		if !w.CreatedAt.Before(from) && w.CreatedAt.Before(to) {
			total += w.TokenAmount
		}
	}
	return total, nil
}

func (s *stubRepo) SecondLatestWinnerTx(ctx context.Context, tx *gorm.DB) (*models.RiddleWinner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.winners) < 2 {
		return nil, nil
	}
	sorted := make([]models.RiddleWinner, len(s.winners))
	copy(sorted, s.winners)
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if sorted[j].CreatedAt.After(sorted[i].CreatedAt) {
				sorted[i], sorted[j] = sorted[j], sorted[i]
			}
		}
	}
	copied := sorted[1]
	return &copied, nil
}

func (s *stubRepo) InsertWinnerTx(ctx context.Context, tx *gorm.DB, item *models.RiddleWinner) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = s.nextID
	s.winners = append(s.winners, *item)
	return nil
}

func (s *stubRepo) InsertScammer(ctx context.Context, item *models.RiddleScammer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	item.ID = s.nextID
	s.scammers = append(s.scammers, *item)
	return nil
}

func (s *stubRepo) CreateRiddle(ctx context.Context, riddle *models.Riddle, answer *models.RiddleAnswer) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	riddle.ID = s.nextID
	s.riddles = append(s.riddles, *riddle)
	if answer != nil {
		s.nextID++
		answer.ID = s.nextID
		answer.RiddleID = riddle.ID
		s.answers = append(s.answers, *answer)
	}
	return nil
}

func (s *stubRepo) ListRiddles(ctx context.Context, params repository.ListRiddlesParams) ([]models.Riddle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.Riddle, len(s.riddles))
	copy(out, s.riddles)
	return out, nil
}

func (s *stubRepo) CountRiddles(ctx context.Context, params repository.ListRiddlesParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.riddles)), nil
}

func (s *stubRepo) ListWinners(ctx context.Context, params repository.ListLedgerParams) ([]models.RiddleWinner, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.RiddleWinner, len(s.winners))
	copy(out, s.winners)
	return out, nil
}

func (s *stubRepo) CountWinners(ctx context.Context, params repository.ListLedgerParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.winners)), nil
}

func (s *stubRepo) ListScammers(ctx context.Context, params repository.ListLedgerParams) ([]models.RiddleScammer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]models.RiddleScammer, len(s.scammers))
	copy(out, s.scammers)
	return out, nil
}

func (s *stubRepo) CountScammers(ctx context.Context, params repository.ListLedgerParams) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.scammers)), nil
}

func (s *stubRepo) CountScammersSince(ctx context.Context, since time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, sc := range s.scammers {
		if !sc.CreatedAt.Before(since) {
			count++
		}
	}
	return count, nil
}

func (s *stubRepo) addRiddle(question string, asked, first bool) uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.riddles = append(s.riddles, models.Riddle{
		ID:       s.nextID,
		Question: question,
		IsAsked:  asked,
		IsFirst:  first,
	})
	return s.nextID
}

func (s *stubRepo) addAnswer(riddleID uint64, text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.answers = append(s.answers, models.RiddleAnswer{
		ID:       s.nextID,
		RiddleID: riddleID,
		Answer:   text,
	})
}

func (s *stubRepo) addWinner(wallet string, amount int64, createdAt time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	s.winners = append(s.winners, models.RiddleWinner{
		ID:            s.nextID,
		WalletAddress: wallet,
		TokenAmount:   amount,
		CreatedAt:     createdAt,
	})
}

func (s *stubRepo) riddleByID(id uint64) models.Riddle {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.riddles {
		if r.ID == id {
			return r
		}
	}
	return models.Riddle{}
}
