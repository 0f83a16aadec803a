package service

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"riddleward/internal/repository"
)

type AnswerOutcome int

const (
	// AnswerIncorrect: submitted text does not match; riddle state unchanged.
	AnswerIncorrect AnswerOutcome = iota
	// AnswerAlreadyWon: correct but somebody else was first.
	AnswerAlreadyWon
	// AnswerFirstCorrect: correct and this submission flipped is_first.
	AnswerFirstCorrect
)

// AnswerService verifies submitted answers and records the first correct
// responder per riddle.
type AnswerService struct {
	Repo   repository.Repository
	Logger *zap.Logger

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Check compares the submission against the canonical answer. Matching is
// case-insensitive and ignores surrounding whitespace; no fuzzy matching.
// Repeated incorrect or late submissions are idempotent. The first-correct
// flip goes through a compare-and-set, so at most one caller ever observes
// AnswerFirstCorrect for a riddle, regardless of concurrency.
func (s *AnswerService) Check(ctx context.Context, riddleID uint64, submitted string) (AnswerOutcome, error) {
	if riddleID == 0 || strings.TrimSpace(submitted) == "" {
		return 0, ErrMissingParams
	}

	riddle, err := s.Repo.GetRiddleByID(ctx, riddleID)
	if err != nil {
		return 0, err
	}
	if riddle == nil {
		return 0, ErrRiddleNotFound
	}
	if !riddle.IsAsked {
		return 0, ErrRiddleNotAsked
	}

	canonical, err := s.Repo.FirstAnswerByRiddleID(ctx, riddleID)
	if err != nil {
		return 0, err
	}
	if canonical == nil {
		return 0, ErrAnswerNotFound
	}

	if !answersMatch(canonical.Answer, submitted) {
		return AnswerIncorrect, nil
	}
	if riddle.IsFirst {
		return AnswerAlreadyWon, nil
	}

	flipped, err := s.Repo.MarkFirstCorrect(ctx, riddleID, s.now())
	if err != nil {
		return 0, err
	}
	if !flipped {
		// Lost the race to a concurrent correct submission.
		return AnswerAlreadyWon, nil
	}

	if s.Logger != nil {
		s.Logger.Info("first correct answer recorded", zap.Uint64("riddle_id", riddleID))
	}
	return AnswerFirstCorrect, nil
}

func answersMatch(canonical, submitted string) bool {
	return strings.EqualFold(strings.TrimSpace(canonical), strings.TrimSpace(submitted))
}

func (s *AnswerService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
