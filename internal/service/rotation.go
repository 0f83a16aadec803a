package service

import (
	"context"
	"math/rand/v2"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"riddleward/internal/models"
	"riddleward/internal/repository"
)

// RotationService picks the riddle to present next: round-robin without
// repeats within a cycle, uniform random within the remaining set.
type RotationService struct {
	Repo   repository.Repository
	Logger *zap.Logger
}

// SelectNext rotates to a fresh riddle. The whole pick runs in one
// transaction with the candidate rows locked, so concurrent calls serialize
// instead of double-marking. Win state (is_first) is untouched here; only the
// transient is_current marker is cleared wholesale.
func (s *RotationService) SelectNext(ctx context.Context) (*models.Riddle, error) {
	var chosen *models.Riddle
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.ClearCurrentTx(ctx, tx); err != nil {
			return err
		}

		candidates, err := s.Repo.ListUnaskedTx(ctx, tx)
		if err != nil {
			return err
		}
		if len(candidates) == 0 {
			// End of cycle: everything has been asked, start over.
			if err := s.Repo.ResetCycleTx(ctx, tx); err != nil {
				return err
			}
			candidates, err = s.Repo.ListUnaskedTx(ctx, tx)
			if err != nil {
				return err
			}
			if len(candidates) > 0 && s.Logger != nil {
				s.Logger.Info("riddle cycle reset", zap.Int("riddles", len(candidates)))
			}
		}
		if len(candidates) == 0 {
			return ErrNoRiddles
		}

		pick := candidates[rand.IntN(len(candidates))]
		if err := s.Repo.MarkAskedTx(ctx, tx, pick.ID); err != nil {
			return err
		}
		pick.IsAsked = true
		pick.IsCurrent = true
		chosen = &pick
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("riddle selected", zap.Uint64("riddle_id", chosen.ID), zap.String("type", chosen.Type))
	}
	return chosen, nil
}
