package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"riddleward/internal/config"
	"riddleward/internal/models"
	"riddleward/internal/repository"
	"riddleward/internal/wallet"
)

// Audit reasons recorded on denied grant attempts.
const (
	DenyReasonDailyCap = "daily_cap"
	DenyReasonCooldown = "cooldown"
)

// RewardService decides grant eligibility and appends the winner ledger.
type RewardService struct {
	Repo   repository.Repository
	Assets wallet.Lookup
	Config config.RewardConfig
	Logger *zap.Logger

	// Now overrides the clock in tests.
	Now func() time.Time
}

// Grant is the outcome of a successful reward decision.
type Grant struct {
	WalletAddress string
	Amount        int64
	Assets        wallet.Assets
}

// Grant evaluates the throttles in fixed order (daily cap, then cooldown),
// computes the tiered reward and appends the winner row. Checks and insert
// share one transaction guarded by an advisory lock, so two concurrent calls
// cannot both pass the cap check before either commits. A denial aborts the
// transaction but still persists its scammer audit row afterwards.
func (s *RewardService) Grant(ctx context.Context, walletAddress string) (*Grant, error) {
	addr := strings.TrimSpace(walletAddress)
	if addr == "" {
		return nil, ErrMissingWallet
	}
	now := s.now()

	var grant *Grant
	err := s.Repo.InTx(ctx, func(tx *gorm.DB) error {
		if err := s.Repo.AcquireGrantLockTx(ctx, tx); err != nil {
			return err
		}

		dayStart, dayEnd := utcDayBounds(now)
		grantedToday, err := s.Repo.SumWinnerTokensBetweenTx(ctx, tx, dayStart, dayEnd)
		if err != nil {
			return err
		}
		// Pre-grant sum: a reward that pushes the total past the cap is
		// still granted; only the next attempt gets denied.
		if grantedToday >= s.Config.DailyCapTokens {
			return ErrDailyCapExceeded
		}

		secondLast, err := s.Repo.SecondLatestWinnerTx(ctx, tx)
		if err != nil {
			return err
		}
		if secondLast != nil && now.Sub(secondLast.CreatedAt) < s.Config.Cooldown {
			return ErrCooldownActive
		}

		assets, err := s.Assets.Assets(ctx, addr)
		if err != nil {
			return err
		}
		amount := s.computeReward(assets)

		snapshot, _ := json.Marshal(assets)
		item := &models.RiddleWinner{
			WalletAddress: addr,
			TokenAmount:   amount,
			Assets:        datatypes.JSON(snapshot),
			CreatedAt:     now,
		}
		if err := s.Repo.InsertWinnerTx(ctx, tx, item); err != nil {
			return err
		}

		grant = &Grant{WalletAddress: addr, Amount: amount, Assets: assets}
		return nil
	})

	switch {
	case errors.Is(err, ErrDailyCapExceeded):
		s.audit(ctx, addr, DenyReasonDailyCap, now)
		return nil, err
	case errors.Is(err, ErrCooldownActive):
		s.audit(ctx, addr, DenyReasonCooldown, now)
		return nil, err
	case err != nil:
		return nil, err
	}

	if s.Logger != nil {
		s.Logger.Info("reward granted",
			zap.String("wallet", grant.WalletAddress),
			zap.Int64("amount", grant.Amount),
			zap.Int64("tokens", grant.Assets.Tokens),
			zap.Int64("nfts", grant.Assets.NFTs),
		)
	}
	return grant, nil
}

func (s *RewardService) computeReward(a wallet.Assets) int64 {
	amount := s.Config.BaseAmount
	switch {
	case a.Tokens > s.Config.TokenThreshold && a.NFTs > s.Config.NFTThreshold:
		amount *= 20
	case a.NFTs > s.Config.NFTThreshold:
		amount *= 10
	case a.Tokens > s.Config.TokenThreshold:
		amount *= 5
	}
	if amount > s.Config.MaxAmount {
		amount = s.Config.MaxAmount
	}
	return amount
}

func (s *RewardService) audit(ctx context.Context, addr, reason string, now time.Time) {
	item := &models.RiddleScammer{
		WalletAddress: addr,
		TokenAmount:   0,
		Reason:        reason,
		CreatedAt:     now,
	}
	if err := s.Repo.InsertScammer(ctx, item); err != nil {
		if s.Logger != nil {
			s.Logger.Error("scammer audit insert failed", zap.String("wallet", addr), zap.Error(err))
		}
		return
	}
	if s.Logger != nil {
		s.Logger.Warn("reward denied", zap.String("wallet", addr), zap.String("reason", reason))
	}
}

func (s *RewardService) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// utcDayBounds returns [midnight, next midnight) for the UTC calendar date
// of t, the window the daily cap aggregates over.
func utcDayBounds(t time.Time) (time.Time, time.Time) {
	t = t.UTC()
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return start, start.Add(24 * time.Hour)
}
