package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"riddleward/internal/repository"
)

// OpsReporter periodically logs grant and abuse counters for monitoring.
// Scheduled from main via cron; read-only.
type OpsReporter struct {
	Repo   repository.Repository
	Logger *zap.Logger

	Now func() time.Time
}

func (r *OpsReporter) Report(ctx context.Context) error {
	now := time.Now().UTC()
	if r.Now != nil {
		now = r.Now()
	}

	dayStart, dayEnd := utcDayBounds(now)
	grantedToday, err := r.Repo.SumWinnerTokensBetween(ctx, dayStart, dayEnd)
	if err != nil {
		return err
	}
	denials, err := r.Repo.CountScammersSince(ctx, now.Add(-24*time.Hour))
	if err != nil {
		return err
	}

	if r.Logger != nil {
		r.Logger.Info("reward activity report",
			zap.Int64("granted_today", grantedToday),
			zap.Int64("denials_24h", denials),
		)
	}
	return nil
}
