package stub

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
)

// refreshTokenMaxAge bounds how long an unused refresh token stays redeemable
const refreshTokenMaxAge = 30 * 24 * time.Hour

// nextSweep calculates the next run time from a cron expression
func nextSweep(cronExpr string, from time.Time) *time.Time {
	if cronExpr == "" {
		return nil
	}

	// Standard 5-field format: minute hour day-of-month month day-of-week
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(cronExpr)
	if err != nil {
		return nil
	}

	next := schedule.Next(from)
	return &next
}

// sweepRefreshTokens deletes revoked refresh tokens and those older than maxAge
func sweepRefreshTokens(db *gorm.DB, now time.Time, maxAge time.Duration) (int64, error) {
	res := db.Where("revoked = ? OR created_at < ?", true, now.Add(-maxAge)).Delete(&RefreshToken{})
	return res.RowsAffected, res.Error
}

// runTokenSweeper checks once a minute whether a sweep is due, until ctx is done
func runTokenSweeper(ctx context.Context, db *gorm.DB, cronExpr string, logger zerolog.Logger) {
	next := nextSweep(cronExpr, time.Now())
	if next == nil {
		logger.Warn().Str("schedule", cronExpr).Msg("Token sweep disabled: invalid or empty schedule")
		return
	}

	ticker := time.NewTicker(1 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Before(*next) {
				continue
			}

			deleted, err := sweepRefreshTokens(db, now, refreshTokenMaxAge)
			if err != nil {
				logger.Error().Err(err).Msg("Failed to sweep refresh tokens")
			} else {
				logger.Info().Int64("deleted", deleted).Msg("Swept refresh tokens")
			}

			next = nextSweep(cronExpr, now)
			logger.Debug().Time("next_sweep_at", *next).Msg("Scheduled next token sweep")
		}
	}
}
