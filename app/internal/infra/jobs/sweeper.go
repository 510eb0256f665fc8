// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"example.com/localspark/app/internal/infra/metrics"
)

type CartSweeper interface {
	DeleteGuestItemsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type FavoriteSweeper interface {
	DeleteGuestFavoritesBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type SessionPurger interface {
	PurgeExpired(ctx context.Context) (int, error)
}

// Sweeper removes guest data that outlived its session. Sessions is nil when
// the session store expires keys on its own (Redis).
type Sweeper struct {
	Carts     CartSweeper
	Favorites FavoriteSweeper
	Sessions  SessionPurger
	MaxAge    time.Duration
	Logger    *zap.Logger

	now func() time.Time
}

type SweepResult struct {
	CartItems int64
	Favorites int64
	Sessions  int
}

func (s *Sweeper) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func (s *Sweeper) Run(ctx context.Context) (SweepResult, error) {
	var res SweepResult
	var errs []error
	cutoff := s.clock().Add(-s.MaxAge)

	if s.Carts != nil {
		n, err := s.Carts.DeleteGuestItemsBefore(ctx, cutoff)
		if err != nil {
			errs = append(errs, err)
		}
		res.CartItems = n
		metrics.RecordSweep("cart_items", n)
	}
	if s.Favorites != nil {
		n, err := s.Favorites.DeleteGuestFavoritesBefore(ctx, cutoff)
		if err != nil {
			errs = append(errs, err)
		}
		res.Favorites = n
		metrics.RecordSweep("favorites", n)
	}
	if s.Sessions != nil {
		n, err := s.Sessions.PurgeExpired(ctx)
		if err != nil {
			errs = append(errs, err)
		}
		res.Sessions = n
		metrics.RecordSweep("sessions", int64(n))
	}

	if s.Logger != nil {
		s.Logger.Info("guest sweep finished",
			zap.Int64("cart_items", res.CartItems),
			zap.Int64("favorites", res.Favorites),
			zap.Int("sessions", res.Sessions),
		)
	}
	return res, errors.Join(errs...)
}
