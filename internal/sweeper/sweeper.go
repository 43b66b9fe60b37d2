// Package sweeper drives the periodic reconciliation that auto-completes
// approved bookings whose window has closed and frees their vehicles.
// The sweep itself is idempotent, so overlapping runs and manual
// completions are harmless.
package sweeper

import (
	"context"
	"time"

	"github.com/fleetops/vehicle-booking/internal/clock"
	"github.com/fleetops/vehicle-booking/internal/service"
	"github.com/sirupsen/logrus"
)

type Sweeper struct {
	svc      service.BookingService
	clock    clock.Clock
	interval time.Duration
	log      *logrus.Logger
}

func New(svc service.BookingService, clk clock.Clock, interval time.Duration, log *logrus.Logger) *Sweeper {
	return &Sweeper{svc: svc, clock: clk, interval: interval, log: log}
}

// Start runs the sweep loop until ctx is cancelled.
func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				s.log.Info("sweeper: stopping")
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *Sweeper) runOnce(ctx context.Context) {
	completed, err := s.svc.SweepExpiredBookings(ctx, s.clock.Now())
	if err != nil {
		s.log.WithError(err).Error("sweeper: sweep failed")
		return
	}
	if len(completed) > 0 {
		s.log.WithField("count", len(completed)).Info("sweeper: auto-completed expired bookings")
	}
}
