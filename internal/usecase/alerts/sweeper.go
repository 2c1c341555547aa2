package alerts

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper periodically runs a matching pass for every active alert.
// It is an optional driver on top of the request-driven engine; the
// core contract does not depend on it.
type Sweeper struct {
	svc      *Service
	interval time.Duration
	logger   *zap.Logger

	cancel context.CancelFunc
	done   chan struct{}
}

// NewSweeper creates a sweeper. interval must be positive.
func NewSweeper(svc *Service, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{svc: svc, interval: interval, logger: logger}
}

// Start launches the background sweep loop.
func (s *Sweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.done = make(chan struct{})

	go func() {
		defer close(s.done)
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()

	s.logger.Info("sweeper started", zap.Duration("interval", s.interval))
}

// Stop cancels the loop and waits for the in-flight sweep to finish.
func (s *Sweeper) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	select {
	case <-s.done:
	case <-time.After(30 * time.Second):
		s.logger.Warn("timeout waiting for sweeper to stop")
	}
}

func (s *Sweeper) sweep(ctx context.Context) {
	ids, err := s.svc.repo.ListActiveIDs(ctx)
	if err != nil {
		s.logger.Warn("sweep: failed to list active alerts", zap.Error(err))
		return
	}

	for _, id := range ids {
		if ctx.Err() != nil {
			return
		}
		if err := s.svc.SweepAlert(ctx, id); err != nil {
			s.logger.Warn("sweep: matching pass failed",
				zap.String("alert_id", id),
				zap.Error(err),
			)
		}
	}
}
