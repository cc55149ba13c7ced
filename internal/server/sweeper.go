package server

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// Sweeper runs a sweep function on a fixed cadence until stopped. It
// implements Service so the lifecycle manager owns its start and stop.
type Sweeper struct {
	interval time.Duration
	sweep    func(ctx context.Context) error
	logger   *zap.Logger
	stop     chan struct{}
	done     chan struct{}
}

// NewSweeper creates a Sweeper calling sweep every interval.
//
// Precondition: interval must be positive; sweep and logger must be non-nil.
func NewSweeper(interval time.Duration, sweep func(ctx context.Context) error, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		interval: interval,
		sweep:    sweep,
		logger:   logger,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Start blocks, invoking the sweep on every tick, until Stop is called. A
// failing sweep is logged and the ticker keeps going; one bad pass must not
// take the loop down.
func (s *Sweeper) Start() error {
	defer close(s.done)
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return nil
		case <-ticker.C:
			if err := s.sweep(context.Background()); err != nil {
				s.logger.Error("sweep pass failed", zap.Error(err))
			}
		}
	}
}

// Stop terminates the loop and waits for the current pass to finish.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}
