package simulator

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// Coordinator turns an operator interrupt into cooperative cancellation and
// enforces a bounded grace period: workers that do not drain in time take the
// whole process down with a non-zero exit.
type Coordinator struct {
	grace   time.Duration
	log     *zap.SugaredLogger
	signals chan os.Signal
	exit    func(int)
}

func NewCoordinator(grace time.Duration, log *zap.SugaredLogger) *Coordinator {
	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)

	return &Coordinator{
		grace:   grace,
		log:     log,
		signals: signals,
		exit:    os.Exit,
	}
}

// Wait blocks until done closes (workers finished on their own) or an
// interrupt arrives. On interrupt it cancels the run context and races the
// draining workers against the grace timer; if the timer fires first the
// process is terminated immediately.
func (c *Coordinator) Wait(cancel context.CancelFunc, done <-chan struct{}) {
	defer signal.Stop(c.signals)

	select {
	case <-done:
		return
	case <-c.signals:
		c.log.Infof("waiting at most %s for workers to shut down...", c.grace)
		cancel()

		timer := time.NewTimer(c.grace)
		defer timer.Stop()

		select {
		case <-done:
			c.log.Info("shutting down gracefully")
		case <-timer.C:
			c.log.Info("grace period has passed, killing workers")
			c.exit(1)
		}
	}
}
