package simulator

import (
	"context"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestCoordinator(grace time.Duration) (*Coordinator, chan os.Signal, *int) {
	signals := make(chan os.Signal, 1)
	exitCode := -1
	coord := &Coordinator{
		grace:   grace,
		log:     testLogger(),
		signals: signals,
		exit:    func(code int) { exitCode = code },
	}
	return coord, signals, &exitCode
}

func TestCoordinatorWorkersFinishWithoutSignal(t *testing.T) {
	coord, _, exitCode := newTestCoordinator(time.Second)
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	close(done)

	coord.Wait(cancel, done)
	assert.Equal(t, -1, *exitCode, "no forced exit when workers finish on their own")
}

func TestCoordinatorGracefulShutdown(t *testing.T) {
	coord, signals, exitCode := newTestCoordinator(5 * time.Second)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		// worker drains as soon as it observes cancellation
		<-ctx.Done()
		close(done)
	}()

	signals <- syscall.SIGINT
	coord.Wait(cancel, done)

	assert.Equal(t, -1, *exitCode, "graceful shutdown must not force-exit")
	select {
	case <-done:
	default:
		t.Fatal("workers never observed cancellation")
	}
}

func TestCoordinatorForcedShutdownAfterGracePeriod(t *testing.T) {
	coord, signals, exitCode := newTestCoordinator(20 * time.Millisecond)
	_, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{}) // worker blocked forever, never closes

	signals <- syscall.SIGINT
	coord.Wait(cancel, done)

	assert.Equal(t, 1, *exitCode, "grace period expiry must force a non-zero exit")
}
