package service

import (
	"context"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"rentcar/pkg/config"
	"rentcar/pkg/logger"
)

type countingCleaner struct {
	AuthService
	calls atomic.Int64
}

func (c *countingCleaner) CleanupExpired(context.Context) (int64, error) {
	c.calls.Add(1)
	return 0, nil
}

func TestSweeperRunsAndStops(t *testing.T) {
	cfg := &config.Config{
		Log:              logger.New(logger.Config{Output: io.Discard}),
		OTPSweepInterval: 5 * time.Millisecond,
		WriteTimeout:     time.Second,
	}
	cleaner := &countingCleaner{}
	sweeper := NewSweeper(cleaner, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	go sweeper.Run(ctx)

	deadline := time.After(time.Second)
	for cleaner.calls.Load() < 2 {
		select {
		case <-deadline:
			t.Fatal("sweeper never ran")
		case <-time.After(time.Millisecond):
		}
	}

	cancel()
	sweeper.Wait()

	settled := cleaner.calls.Load()
	time.Sleep(20 * time.Millisecond)
	if cleaner.calls.Load() != settled {
		t.Error("sweeper kept running after cancellation")
	}
}
