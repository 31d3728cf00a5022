package service

import (
	"context"
	"time"

	"rentcar/pkg/config"
)

// Sweeper periodically purges expired OTPs. It is owned by main: started
// with a cancellable context and waited on during shutdown, so nothing runs
// off an anonymous process-wide timer.
type Sweeper struct {
	service  AuthService
	interval time.Duration
	cfg      *config.Config
	done     chan struct{}
}

func NewSweeper(service AuthService, cfg *config.Config) *Sweeper {
	return &Sweeper{
		service:  service,
		interval: cfg.OTPSweepInterval,
		cfg:      cfg,
		done:     make(chan struct{}),
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. Sweep
// failures are logged and otherwise ignored; expiry is already enforced at
// lookup time, so missed sweeps cost storage, not correctness.
func (s *Sweeper) Run(ctx context.Context) {
	defer close(s.done)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	s.cfg.Log.Info("OTP sweeper started", "interval", s.interval)
	for {
		select {
		case <-ctx.Done():
			s.cfg.Log.Info("OTP sweeper stopped")
			return
		case <-ticker.C:
			sweepCtx, cancel := context.WithTimeout(context.Background(), s.cfg.WriteTimeout)
			if _, err := s.service.CleanupExpired(sweepCtx); err != nil {
				s.cfg.Log.Warn("OTP sweep failed", "error", err)
			}
			cancel()
		}
	}
}

// Wait blocks until Run has returned.
func (s *Sweeper) Wait() {
	<-s.done
}
