package services

import (
	"context"
	"log"
	"time"
)

// ResetExpirer clears password reset tokens that have expired.
type ResetExpirer interface {
	SweepExpired(ctx context.Context) (int64, error)
}

// ResetSweeper periodically returns expired pending resets to the no-reset state.
type ResetSweeper struct {
	resets   ResetExpirer
	interval time.Duration
	stop     chan struct{}
}

func NewResetSweeper(resets ResetExpirer, interval time.Duration) *ResetSweeper {
	return &ResetSweeper{
		resets:   resets,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start launches the sweep loop. A non-positive interval disables it.
func (rs *ResetSweeper) Start() {
	if rs.interval <= 0 {
		return
	}
	ticker := time.NewTicker(rs.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				rs.Sweep()
			case <-rs.stop:
				return
			}
		}
	}()
}

func (rs *ResetSweeper) Stop() {
	close(rs.stop)
}

// Sweep runs one pass and returns the number of cleared reset tokens.
func (rs *ResetSweeper) Sweep() int64 {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := rs.resets.SweepExpired(ctx)
	if err != nil {
		log.Printf("Error clearing expired reset tokens: %v", err)
		return 0
	}
	if n > 0 {
		log.Printf("Cleared %d expired reset tokens", n)
	}
	return n
}
