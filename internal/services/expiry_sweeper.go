// internal/services/expiry_sweeper.go
package services

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

type expirySweep interface {
	SweepExpired(ctx context.Context) (int64, error)
}

type expiryDigest interface {
	NotifyExpiringStock(ctx context.Context, days int) (int, error)
}

// ExpirySweeper periodically marks expired inventory unavailable.
type ExpirySweeper struct {
	inventory expirySweep
	interval  time.Duration
	log       *logrus.Entry

	digest     expiryDigest
	digestDays int

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewExpirySweeper(inventory expirySweep, interval time.Duration) *ExpirySweeper {
	if interval <= 0 {
		interval = time.Hour
	}
	return &ExpirySweeper{
		inventory: inventory,
		interval:  interval,
		log:       logrus.WithField("component", "expiry_sweeper"),
	}
}

// Start runs one sweep immediately and then one per interval until Stop or
// ctx is done.
func (s *ExpirySweeper) Start(ctx context.Context) {
	ctx, s.cancel = context.WithCancel(ctx)
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		s.sweep(ctx)
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.sweep(ctx)
			}
		}
	}()
}

func (s *ExpirySweeper) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

// WithDigest also sends owners a digest of stock expiring within days
// after every sweep. Must be called before Start.
func (s *ExpirySweeper) WithDigest(digest expiryDigest, days int) *ExpirySweeper {
	s.digest, s.digestDays = digest, days
	return s
}

func (s *ExpirySweeper) sweep(ctx context.Context) {
	n, err := s.inventory.SweepExpired(ctx)
	if err != nil {
		if ctx.Err() == nil {
			s.log.WithError(err).Error("Expiry sweep failed")
		}
		return
	}
	s.log.WithField("updated", n).Debug("Expiry sweep finished")

	if s.digest == nil {
		return
	}
	notified, err := s.digest.NotifyExpiringStock(ctx, s.digestDays)
	if err != nil {
		if ctx.Err() == nil {
			s.log.WithError(err).Error("Expiry digest failed")
		}
		return
	}
	if notified > 0 {
		s.log.WithField("owners", notified).Info("Sent expiry digests")
	}
}
