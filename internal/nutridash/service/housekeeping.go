package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/aussiebroadwan/nutridash/internal/nutridash/store"
)

// HousekeepingService sweeps expired two-factor codes and pending
// authentications on a fixed interval. Login attempts are an audit trail and
// are never swept.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Clock    Clock

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// sweep deletes everything that expired before now and reports how many rows
// went.
type sweep struct {
	name string
	run  func(ctx context.Context, now time.Time) (int64, error)
}

// NewHousekeepingService returns a stopped service. A non-positive interval
// means hourly.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = time.Hour
	}
	return &HousekeepingService{Store: store, Logger: logger, Interval: interval}
}

// Start sweeps once immediately, then on every tick until Stop.
func (s *HousekeepingService) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop(ctx)
	}()
	s.Logger.Info("housekeeping started", "interval", s.Interval)
}

// Stop cancels the loop and waits for a running sweep to return.
func (s *HousekeepingService) Stop() {
	if s.cancel == nil {
		return
	}
	s.cancel()
	s.wg.Wait()
	s.Logger.Info("housekeeping stopped")
}

func (s *HousekeepingService) loop(ctx context.Context) {
	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	for {
		s.Cleanup(ctx)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}

func (s *HousekeepingService) sweeps() []sweep {
	return []sweep{
		{"two_factor_codes", s.Store.TwoFactorCodes().DeleteExpiredTwoFactorCodes},
		{"pending_auths", s.Store.PendingAuths().DeleteExpiredPendingAuths},
	}
}

// Cleanup runs every sweep once. A failing sweep is logged and the rest
// still run.
func (s *HousekeepingService) Cleanup(ctx context.Context) {
	now := nowFrom(s.Clock)

	attrs := make([]any, 0, 4)
	for _, sw := range s.sweeps() {
		n, err := sw.run(ctx, now)
		if err != nil {
			s.Logger.Error("housekeeping sweep failed", "sweep", sw.name, "error", err)
			continue
		}
		attrs = append(attrs, sw.name+"_deleted", n)
	}
	s.Logger.Info("housekeeping sweep completed", attrs...)
}
