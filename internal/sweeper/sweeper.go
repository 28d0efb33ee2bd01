// Package sweeper deletes files whose expiration records are due.
package sweeper

import (
	"context"
	"fmt"
	"os"
	"time"

	"xattr_sweeper/internal/store"

	"go.uber.org/zap"
)

// Store is the sweeper's view of the expiration store.
type Store interface {
	ListDue(now int64) ([]store.Record, error)
	Delete(path string) error
}

// Sweeper periodically removes due files and their records.
type Sweeper struct {
	store    Store
	interval time.Duration
	logger   *zap.Logger

	// now and remove are injectable for deterministic tests.
	now    func() time.Time
	remove func(path string) error
}

// New creates a Sweeper polling the store every interval.
func New(st Store, interval time.Duration, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		store:    st,
		interval: interval,
		logger:   logger,
		now:      time.Now,
		remove:   os.Remove,
	}
}

// Run ticks on the fixed interval until the context is cancelled.
// A failed tick is logged and the next tick proceeds normally.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := s.Tick(s.now().Unix()); err != nil {
				s.logger.Error("sweep failed", zap.Error(err))
			}
		}
	}
}

// Tick sweeps every record due at now. The record is disposed of whether
// or not the file removal succeeds: a path that is already gone, not
// removable, or no longer a plain file gets a warning instead of being
// retried forever.
func (s *Sweeper) Tick(now int64) error {
	due, err := s.store.ListDue(now)
	if err != nil {
		return fmt.Errorf("listing due records: %w", err)
	}

	for _, rec := range due {
		if err := s.remove(rec.Path); err != nil {
			s.logger.Warn("removing expired file",
				zap.String("path", rec.Path),
				zap.Error(err))
		} else {
			s.logger.Info("removed expired file",
				zap.String("path", rec.Path),
				zap.Int64("expire_at", rec.ExpireAt))
		}

		if err := s.store.Delete(rec.Path); err != nil {
			return fmt.Errorf("deleting record for %s: %w", rec.Path, err)
		}
	}

	return nil
}
