// Package ingester filters tracer events into expiration records.
package ingester

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync/atomic"

	"xattr_sweeper/internal/bpf"
	"xattr_sweeper/internal/eventstream"

	"go.uber.org/zap"
)

// MaxExpireAt bounds plausible timestamps. Values past it (around year
// 2242) are treated like any other unparseable value and discarded.
const MaxExpireAt = 1<<33 - 1

// Store is the ingester's view of the expiration store.
type Store interface {
	Upsert(path string, expireAt int64) error
}

// Stats are cumulative ingest counters. Diagnostic only.
type Stats struct {
	// Scheduled counts events that produced or updated a record.
	Scheduled uint64
	// Ignored counts events whose attribute name did not match.
	Ignored uint64
	// Rejected counts matching events with a non-absolute path or an
	// implausible value.
	Rejected uint64
}

// Ingester is the single consumer of the event stream. It upserts an
// expiration record for every event whose attribute name matches the
// reserved key and whose value parses as a plausible epoch timestamp.
type Ingester struct {
	source   eventstream.Source
	store    Store
	attrName string
	logger   *zap.Logger

	scheduled atomic.Uint64
	ignored   atomic.Uint64
	rejected  atomic.Uint64
}

// New creates an Ingester filtering on attrName (e.g. "user.expire_at").
func New(source eventstream.Source, store Store, attrName string, logger *zap.Logger) *Ingester {
	return &Ingester{
		source:   source,
		store:    store,
		attrName: attrName,
		logger:   logger,
	}
}

// Run consumes the source until the context is cancelled or the source
// closes. Malformed events are discarded with a diagnostic; a store error
// fails only the one operation and the loop continues.
func (in *Ingester) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}

		ev, err := in.source.Read()
		if err != nil {
			switch {
			case errors.Is(err, eventstream.ErrAgain):
				continue
			case errors.Is(err, eventstream.ErrClosed):
				return
			default:
				in.logger.Warn("reading event", zap.Error(err))
				continue
			}
		}

		in.handle(ev)
	}
}

// handle applies the filter/parse/upsert pipeline to one event.
func (in *Ingester) handle(ev *bpf.RawEvent) {
	name := ev.NameString()
	if name != in.attrName {
		in.ignored.Add(1)
		in.logger.Debug("ignoring attribute", zap.String("name", name))
		return
	}

	path := ev.PathString()
	if !strings.HasPrefix(path, "/") {
		// A relative path makes the deletion target ambiguous.
		in.rejected.Add(1)
		in.logger.Debug("rejecting non-absolute path", zap.String("path", path))
		return
	}

	value := ev.ValueString()
	expireAt, err := strconv.ParseInt(value, 10, 64)
	if err != nil || expireAt < 1 || expireAt > MaxExpireAt {
		in.rejected.Add(1)
		in.logger.Debug("rejecting implausible expire_at value",
			zap.String("path", path),
			zap.String("value", value))
		return
	}

	if err := in.store.Upsert(path, expireAt); err != nil {
		in.logger.Error("storing expiration record",
			zap.String("path", path),
			zap.Error(err))
		return
	}

	in.scheduled.Add(1)
	in.logger.Info("scheduled for deletion",
		zap.String("path", path),
		zap.Int64("expire_at", expireAt))
}

// Stats returns the cumulative ingest counters.
func (in *Ingester) Stats() Stats {
	return Stats{
		Scheduled: in.scheduled.Load(),
		Ignored:   in.ignored.Load(),
		Rejected:  in.rejected.Load(),
	}
}
