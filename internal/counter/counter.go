// Package counter records daily visits. Recording is best-effort telemetry:
// storage failures are logged and swallowed, never surfaced to the page.
package counter

import (
	"context"
	"log/slog"
	"time"

	"github.com/haowan-apps/fangboard/internal/events"
	"github.com/haowan-apps/fangboard/internal/model"
	"github.com/haowan-apps/fangboard/internal/store"
)

// Recorder counts at most one visit per session against the durable store.
type Recorder struct {
	store     store.CounterStore
	publisher events.Publisher
	logger    *slog.Logger
}

// New returns a recorder backed by the given store. A nil publisher disables
// events; a nil logger falls back to slog.Default.
func New(s store.CounterStore, p events.Publisher, logger *slog.Logger) *Recorder {
	if p == nil {
		p = &events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{store: s, publisher: p, logger: logger}
}

// Today returns today's total count without recording anything. Storage
// failures read as 0, same as RecordVisit.
func (r *Recorder) Today(ctx context.Context, now time.Time) int {
	day := model.Day(now)
	n, err := r.store.Today(ctx, day)
	if err != nil {
		r.logger.Warn("visit counter read failed", "day", day, "error", err)
		return 0
	}
	return n
}

// RecordVisit returns today's total visit count, counting this session's
// visit if it has not been counted yet. Reloads within a session never
// double-count. On any storage failure it returns 0 and leaves the session's
// counted flag unset so a later evaluation can retry; it never aborts the
// caller.
func (r *Recorder) RecordVisit(ctx context.Context, sess *model.Session, now time.Time) int {
	day := model.Day(now)

	if sess.HasCountedVisit {
		n, err := r.store.Today(ctx, day)
		if err != nil {
			r.logger.Warn("visit counter read failed", "day", day, "error", err)
			return 0
		}
		return n
	}

	n, err := r.store.Increment(ctx, day)
	if err != nil {
		// Leave HasCountedVisit unset so a future evaluation may retry.
		r.logger.Warn("visit counter increment failed", "day", day, "error", err)
		return 0
	}
	sess.HasCountedVisit = true

	if err := r.publisher.Publish(ctx, events.TopicVisitRecorded, events.VisitRecorded{
		SessionID: sess.ID,
		Date:      day,
		Count:     n,
	}); err != nil {
		r.logger.Warn("failed to publish visit event", "day", day, "error", err)
	}

	return n
}
