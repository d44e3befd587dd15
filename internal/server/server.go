// Package server is the HTTP surface of the access-gated dashboard: every
// page evaluation runs the gate first, then the visit counter, then the
// dashboard collaborator. A denial stops the chain at the gate.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/haowan-apps/fangboard/internal/counter"
	"github.com/haowan-apps/fangboard/internal/dashboard"
	"github.com/haowan-apps/fangboard/internal/events"
	"github.com/haowan-apps/fangboard/internal/gate"
	"github.com/haowan-apps/fangboard/internal/model"
	"github.com/haowan-apps/fangboard/internal/session"
)

// GateServer holds the collaborators of one service instance.
type GateServer struct {
	gate      *gate.Gate
	sessions  *session.Manager
	recorder  *counter.Recorder
	dash      *dashboard.Dashboard
	publisher events.Publisher
	logger    *slog.Logger

	// now is the clock; tests swap it to drive window expiry.
	now func() time.Time
}

// NewGateServer wires the gate, session manager, visit recorder, and
// dashboard into a server. A nil publisher disables events; a nil logger
// falls back to slog.Default.
func NewGateServer(g *gate.Gate, sm *session.Manager, rec *counter.Recorder, dash *dashboard.Dashboard, pub events.Publisher, logger *slog.Logger) *GateServer {
	if pub == nil {
		pub = &events.NoopPublisher{}
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &GateServer{
		gate:      g,
		sessions:  sm,
		recorder:  rec,
		dash:      dash,
		publisher: pub,
		logger:    logger,
		now:       time.Now,
	}
}

// evaluate runs the gate for a session and publishes the lock event when a
// window expired during this evaluation. Publishing is best-effort.
func (s *GateServer) evaluate(ctx context.Context, sess *model.Session, now time.Time) gate.Decision {
	before := sess.Status
	d := s.gate.Evaluate(sess, now)
	if d.Status == model.StatusLocked && before != model.StatusLocked && before.IsValid() {
		if err := s.publisher.Publish(ctx, events.TopicGateLocked, events.GateLocked{
			SessionID: sess.ID,
			From:      before,
		}); err != nil {
			s.logger.Warn("failed to publish lock event", "session", sess.ID, "error", err)
		}
	}
	return d
}
