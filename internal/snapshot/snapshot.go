// Package snapshot periodically exports the daily visit record to external
// destinations (S3-compatible object storage). Snapshots are best-effort
// telemetry backup; a failed write is logged and retried on the next tick.
package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/haowan-apps/fangboard/internal/model"
	"github.com/haowan-apps/fangboard/internal/store"
)

// Destination is the interface for a snapshot target.
type Destination interface {
	// Write sends the JSON payload to the destination.
	Write(ctx context.Context, data []byte) error
}

// payload is the exported snapshot shape.
type payload struct {
	Date       string    `json:"date"`
	Count      int       `json:"count"`
	ExportedAt time.Time `json:"exported_at"`
}

// Export writes the current counter record for now's day as JSON.
func Export(ctx context.Context, s store.CounterStore, now time.Time) ([]byte, error) {
	day := model.Day(now)
	count, err := s.Today(ctx, day)
	if err != nil {
		return nil, fmt.Errorf("read counter: %w", err)
	}
	return json.Marshal(payload{Date: day, Count: count, ExportedAt: now.UTC()})
}

// Scheduler runs periodic snapshots to one or more destinations.
type Scheduler struct {
	store        store.CounterStore
	destinations []Destination
	interval     time.Duration
	logger       *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewScheduler creates a scheduler that exports from the store to the given
// destinations at the specified interval.
func NewScheduler(s store.CounterStore, destinations []Destination, interval time.Duration, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		store:        s,
		destinations: destinations,
		interval:     interval,
		logger:       logger,
	}
}

// Start begins periodic snapshots. It runs an initial export immediately,
// then on each tick.
func (s *Scheduler) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.run(ctx)
	}()
}

// Stop cancels the scheduler and waits for the current export (if any) to finish.
func (s *Scheduler) Stop() {
	if s.cancel != nil {
		s.cancel()
	}
	s.wg.Wait()
}

func (s *Scheduler) run(ctx context.Context) {
	s.exportOnce(ctx)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.exportOnce(ctx)
		}
	}
}

func (s *Scheduler) exportOnce(ctx context.Context) {
	data, err := Export(ctx, s.store, time.Now())
	if err != nil {
		s.logger.Error("snapshot export failed", "err", err)
		return
	}

	for i, dest := range s.destinations {
		if err := dest.Write(ctx, data); err != nil {
			s.logger.Error("snapshot destination write failed", "destination", fmt.Sprintf("%d", i), "err", err)
		}
	}

	s.logger.Info("snapshot completed", "destinations", len(s.destinations), "bytes", len(data))
}
