package snapshot

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"sync/atomic"
	"testing"
	"time"

	"github.com/haowan-apps/fangboard/internal/model"
)

// mockStore is an in-memory CounterStore.
type mockStore struct {
	record model.CounterRecord
	err    error
}

func (m *mockStore) Today(_ context.Context, day string) (int, error) {
	if m.err != nil {
		return 0, m.err
	}
	if !m.record.IsFor(day) {
		return 0, nil
	}
	return m.record.Count, nil
}

func (m *mockStore) Increment(_ context.Context, day string) (int, error) {
	if !m.record.IsFor(day) {
		m.record = model.CounterRecord{Date: day}
	}
	m.record.Count++
	return m.record.Count, nil
}

func (m *mockStore) Close() error { return nil }

// mockDestination records calls to Write.
type mockDestination struct {
	writes atomic.Int64
	last   atomic.Value // []byte
	err    error
}

func (d *mockDestination) Write(_ context.Context, data []byte) error {
	if d.err != nil {
		return d.err
	}
	d.writes.Add(1)
	cp := make([]byte, len(data))
	copy(cp, data)
	d.last.Store(cp)
	return nil
}

func TestExport(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)
	ms := &mockStore{record: model.CounterRecord{Date: "2025-06-01", Count: 17}}

	data, err := Export(context.Background(), ms, now)
	if err != nil {
		t.Fatalf("Export: %v", err)
	}

	var got payload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Date != "2025-06-01" || got.Count != 17 {
		t.Errorf("payload = %+v, want date 2025-06-01 count 17", got)
	}
}

func TestExport_StoreError(t *testing.T) {
	ms := &mockStore{err: errors.New("unreachable")}
	if _, err := Export(context.Background(), ms, time.Now()); err == nil {
		t.Fatal("Export with failing store succeeded, want error")
	}
}

func TestSchedulerStartStop(t *testing.T) {
	ms := &mockStore{record: model.CounterRecord{Date: model.Day(time.Now()), Count: 3}}
	dest := &mockDestination{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sched := NewScheduler(ms, []Destination{dest}, 50*time.Millisecond, logger)
	sched.Start()

	// Wait for at least the initial export + one tick.
	time.Sleep(120 * time.Millisecond)
	sched.Stop()

	if writes := dest.writes.Load(); writes < 2 {
		t.Fatalf("expected at least 2 writes, got %d", writes)
	}

	data, ok := dest.last.Load().([]byte)
	if !ok || len(data) == 0 {
		t.Fatal("expected non-empty data")
	}
	var got payload
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("last write is not valid JSON: %v", err)
	}
	if got.Count != 3 {
		t.Errorf("snapshot count = %d, want 3", got.Count)
	}
}

func TestScheduler_DestinationFailureDoesNotStop(t *testing.T) {
	ms := &mockStore{record: model.CounterRecord{Date: model.Day(time.Now()), Count: 1}}
	failing := &mockDestination{err: errors.New("bucket gone")}
	ok := &mockDestination{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	sched := NewScheduler(ms, []Destination{failing, ok}, 50*time.Millisecond, logger)
	sched.Start()
	time.Sleep(80 * time.Millisecond)
	sched.Stop()

	if ok.writes.Load() == 0 {
		t.Fatal("healthy destination never written after sibling failure")
	}
}
