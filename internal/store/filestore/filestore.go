// Package filestore implements store.CounterStore as a single small JSON
// file, the default backend when no database is configured.
//
// Reads are corruption-tolerant: a missing, unreadable, or unparseable file
// is equivalent to an empty record. Writes go through a temp file and a
// rename so a crash never leaves a half-written record behind. An in-process
// mutex serializes access within one process; the read-modify-write is not
// isolated across processes, so two processes incrementing at the same
// instant can lose one update. The postgres backend removes that race.
package filestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/haowan-apps/fangboard/internal/model"
	"github.com/haowan-apps/fangboard/internal/store"
)

// FileStore implements store.CounterStore backed by a JSON file.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// Compile-time check that FileStore implements store.CounterStore.
var _ store.CounterStore = (*FileStore)(nil)

// New returns a file store writing to the given path. The file is created
// lazily on the first increment.
func New(path string) *FileStore {
	return &FileStore{path: path}
}

// Today returns the count stored for the given day, or zero when the record
// is absent, unreadable, or for another date.
func (s *FileStore) Today(_ context.Context, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.load()
	if !rec.IsFor(day) {
		return 0, nil
	}
	return rec.Count, nil
}

// Increment adds one visit to the given day and writes the record back.
// A stale record is reset to the new day before incrementing.
func (s *FileStore) Increment(_ context.Context, day string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec := s.load()
	if !rec.IsFor(day) {
		rec = model.CounterRecord{Date: day}
	}
	rec.Count++

	if err := s.save(rec); err != nil {
		return 0, fmt.Errorf("write counter record: %w", err)
	}
	return rec.Count, nil
}

// Close is a no-op; the file is not held open between transactions.
func (s *FileStore) Close() error {
	return nil
}

// load reads the record from disk. Any failure reads as an empty record;
// corruption of the counter file must never surface as an error.
func (s *FileStore) load() model.CounterRecord {
	var rec model.CounterRecord
	data, err := os.ReadFile(s.path)
	if err != nil {
		return model.CounterRecord{}
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return model.CounterRecord{}
	}
	if rec.Count < 0 {
		return model.CounterRecord{}
	}
	return rec
}

// save writes the record atomically via a temp file in the same directory.
func (s *FileStore) save(rec model.CounterRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, ".counter-*")
	if err != nil {
		return err
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), s.path)
}
