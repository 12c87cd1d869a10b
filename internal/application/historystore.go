package application

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

// HistoryStore is the ordered, newest-first scan history. The full collection
// is written to the snapshot store after every mutation and read once at
// construction.
//
// Mutations always apply in memory. A returned error only reports that the
// snapshot could not be saved.
type HistoryStore struct {
	mu        sync.RWMutex
	records   []model.ScanRecord
	snapshots driven.HistorySnapshotStore
	logger    *slog.Logger
}

// NewHistoryStore loads the persisted history. A missing or corrupt snapshot
// is logged and the store starts empty. snapshots may be nil for a
// memory-only store.
func NewHistoryStore(ctx context.Context, snapshots driven.HistorySnapshotStore, logger *slog.Logger) *HistoryStore {
	s := &HistoryStore{
		records:   []model.ScanRecord{},
		snapshots: snapshots,
		logger:    logger,
	}
	if snapshots == nil {
		return s
	}

	records, err := snapshots.Load(ctx)
	if err != nil {
		logger.Warn("failed to load scan history, starting empty", "error", err)
		return s
	}
	if records != nil {
		s.records = records
	}
	logger.Debug("scan history loaded", "records", len(s.records))
	return s
}

// Append inserts rec at the front. Identical payloads are not de-duplicated.
func (s *HistoryStore) Append(ctx context.Context, rec model.ScanRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]model.ScanRecord, 0, len(s.records)+1)
	next = append(next, rec)
	next = append(next, s.records...)
	s.records = next

	return s.saveLocked(ctx)
}

// UpdateAnnotation sets the annotation of the record with the given id. It is
// a silent no-op when no such record exists.
func (s *HistoryStore) UpdateAnnotation(ctx context.Context, id, text string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records[i] = s.records[i].WithAnnotation(text)
			return s.saveLocked(ctx)
		}
	}
	return nil
}

// Remove deletes the record with the given id. No-op if absent.
func (s *HistoryStore) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			next := make([]model.ScanRecord, 0, len(s.records)-1)
			next = append(next, s.records[:i]...)
			next = append(next, s.records[i+1:]...)
			s.records = next
			return s.saveLocked(ctx)
		}
	}
	return nil
}

// Clear empties the history.
func (s *HistoryStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = []model.ScanRecord{}
	return s.saveLocked(ctx)
}

// List returns a copy of the history, newest first.
func (s *HistoryStore) List() []model.ScanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.ScanRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Get returns the record with the given id.
func (s *HistoryStore) Get(id string) (model.ScanRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, rec := range s.records {
		if rec.ID == id {
			return rec, true
		}
	}
	return model.ScanRecord{}, false
}

// Len returns the number of records.
func (s *HistoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

func (s *HistoryStore) saveLocked(ctx context.Context) error {
	if s.snapshots == nil {
		return nil
	}
	snapshot := make([]model.ScanRecord, len(s.records))
	copy(snapshot, s.records)
	if err := s.snapshots.Save(ctx, snapshot); err != nil {
		return fmt.Errorf("save scan history: %w", err)
	}
	return nil
}
