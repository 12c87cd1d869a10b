package driven

import (
	"context"
	"errors"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
)

// ErrSnapshotCorrupt is returned by HistorySnapshotStore.Load when persisted
// data exists but cannot be decoded into scan records.
var ErrSnapshotCorrupt = errors.New("history snapshot corrupt")

// HistorySnapshotStore defines the driven port for durable history storage.
// The whole collection is read and written at once; there are no partial
// updates.
type HistorySnapshotStore interface {
	// Load returns the persisted records, newest first. Missing data yields an
	// empty slice and a nil error.
	Load(ctx context.Context) ([]model.ScanRecord, error)

	// Save replaces the persisted collection with records.
	Save(ctx context.Context, records []model.ScanRecord) error
}
