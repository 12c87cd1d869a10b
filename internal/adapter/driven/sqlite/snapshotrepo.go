package sqlite

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.HistorySnapshotStore = (*SnapshotRepo)(nil)

// historyKey is the local_storage key holding the serialized scan history.
const historyKey = "scan_history"

//go:embed scan_history.schema.json
var historySchemaJSON string

var historySchema = jsonschema.MustCompileString("scan_history.schema.json", historySchemaJSON)

// SnapshotRepo stores the whole scan history as one JSON array under a single
// local_storage key.
type SnapshotRepo struct {
	db *DB
}

// NewSnapshotRepo creates a new SnapshotRepo backed by the given DB.
func NewSnapshotRepo(db *DB) *SnapshotRepo {
	return &SnapshotRepo{db: db}
}

// Load returns the stored history, or nil when nothing has been saved yet.
// Data that is not a valid history array yields driven.ErrSnapshotCorrupt.
func (r *SnapshotRepo) Load(ctx context.Context) ([]model.ScanRecord, error) {
	const query = `SELECT value FROM local_storage WHERE key = ?`

	var raw string
	err := r.db.Reader.QueryRowContext(ctx, query, historyKey).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load scan history: %w", err)
	}

	var doc any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", driven.ErrSnapshotCorrupt, err)
	}
	if err := historySchema.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", driven.ErrSnapshotCorrupt, err)
	}

	var records []model.ScanRecord
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		return nil, fmt.Errorf("%w: %v", driven.ErrSnapshotCorrupt, err)
	}
	return records, nil
}

// Save replaces the stored history with records.
func (r *SnapshotRepo) Save(ctx context.Context, records []model.ScanRecord) error {
	if records == nil {
		records = []model.ScanRecord{}
	}
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("marshal scan history: %w", err)
	}

	const query = `
		INSERT INTO local_storage (key, value, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`

	if _, err := r.db.Writer.ExecContext(ctx, query, historyKey, string(data)); err != nil {
		return fmt.Errorf("save scan history: %w", err)
	}
	return nil
}
