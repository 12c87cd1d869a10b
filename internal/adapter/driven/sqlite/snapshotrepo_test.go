package sqlite

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/scanmaster/internal/application"
	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

var testEpoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func makeRecord(id, data string) model.ScanRecord {
	return model.NewScanRecord(id, data, "QR_CODE", testEpoch)
}

// writeRaw stores value under the history key bypassing Save.
func writeRaw(t *testing.T, db *DB, value string) {
	t.Helper()
	_, err := db.Writer.Exec(`INSERT INTO local_storage (key, value) VALUES (?, ?)`, historyKey, value)
	require.NoError(t, err)
}

func TestSnapshotRepo_LoadEmpty(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)

	records, err := repo.Load(context.Background())

	require.NoError(t, err)
	assert.Nil(t, records)
}

func TestSnapshotRepo_SaveAndLoad(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	annotated := makeRecord("b", "https://example.com").WithAnnotation("A link.")
	want := []model.ScanRecord{annotated, makeRecord("a", "hello")}

	require.NoError(t, repo.Save(ctx, want))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestSnapshotRepo_SaveOverwrites(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, []model.ScanRecord{makeRecord("a", "one")}))
	require.NoError(t, repo.Save(ctx, []model.ScanRecord{makeRecord("b", "two")}))

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "b", got[0].ID)

	var rows int
	require.NoError(t, db.Reader.QueryRow(`SELECT COUNT(*) FROM local_storage`).Scan(&rows))
	assert.Equal(t, 1, rows)
}

func TestSnapshotRepo_SaveEmptyStoresArray(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, nil))

	var raw string
	require.NoError(t, db.Reader.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, historyKey).Scan(&raw))
	assert.Equal(t, "[]", raw)

	got, err := repo.Load(ctx)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSnapshotRepo_StoredFieldNames(t *testing.T) {
	db := setupTestDB(t)
	repo := NewSnapshotRepo(db)

	rec := makeRecord("a", "hello").WithAnnotation("Greeting.")
	require.NoError(t, repo.Save(context.Background(), []model.ScanRecord{rec, makeRecord("b", "bye")}))

	var raw string
	require.NoError(t, db.Reader.QueryRow(`SELECT value FROM local_storage WHERE key = ?`, historyKey).Scan(&raw))

	var stored []map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &stored))
	require.Len(t, stored, 2)
	assert.Equal(t, "a", stored[0]["id"])
	assert.Equal(t, "QR_CODE", stored[0]["type"])
	assert.Equal(t, "hello", stored[0]["data"])
	assert.InDelta(t, float64(testEpoch.UnixMilli()), stored[0]["timestamp"], 0)
	assert.Equal(t, "Greeting.", stored[0]["aiAnalysis"])
	assert.NotContains(t, stored[1], "aiAnalysis")
}

func TestSnapshotRepo_LoadCorrupt(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{"not json", "{not json"},
		{"object instead of array", `{"id":"a"}`},
		{"missing id", `[{"type":"QR_CODE","data":"x","timestamp":1}]`},
		{"string timestamp", `[{"id":"a","type":"QR_CODE","data":"x","timestamp":"yesterday"}]`},
		{"numeric annotation", `[{"id":"a","type":"QR_CODE","data":"x","timestamp":1,"aiAnalysis":3}]`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := setupTestDB(t)
			writeRaw(t, db, tt.value)

			_, err := NewSnapshotRepo(db).Load(context.Background())

			assert.ErrorIs(t, err, driven.ErrSnapshotCorrupt)
		})
	}
}

func TestSnapshotRepo_HistoryStoreSurvivesRestart(t *testing.T) {
	db := setupTestDB(t)
	ctx := context.Background()

	first := application.NewHistoryStore(ctx, NewSnapshotRepo(db), slog.Default())
	require.NoError(t, first.Append(ctx, makeRecord("a", "one")))
	require.NoError(t, first.Append(ctx, makeRecord("b", "two")))
	require.NoError(t, first.UpdateAnnotation(ctx, "a", "First."))
	require.NoError(t, first.Remove(ctx, "b"))

	second := application.NewHistoryStore(ctx, NewSnapshotRepo(db), slog.Default())
	got := second.List()
	require.Len(t, got, 1)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "First.", got[0].AnnotationText())
}

func TestSnapshotRepo_CorruptStartsEmpty(t *testing.T) {
	db := setupTestDB(t)
	writeRaw(t, db, "garbage")

	store := application.NewHistoryStore(context.Background(), NewSnapshotRepo(db), slog.Default())

	assert.Zero(t, store.Len())
}
