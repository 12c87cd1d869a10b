package application_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ericfisherdev/scanmaster/internal/application"
	"github.com/ericfisherdev/scanmaster/internal/domain/model"
	"github.com/ericfisherdev/scanmaster/internal/domain/port/driven"
)

var epoch = time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)

func makeRecord(id, data string) model.ScanRecord {
	return model.NewScanRecord(id, data, "QR_CODE", epoch)
}

func ids(records []model.ScanRecord) []string {
	out := make([]string, 0, len(records))
	for _, r := range records {
		out = append(out, r.ID)
	}
	return out
}

func TestHistoryStore_AppendIsNewestFirst(t *testing.T) {
	ctx := context.Background()
	store := application.NewHistoryStore(ctx, &memSnapshots{}, slog.Default())

	require.NoError(t, store.Append(ctx, makeRecord("a", "one")))
	require.NoError(t, store.Append(ctx, makeRecord("b", "two")))
	require.NoError(t, store.Append(ctx, makeRecord("c", "one")))

	assert.Equal(t, []string{"c", "b", "a"}, ids(store.List()))
}

func TestHistoryStore_RemoveMiddleKeepsOrder(t *testing.T) {
	ctx := context.Background()
	store := application.NewHistoryStore(ctx, &memSnapshots{}, slog.Default())
	for _, id := range []string{"a", "b", "c"} {
		require.NoError(t, store.Append(ctx, makeRecord(id, id)))
	}

	require.NoError(t, store.Remove(ctx, "b"))

	assert.Equal(t, []string{"c", "a"}, ids(store.List()))
}

func TestHistoryStore_RemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	snapshots := &memSnapshots{}
	store := application.NewHistoryStore(ctx, snapshots, slog.Default())
	require.NoError(t, store.Append(ctx, makeRecord("a", "one")))

	require.NoError(t, store.Remove(ctx, "missing"))

	assert.Equal(t, 1, store.Len())
	assert.Equal(t, 1, snapshots.saveCount())
}

func TestHistoryStore_UpdateAnnotation(t *testing.T) {
	ctx := context.Background()
	store := application.NewHistoryStore(ctx, &memSnapshots{}, slog.Default())
	require.NoError(t, store.Append(ctx, makeRecord("a", "one")))
	require.NoError(t, store.Append(ctx, makeRecord("b", "two")))

	require.NoError(t, store.UpdateAnnotation(ctx, "a", "a summary"))

	a, ok := store.Get("a")
	require.True(t, ok)
	assert.Equal(t, "a summary", a.AnnotationText())
	assert.Equal(t, "one", a.Payload)

	b, ok := store.Get("b")
	require.True(t, ok)
	assert.False(t, b.HasAnnotation())
}

func TestHistoryStore_UpdateAnnotationMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	snapshots := &memSnapshots{}
	store := application.NewHistoryStore(ctx, snapshots, slog.Default())

	require.NoError(t, store.UpdateAnnotation(ctx, "gone", "text"))

	assert.Empty(t, store.List())
	assert.Equal(t, 0, snapshots.saveCount())
}

func TestHistoryStore_ClearSurvivesRestart(t *testing.T) {
	ctx := context.Background()
	snapshots := &memSnapshots{}
	store := application.NewHistoryStore(ctx, snapshots, slog.Default())
	require.NoError(t, store.Append(ctx, makeRecord("a", "one")))
	require.NoError(t, store.Append(ctx, makeRecord("b", "two")))

	require.NoError(t, store.Clear(ctx))
	assert.Empty(t, store.List())

	reloaded := application.NewHistoryStore(ctx, snapshots, slog.Default())
	assert.Empty(t, reloaded.List())
}

func TestHistoryStore_LoadsPersistedRecords(t *testing.T) {
	ctx := context.Background()
	snapshots := &memSnapshots{records: []model.ScanRecord{makeRecord("new", "2"), makeRecord("old", "1")}}

	store := application.NewHistoryStore(ctx, snapshots, slog.Default())

	assert.Equal(t, []string{"new", "old"}, ids(store.List()))
}

func TestHistoryStore_CorruptSnapshotStartsEmpty(t *testing.T) {
	ctx := context.Background()
	snapshots := &memSnapshots{loadErr: driven.ErrSnapshotCorrupt}

	store := application.NewHistoryStore(ctx, snapshots, slog.Default())

	assert.Empty(t, store.List())
}

func TestHistoryStore_SaveFailureKeepsMemoryState(t *testing.T) {
	ctx := context.Background()
	snapshots := &memSnapshots{saveErr: errors.New("disk full")}
	store := application.NewHistoryStore(ctx, snapshots, slog.Default())

	err := store.Append(ctx, makeRecord("a", "one"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Equal(t, 1, store.Len())
}

func TestHistoryStore_ListReturnsCopy(t *testing.T) {
	ctx := context.Background()
	store := application.NewHistoryStore(ctx, nil, slog.Default())
	require.NoError(t, store.Append(ctx, makeRecord("a", "one")))

	list := store.List()
	list[0].Payload = "mutated"

	got, _ := store.Get("a")
	assert.Equal(t, "one", got.Payload)
}
