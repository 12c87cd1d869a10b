package main

import (
	"context"
	"log/slog"

	sqliteadapter "github.com/ericfisherdev/scanmaster/internal/adapter/driven/sqlite"
	"github.com/ericfisherdev/scanmaster/internal/application"
)

// openHistory opens the database, applies migrations and restores the scan
// history. The caller closes the returned DB.
func openHistory(ctx context.Context) (*sqliteadapter.DB, *application.HistoryStore, error) {
	db, err := sqliteadapter.NewDB(ctx, appConfig.DBPath)
	if err != nil {
		return nil, nil, err
	}
	slog.Debug("database opened", "path", db.Path())

	version, err := sqliteadapter.RunMigrations(db.Writer)
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}
	slog.Debug("migrations complete", "version", version)

	history := application.NewHistoryStore(ctx, sqliteadapter.NewSnapshotRepo(db), slog.Default())
	return db, history, nil
}
