package system

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/storage/sqlite"
)

var testNow = time.Date(2024, 1, 10, 9, 0, 0, 0, time.UTC)

func setupTestSQLiteContext(t *testing.T, initialize bool) (*cli.Context, *sqlite.Store, *bytes.Buffer, func()) {
	t.Helper()
	tempDir := t.TempDir()
	dbPath := filepath.Join(tempDir, "deedlog.db")

	store := sqlite.NewStore(dbPath)
	store.SetMigrationLogger(func(string) {})
	if initialize {
		if err := store.Init(); err != nil {
			t.Fatalf("failed to initialize store: %v", err)
		}
	}

	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:     store,
		ConfigDir: tempDir,
		Now:       func() time.Time { return testNow },
		Out:       out,
	}

	cleanup := func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close store: %v", err)
		}
	}
	return ctx, store, out, cleanup
}
