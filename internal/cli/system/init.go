package system

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/journal"
	"github.com/julianstephens/deedlog/internal/logger"
	"github.com/julianstephens/deedlog/internal/storage"
	"github.com/julianstephens/deedlog/internal/validation"
)

var openSourceFunc = cli.OpenProvider

type InitCmd struct {
	Force  bool   `help:"Force reset by deleting the existing journal file before initialization."`
	Source string `help:"Existing journal (SQLite path, JSON file, or PostgreSQL connection string) to import."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		if !errors.Is(err, storage.ErrAlreadyInitialized) {
			return err
		}
		if err := ctx.Store.Load(); err != nil {
			return err
		}
		ctx.Printf("Storage already initialized at: %s\n", ctx.Store.GetConfigPath())
	} else {
		ctx.Printf("Initialized deedlog storage at: %s\n", ctx.Store.GetConfigPath())
	}

	if c.Source != "" {
		ctx.Printf("Importing journal from: %s\n", c.Source)
		if err := c.importJournal(ctx); err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		ctx.Println("Import completed successfully!")
	}

	return nil
}

func (c *InitCmd) reset(ctx *cli.Context) error {
	if storage.IsPostgresConnString(ctx.Store.GetConfigPath()) {
		return errors.New("--force only applies to file-backed journals")
	}

	dbPath := ctx.Store.GetConfigPath()
	if c.Source != "" {
		// Don't delete the journal we are about to import from
		absDB, err := filepath.Abs(dbPath)
		if err == nil {
			dbPath = absDB
		}
		if absSource, err := filepath.Abs(c.Source); err == nil && absSource == dbPath {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err == nil {
		if err := ctx.Store.Close(); err != nil {
			return fmt.Errorf("failed to close existing journal: %w", err)
		}
		if err := os.Remove(dbPath); err != nil {
			return fmt.Errorf("failed to delete existing journal: %w", err)
		}
		ctx.Printf("Deleted existing journal at: %s\n", dbPath)
	} else if !os.IsNotExist(err) {
		return fmt.Errorf("failed to access existing journal: %w", err)
	}
	return nil
}

func (c *InitCmd) importJournal(ctx *cli.Context) error {
	source, err := openSourceFunc(c.Source, false)
	if err != nil {
		return err
	}
	defer source.Close()

	if err := source.Load(); err != nil {
		return fmt.Errorf("failed to load source journal: %w", err)
	}

	state := journal.New(source).Load()
	result := validation.New().ValidateState(state)
	if result.HasConflicts() {
		logger.Warn("Imported journal has integrity conflicts", "count", len(result.Conflicts))
		ctx.Println("⚠️  " + result.FormatReport())
	}

	l, err := ctx.AcquireWriterLock()
	if err != nil {
		return err
	}
	defer l.Release()

	j, err := ctx.OpenJournal()
	if err != nil {
		return err
	}
	if err := j.Import(state); err != nil {
		return err
	}

	ctx.Printf("  Imported %d entries (streak %d, last check-in %s)\n", len(state.Entries), state.Streak, lastCheckInLabel(state.LastCheckIn))
	return nil
}

func lastCheckInLabel(s string) string {
	if s == "" {
		return "never"
	}
	return s
}
