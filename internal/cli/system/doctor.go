package system

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/deedlog/internal/backup"
	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/lock"
	"github.com/julianstephens/deedlog/internal/storage"
	"github.com/julianstephens/deedlog/internal/streak"
	"github.com/julianstephens/deedlog/internal/validation"
)

type DoctorCmd struct{}

// errWarning marks a check result that is reported but does not fail doctor.
type errWarning struct{ error }

type check struct {
	name    string
	needsDB bool
	run     func(ctx *cli.Context) error
}

var doctorChecks = []check{
	{name: "Schema version", needsDB: true, run: checkSchemaVersion},
	{name: "Migrations complete", needsDB: true, run: checkMigrationsComplete},
	{name: "Journal integrity", needsDB: true, run: checkJournal},
	{name: "Backups present", run: checkBackupsPresent},
	{name: "Writer lock", run: checkWriterLock},
	{name: "Clock/timezone", run: func(ctx *cli.Context) error { return checkClockTimezone(ctx.Clock()()) }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	ctx.Println("Running diagnostics...")
	ctx.Println()

	hasError := false
	dbReachable := true

	if err := checkDBReachable(ctx); err != nil {
		ctx.Printf("❌ Journal store reachable: FAIL\n")
		ctx.Printf("   Error: %v\n", err)
		hasError = true
		dbReachable = false
	} else {
		ctx.Printf("✓ Journal store reachable: OK\n")
	}

	for _, c := range doctorChecks {
		if c.needsDB && !dbReachable {
			ctx.Printf("⊘ %s: SKIPPED (store not reachable)\n", c.name)
			continue
		}
		err := c.run(ctx)
		var warn errWarning
		switch {
		case err == nil:
			ctx.Printf("✓ %s: OK\n", c.name)
		case errors.As(err, &warn):
			ctx.Printf("⚠ %s: WARNING\n", c.name)
			ctx.Printf("   %v\n", warn.error)
		default:
			ctx.Printf("❌ %s: FAIL\n", c.name)
			ctx.Printf("   Error: %v\n", err)
			hasError = true
		}
	}

	ctx.Println()
	if hasError {
		ctx.Println("Diagnostics completed with errors.")
		return fmt.Errorf("one or more health checks failed")
	}

	ctx.Println("All diagnostics passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load journal store: %w", err)
	}
	if _, err := ctx.Store.Keys(); err != nil {
		return fmt.Errorf("failed to query journal store: %w", err)
	}
	return nil
}

func schemaVersions(ctx *cli.Context) (current, latest int, ok bool, err error) {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		// File stores have no schema
		return 0, 0, false, nil
	}
	current, latest, err = migrator.SchemaVersion()
	if err != nil {
		return 0, 0, true, fmt.Errorf("failed to read schema version: %w", err)
	}
	return current, latest, true, nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if err != nil || !ok {
		return err
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	current, latest, ok, err := schemaVersions(ctx)
	if err != nil || !ok {
		return err
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'deedlog migrate')", current, latest)
	}
	return nil
}

func checkJournal(ctx *cli.Context) error {
	j, err := ctx.OpenJournal()
	if err != nil {
		return err
	}
	result := validation.New().ValidateState(j.State())
	if result.HasConflicts() {
		return errors.New(result.FormatReport())
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if !ctx.IsSQLite() {
		return nil
	}
	mgr := backup.NewManager(ctx.Store.GetConfigPath())
	if _, err := mgr.Latest(); err != nil {
		if errors.Is(err, backup.ErrNoBackups) {
			return errWarning{errors.New("no backups found - consider creating one with 'deedlog backup create'")}
		}
		return fmt.Errorf("failed to list backups: %w", err)
	}
	return nil
}

func checkWriterLock(ctx *cli.Context) error {
	h, held, stale, err := lock.Inspect(ctx.ConfigDir)
	switch {
	case !held:
		return nil
	case err != nil:
		return errWarning{fmt.Errorf("unreadable lockfile %s will be replaced on next write: %v", lock.Path(ctx.ConfigDir), err)}
	case stale:
		return errWarning{fmt.Errorf("stale lock from pid %d will be replaced on next write", h.PID)}
	default:
		return errWarning{fmt.Errorf("held by pid %d since %s", h.PID, h.Since.Format(time.RFC3339))}
	}
}

func checkClockTimezone(now time.Time) error {
	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	// Days are keyed in UTC
	local, utc := now.Format(constants.DateFormat), streak.ToDateKey(now)
	if local != utc {
		return errWarning{fmt.Errorf("local date %s differs from journal date %s (%s); check-ins count toward the UTC day", local, utc, now.Location())}
	}
	return nil
}
