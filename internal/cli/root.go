package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/julianstephens/deedlog/internal/backup"
	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/journal"
	"github.com/julianstephens/deedlog/internal/keyring"
	"github.com/julianstephens/deedlog/internal/lock"
	"github.com/julianstephens/deedlog/internal/logger"
	"github.com/julianstephens/deedlog/internal/storage"
	"github.com/julianstephens/deedlog/internal/storage/postgres"
	"github.com/julianstephens/deedlog/internal/storage/sqlite"
)

// Context is handed to every command's Run method by kong.
type Context struct {
	Store     storage.Provider
	ConfigDir string

	// Now, Out and In default to time.Now, os.Stdout and os.Stdin.
	Now func() time.Time
	Out io.Writer
	In  io.Reader
}

func (c *Context) Stdout() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}

func (c *Context) Stdin() io.Reader {
	if c.In == nil {
		return os.Stdin
	}
	return c.In
}

func (c *Context) Clock() func() time.Time {
	if c.Now == nil {
		return time.Now
	}
	return c.Now
}

func (c *Context) Printf(format string, args ...interface{}) {
	fmt.Fprintf(c.Stdout(), format, args...)
}

func (c *Context) Println(args ...interface{}) {
	fmt.Fprintln(c.Stdout(), args...)
}

// OpenJournal loads the journal from the already loaded store.
func (c *Context) OpenJournal() (*journal.Journal, error) {
	return journal.Open(c.Store, c.Clock())
}

// IsSQLite reports whether the store is a SQLite database file.
func (c *Context) IsSQLite() bool {
	_, ok := c.Store.(*sqlite.Store)
	return ok
}

// PerformAutomaticBackup creates an automatic backup and silently handles errors
func (c *Context) PerformAutomaticBackup() {
	if !c.IsSQLite() {
		return
	}
	mgr := backup.NewManager(c.Store.GetConfigPath())
	if _, err := mgr.CreateBackup(); err != nil {
		// Log warning but don't interrupt user workflow
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// AcquireWriterLock takes the cross-process writer lock for the config directory.
func (c *Context) AcquireWriterLock() (*lock.Lock, error) {
	l, err := lock.Acquire(c.ConfigDir)
	if err != nil {
		if errors.Is(err, lock.ErrLocked) {
			return nil, fmt.Errorf("%w; close the other deedlog session and try again", err)
		}
		return nil, err
	}
	return l, nil
}

// ResolveConfig picks the store location. An explicit --config or
// DEEDLOG_CONFIG wins; otherwise a connection string saved in the OS
// keyring; otherwise the default SQLite path.
func ResolveConfig(config string) (resolved string, fromKeyring bool) {
	if config != "" && config != constants.DefaultConfigPath {
		return config, false
	}
	if connStr, ok := keyring.Lookup(); ok {
		logger.Debug("Using connection string from keyring")
		return connStr, true
	}
	return constants.DefaultConfigPath, false
}

// ConfigDir is where logs, backups and the writer lock live for config.
func ConfigDir(config string) (string, error) {
	if storage.IsPostgresConnString(config) {
		return storage.ExpandPath(filepath.Dir(constants.DefaultConfigPath))
	}
	path, err := storage.ExpandPath(config)
	if err != nil {
		return "", err
	}
	return filepath.Dir(path), nil
}

// OpenProvider builds the store for config without loading it. Passwords in
// PostgreSQL connection strings are refused unless allowCredentials is set,
// which is the case for strings read back from the OS keyring.
func OpenProvider(config string, allowCredentials bool) (storage.Provider, error) {
	if storage.IsPostgresConnString(config) {
		if _, err := postgres.ValidateConnString(config); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				if allowCredentials {
					return postgres.New(config), nil
				}
				return nil, fmt.Errorf("%w: store the connection string with 'deedlog keyring set' or use .pgpass / PGPASSWORD", err)
			}
			return nil, err
		}
		return postgres.New(config), nil
	}

	path, err := storage.ExpandPath(config)
	if err != nil {
		return nil, err
	}
	if storage.IsJSONPath(path) {
		return storage.NewJSONStore(path), nil
	}
	return sqlite.NewStore(path), nil
}
