// Package lock provides the cross-process writer lock that keeps two
// deedlog processes from interleaving read-modify-write cycles on the
// same journal.
package lock

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mitchellh/go-ps"

	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/logger"
)

var (
	findProcessFunc = ps.FindProcess
	getpidFunc      = os.Getpid
	sleepFunc       = time.Sleep
)

// ErrLocked is returned when another live deedlog process holds the lock.
var ErrLocked = errors.New("journal is locked by another deedlog process")

// Holder describes the process recorded in a lockfile.
type Holder struct {
	PID   int
	Token string
	Since time.Time
}

// Lock is a held writer lock.
type Lock struct {
	path   string
	holder Holder
}

// Path returns the lockfile location for a store living in dir.
func Path(dir string) string {
	return filepath.Join(dir, constants.LockfileName)
}

// Acquire takes the writer lock in dir. A lockfile left by a process that
// is no longer running deedlog is replaced.
func Acquire(dir string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}

	path := Path(dir)
	holder := Holder{
		PID:   getpidFunc(),
		Token: uuid.NewString(),
		Since: time.Now().UTC().Truncate(time.Second),
	}

	var current Holder
	for attempt := 0; attempt < constants.LockMaxRetries; attempt++ {
		created, err := tryCreate(path, holder)
		if err != nil {
			return nil, err
		}
		if created {
			logger.Debug("Writer lock acquired", "path", path, "pid", holder.PID)
			return &Lock{path: path, holder: holder}, nil
		}

		content, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read lockfile: %w", err)
		}
		h, err := parseHolder(content)
		if err != nil || !isAlive(h) {
			logger.Warn("Removing stale lockfile", "path", path, "pid", h.PID, "error", err)
			if rmErr := removeStale(path, content); rmErr != nil {
				return nil, fmt.Errorf("failed to remove stale lockfile: %w", rmErr)
			}
			continue
		}

		current = h
		sleepFunc(constants.LockRetryDelay)
	}

	return nil, fmt.Errorf("%w (pid %d since %s)", ErrLocked, current.PID, current.Since.Format(time.RFC3339))
}

// Release removes the lockfile if it still belongs to this lock.
func (l *Lock) Release() error {
	if l == nil {
		return nil
	}
	h, err := readHolder(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read lockfile: %w", err)
	}
	if h.Token != l.holder.Token {
		logger.Warn("Lockfile was taken over by another process, leaving it", "path", l.path, "pid", h.PID)
		return nil
	}
	if err := os.Remove(l.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove lockfile: %w", err)
	}
	logger.Debug("Writer lock released", "path", l.path)
	return nil
}

// Holder returns the identity written into the lockfile.
func (l *Lock) Holder() Holder {
	return l.holder
}

// Inspect reports who holds the lock in dir. held is false when there is
// no lockfile; stale is true when the recorded process is gone.
func Inspect(dir string) (h Holder, held bool, stale bool, err error) {
	h, err = readHolder(Path(dir))
	if errors.Is(err, os.ErrNotExist) {
		return Holder{}, false, false, nil
	}
	if err != nil {
		return Holder{}, true, true, err
	}
	return h, true, !isAlive(h), nil
}

func tryCreate(path string, h Holder) (bool, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0600)
	if errors.Is(err, os.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to create lockfile: %w", err)
	}

	content := fmt.Sprintf("%d|%s|%s", h.PID, h.Token, h.Since.Format(time.RFC3339))
	if _, err := f.WriteString(content); err != nil {
		f.Close()
		os.Remove(path)
		return false, fmt.Errorf("failed to write lockfile: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return false, fmt.Errorf("failed to write lockfile: %w", err)
	}
	return true, nil
}

// removeStale deletes the lockfile at path only if it still holds seen. A
// lock created meanwhile by another process is put back.
func removeStale(path string, seen []byte) error {
	aside := path + "." + uuid.NewString() + ".stale"
	if err := os.Rename(path, aside); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	got, err := os.ReadFile(aside)
	if err == nil && !bytes.Equal(got, seen) {
		// Took a fresh lock from another process; put it back unless a
		// third one already replaced it.
		if linkErr := os.Link(aside, path); linkErr != nil && !os.IsExist(linkErr) {
			logger.Warn("Failed to restore lockfile", "path", path, "error", linkErr)
		}
	}
	if err := os.Remove(aside); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func readHolder(path string) (Holder, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Holder{}, err
	}
	return parseHolder(content)
}

func parseHolder(content []byte) (Holder, error) {
	parts := strings.Split(strings.TrimSpace(string(content)), "|")
	if len(parts) != 3 {
		return Holder{}, errors.New("lockfile is malformed")
	}

	pid, err := strconv.Atoi(parts[0])
	if err != nil || pid <= 0 {
		return Holder{}, errors.New("invalid process ID in lockfile")
	}
	if strings.TrimSpace(parts[1]) == "" {
		return Holder{}, errors.New("token in lockfile is empty")
	}
	since, err := time.Parse(time.RFC3339, parts[2])
	if err != nil {
		return Holder{}, errors.New("invalid timestamp in lockfile")
	}

	return Holder{PID: pid, Token: parts[1], Since: since}, nil
}

func isAlive(h Holder) bool {
	process, err := findProcessFunc(h.PID)
	if err != nil || process == nil {
		return false
	}
	return strings.HasPrefix(process.Executable(), constants.LockExecutableName)
}
