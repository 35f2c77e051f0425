package journal

import (
	"errors"
	"sync"
	"time"

	"github.com/julianstephens/deedlog/internal/logger"
	"github.com/julianstephens/deedlog/internal/models"
	"github.com/julianstephens/deedlog/internal/storage"
	"github.com/julianstephens/deedlog/internal/streak"
)

// ErrRejected is returned by CheckIn when the deed text is blank or no
// emoji was chosen.
var ErrRejected = errors.New("check-in rejected: a deed and an emoji are both required")

// Journal is the single owner of the in-memory journal state.
type Journal struct {
	mu    sync.Mutex
	store *Store
	state models.JournalState
	clock func() time.Time
}

// Open loads the journal from provider. clock supplies "today"; nil means time.Now.
func Open(provider storage.Provider, clock func() time.Time) (*Journal, error) {
	if provider == nil {
		return nil, errors.New("journal: nil storage provider")
	}
	if clock == nil {
		clock = time.Now
	}
	j := &Journal{
		store: New(provider),
		clock: clock,
	}
	j.state = j.store.Load()
	logger.Debug("Journal loaded", "entries", len(j.state.Entries), "streak", j.state.Streak, "lastCheckIn", j.state.LastCheckIn)
	return j, nil
}

// State returns a copy of the current state.
func (j *Journal) State() models.JournalState {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state.Clone()
}

// Now returns the journal clock's current time.
func (j *Journal) Now() time.Time {
	return j.clock()
}

// CheckIn records a deed for today and persists the result. A rejected
// check-in returns ErrRejected and changes nothing. If the store write
// fails the in-memory state is left as it was before the call.
func (j *Journal) CheckIn(text string, glyph models.Glyph) (models.JournalState, error) {
	j.mu.Lock()
	defer j.mu.Unlock()

	next, accepted := streak.RecordCheckIn(j.state, j.clock(), text, glyph)
	if !accepted {
		return j.state.Clone(), ErrRejected
	}

	if err := j.store.Persist(next); err != nil {
		logger.Error("Check-in not saved, keeping previous state", "error", err)
		return j.state.Clone(), err
	}

	j.state = next
	logger.Info("Check-in recorded", "date", next.LastCheckIn, "streak", next.Streak)
	return next.Clone(), nil
}

// Reload replaces the in-memory state with what the store currently holds.
func (j *Journal) Reload() models.JournalState {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.state = j.store.Load()
	return j.state.Clone()
}

// Import replaces the journal contents with state and persists it.
func (j *Journal) Import(state models.JournalState) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if err := j.store.Persist(state); err != nil {
		return err
	}
	j.state = state.Clone()
	return nil
}
