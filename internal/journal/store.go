// Package journal owns the deed journal state and its persistence in a
// storage.Provider.
package journal

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/logger"
	"github.com/julianstephens/deedlog/internal/models"
	"github.com/julianstephens/deedlog/internal/storage"
	"github.com/julianstephens/deedlog/internal/streak"
)

// Store reads and writes the four journal keys.
type Store struct {
	provider storage.Provider
}

func New(provider storage.Provider) *Store {
	return &Store{provider: provider}
}

// Provider returns the backing key-value store.
func (s *Store) Provider() storage.Provider {
	return s.provider
}

// Load reads the journal. Absent or unreadable fields fall back to their
// defaults individually; Load never fails.
func (s *Store) Load() models.JournalState {
	state := models.DefaultState()

	if raw, ok := s.read(constants.KeyStreak); ok {
		n, err := strconv.Atoi(strings.TrimSpace(raw))
		switch {
		case err != nil:
			logger.Warn("Ignoring unparseable streak", "value", raw, "error", err)
		case n < 0:
			logger.Warn("Ignoring negative streak", "value", n)
		default:
			state.Streak = n
		}
	}

	if raw, ok := s.read(constants.KeyLastCheckIn); ok {
		if streak.IsDateKey(raw) {
			state.LastCheckIn = raw
		} else {
			logger.Warn("Ignoring malformed lastCheckIn", "value", raw)
		}
	}

	if raw, ok := s.read(constants.KeyDeeds); ok {
		var entries []models.DeedEntry
		if err := json.Unmarshal([]byte(raw), &entries); err != nil {
			logger.Warn("Ignoring unparseable deeds", "error", err)
		} else if entries != nil {
			state.Entries = entries
		}
	}

	if raw, ok := s.read(constants.KeyIsDownBad); ok {
		var flag bool
		if err := json.Unmarshal([]byte(raw), &flag); err != nil {
			logger.Warn("Ignoring unparseable isDownBad", "value", raw, "error", err)
		} else {
			state.IsDownBad = flag
		}
	}

	return state
}

func (s *Store) read(key string) (string, bool) {
	raw, ok, err := s.provider.Get(key)
	if err != nil {
		logger.Warn("Failed to read journal key, using default", "key", key, "error", err)
		return "", false
	}
	return raw, ok
}

// Append returns state with entry added at the end. Streak fields are untouched.
func Append(state models.JournalState, entry models.DeedEntry) models.JournalState {
	return streak.Append(state, entry)
}

// Persist writes every journal field in one batch.
func (s *Store) Persist(state models.JournalState) error {
	set, del, err := Encode(state)
	if err != nil {
		return err
	}
	if err := s.provider.Apply(set, del); err != nil {
		return fmt.Errorf("failed to persist journal: %w", err)
	}
	logger.Debug("Journal persisted", "entries", len(state.Entries), "streak", state.Streak)
	return nil
}

// Encode renders state into the persisted key layout. Keys in del are
// removed from the store; an absent last check-in is stored as no key at all.
func Encode(state models.JournalState) (set map[string]string, del []string, err error) {
	entries := state.Entries
	if entries == nil {
		entries = []models.DeedEntry{}
	}
	deeds, err := json.Marshal(entries)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode deeds: %w", err)
	}
	downBad, err := json.Marshal(state.IsDownBad)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode isDownBad: %w", err)
	}

	set = map[string]string{
		constants.KeyStreak:    strconv.Itoa(state.Streak),
		constants.KeyDeeds:     string(deeds),
		constants.KeyIsDownBad: string(downBad),
	}
	if state.HasCheckIn() {
		set[constants.KeyLastCheckIn] = state.LastCheckIn
	} else {
		del = []string{constants.KeyLastCheckIn}
	}
	return set, del, nil
}
