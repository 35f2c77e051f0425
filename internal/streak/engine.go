// Package streak holds the check-in rules: how a deed is accepted, how the
// streak counter moves, and which calendar days count as completed. Every
// function here is pure; persistence belongs to the journal package.
package streak

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/models"
)

// CanSubmit is the check-in precondition. Callers may use it to disable a
// submit control before the user acts.
func CanSubmit(text string, glyph models.Glyph) bool {
	return ValidDeed(text) && glyph.Valid()
}

// ValidDeed reports whether text has anything besides whitespace.
func ValidDeed(text string) bool {
	return strings.TrimSpace(text) != ""
}

// RecordCheckIn applies a check-in made at today. A rejected check-in
// returns state untouched and false. The returned state never shares its
// entries with the input.
func RecordCheckIn(state models.JournalState, today time.Time, text string, glyph models.Glyph) (models.JournalState, bool) {
	if !CanSubmit(text, glyph) {
		return state, false
	}

	todayKey := ToDateKey(today)
	yesterdayKey := ToDateKey(AddDays(today, -1))

	next := Append(state, models.DeedEntry{
		Date:  todayKey,
		Deed:  text,
		Emoji: glyph,
	})

	// Only an exact yesterday extends the streak. A second check-in on the
	// same day as LastCheckIn restarts at 1, same as a gap.
	if state.LastCheckIn == yesterdayKey {
		next.Streak = state.Streak + 1
	} else {
		next.Streak = 1
	}
	next.LastCheckIn = todayKey
	next.IsDownBad = false

	return next, true
}

// Append returns a copy of state with entry added at the end. The streak
// fields are left as they are.
func Append(state models.JournalState, entry models.DeedEntry) models.JournalState {
	next := state
	next.Entries = make([]models.DeedEntry, len(state.Entries), len(state.Entries)+1)
	copy(next.Entries, state.Entries)
	next.Entries = append(next.Entries, entry)
	return next
}

// EntryFor returns the first entry recorded on d's UTC day.
func EntryFor(state models.JournalState, d time.Time) (models.DeedEntry, bool) {
	return entryForKey(state, ToDateKey(d))
}

// IsCompleted reports whether at least one entry exists on d's UTC day.
func IsCompleted(state models.JournalState, d time.Time) bool {
	_, ok := EntryFor(state, d)
	return ok
}

func entryForKey(state models.JournalState, key string) (models.DeedEntry, bool) {
	for _, e := range state.Entries {
		if e.Date == key {
			return e, true
		}
	}
	return models.DeedEntry{}, false
}

// CompletedPredicate returns the highlight predicate handed to calendar
// widgets. It captures a snapshot of the completed days, so later check-ins
// need a fresh predicate.
func CompletedPredicate(state models.JournalState) func(time.Time) bool {
	days := make(map[string]struct{}, len(state.Entries))
	for _, e := range state.Entries {
		days[e.Date] = struct{}{}
	}
	return func(d time.Time) bool {
		_, ok := days[ToDateKey(d)]
		return ok
	}
}

// RecentEntries returns up to n of the newest entries, newest first.
func RecentEntries(state models.JournalState, n int) []models.DeedEntry {
	if n <= 0 || len(state.Entries) == 0 {
		return []models.DeedEntry{}
	}
	if n > len(state.Entries) {
		n = len(state.Entries)
	}
	out := make([]models.DeedEntry, 0, n)
	for i := len(state.Entries) - 1; i >= len(state.Entries)-n; i-- {
		out = append(out, state.Entries[i])
	}
	return out
}

// Message is the motivational line shown above the check-in form.
func Message(state models.JournalState) string {
	if state.IsDownBad {
		return constants.MessageDownBad
	}
	if state.Streak > 1 {
		return fmt.Sprintf(constants.MessageStreakFmt, state.Streak)
	}
	return constants.MessageFirstW
}

// StreakLabel renders the streak badge, e.g. "🔥 1 Day Streak".
func StreakLabel(streak int) string {
	plural := "s"
	if streak == 1 {
		plural = ""
	}
	return fmt.Sprintf(constants.StreakLabelFmt, streak, plural)
}
