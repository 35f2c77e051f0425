package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/models"
	"github.com/julianstephens/deedlog/internal/streak"
)

// Conflict represents a detected integrity problem in the journal
type Conflict struct {
	Type        constants.ConflictType
	Description string
	Date        string // YYYY-MM-DD format (if applicable)
	Index       int    // entry position, -1 when the conflict is not tied to one entry
}

// ValidationResult contains all detected conflicts
type ValidationResult struct {
	Conflicts []Conflict
}

// HasConflicts returns true if there are any conflicts
func (vr *ValidationResult) HasConflicts() bool {
	return len(vr.Conflicts) > 0
}

// Count returns the number of conflicts of type t
func (vr *ValidationResult) Count(t constants.ConflictType) int {
	n := 0
	for _, c := range vr.Conflicts {
		if c.Type == t {
			n++
		}
	}
	return n
}

// FormatReport returns a human-readable report of all conflicts
func (vr *ValidationResult) FormatReport() string {
	if !vr.HasConflicts() {
		return "No conflicts detected."
	}

	var b strings.Builder
	b.WriteString("Conflicts detected:\n")
	for _, conflict := range vr.Conflicts {
		fmt.Fprintf(&b, "- %s\n", conflict.Description)
	}
	return b.String()
}

// Validator checks a journal for inconsistencies. Findings are advisory;
// the journal still loads and accepts check-ins.
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

// ValidateState checks entries and streak fields for conflicts
func (v *Validator) ValidateState(state models.JournalState) ValidationResult {
	result := ValidationResult{Conflicts: []Conflict{}}

	prev := ""
	for i, entry := range state.Entries {
		if !streak.IsDateKey(entry.Date) {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictInvalidDate,
				Description: fmt.Sprintf("Entry %d has invalid date: %q", i+1, entry.Date),
				Date:        entry.Date,
				Index:       i,
			})
		} else {
			if prev != "" && entry.Date < prev {
				result.Conflicts = append(result.Conflicts, Conflict{
					Type:        constants.ConflictOutOfOrder,
					Description: fmt.Sprintf("Entry %d (%s) is dated before the entry preceding it (%s)", i+1, entry.Date, prev),
					Date:        entry.Date,
					Index:       i,
				})
			}
			prev = entry.Date
		}

		if !entry.Emoji.Valid() {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictInvalidGlyph,
				Description: fmt.Sprintf("Entry %d (%s) has an emoji outside the supported set: %q", i+1, entry.Date, string(entry.Emoji)),
				Date:        entry.Date,
				Index:       i,
			})
		}

		if strings.TrimSpace(entry.Deed) == "" {
			result.Conflicts = append(result.Conflicts, Conflict{
				Type:        constants.ConflictEmptyDeed,
				Description: fmt.Sprintf("Entry %d (%s) has no deed text", i+1, entry.Date),
				Date:        entry.Date,
				Index:       i,
			})
		}
	}

	if state.Streak < 0 {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictNegativeStreak,
			Description: fmt.Sprintf("Streak is negative: %d", state.Streak),
			Index:       -1,
		})
	}

	if days := len(streak.CompletedDays(state)); state.Streak > days {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictStreakExceedsDays,
			Description: fmt.Sprintf("Streak of %d is longer than the %d day(s) with entries", state.Streak, days),
			Index:       -1,
		})
	}

	newest := ""
	if n := len(state.Entries); n > 0 {
		newest = state.Entries[n-1].Date
	}
	if state.LastCheckIn != newest {
		result.Conflicts = append(result.Conflicts, Conflict{
			Type:        constants.ConflictLastCheckInMismatch,
			Description: fmt.Sprintf("Last check-in %s does not match the newest entry %s", orNone(state.LastCheckIn), orNone(newest)),
			Date:        state.LastCheckIn,
			Index:       -1,
		})
	}

	return result
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
