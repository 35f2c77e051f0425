package streak

import (
	"strings"
	"time"

	"github.com/julianstephens/deedlog/internal/models"
)

// CompletedDays lists the distinct date keys that have an entry, in the
// order they were first recorded.
func CompletedDays(state models.JournalState) []string {
	seen := make(map[string]bool, len(state.Entries))
	days := make([]string, 0, len(state.Entries))
	for _, e := range state.Entries {
		if seen[e.Date] {
			continue
		}
		seen[e.Date] = true
		days = append(days, e.Date)
	}
	return days
}

// ComputeStats counts completed days overall and within now's UTC month.
func ComputeStats(state models.JournalState, now time.Time) models.Stats {
	days := CompletedDays(state)
	month := MonthKey(now) + "-"

	thisMonth := 0
	for _, d := range days {
		if strings.HasPrefix(d, month) {
			thisMonth++
		}
	}

	return models.Stats{
		TotalDays: len(days),
		ThisMonth: thisMonth,
		Entries:   len(state.Entries),
		Streak:    state.Streak,
	}
}
