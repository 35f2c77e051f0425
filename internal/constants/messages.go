package constants

// ConflictType represents the type of journal integrity conflict
type ConflictType string

const (
	// Home screen messaging
	MessageDownBad   = "Time to turn that L into a W. What's one good thing you did today?"
	MessageFirstW    = "First W of many! What's your good deed for today?"
	MessageStreakFmt = "%d days of W energy! Keep it going!"
	StreakLabelFmt   = "🔥 %d Day%s Streak"

	// Conflict Types
	ConflictInvalidDate         ConflictType = "invalid_date"
	ConflictInvalidGlyph        ConflictType = "invalid_glyph"
	ConflictEmptyDeed           ConflictType = "empty_deed"
	ConflictLastCheckInMismatch ConflictType = "last_check_in_mismatch"
	ConflictStreakExceedsDays   ConflictType = "streak_exceeds_days"
	ConflictNegativeStreak      ConflictType = "negative_streak"
	ConflictOutOfOrder          ConflictType = "out_of_order"
)
