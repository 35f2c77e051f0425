package constants

// Persisted journal keys. These names match the layout written by the
// original browser build so existing data can be imported verbatim.
const (
	KeyStreak      = "streak"
	KeyLastCheckIn = "lastCheckIn"
	KeyDeeds       = "deeds"
	KeyIsDownBad   = "isDownBad"
)

// JournalKeys lists every key the journal store reads and writes.
var JournalKeys = []string{KeyStreak, KeyLastCheckIn, KeyDeeds, KeyIsDownBad}
