package models

// DeedEntry is a single recorded good deed. The JSON layout is the
// persisted `deeds` record format and must not change.
type DeedEntry struct {
	Date  string `json:"date"` // YYYY-MM-DD format, UTC calendar day
	Deed  string `json:"deed"`
	Emoji Glyph  `json:"emoji"`
}

// JournalState is the whole durable journal: the entry history plus the
// streak fields derived from it at check-in time.
type JournalState struct {
	Entries     []DeedEntry `json:"deeds"`
	Streak      int         `json:"streak"`
	LastCheckIn string      `json:"lastCheckIn,omitempty"` // "" when no check-in has been recorded
	IsDownBad   bool        `json:"isDownBad"`
}

// DefaultState returns the state of a journal that has never been written.
func DefaultState() JournalState {
	return JournalState{
		Entries:     []DeedEntry{},
		Streak:      0,
		LastCheckIn: "",
		IsDownBad:   true,
	}
}

// Clone returns a copy whose Entries slice does not share a backing array with s.
func (s JournalState) Clone() JournalState {
	out := s
	out.Entries = make([]DeedEntry, len(s.Entries))
	copy(out.Entries, s.Entries)
	return out
}

// HasCheckIn reports whether any check-in has ever been recorded
func (s JournalState) HasCheckIn() bool {
	return s.LastCheckIn != ""
}

// Stats summarizes the journal for the statistics panel
type Stats struct {
	TotalDays int `json:"total_days"`
	ThisMonth int `json:"this_month"`
	Entries   int `json:"entries"`
	Streak    int `json:"streak"`
}
