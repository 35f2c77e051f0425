package models

import "testing"

func TestParseGlyph(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Glyph
		wantErr bool
	}{
		{name: "emoji", input: "💪", want: GlyphStrong},
		{name: "emoji with whitespace", input: "  🚀 ", want: GlyphRocket},
		{name: "short name", input: "sprout", want: GlyphSprout},
		{name: "short name mixed case", input: "Thought", want: GlyphThought},
		{name: "empty", input: "", wantErr: true},
		{name: "whitespace only", input: "   ", wantErr: true},
		{name: "emoji outside set", input: "🍕", wantErr: true},
		{name: "unknown name", input: "pizza", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseGlyph(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseGlyph(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseGlyph(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestGlyphsAreValidAndNamed(t *testing.T) {
	if len(Glyphs) != 8 {
		t.Fatalf("expected 8 glyphs, got %d", len(Glyphs))
	}
	seen := make(map[string]bool)
	for _, g := range Glyphs {
		if !g.Valid() {
			t.Errorf("glyph %q should be valid", g)
		}
		if g.Name() == "" {
			t.Errorf("glyph %q has no name", g)
		}
		if seen[g.Name()] {
			t.Errorf("duplicate glyph name %q", g.Name())
		}
		seen[g.Name()] = true
	}
	if Glyph("").Valid() {
		t.Error("empty glyph should not be valid")
	}
}

func TestJournalStateClone(t *testing.T) {
	s := DefaultState()
	s.Entries = append(s.Entries, DeedEntry{Date: "2024-01-10", Deed: "a", Emoji: GlyphSmile})

	c := s.Clone()
	c.Entries[0].Deed = "changed"
	c.Entries = append(c.Entries, DeedEntry{Date: "2024-01-11", Deed: "b", Emoji: GlyphStar})

	if s.Entries[0].Deed != "a" {
		t.Errorf("clone aliased original entries: got %q", s.Entries[0].Deed)
	}
	if len(s.Entries) != 1 {
		t.Errorf("expected original to keep 1 entry, got %d", len(s.Entries))
	}
}

func TestDefaultState(t *testing.T) {
	s := DefaultState()
	if s.Entries == nil || len(s.Entries) != 0 {
		t.Errorf("expected empty non-nil entries, got %v", s.Entries)
	}
	if s.Streak != 0 || s.LastCheckIn != "" || !s.IsDownBad {
		t.Errorf("unexpected default state: %+v", s)
	}
	if s.HasCheckIn() {
		t.Error("default state should have no check-in")
	}
}
