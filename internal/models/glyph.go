package models

import (
	"fmt"
	"strings"
)

// Glyph is one of the fixed mood emojis a deed can be tagged with
type Glyph string

const (
	GlyphSmile   Glyph = "😊"
	GlyphStrong  Glyph = "💪"
	GlyphStar    Glyph = "🌟"
	GlyphTarget  Glyph = "🎯"
	GlyphRocket  Glyph = "🚀"
	GlyphIdea    Glyph = "💡"
	GlyphSprout  Glyph = "🌱"
	GlyphThought Glyph = "💭"
)

// Glyphs is the picker order.
var Glyphs = []Glyph{
	GlyphSmile,
	GlyphStrong,
	GlyphStar,
	GlyphTarget,
	GlyphRocket,
	GlyphIdea,
	GlyphSprout,
	GlyphThought,
}

var glyphNames = map[Glyph]string{
	GlyphSmile:   "smile",
	GlyphStrong:  "strong",
	GlyphStar:    "star",
	GlyphTarget:  "target",
	GlyphRocket:  "rocket",
	GlyphIdea:    "idea",
	GlyphSprout:  "sprout",
	GlyphThought: "thought",
}

// Valid reports whether g belongs to the fixed glyph set
func (g Glyph) Valid() bool {
	_, ok := glyphNames[g]
	return ok
}

// Name returns the short ASCII name of the glyph, or "" if it is not in the set
func (g Glyph) Name() string {
	return glyphNames[g]
}

func (g Glyph) String() string {
	return string(g)
}

// ParseGlyph accepts either the emoji itself or its short name (case-insensitive).
func ParseGlyph(s string) (Glyph, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("no emoji selected")
	}
	if g := Glyph(s); g.Valid() {
		return g, nil
	}
	lower := strings.ToLower(s)
	for g, name := range glyphNames {
		if name == lower {
			return g, nil
		}
	}
	return "", fmt.Errorf("unknown emoji %q (run 'deedlog emojis' to list choices)", s)
}
