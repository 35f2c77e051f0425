package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/deedlog/internal/models"
)

func TestCheckInForm_EnterWithoutChoosingEmoji(t *testing.T) {
	fm := &CheckInFormModel{}
	f := NewCheckInForm(fm)
	f.Init()

	f.Update(tea.KeyMsg{Type: tea.KeyEnter})

	if fm.Emoji != "" {
		t.Errorf("untouched picker recorded %q", fm.Emoji)
	}
	if f.State == huh.StateCompleted {
		t.Error("form completed without an emoji")
	}
}

func TestCheckInForm_ChoosingEmoji(t *testing.T) {
	tests := []struct {
		name  string
		downs int
		want  models.Glyph
	}{
		{"first glyph", 1, models.GlyphSmile},
		{"third glyph", 3, models.GlyphStar},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fm := &CheckInFormModel{}
			f := NewCheckInForm(fm)
			f.Init()

			for i := 0; i < tt.downs; i++ {
				f.Update(tea.KeyMsg{Type: tea.KeyDown})
			}
			f.Update(tea.KeyMsg{Type: tea.KeyEnter})

			if fm.Emoji != tt.want {
				t.Errorf("Emoji = %q, want %q", fm.Emoji, tt.want)
			}
		})
	}
}
