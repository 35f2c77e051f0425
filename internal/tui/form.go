package tui

import (
	"errors"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/deedlog/internal/models"
	"github.com/julianstephens/deedlog/internal/streak"
)

type CheckInFormModel struct {
	Emoji models.Glyph
	Deed  string
}

// NewCheckInForm builds the emoji picker and deed input. The picker opens on
// an empty placeholder, so the form cannot complete until both fields pass
// streak.CanSubmit.
func NewCheckInForm(fm *CheckInFormModel) *huh.Form {
	options := make([]huh.Option[models.Glyph], 0, len(models.Glyphs)+1)
	options = append(options, huh.NewOption("Pick an emoji", models.Glyph("")))
	for _, g := range models.Glyphs {
		options = append(options, huh.NewOption(g.String()+"  "+g.Name(), g))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[models.Glyph]().
				Title("How are you feeling?").
				Options(options...).
				Value(&fm.Emoji).
				Validate(func(g models.Glyph) error {
					if !g.Valid() {
						return errors.New("pick an emoji")
					}
					return nil
				}),
			huh.NewInput().
				Title("What's one good thing you did today?").
				Value(&fm.Deed).
				Validate(func(s string) error {
					if !streak.ValidDeed(s) {
						return errors.New("deed cannot be empty")
					}
					return nil
				}),
		),
	).WithTheme(huh.ThemeDracula())
}
