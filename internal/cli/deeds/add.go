package deeds

import (
	"errors"
	"fmt"

	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/journal"
	"github.com/julianstephens/deedlog/internal/logger"
	"github.com/julianstephens/deedlog/internal/models"
	"github.com/julianstephens/deedlog/internal/streak"
)

type AddCmd struct {
	Deed  string `arg:"" help:"What you did today."`
	Emoji string `short:"e" required:"" help:"Emoji or its name (see 'deedlog emojis')."`
}

func (c *AddCmd) Run(ctx *cli.Context) error {
	glyph, err := models.ParseGlyph(c.Emoji)
	if err != nil {
		return err
	}

	l, err := ctx.AcquireWriterLock()
	if err != nil {
		return err
	}
	defer func() {
		if err := l.Release(); err != nil {
			logger.Warn("Failed to release writer lock", "error", err)
		}
	}()

	j, err := ctx.OpenJournal()
	if err != nil {
		return err
	}

	state, err := j.CheckIn(c.Deed, glyph)
	if err != nil {
		if errors.Is(err, journal.ErrRejected) {
			return err
		}
		return fmt.Errorf("failed to save check-in: %w", err)
	}

	ctx.Printf("✓ Recorded %s %s\n", glyph, c.Deed)
	ctx.Println(streak.StreakLabel(state.Streak))
	ctx.Println(streak.Message(state))
	return nil
}
