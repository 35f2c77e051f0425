package deeds

import (
	"fmt"

	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/models"
	"github.com/julianstephens/deedlog/internal/streak"
)

type StatusCmd struct{}

func (c *StatusCmd) Run(ctx *cli.Context) error {
	j, err := ctx.OpenJournal()
	if err != nil {
		return err
	}
	state := j.State()

	if state.Streak > 0 {
		ctx.Println(streak.StreakLabel(state.Streak))
	}
	switch {
	case !state.HasCheckIn():
		ctx.Println("Last check-in: never")
	case state.LastCheckIn == streak.ToDateKey(j.Now()):
		ctx.Printf("Last check-in: %s (today)\n", state.LastCheckIn)
	default:
		ctx.Printf("Last check-in: %s\n", state.LastCheckIn)
	}
	ctx.Println(streak.Message(state))
	return nil
}

type RecentCmd struct {
	Limit int `short:"n" default:"${recent_limit}" help:"Number of entries to show."`
}

func (c *RecentCmd) Run(ctx *cli.Context) error {
	j, err := ctx.OpenJournal()
	if err != nil {
		return err
	}

	limit := c.Limit
	if limit <= 0 {
		limit = constants.RecentLimit
	}
	entries := streak.RecentEntries(j.State(), limit)
	if len(entries) == 0 {
		ctx.Println("No deeds recorded yet.")
		return nil
	}

	ctx.Println("Recent W's:")
	for _, e := range entries {
		ctx.Println(formatEntry(e))
	}
	return nil
}

type ShowCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD). Defaults to today."`
}

func (c *ShowCmd) Run(ctx *cli.Context) error {
	j, err := ctx.OpenJournal()
	if err != nil {
		return err
	}

	day := j.Now()
	if c.Date != "" {
		day, err = streak.ParseDateKey(c.Date)
		if err != nil {
			return err
		}
	}

	entry, ok := streak.EntryFor(j.State(), day)
	if !ok {
		ctx.Printf("No deed recorded on %s.\n", streak.ToDateKey(day))
		return nil
	}
	ctx.Println(formatEntry(entry))
	return nil
}

type StatsCmd struct{}

func (c *StatsCmd) Run(ctx *cli.Context) error {
	j, err := ctx.OpenJournal()
	if err != nil {
		return err
	}

	stats := streak.ComputeStats(j.State(), j.Now())
	ctx.Printf("Total days:   %d\n", stats.TotalDays)
	ctx.Printf("This month:   %d\n", stats.ThisMonth)
	ctx.Printf("Entries:      %d\n", stats.Entries)
	ctx.Printf("Streak:       %d\n", stats.Streak)
	return nil
}

type EmojisCmd struct{}

func (c *EmojisCmd) Run(ctx *cli.Context) error {
	for _, g := range models.Glyphs {
		ctx.Printf("%s  %s\n", g, g.Name())
	}
	return nil
}

func formatEntry(e models.DeedEntry) string {
	return fmt.Sprintf("%s  %s  %s", e.Date, e.Emoji, e.Deed)
}
