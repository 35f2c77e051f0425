package deeds

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/streak"
)

type CalendarCmd struct {
	Month string `help:"Month to show (YYYY-MM). Defaults to the current month."`
}

func (c *CalendarCmd) Run(ctx *cli.Context) error {
	j, err := ctx.OpenJournal()
	if err != nil {
		return err
	}

	month := j.Now().UTC()
	if c.Month != "" {
		month, err = time.ParseInLocation(constants.MonthFormat, c.Month, time.UTC)
		if err != nil {
			return fmt.Errorf("invalid month %q (expected YYYY-MM)", c.Month)
		}
	}

	fmt.Fprint(ctx.Stdout(), RenderMonth(month.Year(), month.Month(), streak.CompletedPredicate(j.State())))
	return nil
}

// RenderMonth draws a Sunday-first month grid. Days for which completed
// returns true are followed by "*".
func RenderMonth(year int, month time.Month, completed func(time.Time) bool) string {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()

	var b strings.Builder
	b.WriteString(first.Format("January 2006"))
	b.WriteString("\n")
	b.WriteString("Su  Mo  Tu  We  Th  Fr  Sa\n")

	cells := make([]string, 0, 7)
	for i := 0; i < int(first.Weekday()); i++ {
		cells = append(cells, "   ")
	}

	done := 0
	for day := 1; day <= daysInMonth; day++ {
		mark := " "
		if completed != nil && completed(first.AddDate(0, 0, day-1)) {
			mark = "*"
			done++
		}
		cells = append(cells, fmt.Sprintf("%2d%s", day, mark))
		if len(cells) == 7 {
			writeWeek(&b, cells)
			cells = cells[:0]
		}
	}
	if len(cells) > 0 {
		writeWeek(&b, cells)
	}

	fmt.Fprintf(&b, "\n* = deed recorded (%d of %d days)\n", done, daysInMonth)
	return b.String()
}

func writeWeek(b *strings.Builder, cells []string) {
	b.WriteString(strings.TrimRight(strings.Join(cells, " "), " "))
	b.WriteString("\n")
}
