package deeds

import (
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"

	"github.com/julianstephens/deedlog/internal/models"
	"github.com/julianstephens/deedlog/internal/streak"
)

func TestRenderMonth_Golden(t *testing.T) {
	state := models.DefaultState()
	for _, d := range []string{"2024-01-03", "2024-01-04", "2024-01-05", "2024-01-10", "2024-02-01"} {
		state.Entries = append(state.Entries, models.DeedEntry{Date: d, Deed: "x", Emoji: models.GlyphStar})
	}

	out := RenderMonth(2024, time.January, streak.CompletedPredicate(state))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "calendar_2024_01", []byte(out))
}

func TestRenderMonth_Shape(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month time.Month
		title string
		days  int
		weeks int
	}{
		{name: "leap february starting thursday", year: 2024, month: time.February, title: "February 2024", days: 29, weeks: 5},
		{name: "month starting sunday", year: 2023, month: time.October, title: "October 2023", days: 31, weeks: 5},
		{name: "six week month", year: 2023, month: time.December, title: "December 2023", days: 31, weeks: 6},
		{name: "four week february", year: 2015, month: time.February, title: "February 2015", days: 28, weeks: 4},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := RenderMonth(tt.year, tt.month, nil)
			lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")

			if lines[0] != tt.title {
				t.Errorf("title = %q, want %q", lines[0], tt.title)
			}
			// title, header, weeks, blank, footer
			if got := len(lines) - 4; got != tt.weeks {
				t.Errorf("expected %d week rows, got %d:\n%s", tt.weeks, got, out)
			}
			if !strings.HasSuffix(out, "(0 of "+strconv.Itoa(tt.days)+" days)\n") {
				t.Errorf("unexpected footer:\n%s", out)
			}
			if strings.Count(out, "*") != 1 {
				t.Errorf("expected no marked days:\n%s", out)
			}
		})
	}
}

func TestRenderMonth_IgnoresOtherMonths(t *testing.T) {
	completed := func(d time.Time) bool { return d.Month() != time.March }
	out := RenderMonth(2024, time.March, completed)
	if !strings.Contains(out, "(0 of 31 days)") {
		t.Errorf("expected no completed days in March:\n%s", out)
	}
}
