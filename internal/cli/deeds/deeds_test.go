package deeds

import (
	"bytes"
	"errors"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/deedlog/internal/cli"
	"github.com/julianstephens/deedlog/internal/constants"
	"github.com/julianstephens/deedlog/internal/journal"
	"github.com/julianstephens/deedlog/internal/lock"
	"github.com/julianstephens/deedlog/internal/storage"
)

func setupTestContext(t *testing.T, values map[string]string, now time.Time) (*cli.Context, *storage.MemoryStore, *bytes.Buffer) {
	t.Helper()
	store := storage.NewMemoryStore(values)
	out := &bytes.Buffer{}
	ctx := &cli.Context{
		Store:     store,
		ConfigDir: t.TempDir(),
		Now:       func() time.Time { return now },
		Out:       out,
	}
	return ctx, store, out
}

var jan10 = time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)

func TestAddCmd_FirstCheckIn(t *testing.T) {
	ctx, store, out := setupTestContext(t, nil, jan10)

	cmd := &AddCmd{Deed: "Helped a neighbor", Emoji: "💪"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}

	got := out.String()
	for _, want := range []string{"✓ Recorded 💪 Helped a neighbor", "🔥 1 Day Streak", constants.MessageFirstW} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}

	v, ok, _ := store.Get(constants.KeyLastCheckIn)
	if !ok || v != "2024-01-10" {
		t.Errorf("lastCheckIn = %q (present %v), want 2024-01-10", v, ok)
	}
	if _, err := os.Stat(lock.Path(ctx.ConfigDir)); !os.IsNotExist(err) {
		t.Errorf("expected writer lock to be released, stat err = %v", err)
	}
}

func TestAddCmd_ExtendsStreak(t *testing.T) {
	ctx, store, out := setupTestContext(t, map[string]string{
		constants.KeyStreak:      "3",
		constants.KeyLastCheckIn: "2024-01-09",
		constants.KeyDeeds:       `[{"date":"2024-01-09","deed":"a","emoji":"😊"}]`,
		constants.KeyIsDownBad:   "false",
	}, jan10)

	cmd := &AddCmd{Deed: "Called mom", Emoji: "sprout"}
	if err := cmd.Run(ctx); err != nil {
		t.Fatalf("add failed: %v", err)
	}
	if !strings.Contains(out.String(), "🔥 4 Days Streak") {
		t.Errorf("expected 4 day streak, got:\n%s", out.String())
	}
	if v, _, _ := store.Get(constants.KeyStreak); v != "4" {
		t.Errorf("persisted streak = %q, want 4", v)
	}
}

func TestAddCmd_Rejected(t *testing.T) {
	tests := []struct {
		name    string
		deed    string
		emoji   string
		wantErr error
	}{
		{name: "blank deed", deed: "   ", emoji: "🌟", wantErr: journal.ErrRejected},
		{name: "unknown emoji", deed: "Recycled", emoji: "🍕"},
		{name: "empty emoji", deed: "Recycled", emoji: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, store, _ := setupTestContext(t, nil, jan10)

			err := (&AddCmd{Deed: tt.deed, Emoji: tt.emoji}).Run(ctx)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
			if keys, _ := store.Keys(); len(keys) != 0 {
				t.Errorf("rejected check-in wrote keys: %v", keys)
			}
		})
	}
}

func TestAddCmd_StoreFailure(t *testing.T) {
	ctx, store, _ := setupTestContext(t, nil, jan10)
	store.WriteErr = errors.New("disk full")

	err := (&AddCmd{Deed: "Donated", Emoji: "🎯"}).Run(ctx)
	if err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Fatalf("expected write error, got %v", err)
	}
}

func TestStatusCmd(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]string
		want   []string
		absent []string
	}{
		{
			name:   "fresh journal",
			want:   []string{"Last check-in: never", constants.MessageDownBad},
			absent: []string{"Streak"},
		},
		{
			name: "checked in today",
			values: map[string]string{
				constants.KeyStreak:      "5",
				constants.KeyLastCheckIn: "2024-01-10",
				constants.KeyIsDownBad:   "false",
			},
			want: []string{"🔥 5 Days Streak", "2024-01-10 (today)", "5 days of W energy! Keep it going!"},
		},
		{
			name: "older check-in",
			values: map[string]string{
				constants.KeyStreak:      "1",
				constants.KeyLastCheckIn: "2024-01-02",
				constants.KeyIsDownBad:   "false",
			},
			want:   []string{"🔥 1 Day Streak", "Last check-in: 2024-01-02\n", constants.MessageFirstW},
			absent: []string{"(today)"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, out := setupTestContext(t, tt.values, jan10)
			if err := (&StatusCmd{}).Run(ctx); err != nil {
				t.Fatalf("status failed: %v", err)
			}
			for _, w := range tt.want {
				if !strings.Contains(out.String(), w) {
					t.Errorf("output missing %q:\n%s", w, out.String())
				}
			}
			for _, a := range tt.absent {
				if strings.Contains(out.String(), a) {
					t.Errorf("output should not contain %q:\n%s", a, out.String())
				}
			}
		})
	}
}

const threeDeeds = `[{"date":"2024-01-08","deed":"first","emoji":"😊"},{"date":"2024-01-09","deed":"second","emoji":"💪"},{"date":"2024-01-10","deed":"third","emoji":"🚀"}]`

func TestRecentCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t, map[string]string{constants.KeyDeeds: threeDeeds}, jan10)

	if err := (&RecentCmd{Limit: 2}).Run(ctx); err != nil {
		t.Fatalf("recent failed: %v", err)
	}

	want := "Recent W's:\n2024-01-10  🚀  third\n2024-01-09  💪  second\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestRecentCmd_Empty(t *testing.T) {
	ctx, _, out := setupTestContext(t, nil, jan10)
	if err := (&RecentCmd{}).Run(ctx); err != nil {
		t.Fatalf("recent failed: %v", err)
	}
	if !strings.Contains(out.String(), "No deeds recorded yet.") {
		t.Errorf("unexpected output: %q", out.String())
	}
}

func TestShowCmd(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		want    string
		wantErr bool
	}{
		{name: "defaults to today", want: "2024-01-10  🚀  third\n"},
		{name: "explicit date", date: "2024-01-08", want: "2024-01-08  😊  first\n"},
		{name: "no entry", date: "2024-01-01", want: "No deed recorded on 2024-01-01.\n"},
		{name: "bad date", date: "01/08/2024", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, _, out := setupTestContext(t, map[string]string{constants.KeyDeeds: threeDeeds}, jan10)
			err := (&ShowCmd{Date: tt.date}).Run(ctx)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestStatsCmd(t *testing.T) {
	deeds := `[{"date":"2023-12-31","deed":"a","emoji":"😊"},{"date":"2024-01-09","deed":"b","emoji":"💪"},{"date":"2024-01-09","deed":"c","emoji":"💡"}]`
	ctx, _, out := setupTestContext(t, map[string]string{
		constants.KeyDeeds:  deeds,
		constants.KeyStreak: "1",
	}, jan10)

	if err := (&StatsCmd{}).Run(ctx); err != nil {
		t.Fatalf("stats failed: %v", err)
	}
	want := "Total days:   2\nThis month:   1\nEntries:      3\nStreak:       1\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestCalendarCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t, map[string]string{constants.KeyDeeds: threeDeeds}, jan10)

	if err := (&CalendarCmd{}).Run(ctx); err != nil {
		t.Fatalf("calendar failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "January 2024\n") {
		t.Errorf("expected current month, got:\n%s", out.String())
	}
	if !strings.Contains(out.String(), "(3 of 31 days)") {
		t.Errorf("expected 3 completed days:\n%s", out.String())
	}

	out.Reset()
	if err := (&CalendarCmd{Month: "2023-12"}).Run(ctx); err != nil {
		t.Fatalf("calendar failed: %v", err)
	}
	if !strings.HasPrefix(out.String(), "December 2023\n") {
		t.Errorf("expected December 2023, got:\n%s", out.String())
	}

	if err := (&CalendarCmd{Month: "2023-13"}).Run(ctx); err == nil {
		t.Error("expected error for invalid month")
	}
}

func TestEmojisCmd(t *testing.T) {
	ctx, _, out := setupTestContext(t, nil, jan10)
	if err := (&EmojisCmd{}).Run(ctx); err != nil {
		t.Fatalf("emojis failed: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 8 {
		t.Fatalf("expected 8 glyphs, got %d:\n%s", len(lines), out.String())
	}
	if lines[0] != "😊  smile" {
		t.Errorf("first line = %q", lines[0])
	}
}
