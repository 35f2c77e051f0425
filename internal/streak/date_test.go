package streak

import (
	"testing"
	"time"
)

func TestToDateKey(t *testing.T) {
	tests := []struct {
		name string
		in   time.Time
		want string
	}{
		{name: "utc midday", in: time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC), want: "2024-01-10"},
		{name: "utc last instant", in: time.Date(2024, 1, 10, 23, 59, 59, 999, time.UTC), want: "2024-01-10"},
		{name: "west of utc rolls forward", in: time.Date(2024, 1, 10, 21, 0, 0, 0, time.FixedZone("PST", -8*3600)), want: "2024-01-11"},
		{name: "east of utc rolls back", in: time.Date(2024, 1, 10, 1, 0, 0, 0, time.FixedZone("JST", 9*3600)), want: "2024-01-09"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ToDateKey(tt.in); got != tt.want {
				t.Errorf("ToDateKey(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestAddDays(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 30, 0, 0, time.UTC)
	if got := ToDateKey(AddDays(start, -1)); got != "2024-02-29" {
		t.Errorf("expected leap day, got %q", got)
	}
	if got := ToDateKey(AddDays(start, 31)); got != "2024-04-01" {
		t.Errorf("expected 2024-04-01, got %q", got)
	}
}

func TestParseDateKey(t *testing.T) {
	d, err := ParseDateKey("2024-01-10")
	if err != nil {
		t.Fatalf("ParseDateKey failed: %v", err)
	}
	if d.Location() != time.UTC || d.Hour() != 0 {
		t.Errorf("expected UTC midnight, got %v", d)
	}
	if ToDateKey(d) != "2024-01-10" {
		t.Errorf("round trip failed: %q", ToDateKey(d))
	}

	for _, bad := range []string{"", "2024-1-10", "2024-13-01", "10/01/2024", "2024-01-10T00:00:00Z"} {
		if _, err := ParseDateKey(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
		if IsDateKey(bad) {
			t.Errorf("IsDateKey(%q) should be false", bad)
		}
	}
	if !IsDateKey("2024-02-29") {
		t.Error("expected leap day to be a valid key")
	}
}

func TestMonthKey(t *testing.T) {
	if got := MonthKey(time.Date(2024, 1, 31, 23, 0, 0, 0, time.FixedZone("X", -2*3600))); got != "2024-02" {
		t.Errorf("expected UTC month 2024-02, got %q", got)
	}
}
