package timewindow

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/mtlprog/tokenomics/internal/domain"
)

func TestResolveWindow(t *testing.T) {
	tests := []struct {
		days int
		want Window
	}{
		{0, Hour},
		{1, Hour},
		{2, Day},
		{7, Day},
		{30, Day},
		{31, Week},
		{90, Week},
		{365, Week},
	}

	for _, tt := range tests {
		if got := ResolveWindow(tt.days); got != tt.want {
			t.Errorf("ResolveWindow(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}

	if ResolveWindow(1) != "1h" || ResolveWindow(30) != "1d" || ResolveWindow(90) != "1w" {
		t.Error("window labels do not match 1h/1d/1w")
	}
}

func TestResolveRange(t *testing.T) {
	end := time.Date(2025, 3, 15, 10, 30, 0, 0, time.UTC)

	r, err := ResolveRange(7, end)
	if err != nil {
		t.Fatalf("ResolveRange error: %v", err)
	}
	if !r.End.Equal(end) {
		t.Errorf("End = %v, want %v", r.End, end)
	}
	if want := time.Date(2025, 3, 8, 10, 30, 0, 0, time.UTC); !r.Start.Equal(want) {
		t.Errorf("Start = %v, want %v", r.Start, want)
	}
	if r.Window != Day {
		t.Errorf("Window = %q, want 1d", r.Window)
	}

	for _, days := range []int{0, -3} {
		if _, err := ResolveRange(days, end); !errors.Is(err, domain.ErrInvalidHeight) {
			t.Errorf("ResolveRange(%d) error = %v, want ErrInvalidHeight", days, err)
		}
	}
}

func TestTruncate(t *testing.T) {
	// Wednesday.
	ts := time.Date(2025, 3, 12, 13, 47, 31, 500, time.UTC)

	tests := []struct {
		window Window
		want   time.Time
	}{
		{Minute, time.Date(2025, 3, 12, 13, 47, 0, 0, time.UTC)},
		{FifteenMinutes, time.Date(2025, 3, 12, 13, 45, 0, 0, time.UTC)},
		{Hour, time.Date(2025, 3, 12, 13, 0, 0, 0, time.UTC)},
		{FourHours, time.Date(2025, 3, 12, 12, 0, 0, 0, time.UTC)},
		{Day, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)},
		{Week, time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)},
		{Month, time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(string(tt.window), func(t *testing.T) {
			if got := tt.window.Truncate(ts); !got.Equal(tt.want) {
				t.Errorf("Truncate = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestTruncateWeekOnSundayAndNonUTC(t *testing.T) {
	sunday := time.Date(2025, 3, 16, 23, 0, 0, 0, time.UTC)
	if got, want := Week.Truncate(sunday), time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Week.Truncate(sunday) = %v, want %v", got, want)
	}

	// 01:30 on the 1st in UTC+3 is still the previous day in UTC.
	loc := time.FixedZone("UTC+3", 3*60*60)
	local := time.Date(2025, 4, 1, 1, 30, 0, 0, loc)
	if got, want := Day.Truncate(local), time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Day.Truncate(local) = %v, want %v", got, want)
	}
	if got, want := Month.Truncate(local), time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("Month.Truncate(local) = %v, want %v", got, want)
	}
}

func TestParseWindow(t *testing.T) {
	for _, w := range Windows() {
		got, err := ParseWindow(w.String())
		if err != nil || got != w {
			t.Errorf("ParseWindow(%q) = %q, %v", w, got, err)
		}
	}
	_, err := ParseWindow("2d")
	if err == nil {
		t.Fatal("ParseWindow(2d) returned no error")
	}
	if !strings.Contains(err.Error(), "[1m 15m 1h 4h 1d 1w 1mo]") {
		t.Errorf("error %q does not list the supported windows", err)
	}
}
