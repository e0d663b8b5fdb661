package timewindow

import (
	"fmt"
	"slices"
	"time"

	"github.com/samber/lo"

	"github.com/mtlprog/tokenomics/internal/domain"
)

// Window is a time-bucket granularity.
type Window string

const (
	Minute         Window = "1m"
	FifteenMinutes Window = "15m"
	Hour           Window = "1h"
	FourHours      Window = "4h"
	Day            Window = "1d"
	Week           Window = "1w"
	Month          Window = "1mo"
)

var allWindows = []Window{Minute, FifteenMinutes, Hour, FourHours, Day, Week, Month}

// Windows returns every supported window from finest to coarsest.
func Windows() []Window {
	return slices.Clone(allWindows)
}

// ParseWindow parses a window label such as "1h" or "1w".
func ParseWindow(s string) (Window, error) {
	w := Window(s)
	if !lo.Contains(allWindows, w) {
		return "", fmt.Errorf("unknown duration window %q, want one of %v", s, Windows())
	}
	return w, nil
}

func (w Window) String() string { return string(w) }

// Duration returns the nominal bucket length. Months are counted as 30 days.
func (w Window) Duration() time.Duration {
	switch w {
	case Minute:
		return time.Minute
	case FifteenMinutes:
		return 15 * time.Minute
	case Hour:
		return time.Hour
	case FourHours:
		return 4 * time.Hour
	case Day:
		return 24 * time.Hour
	case Week:
		return 7 * 24 * time.Hour
	case Month:
		return 30 * 24 * time.Hour
	default:
		return 0
	}
}

// Truncate returns the start of the bucket containing t, in UTC.
// Weeks start on Monday and months on the first day.
func (w Window) Truncate(t time.Time) time.Time {
	t = t.UTC()
	switch w {
	case Day:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	case Week:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		sinceMonday := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -sinceMonday)
	case Month:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	default:
		return t.Truncate(w.Duration())
	}
}

// ResolveWindow picks the bucket size for a range of days:
// up to one day is hourly, up to thirty days is daily, anything longer is weekly.
func ResolveWindow(days int) Window {
	switch {
	case days <= 1:
		return Hour
	case days <= 30:
		return Day
	default:
		return Week
	}
}

// Range is a concrete date range with its bucket size.
type Range struct {
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
	Window Window    `json:"window"`
	Days   int       `json:"days"`
}

// ResolveRange returns the range of days ending at end. days must be positive.
func ResolveRange(days int, end time.Time) (Range, error) {
	if days <= 0 {
		return Range{}, domain.InvalidHeightf("days must be positive, got %d", days)
	}
	end = end.UTC()
	return Range{
		Start:  end.AddDate(0, 0, -days),
		End:    end,
		Window: ResolveWindow(days),
		Days:   days,
	}, nil
}
