package source

import (
	"strings"
	"testing"
)

func TestBurnSeriesQueryBoundsInnerScan(t *testing.T) {
	inner, _, ok := strings.Cut(burnSeriesQuery, ") deltas")
	if !ok {
		t.Fatal("burn series query has no deltas subquery")
	}
	_, filter, ok := strings.Cut(inner, "JOIN block_details b ON b.height = u.height")
	if !ok {
		t.Fatal("inner query does not join block_details")
	}

	tests := []struct {
		name, clause string
	}{
		{"starts at predecessor of range", "WHERE pb.timestamp < $1"},
		{"stops at range end", "AND b.timestamp <= $2"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			window := strings.Index(filter, "WINDOW w")
			at := strings.Index(filter, tt.clause)
			if at < 0 || window < 0 || at > window {
				t.Errorf("inner scan is not filtered by %q before the window", tt.clause)
			}
		})
	}
}
