package timewindow

import (
	"slices"
	"time"

	"github.com/samber/lo"
)

// Bucket holds the rows that fall into one window starting at Start.
type Bucket[T any] struct {
	Start time.Time
	Rows  []T
}

// Last returns the final row of the bucket.
func (b Bucket[T]) Last() T {
	return b.Rows[len(b.Rows)-1]
}

// Group folds rows into buckets of window w keyed by the row timestamp.
// Buckets are ordered by start time and rows keep their input order within a bucket.
// Empty buckets are never produced.
func Group[T any](rows []T, w Window, timestamp func(T) time.Time) []Bucket[T] {
	byKey := lo.GroupBy(rows, func(r T) int64 {
		return w.Truncate(timestamp(r)).Unix()
	})

	keys := lo.Keys(byKey)
	slices.Sort(keys)

	return lo.Map(keys, func(k int64, _ int) Bucket[T] {
		return Bucket[T]{Start: time.Unix(k, 0).UTC(), Rows: byKey[k]}
	})
}
