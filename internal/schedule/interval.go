// Package schedule implements the time-window math behind slot generation:
// half-open intervals, the daily working envelope, and the free-slot scan.
package schedule

import "time"

// Interval is a half-open time window [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

// NewInterval builds an interval from a start time and a duration.
func NewInterval(start time.Time, d time.Duration) Interval {
	return Interval{Start: start, End: start.Add(d)}
}

// Overlaps reports whether two intervals intersect under half-open
// semantics. Touching endpoints (a ends exactly when b starts) do not
// count as a conflict.
func (a Interval) Overlaps(b Interval) bool {
	return a.Start.Before(b.End) && a.End.After(b.Start)
}

// Duration returns the interval length.
func (a Interval) Duration() time.Duration {
	return a.End.Sub(a.Start)
}

// IsValid reports whether the interval has positive length.
func (a Interval) IsValid() bool {
	return a.End.After(a.Start)
}
