// Package schedule holds the pure temporal rules of the booking engine:
// the interval overlap predicate and the booking window validation.
package schedule

import "time"

// Overlaps reports whether the intervals [aStart, aEnd] and
// [bStart, bEnd] intersect. Boundaries are inclusive: a booking ending
// exactly when another starts counts as a conflict. Back-to-back
// handoffs on the same vehicle are rejected on purpose; this is a fixed
// policy, not an oversight.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return !aStart.After(bEnd) && !bStart.After(aEnd)
}
