package scheduler

import "time"

// Overlaps reports whether [aStart, aEnd) and [bStart, bEnd) share more than a
// boundary instant. Sessions that touch end to start do not overlap.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}

// overlappingPairs returns the index pairs (i < j) of items whose spans
// overlap. Items are compared in the order given.
func overlappingPairs[T any](items []T, span func(T) (time.Time, time.Time)) [][2]int {
	if len(items) < 2 {
		return nil
	}
	var pairs [][2]int
	for i := 0; i < len(items); i++ {
		aStart, aEnd := span(items[i])
		for j := i + 1; j < len(items); j++ {
			bStart, bEnd := span(items[j])
			if Overlaps(aStart, aEnd, bStart, bEnd) {
				pairs = append(pairs, [2]int{i, j})
			}
		}
	}
	return pairs
}
